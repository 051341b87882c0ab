package usb

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHIDInterface() Interface {
	reportDesc := make([]byte, 38)
	ep := NewEndpointBuilder(1, DirectionIn, TransferTypeInterrupt).WithMaxPacketSize(64).WithInterval(8).Build()
	return NewHidInterfaceBuilder(0, 0, 0x0110, 0, reportDesc).AddEndpoint(ep).Build()
}

func TestConfigurationTotalLengthAndNumInterfacesInvariant(t *testing.T) {
	cfg := NewConfigurationBuilder(1).
		WithMaxPower(50).
		AddInterface(buildHIDInterface()).
		AddInterface(buildHIDInterface()).
		Build()

	packed := cfg.Pack()
	totalLength := binary.LittleEndian.Uint16(packed[2:4])
	assert.Equal(t, uint16(len(packed)), totalLength)
	assert.Equal(t, uint8(len(cfg.Interfaces)), packed[4])
}

func TestConfigurationInterfaceNumbersAreDense(t *testing.T) {
	cfg := NewConfigurationBuilder(1).
		AddInterface(buildHIDInterface()).
		AddInterface(buildHIDInterface()).
		AddInterface(buildHIDInterface()).
		Build()

	for i, iface := range cfg.Interfaces {
		assert.Equal(t, uint8(i), iface.Descriptor.InterfaceNumber)
	}
}

func TestWithMaxPowerStoresHalvedMilliamps(t *testing.T) {
	cfg := NewConfigurationBuilder(1).WithMaxPower(50).Build()
	packed := cfg.Pack()
	assert.Equal(t, uint8(25), packed[8])
}

func TestConfigurationDescriptorRoundTrip(t *testing.T) {
	hdr := ConfigurationDescriptor{
		TotalLength:        41,
		NumInterfaces:      1,
		ConfigurationValue: 1,
		IConfiguration:     0,
		Attributes:         ConfigAttrReserved7 | ConfigAttrSelfPowered,
		MaxPower:           50,
	}
	packed := hdr.Pack()
	require.Len(t, packed, ConfigurationDescriptorLen)
	got, err := UnpackConfigurationDescriptor(packed)
	require.NoError(t, err)
	assert.Equal(t, hdr, got)
}
