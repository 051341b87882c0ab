package usb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawInterfaceBytesSurfaceVerbatimInConfigurationPack(t *testing.T) {
	body := []byte{0x09, 0x04, 0x00, 0x00, 0x01, 0x02, 0x06, 0x00, 0x00}
	cfg := NewConfigurationBuilder(1).
		WithMaxPower(50).
		AddInterface(RawInterface(body)).
		Build()

	packed := cfg.Pack()
	require.Len(t, packed, ConfigurationDescriptorLen+len(body))
	assert.Equal(t, body, packed[ConfigurationDescriptorLen:])
}

func TestRawInterfaceLeavesNumEndpointsToTheCaller(t *testing.T) {
	iface := RawInterface([]byte{0x09, 0x04, 0x00, 0x00, 0x01, 0x02, 0x06, 0x00, 0x00})
	assert.Equal(t, uint8(0), iface.Descriptor.NumEndpoints)
}
