package usb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupRequestRoundTrip(t *testing.T) {
	cases := []SetupRequest{
		NewSetupRequest(DirectionIn, RequestTypeStandard, RecipientDevice, ReqGetDescriptor, 0x0100, 0, 18),
		NewSetupRequest(DirectionOut, RequestTypeClass, RecipientInterface, ReqSetConfiguration, 1, 0, 0),
		NewSetupRequest(DirectionIn, RequestTypeVendor, RecipientOther, StandardRequest(0x99), 0xffff, 0x1234, 0),
	}
	for _, s := range cases {
		packed := s.Pack()
		require.Len(t, packed, SetupRequestLen)
		got, err := UnpackSetupRequest(packed)
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestUnpackSetupRequestMalformed(t *testing.T) {
	_, err := UnpackSetupRequest([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestSetupRequestGetDescriptorExample(t *testing.T) {
	// GET_DESCRIPTOR(Device), 18 bytes: 80 06 00 01 00 00 12 00
	buf := []byte{0x80, 0x06, 0x00, 0x01, 0x00, 0x00, 0x12, 0x00}
	s, err := UnpackSetupRequest(buf)
	require.NoError(t, err)
	assert.Equal(t, DirectionIn, s.Direction)
	assert.Equal(t, RequestTypeStandard, s.Type)
	assert.Equal(t, RecipientDevice, s.Recipient())
	assert.Equal(t, ReqGetDescriptor, s.Request)
	descType, index := s.DescriptorTypeIndex()
	assert.Equal(t, DescTypeDevice, descType)
	assert.Equal(t, uint8(0), index)
	assert.Equal(t, uint16(18), s.Length)
}

func TestUnpackSetupRequestRejectsUndefinedStandardRequest(t *testing.T) {
	// bmRequestType = standard/device/in, bRequest = 0x99 (undefined).
	buf := []byte{0x80, 0x99, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := UnpackSetupRequest(buf)
	assert.ErrorIs(t, err, ErrInvalidEnum)
}

func TestUnpackSetupRequestAllowsUndefinedBRequestForVendorType(t *testing.T) {
	// bmRequestType = vendor/device/in: bRequest is vendor-defined and
	// outside the StandardRequest range, so it must not be rejected.
	buf := []byte{0xc0, 0x99, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	s, err := UnpackSetupRequest(buf)
	require.NoError(t, err)
	assert.Equal(t, StandardRequest(0x99), s.Request)
}

func TestSetupRequestRawRecipientPreservesFiveBits(t *testing.T) {
	s := NewSetupRequest(DirectionIn, RequestTypeStandard, RecipientDevice, ReqGetStatus, 0, 0, 0).WithRawRecipient(0x1f)
	assert.Equal(t, uint8(0x1f), s.RawRecipient())
	assert.Equal(t, RecipientOther, s.Recipient())

	packed := s.Pack()
	got, err := UnpackSetupRequest(packed)
	require.NoError(t, err)
	assert.Equal(t, uint8(0x1f), got.RawRecipient())
}
