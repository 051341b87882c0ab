package usb

import "encoding/binary"

// SetupRequestLen is the fixed wire size of a USB control setup packet.
const SetupRequestLen = 8

// SetupRequest is the 8-byte control-transfer setup packet.
type SetupRequest struct {
	Direction   Direction
	Type        RequestType
	rawRecipient uint8 // unmasked 5-bit field, see RawRecipient
	Request     StandardRequest
	Value       uint16
	Index       uint16
	Length      uint16
}

// Recipient returns the request recipient, masked to the 2 bits (0..3) this
// implementation treats as meaningful. Raw values 4..31 map onto 0..3 by
// their low two bits (for example 0x1f reads as RecipientOther and 0x04 as
// RecipientDevice); RawRecipient returns the unmasked value.
func (s SetupRequest) Recipient() Recipient {
	r := s.rawRecipient & 0x03
	return Recipient(r)
}

// RawRecipient returns the full, unmasked 5-bit recipient field as decoded
// from the wire. The source this implementation is modeled on reads
// recipient as 5 bits rather than the 4 bits real USB devices use; this
// accessor preserves that behavior for callers that need wire parity.
func (s SetupRequest) RawRecipient() uint8 {
	return s.rawRecipient
}

// NewSetupRequest builds a SetupRequest from its logical fields. recipient is
// stored as the raw (currently 2-bit-meaningful) value; use WithRawRecipient
// to construct one with a specific raw 5-bit pattern for tests.
func NewSetupRequest(dir Direction, typ RequestType, recipient Recipient, req StandardRequest, value, index, length uint16) SetupRequest {
	return SetupRequest{
		Direction:    dir,
		Type:         typ,
		rawRecipient: uint8(recipient),
		Request:      req,
		Value:        value,
		Index:        index,
		Length:       length,
	}
}

// WithRawRecipient returns a copy of s with the raw 5-bit recipient field
// replaced.
func (s SetupRequest) WithRawRecipient(raw uint8) SetupRequest {
	s.rawRecipient = raw & 0x1f
	return s
}

// Pack serializes the setup request to its 8-byte wire form.
func (s SetupRequest) Pack() []byte {
	buf := make([]byte, SetupRequestLen)
	bm := uint8(s.Direction&1)<<7 | uint8(s.Type&0x3)<<5 | (s.rawRecipient & 0x1f)
	buf[0] = bm
	buf[1] = uint8(s.Request)
	binary.LittleEndian.PutUint16(buf[2:4], s.Value)
	binary.LittleEndian.PutUint16(buf[4:6], s.Index)
	binary.LittleEndian.PutUint16(buf[6:8], s.Length)
	return buf
}

// UnpackSetupRequest decodes an 8-byte setup packet. For a standard request
// (Type == RequestTypeStandard), bRequest is validated against the defined
// StandardRequest range (0..12); an undefined value returns ErrInvalidEnum.
// Class and vendor requests use bRequest for their own purposes, so it is
// not validated there.
func UnpackSetupRequest(buf []byte) (SetupRequest, error) {
	if len(buf) < SetupRequestLen {
		return SetupRequest{}, ErrMalformed
	}
	bm := buf[0]
	typ := RequestType(bm >> 5 & 0x3)
	req := buf[1]
	if typ == RequestTypeStandard && req > uint8(ReqSynchFrame) {
		return SetupRequest{}, ErrInvalidEnum
	}
	s := SetupRequest{
		Direction:    Direction(bm >> 7 & 0x1),
		Type:         typ,
		rawRecipient: bm & 0x1f,
		Request:      StandardRequest(req),
		Value:        binary.LittleEndian.Uint16(buf[2:4]),
		Index:        binary.LittleEndian.Uint16(buf[4:6]),
		Length:       binary.LittleEndian.Uint16(buf[6:8]),
	}
	return s, nil
}

// DescriptorTypeIndex splits wValue of a GET_DESCRIPTOR request into its
// descriptor type (high byte) and index (low byte).
func (s SetupRequest) DescriptorTypeIndex() (DescriptorType, uint8) {
	return DescriptorType(s.Value >> 8), uint8(s.Value & 0xff)
}
