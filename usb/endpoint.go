package usb

import "encoding/binary"

// EndpointDescriptorLen is the fixed wire size of an endpoint descriptor.
const EndpointDescriptorLen = 7

// EndpointDescriptor is the standard USB endpoint descriptor. Address and
// Attributes are exposed pre-decoded; use Pack/UnpackEndpointDescriptor to
// move between this form and the bit-packed wire form.
type EndpointDescriptor struct {
	EndpointNumber uint8 // 0..15, bits 3..0 of bEndpointAddress
	Direction      Direction
	TransferType   TransferType
	SyncType       SynchronizationType
	UsageType      UsageType
	MaxPacketSize  uint16
	Interval       uint8
}

// Pack serializes the endpoint descriptor to its 7-byte wire form, bit
// packing bEndpointAddress and bmAttributes.
func (e EndpointDescriptor) Pack() []byte {
	buf := make([]byte, EndpointDescriptorLen)
	buf[0] = EndpointDescriptorLen
	buf[1] = uint8(DescTypeEndpoint)
	addr := e.EndpointNumber & 0x0f
	if e.Direction == DirectionIn {
		addr |= 1 << 7
	}
	buf[2] = addr
	attrs := uint8(e.TransferType) & 0x03
	if e.TransferType == TransferTypeIsochronous {
		attrs |= uint8(e.SyncType&0x03) << 2
		attrs |= uint8(e.UsageType&0x03) << 4
	}
	buf[3] = attrs
	binary.LittleEndian.PutUint16(buf[4:6], e.MaxPacketSize)
	buf[6] = e.Interval
	return buf
}

// UnpackEndpointDescriptor decodes a 7-byte endpoint descriptor.
func UnpackEndpointDescriptor(buf []byte) (EndpointDescriptor, error) {
	if len(buf) < EndpointDescriptorLen {
		return EndpointDescriptor{}, ErrMalformed
	}
	addr := buf[2]
	attrs := buf[3]
	e := EndpointDescriptor{
		EndpointNumber: addr & 0x0f,
		TransferType:   TransferType(attrs & 0x03),
		MaxPacketSize:  binary.LittleEndian.Uint16(buf[4:6]),
		Interval:       buf[6],
	}
	if addr&(1<<7) != 0 {
		e.Direction = DirectionIn
	} else {
		e.Direction = DirectionOut
	}
	if e.TransferType == TransferTypeIsochronous {
		e.SyncType = SynchronizationType(attrs >> 2 & 0x03)
		e.UsageType = UsageType(attrs >> 4 & 0x03)
	}
	return e, nil
}

// EndpointBuilder constructs an EndpointDescriptor field by field.
type EndpointBuilder struct {
	ep EndpointDescriptor
}

// NewEndpointBuilder starts an endpoint builder for the given endpoint
// number, direction and transfer type.
func NewEndpointBuilder(number uint8, dir Direction, transferType TransferType) *EndpointBuilder {
	return &EndpointBuilder{ep: EndpointDescriptor{
		EndpointNumber: number & 0x0f,
		Direction:      dir,
		TransferType:   transferType,
	}}
}

// WithMaxPacketSize sets wMaxPacketSize.
func (b *EndpointBuilder) WithMaxPacketSize(size uint16) *EndpointBuilder {
	b.ep.MaxPacketSize = size
	return b
}

// WithInterval sets bInterval.
func (b *EndpointBuilder) WithInterval(interval uint8) *EndpointBuilder {
	b.ep.Interval = interval
	return b
}

// WithSynchronization sets the isochronous synchronization and usage type
// bits; it has no effect unless the endpoint's TransferType is isochronous.
func (b *EndpointBuilder) WithSynchronization(sync SynchronizationType, usage UsageType) *EndpointBuilder {
	b.ep.SyncType = sync
	b.ep.UsageType = usage
	return b
}

// Build finalizes the endpoint descriptor.
func (b *EndpointBuilder) Build() EndpointDescriptor {
	return b.ep
}
