package usb

import "encoding/binary"

// HIDDescriptorBaseLen is the fixed portion of a HID class descriptor,
// before its per-class-descriptor entries.
const HIDDescriptorBaseLen = 6

// HIDDescriptorEntryLen is the wire size of one class descriptor entry
// (bDescriptorType, wDescriptorLength) trailing the HID descriptor header.
const HIDDescriptorEntryLen = 3

// HIDDescriptorEntry describes one class descriptor (almost always the
// report descriptor) owned by a HID interface.
type HIDDescriptorEntry struct {
	DescriptorType DescriptorType // HIDDescTypeReport or HIDDescTypePhysical
	Length         uint16
}

// HIDDescriptor is the HID class descriptor that follows a HID interface
// descriptor inside a configuration descriptor.
type HIDDescriptor struct {
	BcdHID      uint16 // 0x0110 for HID 1.11
	CountryCode uint8
	Descriptors []HIDDescriptorEntry
}

// Pack serializes the HID descriptor: the 6-byte header followed by one
// 3-byte entry per class descriptor.
func (h HIDDescriptor) Pack() []byte {
	length := HIDDescriptorBaseLen + HIDDescriptorEntryLen*len(h.Descriptors)
	buf := make([]byte, length)
	buf[0] = uint8(length)
	buf[1] = uint8(HIDDescTypeHID)
	binary.LittleEndian.PutUint16(buf[2:4], h.BcdHID)
	buf[4] = h.CountryCode
	buf[5] = uint8(len(h.Descriptors))
	off := HIDDescriptorBaseLen
	for _, entry := range h.Descriptors {
		buf[off] = uint8(entry.DescriptorType)
		binary.LittleEndian.PutUint16(buf[off+1:off+3], entry.Length)
		off += HIDDescriptorEntryLen
	}
	return buf
}

// UnpackHIDDescriptor decodes a HID descriptor, including its trailing
// class descriptor entries.
func UnpackHIDDescriptor(buf []byte) (HIDDescriptor, error) {
	if len(buf) < HIDDescriptorBaseLen {
		return HIDDescriptor{}, ErrMalformed
	}
	numDescriptors := int(buf[5])
	want := HIDDescriptorBaseLen + HIDDescriptorEntryLen*numDescriptors
	if len(buf) < want {
		return HIDDescriptor{}, ErrMalformed
	}
	h := HIDDescriptor{
		BcdHID:      binary.LittleEndian.Uint16(buf[2:4]),
		CountryCode: buf[4],
	}
	off := HIDDescriptorBaseLen
	for i := 0; i < numDescriptors; i++ {
		h.Descriptors = append(h.Descriptors, HIDDescriptorEntry{
			DescriptorType: DescriptorType(buf[off]),
			Length:         binary.LittleEndian.Uint16(buf[off+1 : off+3]),
		})
		off += HIDDescriptorEntryLen
	}
	return h, nil
}

// HIDInterface bundles a HID class descriptor with the report descriptor
// bytes it advertises the length of. Interface.Pack emits HIDInterface.Pack
// immediately after the owning interface descriptor; GET_DESCRIPTOR
// requests targeting HIDDescTypeReport are served ReportDescriptor directly
// by the protocol engine.
type HIDInterface struct {
	hid              HIDDescriptor
	ReportDescriptor []byte
}

// NewHIDInterface builds a HIDInterface around a report descriptor,
// deriving the HID descriptor's single class-descriptor entry from its
// length automatically.
func NewHIDInterface(bcdHID uint16, countryCode uint8, reportDescriptor []byte) *HIDInterface {
	return &HIDInterface{
		hid: HIDDescriptor{
			BcdHID:      bcdHID,
			CountryCode: countryCode,
			Descriptors: []HIDDescriptorEntry{
				{DescriptorType: HIDDescTypeReport, Length: uint16(len(reportDescriptor))},
			},
		},
		ReportDescriptor: reportDescriptor,
	}
}

// Pack serializes the HID class descriptor (not the report descriptor
// itself, which is served separately on request).
func (h *HIDInterface) Pack() []byte {
	return h.hid.Pack()
}

// Descriptor returns the HID class descriptor.
func (h *HIDInterface) Descriptor() HIDDescriptor {
	return h.hid
}

// HidInterfaceBuilder assembles a HID interface: the generic interface
// descriptor (class HID), the HID class descriptor, and its endpoints. The
// builder keeps bNumEndpoints and the HID descriptor's entry count
// consistent with what is actually attached so callers cannot let them
// drift.
type HidInterfaceBuilder struct {
	iface Interface
}

// NewHidInterfaceBuilder starts a HID interface builder for a report
// descriptor with the given subclass/protocol (commonly 0/0 for a
// non-boot-protocol device, or the boot keyboard/mouse codes).
func NewHidInterfaceBuilder(subClass, protocol uint8, bcdHID uint16, countryCode uint8, reportDescriptor []byte) *HidInterfaceBuilder {
	return &HidInterfaceBuilder{iface: Interface{
		Descriptor: InterfaceDescriptor{
			InterfaceClass:    InterfaceClassHID,
			InterfaceSubClass: subClass,
			InterfaceProtocol: protocol,
		},
		HID: NewHIDInterface(bcdHID, countryCode, reportDescriptor),
	}}
}

// WithString sets the interface's iInterface string index.
func (b *HidInterfaceBuilder) WithString(index uint8) *HidInterfaceBuilder {
	b.iface.Descriptor.IInterface = index
	return b
}

// AddEndpoint attaches an interrupt (or other) endpoint to the interface.
func (b *HidInterfaceBuilder) AddEndpoint(ep EndpointDescriptor) *HidInterfaceBuilder {
	b.iface.Endpoints = append(b.iface.Endpoints, ep)
	return b
}

// Build finalizes the interface, ready to be passed to
// ConfigurationBuilder.AddInterface.
func (b *HidInterfaceBuilder) Build() Interface {
	b.iface.Descriptor.NumEndpoints = uint8(len(b.iface.Endpoints))
	return b.iface
}
