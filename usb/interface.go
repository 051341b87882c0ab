package usb

// InterfaceDescriptorLen is the fixed wire size of an interface descriptor.
const InterfaceDescriptorLen = 9

// InterfaceDescriptor is the standard USB interface descriptor.
type InterfaceDescriptor struct {
	InterfaceNumber   uint8
	AlternateSetting  uint8
	NumEndpoints      uint8
	InterfaceClass    InterfaceClass
	InterfaceSubClass uint8
	InterfaceProtocol uint8
	IInterface        uint8
}

// Pack serializes the interface descriptor to its 9-byte wire form.
func (d InterfaceDescriptor) Pack() []byte {
	buf := make([]byte, InterfaceDescriptorLen)
	buf[0] = InterfaceDescriptorLen
	buf[1] = uint8(DescTypeInterface)
	buf[2] = d.InterfaceNumber
	buf[3] = d.AlternateSetting
	buf[4] = d.NumEndpoints
	buf[5] = uint8(d.InterfaceClass)
	buf[6] = d.InterfaceSubClass
	buf[7] = d.InterfaceProtocol
	buf[8] = d.IInterface
	return buf
}

// UnpackInterfaceDescriptor decodes a 9-byte interface descriptor.
func UnpackInterfaceDescriptor(buf []byte) (InterfaceDescriptor, error) {
	if len(buf) < InterfaceDescriptorLen {
		return InterfaceDescriptor{}, ErrMalformed
	}
	return InterfaceDescriptor{
		InterfaceNumber:   buf[2],
		AlternateSetting:  buf[3],
		NumEndpoints:      buf[4],
		InterfaceClass:    InterfaceClass(buf[5]),
		InterfaceSubClass: buf[6],
		InterfaceProtocol: buf[7],
		IInterface:        buf[8],
	}, nil
}

// Interface is one interface within a Configuration. Exactly one of HID or
// Raw should be set: HID interfaces get their class descriptor and report
// descriptor wired in automatically via HidInterfaceBuilder; Raw lets a
// caller supply an already-assembled, non-HID interface body (descriptor
// plus endpoints) verbatim.
type Interface struct {
	Descriptor InterfaceDescriptor
	Endpoints  []EndpointDescriptor
	HID        *HIDInterface
	Raw        []byte
}

// setNumber assigns the dense interface number ConfigurationBuilder computes.
// It is unexported because interface numbering is Configuration's
// responsibility, not something a caller should set directly.
func (i *Interface) setNumber(n uint8) {
	i.Descriptor.InterfaceNumber = n
}

// Pack serializes the interface descriptor, its class-specific descriptor
// (if any), and its endpoint descriptors, in the order the host expects to
// find them inside a configuration descriptor's body.
func (i Interface) Pack() []byte {
	if i.Raw != nil {
		return i.Raw
	}
	desc := i.Descriptor
	desc.NumEndpoints = uint8(len(i.Endpoints))
	out := desc.Pack()
	if i.HID != nil {
		out = append(out, i.HID.Pack()...)
	}
	for _, ep := range i.Endpoints {
		out = append(out, ep.Pack()...)
	}
	return out
}
