package usb

// RawInterface builds an Interface from an already-assembled interface
// descriptor plus class-specific body, for interface classes this package
// does not model directly (CDC functional descriptors and similar). The
// caller is responsible for the full byte layout, including any nested
// class-specific descriptors and bNumEndpoints; Interface.Pack returns Raw
// verbatim for this variant, so no field of Interface.Descriptor is
// consulted when serializing it.
//
// Implementing full CDC descriptor construction (functional descriptors,
// notification/data interface pairing) is out of scope here; RawInterface
// exists so a caller who needs it is not blocked by this package's absence
// of a dedicated CDC builder.
func RawInterface(body []byte) Interface {
	return Interface{Raw: body}
}
