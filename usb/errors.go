package usb

import "errors"

// Codec-level errors returned by Pack/Unpack on the descriptor types in this
// package. Engine-level errors (no configuration selected, unknown request,
// ...) live in package device instead.
var (
	// ErrMalformed is returned when a buffer handed to Unpack is shorter than
	// the descriptor's fixed wire size.
	ErrMalformed = errors.New("usb: malformed descriptor")
	// ErrInvalidEnum is returned when a packed enum field decodes to a value
	// outside its defined range.
	ErrInvalidEnum = errors.New("usb: invalid enum value")
	// ErrTooLong is returned by StringDescriptor packing when the encoded
	// body would exceed the 126-byte limit a string descriptor can carry.
	ErrTooLong = errors.New("usb: string descriptor body too long")
)
