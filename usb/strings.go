package usb

import "encoding/binary"

// maxStringDescriptorBody is the largest body a string descriptor can carry:
// bLength is a single byte covering the 2-byte header plus the body, so the
// body cannot exceed 253 bytes. This implementation additionally bounds it
// to 126 to leave headroom matching the source it was distilled from.
const maxStringDescriptorBody = 126

// EncodeLangIDs packs string descriptor index 0, the supported-languages
// list, as required by the USB string descriptor mechanism.
func EncodeLangIDs(langs []LangID) []byte {
	length := 2 + 2*len(langs)
	buf := make([]byte, length)
	buf[0] = uint8(length)
	buf[1] = uint8(DescTypeString)
	for i, l := range langs {
		binary.LittleEndian.PutUint16(buf[2+2*i:4+2*i], uint16(l))
	}
	return buf
}

// EncodeStringDescriptor packs a string descriptor body.
//
// Deviation: real USB devices encode string descriptor bodies as UTF-16LE.
// This implementation preserves a deliberate quirk of the source it was
// distilled from and instead copies the input bytes as-is, relying on
// callers to pass already-encoded bytes (typically plain ASCII, which is a
// byte-for-byte subset of UTF-16LE's low bytes only by coincidence — this
// is NOT a general Unicode encoding and will not render correctly on a real
// USB host for non-ASCII text). It exists unmodified for wire
// compatibility with that source rather than out of protocol correctness.
func EncodeStringDescriptor(raw []byte) ([]byte, error) {
	if len(raw) > maxStringDescriptorBody {
		return nil, ErrTooLong
	}
	length := 2 + len(raw)
	buf := make([]byte, length)
	buf[0] = uint8(length)
	buf[1] = uint8(DescTypeString)
	copy(buf[2:], raw)
	return buf, nil
}

// StringTable holds the indexed string descriptors a device serves,
// index 0 reserved for the supported LangID list.
type StringTable struct {
	Langs   []LangID
	strings [][]byte // index i holds descriptor index i+1
}

// NewStringTable starts a string table supporting the given languages.
func NewStringTable(langs ...LangID) *StringTable {
	return &StringTable{Langs: langs}
}

// Add appends a raw string body and returns the 1-based descriptor index
// assigned to it, for use as an iManufacturer/iProduct/iSerialNumber/
// iInterface/iConfiguration field.
func (t *StringTable) Add(raw []byte) uint8 {
	t.strings = append(t.strings, raw)
	return uint8(len(t.strings))
}

// AddString is a convenience wrapper around Add for plain ASCII text.
func (t *StringTable) AddString(s string) uint8 {
	return t.Add([]byte(s))
}

// Get returns the packed string descriptor for the given 1-based index, or
// the packed LangID list for index 0. ok is false if index is out of range.
func (t *StringTable) Get(index uint8) (packed []byte, ok bool) {
	if index == 0 {
		return EncodeLangIDs(t.Langs), true
	}
	i := int(index) - 1
	if i < 0 || i >= len(t.strings) {
		return nil, false
	}
	packed, err := EncodeStringDescriptor(t.strings[i])
	if err != nil {
		return nil, false
	}
	return packed, true
}
