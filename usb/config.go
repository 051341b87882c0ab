package usb

import "encoding/binary"

// ConfigurationDescriptorLen is the fixed wire size of a configuration
// descriptor header (the part preceding interface/endpoint descriptors).
const ConfigurationDescriptorLen = 9

// ConfigurationDescriptor is the standard USB configuration descriptor
// header. TotalLength and NumInterfaces are derived from the interfaces
// actually attached to a Configuration rather than stored directly; callers
// assembling a configuration by hand should use Configuration instead.
type ConfigurationDescriptor struct {
	TotalLength        uint16
	NumInterfaces      uint8
	ConfigurationValue uint8
	IConfiguration     uint8
	Attributes         uint8
	MaxPower           uint8 // in 2mA units
}

// Pack serializes the configuration descriptor header to its 9-byte wire
// form. It does not include the interface/endpoint descriptors that follow
// it in a GET_DESCRIPTOR(Configuration) reply; see Configuration.Pack.
func (c ConfigurationDescriptor) Pack() []byte {
	buf := make([]byte, ConfigurationDescriptorLen)
	buf[0] = ConfigurationDescriptorLen
	buf[1] = uint8(DescTypeConfiguration)
	binary.LittleEndian.PutUint16(buf[2:4], c.TotalLength)
	buf[4] = c.NumInterfaces
	buf[5] = c.ConfigurationValue
	buf[6] = c.IConfiguration
	buf[7] = c.Attributes
	buf[8] = c.MaxPower
	return buf
}

// UnpackConfigurationDescriptor decodes a 9-byte configuration descriptor
// header.
func UnpackConfigurationDescriptor(buf []byte) (ConfigurationDescriptor, error) {
	if len(buf) < ConfigurationDescriptorLen {
		return ConfigurationDescriptor{}, ErrMalformed
	}
	return ConfigurationDescriptor{
		TotalLength:        binary.LittleEndian.Uint16(buf[2:4]),
		NumInterfaces:      buf[4],
		ConfigurationValue: buf[5],
		IConfiguration:     buf[6],
		Attributes:         buf[7],
		MaxPower:           buf[8],
	}, nil
}

// Configuration is a fully assembled USB configuration: the header plus
// every interface it exposes. wTotalLength and bNumInterfaces are derived
// from Interfaces at Pack time rather than tracked separately, so callers
// can never let them drift out of sync with the interfaces actually present.
type Configuration struct {
	ConfigurationValue uint8
	IConfiguration     uint8
	Attributes         uint8
	MaxPower           uint8
	Interfaces         []Interface
}

// Pack serializes the full configuration: header, then each interface
// descriptor followed by its endpoint descriptors (and, for HID interfaces,
// the HID class descriptor), in interface order. This is the byte sequence
// returned for a GET_DESCRIPTOR(Configuration) request.
func (c Configuration) Pack() []byte {
	var body []byte
	for _, iface := range c.Interfaces {
		body = append(body, iface.Pack()...)
	}
	hdr := ConfigurationDescriptor{
		TotalLength:        uint16(ConfigurationDescriptorLen + len(body)),
		NumInterfaces:      uint8(len(c.Interfaces)),
		ConfigurationValue: c.ConfigurationValue,
		IConfiguration:     c.IConfiguration,
		Attributes:         c.Attributes,
		MaxPower:           c.MaxPower,
	}
	return append(hdr.Pack(), body...)
}

// ConfigurationBuilder incrementally assembles a Configuration, assigning
// each appended interface the next dense interface number.
type ConfigurationBuilder struct {
	cfg Configuration
}

// NewConfigurationBuilder starts a configuration builder. value is the
// bConfigurationValue host software selects via SET_CONFIGURATION.
func NewConfigurationBuilder(value uint8) *ConfigurationBuilder {
	return &ConfigurationBuilder{cfg: Configuration{ConfigurationValue: value}}
}

// WithString sets the configuration's iConfiguration string index.
func (b *ConfigurationBuilder) WithString(index uint8) *ConfigurationBuilder {
	b.cfg.IConfiguration = index
	return b
}

// WithAttributes sets bmAttributes (see ConfigAttr* constants). The
// reserved bit 7 is always set regardless of what is passed in.
func (b *ConfigurationBuilder) WithAttributes(attrs uint8) *ConfigurationBuilder {
	b.cfg.Attributes = attrs | ConfigAttrReserved7
	return b
}

// WithMaxPower sets the configuration's max power draw in milliamps.
// bMaxPower is stored in 2mA units, so the value passed in is halved.
func (b *ConfigurationBuilder) WithMaxPower(maxPowerMA uint8) *ConfigurationBuilder {
	b.cfg.MaxPower = maxPowerMA / 2
	return b
}

// AddInterface appends an interface, assigning it the next dense
// bInterfaceNumber (0, 1, 2, ...).
func (b *ConfigurationBuilder) AddInterface(iface Interface) *ConfigurationBuilder {
	iface.setNumber(uint8(len(b.cfg.Interfaces)))
	b.cfg.Interfaces = append(b.cfg.Interfaces, iface)
	return b
}

// Build finalizes the configuration. If no bmAttributes were set, the
// reserved bit is still applied so the descriptor is always well-formed.
func (b *ConfigurationBuilder) Build() Configuration {
	if b.cfg.Attributes == 0 {
		b.cfg.Attributes = ConfigAttrReserved7
	}
	return b.cfg
}
