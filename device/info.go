// Package device assembles a virtual USB device's descriptors, starts it
// against the local vhci_hcd controller, and runs the USB/IP protocol
// engine that answers standard control requests and hands everything else
// to the caller as a queue of Transfers.
package device

import (
	"github.com/virtualusb/vusb/usb"
)

// Info is a virtual USB device's complete descriptor set: the root device
// and qualifier descriptors, every configuration it can be switched into,
// and the string table those descriptors' index fields point into.
type Info struct {
	Device        usb.DeviceDescriptor
	Qualifier     usb.DeviceQualifierDescriptor
	Configurations []usb.Configuration
	Strings       *usb.StringTable
}

// Builder fluently assembles an Info. Manufacturer/Product/Serial each
// append the given text to the string table and wire the resulting index
// into the device descriptor automatically, so callers never juggle
// string-table indices by hand.
type Builder struct {
	info Info
}

// NewBuilder starts a device builder for the given vendor/product ID pair.
// MaxPacketSize0 defaults to 64, the common case for full/high-speed
// devices; override with WithMaxPacketSize if needed.
func NewBuilder(vendorID, productID uint16) *Builder {
	b := &Builder{}
	b.info.Device = usb.DeviceDescriptor{
		BcdUSB:         0x0110,
		VendorID:       vendorID,
		ProductID:      productID,
		MaxPacketSize0: 64,
	}
	b.info.Qualifier = usb.DeviceQualifierDescriptor{
		BcdUSB:         0x0110,
		MaxPacketSize0: 64,
	}
	b.info.Strings = usb.NewStringTable(usb.LangEnglishUnitedStates)
	return b
}

// WithBcdUSB overrides the reported USB version (and thus, via
// vhci.SpeedFromBCD, the speed the device attaches at).
func (b *Builder) WithBcdUSB(bcdUSB uint16) *Builder {
	b.info.Device.BcdUSB = bcdUSB
	b.info.Qualifier.BcdUSB = bcdUSB
	return b
}

// WithClass sets bDeviceClass/bDeviceSubClass/bDeviceProtocol. The
// qualifier descriptor mirrors the same values.
func (b *Builder) WithClass(class usb.DeviceClass, subClass, protocol uint8) *Builder {
	b.info.Device.DeviceClass = class
	b.info.Device.DeviceSubClass = subClass
	b.info.Device.DeviceProtocol = protocol
	b.info.Qualifier.DeviceClass = class
	b.info.Qualifier.DeviceSubClass = subClass
	b.info.Qualifier.DeviceProtocol = protocol
	return b
}

// WithMaxPacketSize sets bMaxPacketSize0 on both the device and qualifier
// descriptors. Must be one of 8, 16, 32, 64.
func (b *Builder) WithMaxPacketSize(size uint8) *Builder {
	b.info.Device.MaxPacketSize0 = size
	b.info.Qualifier.MaxPacketSize0 = size
	return b
}

// WithBcdDevice sets the device's release number (bcdDevice).
func (b *Builder) WithBcdDevice(bcdDevice uint16) *Builder {
	b.info.Device.BcdDevice = bcdDevice
	return b
}

// WithSupportedLangs replaces the string table's supported-language list
// (descriptor index 0). Defaults to English (United States) if never
// called.
func (b *Builder) WithSupportedLangs(langs ...usb.LangID) *Builder {
	b.info.Strings.Langs = langs
	return b
}

// Manufacturer appends the manufacturer name to the string table and sets
// iManufacturer to the resulting index.
func (b *Builder) Manufacturer(name string) *Builder {
	b.info.Device.IManufacturer = b.info.Strings.AddString(name)
	return b
}

// Product appends the product name to the string table and sets iProduct.
func (b *Builder) Product(name string) *Builder {
	b.info.Device.IProduct = b.info.Strings.AddString(name)
	return b
}

// Serial appends a serial number string to the string table and sets
// iSerialNumber. Use usb.DeriveSerial to generate a stable value when the
// caller has no natural serial number to supply.
func (b *Builder) Serial(serial string) *Builder {
	b.info.Device.ISerialNumber = b.info.Strings.AddString(serial)
	return b
}

// AddString appends an arbitrary string to the table (for interface or
// configuration string indices) and returns its 1-based index.
func (b *Builder) AddString(s string) uint8 {
	return b.info.Strings.AddString(s)
}

// AddConfiguration attaches a built Configuration. bNumConfigurations is
// derived from the number of configurations attached at Build time.
func (b *Builder) AddConfiguration(cfg usb.Configuration) *Builder {
	b.info.Configurations = append(b.info.Configurations, cfg)
	return b
}

// Build finalizes the device Info.
func (b *Builder) Build() Info {
	b.info.Device.NumConfigurations = uint8(len(b.info.Configurations))
	return b.info
}
