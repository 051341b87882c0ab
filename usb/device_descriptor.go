package usb

import "encoding/binary"

// DeviceDescriptorLen is the fixed wire size of a USB device descriptor.
const DeviceDescriptorLen = 18

// DeviceDescriptor is the standard USB device descriptor: the root of the
// descriptor tree, identifying the device to the host.
type DeviceDescriptor struct {
	BcdUSB             uint16
	DeviceClass        DeviceClass
	DeviceSubClass     uint8
	DeviceProtocol     uint8
	MaxPacketSize0     uint8 // must be one of 8, 16, 32, 64
	VendorID           uint16
	ProductID          uint16
	BcdDevice          uint16
	IManufacturer      uint8
	IProduct           uint8
	ISerialNumber      uint8
	NumConfigurations  uint8
}

// Pack serializes the device descriptor to its 18-byte wire form.
func (d DeviceDescriptor) Pack() []byte {
	buf := make([]byte, DeviceDescriptorLen)
	buf[0] = DeviceDescriptorLen
	buf[1] = uint8(DescTypeDevice)
	binary.LittleEndian.PutUint16(buf[2:4], d.BcdUSB)
	buf[4] = uint8(d.DeviceClass)
	buf[5] = d.DeviceSubClass
	buf[6] = d.DeviceProtocol
	buf[7] = d.MaxPacketSize0
	binary.LittleEndian.PutUint16(buf[8:10], d.VendorID)
	binary.LittleEndian.PutUint16(buf[10:12], d.ProductID)
	binary.LittleEndian.PutUint16(buf[12:14], d.BcdDevice)
	buf[14] = d.IManufacturer
	buf[15] = d.IProduct
	buf[16] = d.ISerialNumber
	buf[17] = d.NumConfigurations
	return buf
}

// UnpackDeviceDescriptor decodes an 18-byte device descriptor.
func UnpackDeviceDescriptor(buf []byte) (DeviceDescriptor, error) {
	if len(buf) < DeviceDescriptorLen {
		return DeviceDescriptor{}, ErrMalformed
	}
	return DeviceDescriptor{
		BcdUSB:            binary.LittleEndian.Uint16(buf[2:4]),
		DeviceClass:       DeviceClass(buf[4]),
		DeviceSubClass:    buf[5],
		DeviceProtocol:    buf[6],
		MaxPacketSize0:    buf[7],
		VendorID:          binary.LittleEndian.Uint16(buf[8:10]),
		ProductID:         binary.LittleEndian.Uint16(buf[10:12]),
		BcdDevice:         binary.LittleEndian.Uint16(buf[12:14]),
		IManufacturer:     buf[14],
		IProduct:          buf[15],
		ISerialNumber:     buf[16],
		NumConfigurations: buf[17],
	}, nil
}

// DeviceQualifierDescriptorLen is the fixed wire size of a device qualifier.
const DeviceQualifierDescriptorLen = 10

// DeviceQualifierDescriptor mirrors the fields of DeviceDescriptor that
// differ when operating at the device's "other" speed (e.g. a full-speed
// device reports what it would look like at high-speed).
type DeviceQualifierDescriptor struct {
	BcdUSB            uint16
	DeviceClass       DeviceClass
	DeviceSubClass    uint8
	DeviceProtocol    uint8
	MaxPacketSize0    uint8
	NumConfigurations uint8
}

// Pack serializes the device qualifier to its 10-byte wire form.
func (d DeviceQualifierDescriptor) Pack() []byte {
	buf := make([]byte, DeviceQualifierDescriptorLen)
	buf[0] = DeviceQualifierDescriptorLen
	buf[1] = uint8(DescTypeDeviceQualifier)
	binary.LittleEndian.PutUint16(buf[2:4], d.BcdUSB)
	buf[4] = uint8(d.DeviceClass)
	buf[5] = d.DeviceSubClass
	buf[6] = d.DeviceProtocol
	buf[7] = d.MaxPacketSize0
	buf[8] = d.NumConfigurations
	buf[9] = 0 // reserved
	return buf
}

// UnpackDeviceQualifierDescriptor decodes a 10-byte device qualifier.
func UnpackDeviceQualifierDescriptor(buf []byte) (DeviceQualifierDescriptor, error) {
	if len(buf) < DeviceQualifierDescriptorLen {
		return DeviceQualifierDescriptor{}, ErrMalformed
	}
	return DeviceQualifierDescriptor{
		BcdUSB:            binary.LittleEndian.Uint16(buf[2:4]),
		DeviceClass:       DeviceClass(buf[4]),
		DeviceSubClass:    buf[5],
		DeviceProtocol:    buf[6],
		MaxPacketSize0:    buf[7],
		NumConfigurations: buf[8],
	}, nil
}
