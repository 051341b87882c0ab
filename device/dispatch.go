package device

import (
	"github.com/virtualusb/vusb/usb"
	"github.com/virtualusb/vusb/usbip"
)

// dispatchEndpoint0 implements §4.4.1: standard requests are answered
// automatically by recipient; class/vendor requests are handed to the
// caller as a Transfer carrying the decoded setup packet.
func (d *Device) dispatchEndpoint0(cmd Command) (*Transfer, error) {
	setup, _ := usb.UnpackSetupRequest(cmd.Submit.Setup[:])

	if setup.Type != usb.RequestTypeStandard {
		return &Transfer{
			Endpoint:  0,
			Direction: setup.Direction,
			Setup:     &setup,
			Payload:   cmd.Payload,
			submit:    cmd.Submit,
		}, nil
	}

	switch setup.Recipient() {
	case usb.RecipientDevice:
		if setup.Direction == usb.DirectionIn {
			return nil, d.dispatchDeviceIn(cmd, setup)
		}
		return nil, d.dispatchDeviceOut(cmd, setup)
	case usb.RecipientInterface:
		if setup.Direction == usb.DirectionIn {
			return nil, d.dispatchInterfaceIn(cmd, setup)
		}
		return nil, ErrUnsupportedStandardRequest
	default:
		return nil, ErrUnsupportedStandardRequest
	}
}

func (d *Device) dispatchDeviceIn(cmd Command, setup usb.SetupRequest) error {
	switch setup.Request {
	case usb.ReqGetStatus:
		if d.currentConfig == nil {
			return ErrNoConfig
		}
		status := uint8(0)
		if d.currentConfig.Attributes&usb.ConfigAttrSelfPowered != 0 {
			status |= 1
		}
		d.autoReplyIn(cmd, 0, []byte{status, 0, 0, 0})
		return nil
	case usb.ReqGetDescriptor:
		return d.dispatchGetDescriptor(cmd, setup)
	default:
		return ErrUnsupportedStandardRequest
	}
}

func (d *Device) dispatchGetDescriptor(cmd Command, setup usb.SetupRequest) error {
	descType, index := setup.DescriptorTypeIndex()

	var data []byte
	switch descType {
	case usb.DescTypeDevice:
		data = d.info.Device.Pack()
	case usb.DescTypeConfiguration:
		if int(index) >= len(d.info.Configurations) {
			return ErrUnknownDescriptor
		}
		data = d.info.Configurations[index].Pack()
	case usb.DescTypeString:
		packed, ok := d.info.Strings.Get(index)
		if !ok {
			return ErrUnknownDescriptor
		}
		data = packed
	case usb.DescTypeDeviceQualifier:
		data = d.info.Qualifier.Pack()
	case usb.DescTypeDebug:
		data = nil
	default:
		return ErrUnknownDescriptor
	}

	if int(setup.Length) < len(data) {
		data = data[:setup.Length]
	}
	status := int32(0)
	if len(data) == 0 {
		status = 1
	}
	d.autoReplyIn(cmd, status, data)
	return nil
}

func (d *Device) dispatchDeviceOut(cmd Command, setup usb.SetupRequest) error {
	switch setup.Request {
	case usb.ReqSetConfiguration:
		if cmd.Submit.TransferBufferLen != 0 {
			return ErrMalformedRequest
		}
		return d.setConfiguration(cmd, setup)
	default:
		return ErrUnsupportedStandardRequest
	}
}

func (d *Device) setConfiguration(cmd Command, setup usb.SetupRequest) error {
	value := uint8(setup.Value & 0xff)
	for i := range d.info.Configurations {
		if d.info.Configurations[i].ConfigurationValue != value {
			continue
		}
		selected := d.info.Configurations[i]
		d.currentConfig = &selected
		d.state = StateConfigured
		d.autoReplyIn(cmd, 0, nil)
		return nil
	}
	return ErrInvalidConfigurationValue
}

func (d *Device) dispatchInterfaceIn(cmd Command, setup usb.SetupRequest) error {
	if setup.Request != usb.ReqGetDescriptor {
		return ErrUnsupportedStandardRequest
	}
	if d.currentConfig == nil {
		return ErrNoConfig
	}
	ifaceIndex := int(setup.Index)
	if ifaceIndex < 0 || ifaceIndex >= len(d.currentConfig.Interfaces) {
		return ErrUnknownDescriptor
	}
	iface := d.currentConfig.Interfaces[ifaceIndex]
	if iface.HID == nil {
		return ErrUnsupportedStandardRequest
	}

	hidType, reportIndex := setup.DescriptorTypeIndex()
	switch hidType {
	case usb.HIDDescTypeReport:
		if reportIndex != 0 {
			return ErrUnknownDescriptor
		}
		data := iface.HID.ReportDescriptor
		if int(setup.Length) < len(data) {
			data = data[:setup.Length]
		}
		d.autoReplyIn(cmd, 0, data)
		return nil
	default:
		return ErrUnsupportedStandardRequest
	}
}

// dispatchEndpointN implements §4.4.2: OUT submits are acknowledged
// immediately and also handed to the caller as a Transfer; IN submits are
// never auto-replied.
func (d *Device) dispatchEndpointN(cmd Command) (*Transfer, error) {
	ep := uint8(cmd.Submit.Basic.Ep)
	dir := usb.Direction(cmd.Submit.Basic.Dir)

	if dir == usb.DirectionOut {
		d.sendReply(Reply{
			Kind: KindSubmit,
			RetSubmit: usbip.RetSubmit{
				Basic: usbip.HeaderBasic{
					Command: usbip.RetSubmitCode,
					Seqnum:  cmd.Submit.Basic.Seqnum,
					Devid:   cmd.Submit.Basic.Devid,
					Dir:     cmd.Submit.Basic.Dir,
					Ep:      cmd.Submit.Basic.Ep,
				},
				ActualLength: uint32(len(cmd.Payload)),
			},
		})
		return &Transfer{
			Endpoint:  ep,
			Direction: usb.DirectionOut,
			Payload:   cmd.Payload,
			submit:    cmd.Submit,
		}, nil
	}

	return &Transfer{
		Endpoint:  ep,
		Direction: usb.DirectionIn,
		submit:    cmd.Submit,
	}, nil
}

// autoReplyIn sends a RET_SUBMIT for an endpoint-0 request the engine
// answered by itself (IN requests with data, and SET_CONFIGURATION with an
// empty payload).
func (d *Device) autoReplyIn(cmd Command, status int32, data []byte) {
	d.sendReply(Reply{
		Kind: KindSubmit,
		RetSubmit: usbip.RetSubmit{
			Basic: usbip.HeaderBasic{
				Command: usbip.RetSubmitCode,
				Seqnum:  cmd.Submit.Basic.Seqnum,
				Devid:   cmd.Submit.Basic.Devid,
				Dir:     cmd.Submit.Basic.Dir,
				Ep:      cmd.Submit.Basic.Ep,
			},
			Status:       status,
			ActualLength: uint32(len(data)),
		},
		Payload: data,
	})
}
