// Package usb packs and unpacks USB standard and HID descriptors and setup
// requests, byte-exact to the wire layouts in the USB 2.0 and HID 1.11
// specifications.
package usb

// Direction is the transfer direction of an endpoint or setup request,
// always from the perspective of the host.
type Direction uint8

const (
	DirectionOut Direction = 0
	DirectionIn  Direction = 1
)

// RequestType is the bmRequestType "type" field (bits 6..5 of byte 0).
type RequestType uint8

const (
	RequestTypeStandard RequestType = 0
	RequestTypeClass    RequestType = 1
	RequestTypeVendor   RequestType = 2
	RequestTypeReserved RequestType = 3
)

// Recipient is the bmRequestType "recipient" field (bits 4..0 of byte 0).
//
// Per USB 2.0 this is a 4-bit field (values 0..15); this implementation
// preserves a known quirk of the source it was distilled from, which reads
// it as a 5-bit field. Only 0..3 are meaningful; see SetupRequest.Recipient.
type Recipient uint8

const (
	RecipientDevice    Recipient = 0x00
	RecipientInterface Recipient = 0x01
	RecipientEndpoint  Recipient = 0x02
	RecipientOther     Recipient = 0x03
)

// StandardRequest is the bRequest field for RequestTypeStandard requests.
type StandardRequest uint8

const (
	ReqGetStatus        StandardRequest = 0
	ReqClearFeature     StandardRequest = 1
	ReqSetFeature       StandardRequest = 3
	ReqSetAddress       StandardRequest = 5
	ReqGetDescriptor    StandardRequest = 6
	ReqSetDescriptor    StandardRequest = 7
	ReqGetConfiguration StandardRequest = 8
	ReqSetConfiguration StandardRequest = 9
	ReqGetInterface     StandardRequest = 10
	ReqSetInterface     StandardRequest = 11
	ReqSynchFrame       StandardRequest = 12
)

// DescriptorType is bDescriptorType / the high byte of wValue for
// GET_DESCRIPTOR.
type DescriptorType uint8

const (
	DescTypeDevice                  DescriptorType = 1
	DescTypeConfiguration           DescriptorType = 2
	DescTypeString                  DescriptorType = 3
	DescTypeInterface               DescriptorType = 4
	DescTypeEndpoint                DescriptorType = 5
	DescTypeDeviceQualifier         DescriptorType = 6
	DescTypeOtherSpeedConfiguration DescriptorType = 7
	DescTypeInterfacePower          DescriptorType = 8
	DescTypeDebug                   DescriptorType = 10
)

// HID class descriptor sub-types, carried in the high byte of wValue when
// GET_DESCRIPTOR targets an interface recipient.
const (
	HIDDescTypeHID      DescriptorType = 0x21
	HIDDescTypeReport   DescriptorType = 0x22
	HIDDescTypePhysical DescriptorType = 0x23
)

// DeviceClass is bDeviceClass (assigned by the USB-IF).
type DeviceClass uint8

const (
	DeviceClassUseInterface  DeviceClass = 0x00
	DeviceClassCDC           DeviceClass = 0x02
	DeviceClassHub           DeviceClass = 0x09
	DeviceClassBillboard     DeviceClass = 0x11
	DeviceClassDiagnostic    DeviceClass = 0xdc
	DeviceClassMiscellaneous DeviceClass = 0xef
	DeviceClassVendorSpecific DeviceClass = 0xff
)

// InterfaceClass is bInterfaceClass (assigned by the USB-IF).
type InterfaceClass uint8

const (
	InterfaceClassAudio           InterfaceClass = 0x01
	InterfaceClassCDC             InterfaceClass = 0x02
	InterfaceClassHID             InterfaceClass = 0x03
	InterfaceClassPhysical        InterfaceClass = 0x05
	InterfaceClassImage           InterfaceClass = 0x06
	InterfaceClassPrinter         InterfaceClass = 0x07
	InterfaceClassMassStorage     InterfaceClass = 0x08
	InterfaceClassCDCData         InterfaceClass = 0x0a
	InterfaceClassSmartCard       InterfaceClass = 0x0b
	InterfaceClassContentSecurity InterfaceClass = 0x0d
	InterfaceClassVideo           InterfaceClass = 0x0e
	InterfaceClassVendorSpecific  InterfaceClass = 0xff
)

// TransferType is bits 1..0 of bmAttributes on an endpoint descriptor.
type TransferType uint8

const (
	TransferTypeControl     TransferType = 0
	TransferTypeIsochronous TransferType = 1
	TransferTypeBulk        TransferType = 2
	TransferTypeInterrupt   TransferType = 3
)

// SynchronizationType is bits 3..2 of bmAttributes for isochronous endpoints.
type SynchronizationType uint8

const (
	SyncTypeNone       SynchronizationType = 0
	SyncTypeAsync      SynchronizationType = 1
	SyncTypeAdaptive   SynchronizationType = 2
	SyncTypeSynchronous SynchronizationType = 3
)

// UsageType is bits 5..4 of bmAttributes for isochronous endpoints.
type UsageType uint8

const (
	UsageTypeData             UsageType = 0
	UsageTypeFeedback         UsageType = 1
	UsageTypeImplicitFeedback UsageType = 2
	UsageTypeReserved         UsageType = 3
)

// Configuration characteristic bits (bmAttributes on ConfigurationDescriptor).
const (
	ConfigAttrReserved7  uint8 = 1 << 7 // always set per USB 2.0
	ConfigAttrSelfPowered uint8 = 1 << 6
	ConfigAttrRemoteWakeup uint8 = 1 << 5
)

// LangID is a 16-bit USB-IF language identifier used in string descriptor
// index 0.
type LangID uint16

const (
	LangEnglishUnitedStates   LangID = 0x0409
	LangEnglishUnitedKingdom  LangID = 0x0809
	LangEnglishAustralian     LangID = 0x0c09
	LangEnglishCanadian       LangID = 0x1009
	LangGermanStandard        LangID = 0x0407
	LangFrenchStandard        LangID = 0x040c
	LangSpanishTraditionalSort LangID = 0x040a
	LangItalianStandard       LangID = 0x0410
	LangJapanese              LangID = 0x0411
	LangKorean                LangID = 0x0412
	LangChinesePRC            LangID = 0x0804
	LangChineseTaiwan         LangID = 0x0404
	LangDutchNetherlands      LangID = 0x0413
	LangPortugueseBrazil      LangID = 0x0416
	LangRussian               LangID = 0x0419
	LangPolish                LangID = 0x0415
	LangSwedish               LangID = 0x041d
	LangTurkish               LangID = 0x041f
	LangArabicSaudiArabia     LangID = 0x0401
	LangHebrew                LangID = 0x040d
)
