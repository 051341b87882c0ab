package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualusb/vusb/usb"
	"github.com/virtualusb/vusb/usbip"
)

// newTestDevice builds a Device in the StateAttached state without touching
// vhci_hcd or any socket, wiring just enough of Start's side effects
// (commands channel, reply queue) for dispatch to be exercised directly.
func newTestDevice(t *testing.T, info Info) *Device {
	t.Helper()
	d := New(info, 1, nil, nil)
	d.state = StateAttached
	d.commands = make(chan Command, 8)
	d.replies = newUnboundedQueue[Reply]()
	d.stopCh = make(chan struct{})
	t.Cleanup(func() { d.replies.Close() })
	return d
}

func buildReportDescriptor(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

func testInfo(t *testing.T) Info {
	t.Helper()
	reportDesc := buildReportDescriptor(38)
	ep := usb.NewEndpointBuilder(1, usb.DirectionIn, usb.TransferTypeInterrupt).
		WithMaxPacketSize(8).WithInterval(10).Build()
	outEp := usb.NewEndpointBuilder(3, usb.DirectionOut, usb.TransferTypeBulk).
		WithMaxPacketSize(64).Build()
	hidIface := usb.NewHidInterfaceBuilder(0, 0, 0x0110, 0, reportDesc).AddEndpoint(ep).AddEndpoint(outEp).Build()

	cfg := usb.NewConfigurationBuilder(1).
		WithMaxPower(50).
		AddInterface(hidIface).
		Build()

	return NewBuilder(0x28de, 0x1205).
		WithBcdUSB(0x0200).
		AddConfiguration(cfg).
		Build()
}

func submitCommand(seqnum uint32, ep uint32, dir uint32, setup [8]byte, payload []byte) Command {
	return Command{
		Kind: KindSubmit,
		Submit: usbip.CmdSubmit{
			Basic: usbip.HeaderBasic{
				Command: usbip.CmdSubmitCode,
				Seqnum:  seqnum,
				Devid:   1,
				Dir:     dir,
				Ep:      ep,
			},
			TransferBufferLen: uint32(len(payload)),
			Setup:             setup,
		},
		Payload: payload,
	}
}

// Scenario 1: GET_DESCRIPTOR Device.
func TestGetDescriptorDevice(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	setup := [8]byte{0x80, 0x06, 0x00, 0x01, 0x00, 0x00, 0x12, 0x00}
	cmd := submitCommand(1, 0, usbip.DirIn, setup, nil)

	xfer, err := d.dispatch(cmd)
	require.NoError(t, err)
	assert.Nil(t, xfer)

	reply := <-d.replies.Out()
	require.Equal(t, KindSubmit, reply.Kind)
	assert.Equal(t, int32(0), reply.RetSubmit.Status)
	assert.Equal(t, uint32(18), reply.RetSubmit.ActualLength)
	require.Len(t, reply.Payload, 18)
	assert.Equal(t, []byte{0xde, 0x28, 0x05, 0x12}, reply.Payload[8:12])
	assert.Equal(t, uint32(1), reply.RetSubmit.Basic.Seqnum)
	assert.Equal(t, uint32(1), reply.RetSubmit.Basic.Devid)
}

// Scenario 2: GET_DESCRIPTOR Configuration truncated to wLength.
func TestGetDescriptorConfigurationTruncation(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	setup := [8]byte{0x80, 0x06, 0x00, 0x02, 0x00, 0x00, 0x09, 0x00}
	cmd := submitCommand(2, 0, usbip.DirIn, setup, nil)

	xfer, err := d.dispatch(cmd)
	require.NoError(t, err)
	assert.Nil(t, xfer)

	reply := <-d.replies.Out()
	assert.Equal(t, uint32(9), reply.RetSubmit.ActualLength)
	assert.Len(t, reply.Payload, 9)
}

// Scenario 3: SET_CONFIGURATION(1) followed by GET_STATUS.
func TestSetConfigurationThenGetStatus(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	setConfig := [8]byte{0x00, 0x09, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}
	cmd := submitCommand(3, 0, usbip.DirOut, setConfig, nil)

	xfer, err := d.dispatch(cmd)
	require.NoError(t, err)
	assert.Nil(t, xfer)

	reply := <-d.replies.Out()
	assert.Equal(t, int32(0), reply.RetSubmit.Status)
	assert.Empty(t, reply.Payload)
	assert.Equal(t, StateConfigured, d.State())

	cfg, ok := d.CurrentConfiguration()
	require.True(t, ok)
	assert.Equal(t, uint8(1), cfg.ConfigurationValue)

	statusSetup := [8]byte{0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00}
	statusCmd := submitCommand(4, 0, usbip.DirIn, statusSetup, nil)
	xfer, err = d.dispatch(statusCmd)
	require.NoError(t, err)
	assert.Nil(t, xfer)

	statusReply := <-d.replies.Out()
	assert.Equal(t, uint32(4), statusReply.RetSubmit.ActualLength)
}

// Scenario 4: HID GET_DESCRIPTOR Report.
func TestHIDGetDescriptorReport(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	setConfig := [8]byte{0x00, 0x09, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := d.dispatch(submitCommand(1, 0, usbip.DirOut, setConfig, nil))
	require.NoError(t, err)
	<-d.replies.Out()

	setup := [8]byte{0x81, 0x06, 0x00, 0x22, 0x00, 0x00, 0x26, 0x00}
	cmd := submitCommand(2, 0, usbip.DirIn, setup, nil)
	xfer, err := d.dispatch(cmd)
	require.NoError(t, err)
	assert.Nil(t, xfer)

	reply := <-d.replies.Out()
	assert.Equal(t, uint32(38), reply.RetSubmit.ActualLength)
	assert.Equal(t, buildReportDescriptor(38), reply.Payload)
}

// Scenario 5: Bulk OUT on endpoint 3 auto-acks and surfaces a Transfer.
func TestBulkOutAutoAcksAndSurfaces(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}
	cmd := submitCommand(5, 3, usbip.DirOut, [8]byte{}, payload)

	xfer, err := d.dispatch(cmd)
	require.NoError(t, err)
	require.NotNil(t, xfer)
	assert.Equal(t, uint8(3), xfer.Endpoint)
	assert.Equal(t, usb.DirectionOut, xfer.Direction)
	assert.Equal(t, payload, xfer.Payload)

	reply := <-d.replies.Out()
	assert.Equal(t, uint32(64), reply.RetSubmit.ActualLength)
	assert.Empty(t, reply.Payload)
	assert.Equal(t, uint32(5), reply.RetSubmit.Basic.Seqnum)
}

// Scenario 5b: IN transfer on a non-zero endpoint is not auto-replied; user
// code answers it with NewReply.
func TestInterruptInSurfacesWithoutAutoReply(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	cmd := submitCommand(6, 1, usbip.DirIn, [8]byte{}, nil)

	xfer, err := d.dispatch(cmd)
	require.NoError(t, err)
	require.NotNil(t, xfer)
	assert.Equal(t, uint8(1), xfer.Endpoint)
	assert.Equal(t, usb.DirectionIn, xfer.Direction)

	select {
	case <-d.replies.Out():
		t.Fatal("expected no auto-reply for IN transfer on non-zero endpoint")
	default:
	}

	data := []byte{1, 2, 3, 4}
	require.NoError(t, d.Write(NewReply(xfer, data)))
	reply := <-d.replies.Out()
	assert.Equal(t, uint32(4), reply.RetSubmit.ActualLength)
	assert.Equal(t, data, reply.Payload)
	assert.Equal(t, uint32(6), reply.RetSubmit.Basic.Seqnum)
}

// Scenario 6: CMD_UNLINK replies with ECONNRESET and never surfaces a
// Transfer.
func TestUnlinkRepliesWithECONNRESET(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	cmd := Command{
		Kind: KindUnlink,
		Unlink: usbip.CmdUnlink{
			Basic: usbip.HeaderBasic{
				Command: usbip.CmdUnlinkCode,
				Seqnum:  10,
				Devid:   1,
				Dir:     usbip.DirIn,
				Ep:      1,
			},
			UnlinkSeqnum: 6,
		},
	}

	xfer, err := d.dispatch(cmd)
	require.NoError(t, err)
	assert.Nil(t, xfer)

	reply := <-d.replies.Out()
	assert.Equal(t, KindUnlink, reply.Kind)
	assert.Equal(t, int32(usbip.ECONNRESET), reply.RetUnlink.Status)
	assert.Equal(t, uint32(10), reply.RetUnlink.Basic.Seqnum)
}

func TestInvalidEndpointRejected(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	cmd := submitCommand(1, 16, usbip.DirIn, [8]byte{}, nil)
	_, err := d.dispatch(cmd)
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestGetStatusWithoutConfigurationFails(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	setup := [8]byte{0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x02, 0x00}
	_, err := d.dispatch(submitCommand(1, 0, usbip.DirIn, setup, nil))
	assert.ErrorIs(t, err, ErrNoConfig)
}

func TestSetConfigurationUnknownValueFails(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	setup := [8]byte{0x00, 0x09, 0x09, 0x00, 0x00, 0x00, 0x00, 0x00}
	_, err := d.dispatch(submitCommand(1, 0, usbip.DirOut, setup, nil))
	assert.ErrorIs(t, err, ErrInvalidConfigurationValue)
}

func TestSetConfigurationWithNonzeroTransferBufferLenRejected(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	setConfig := [8]byte{0x00, 0x09, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00}
	cmd := submitCommand(1, 0, usbip.DirOut, setConfig, []byte{0x00})
	_, err := d.dispatch(cmd)
	assert.ErrorIs(t, err, ErrMalformedRequest)
	assert.Equal(t, StateAttached, d.State())
}

func TestReadReturnsNilWhenNoCommandQueued(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	xfer, err := d.Read()
	assert.NoError(t, err)
	assert.Nil(t, xfer)
}

func TestReadReturnsErrReaderGoneWhenClosed(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	close(d.commands)
	_, err := d.Read()
	assert.ErrorIs(t, err, ErrReaderGone)
}

func TestBlockingReadLoopsPastAutoHandledCommands(t *testing.T) {
	d := newTestDevice(t, testInfo(t))
	getDesc := [8]byte{0x80, 0x06, 0x00, 0x01, 0x00, 0x00, 0x12, 0x00}
	d.commands <- submitCommand(1, 0, usbip.DirIn, getDesc, nil)
	d.commands <- submitCommand(2, 3, usbip.DirOut, [8]byte{}, []byte{1, 2, 3})

	// The reply queue is unbounded, so both auto-replies land without
	// needing a drainer running concurrently with BlockingRead.
	xfer, err := d.BlockingRead()
	require.NoError(t, err)
	require.NotNil(t, xfer)
	assert.Equal(t, uint8(3), xfer.Endpoint)
}
