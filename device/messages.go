package device

import (
	"io"

	"github.com/virtualusb/vusb/usb"
	"github.com/virtualusb/vusb/usbip"
)

// CommandKind distinguishes the two URB message families the engine
// exchanges with the kernel.
type CommandKind int

const (
	KindSubmit CommandKind = iota
	KindUnlink
)

// Command is one decoded request read off the socket by the reader worker.
type Command struct {
	Kind    CommandKind
	Submit  usbip.CmdSubmit // valid when Kind == KindSubmit
	Unlink  usbip.CmdUnlink // valid when Kind == KindUnlink
	Payload []byte          // OUT submit data, if any
}

// Reply is one encoded response the writer worker serializes back to the
// socket.
type Reply struct {
	Kind      CommandKind
	RetSubmit usbip.RetSubmit
	RetUnlink usbip.RetUnlink
	Payload   []byte
}

func (r Reply) write(w io.Writer) error {
	switch r.Kind {
	case KindSubmit:
		if err := r.RetSubmit.Write(w); err != nil {
			return err
		}
	case KindUnlink:
		if err := r.RetUnlink.Write(w); err != nil {
			return err
		}
	}
	if len(r.Payload) == 0 {
		return nil
	}
	_, err := w.Write(r.Payload)
	return err
}

// Transfer is a request the engine could not answer automatically and is
// handing to user code. Setup is non-nil iff the transfer originated on
// endpoint 0; submit is kept so NewReply can mirror the originating
// header's seqnum/devid/direction/endpoint back onto the eventual reply.
type Transfer struct {
	Endpoint  uint8
	Direction usb.Direction
	Setup     *usb.SetupRequest
	Payload   []byte

	submit usbip.CmdSubmit
}

// NewReply builds a Reply for an IN transfer, setting actual_length to
// len(data) and attaching data as the payload. For an OUT transfer data is
// ignored: the reply carries an empty payload and actual_length is the
// number of bytes the host sent (len(xfer.Payload)). OUT transfers on
// non-zero endpoints were already acknowledged by the engine before being
// handed to the caller; endpoint-0 class/vendor OUT transfers were not and
// need such a reply.
func NewReply(xfer *Transfer, data []byte) Reply {
	return NewReplyWithStatus(xfer, 0, data)
}

// NewReplyWithStatus is NewReply with an explicit non-zero status (errno,
// negative) for the rare case user code needs to fail a transfer rather
// than complete it.
func NewReplyWithStatus(xfer *Transfer, status int32, data []byte) Reply {
	r := Reply{
		Kind: KindSubmit,
		RetSubmit: usbip.RetSubmit{
			Basic: usbip.HeaderBasic{
				Command: usbip.RetSubmitCode,
				Seqnum:  xfer.submit.Basic.Seqnum,
				Devid:   xfer.submit.Basic.Devid,
				Dir:     xfer.submit.Basic.Dir,
				Ep:      xfer.submit.Basic.Ep,
			},
			Status: status,
		},
	}
	if xfer.Direction == usb.DirectionIn {
		r.RetSubmit.ActualLength = uint32(len(data))
		if len(data) > 0 {
			r.Payload = data
		}
	} else {
		r.RetSubmit.ActualLength = uint32(len(xfer.Payload))
	}
	return r
}
