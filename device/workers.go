package device

import (
	"bytes"
	"errors"
	"io"

	"github.com/virtualusb/vusb/usbip"
)

// readLoop is the reader worker: it blocks in ReadExactly on the socket,
// decodes each 48-byte header, pulls any OUT payload that follows it, and
// pushes the result onto the command channel. A decode or I/O error is
// session-fatal: the loop closes the command channel and returns, which
// read()/blocking_read() surface as ErrReaderGone.
func (d *Device) readLoop() {
	defer close(d.commands)

	var hdr [usbip.HeaderLen]byte
	for {
		if err := usbip.ReadExactly(d.conn, hdr[:]); err != nil {
			if !errors.Is(err, io.EOF) {
				d.logger.Debug("reader worker exiting", "error", err)
			}
			return
		}
		d.raw.Log(true, hdr[:])

		command := headerCommand(hdr[:])
		switch command {
		case usbip.CmdSubmitCode:
			submit, err := usbip.UnpackCmdSubmit(hdr[:])
			if err != nil {
				d.logger.Warn("reader worker: malformed CMD_SUBMIT", "error", err)
				return
			}
			var payload []byte
			if submit.Basic.Dir == usbip.DirOut && submit.TransferBufferLen > 0 {
				payload = make([]byte, submit.TransferBufferLen)
				if err := usbip.ReadExactly(d.conn, payload); err != nil {
					d.logger.Warn("reader worker: short OUT payload", "error", err)
					return
				}
				d.raw.Log(true, payload)
			}
			d.commands <- Command{Kind: KindSubmit, Submit: submit, Payload: payload}
		case usbip.CmdUnlinkCode:
			unlink, err := usbip.UnpackCmdUnlink(hdr[:])
			if err != nil {
				d.logger.Warn("reader worker: malformed CMD_UNLINK", "error", err)
				return
			}
			d.commands <- Command{Kind: KindUnlink, Unlink: unlink}
		default:
			d.logger.Warn("reader worker: unexpected command code", "command", command)
			return
		}
	}
}

func headerCommand(hdr []byte) uint32 {
	return uint32(hdr[0])<<24 | uint32(hdr[1])<<16 | uint32(hdr[2])<<8 | uint32(hdr[3])
}

// writeLoop is the writer worker: it drains the reply queue and serializes
// each Reply back to the socket. A write error is session-fatal; the loop
// exits and the socket is left to be torn down by Stop.
func (d *Device) writeLoop() {
	for reply := range d.replies.Out() {
		var buf bytes.Buffer
		if err := reply.write(&buf); err != nil {
			d.logger.Debug("writer worker exiting", "error", err)
			return
		}
		d.raw.Log(false, buf.Bytes())
		if _, err := d.conn.Write(buf.Bytes()); err != nil {
			d.logger.Debug("writer worker exiting", "error", err)
			return
		}
	}
}
