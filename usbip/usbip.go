// Package usbip implements the wire format of the USB/IP URB (submit/unlink)
// commands and replies exchanged over the socket a vhci_hcd port attaches
// to. The management/device-enumeration half of the protocol (OP_REQ_DEVLIST
// and friends, used by the network usbip client/server to list and import
// devices over TCP) is not implemented here: this package only ever speaks
// to a vhci_hcd port that has already been attached out of band, so that
// half of the protocol never runs.
package usbip

import (
	"encoding/binary"
	"io"
)

// HeaderLen is the fixed size, in bytes, of every URB command and reply
// header in this package. USB/IP pads CmdSubmit/RetSubmit/CmdUnlink/
// RetUnlink to the same 48 bytes regardless of which one is in flight.
const HeaderLen = 48

// HeaderBasicLen is the size of the common header shared by all four
// message types.
const HeaderBasicLen = 20

// URB command/reply codes, carried in HeaderBasic.Command.
const (
	CmdSubmitCode = 0x00000001
	CmdUnlinkCode = 0x00000002
	RetSubmitCode = 0x00000003
	RetUnlinkCode = 0x00000004
)

// Directions used in HeaderBasic.Dir.
const (
	DirOut = 0x00000000
	DirIn  = 0x00000001
)

// HeaderBasic is common to all URB commands and replies.
type HeaderBasic struct {
	Command uint32
	Seqnum  uint32
	Devid   uint32
	Dir     uint32
	Ep      uint32
}

func (h *HeaderBasic) write(w io.Writer) error {
	for _, v := range [...]uint32{h.Command, h.Seqnum, h.Devid, h.Dir, h.Ep} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	return nil
}

func unpackHeaderBasic(buf []byte) HeaderBasic {
	return HeaderBasic{
		Command: binary.BigEndian.Uint32(buf[0:4]),
		Seqnum:  binary.BigEndian.Uint32(buf[4:8]),
		Devid:   binary.BigEndian.Uint32(buf[8:12]),
		Dir:     binary.BigEndian.Uint32(buf[12:16]),
		Ep:      binary.BigEndian.Uint32(buf[16:20]),
	}
}

// CmdSubmit is USBIP_CMD_SUBMIT: a URB the host wants the device to execute.
type CmdSubmit struct {
	Basic             HeaderBasic
	TransferFlags     uint32
	TransferBufferLen uint32
	StartFrame        uint32
	NumberOfPackets   uint32
	Interval          uint32
	Setup             [8]byte
}

// Write serializes the command header (not the transfer payload that may
// follow it for OUT transfers).
func (c *CmdSubmit) Write(w io.Writer) error {
	if err := c.Basic.write(w); err != nil {
		return err
	}
	for _, v := range [...]uint32{c.TransferFlags, c.TransferBufferLen, c.StartFrame, c.NumberOfPackets, c.Interval} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	_, err := w.Write(c.Setup[:])
	return err
}

// UnpackCmdSubmit decodes a 48-byte CMD_SUBMIT header.
func UnpackCmdSubmit(buf []byte) (CmdSubmit, error) {
	if len(buf) < HeaderLen {
		return CmdSubmit{}, io.ErrUnexpectedEOF
	}
	c := CmdSubmit{
		Basic:             unpackHeaderBasic(buf),
		TransferFlags:     binary.BigEndian.Uint32(buf[20:24]),
		TransferBufferLen: binary.BigEndian.Uint32(buf[24:28]),
		StartFrame:        binary.BigEndian.Uint32(buf[28:32]),
		NumberOfPackets:   binary.BigEndian.Uint32(buf[32:36]),
		Interval:          binary.BigEndian.Uint32(buf[36:40]),
	}
	copy(c.Setup[:], buf[40:48])
	return c, nil
}

// RetSubmit is USBIP_RET_SUBMIT: the device's reply carrying a completed
// URB's status and any IN data.
type RetSubmit struct {
	Basic           HeaderBasic
	Status          int32
	ActualLength    uint32
	StartFrame      uint32
	NumberOfPackets uint32
	ErrorCount      uint32
	Padding         [8]byte
}

func (r *RetSubmit) Write(w io.Writer) error {
	if err := r.Basic.write(w); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, r.Status); err != nil {
		return err
	}
	for _, v := range [...]uint32{r.ActualLength, r.StartFrame, r.NumberOfPackets, r.ErrorCount} {
		if err := binary.Write(w, binary.BigEndian, v); err != nil {
			return err
		}
	}
	_, err := w.Write(r.Padding[:])
	return err
}

// UnpackRetSubmit decodes a 48-byte RET_SUBMIT header.
func UnpackRetSubmit(buf []byte) (RetSubmit, error) {
	if len(buf) < HeaderLen {
		return RetSubmit{}, io.ErrUnexpectedEOF
	}
	r := RetSubmit{
		Basic:           unpackHeaderBasic(buf),
		Status:          int32(binary.BigEndian.Uint32(buf[20:24])),
		ActualLength:    binary.BigEndian.Uint32(buf[24:28]),
		StartFrame:      binary.BigEndian.Uint32(buf[28:32]),
		NumberOfPackets: binary.BigEndian.Uint32(buf[32:36]),
		ErrorCount:      binary.BigEndian.Uint32(buf[36:40]),
	}
	copy(r.Padding[:], buf[40:48])
	return r, nil
}

// CmdUnlink is USBIP_CMD_UNLINK: a request to cancel a previously submitted,
// still-pending URB identified by UnlinkSeqnum.
type CmdUnlink struct {
	Basic        HeaderBasic
	UnlinkSeqnum uint32
	Padding      [24]byte
}

func (c *CmdUnlink) Write(w io.Writer) error {
	if err := c.Basic.write(w); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, c.UnlinkSeqnum); err != nil {
		return err
	}
	_, err := w.Write(c.Padding[:])
	return err
}

// UnpackCmdUnlink decodes a 48-byte CMD_UNLINK header.
func UnpackCmdUnlink(buf []byte) (CmdUnlink, error) {
	if len(buf) < HeaderLen {
		return CmdUnlink{}, io.ErrUnexpectedEOF
	}
	c := CmdUnlink{
		Basic:        unpackHeaderBasic(buf),
		UnlinkSeqnum: binary.BigEndian.Uint32(buf[20:24]),
	}
	copy(c.Padding[:], buf[24:48])
	return c, nil
}

// RetUnlink is USBIP_RET_UNLINK: the reply to a CmdUnlink, Status set to
// -ECONNRESET (-104) when the unlink actually interrupted a pending URB.
type RetUnlink struct {
	Basic   HeaderBasic
	Status  int32
	Padding [24]byte
}

// ECONNRESET is the errno value a successful unlink reports in RetUnlink.Status.
const ECONNRESET = -104

func (r *RetUnlink) Write(w io.Writer) error {
	if err := r.Basic.write(w); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, r.Status); err != nil {
		return err
	}
	_, err := w.Write(r.Padding[:])
	return err
}

// UnpackRetUnlink decodes a 48-byte RET_UNLINK header.
func UnpackRetUnlink(buf []byte) (RetUnlink, error) {
	if len(buf) < HeaderLen {
		return RetUnlink{}, io.ErrUnexpectedEOF
	}
	r := RetUnlink{
		Basic:  unpackHeaderBasic(buf),
		Status: int32(binary.BigEndian.Uint32(buf[20:24])),
	}
	copy(r.Padding[:], buf[24:48])
	return r, nil
}

// ReadExactly reads exactly len(buf) bytes from r, blocking across short
// reads until the buffer is full or an error occurs.
func ReadExactly(r io.Reader, buf []byte) error {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		if err != nil {
			return err
		}
		n += m
	}
	return nil
}
