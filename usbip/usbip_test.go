package usbip

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCmdSubmitRoundTrip(t *testing.T) {
	c := CmdSubmit{
		Basic: HeaderBasic{
			Command: CmdSubmitCode,
			Seqnum:  7,
			Devid:   1,
			Dir:     DirOut,
			Ep:      2,
		},
		TransferFlags:     0,
		TransferBufferLen: 64,
		Setup:             [8]byte{0x00, 0x09, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00},
	}
	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	require.Equal(t, HeaderLen, buf.Len())

	got, err := UnpackCmdSubmit(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestRetSubmitRoundTrip(t *testing.T) {
	r := RetSubmit{
		Basic: HeaderBasic{
			Command: RetSubmitCode,
			Seqnum:  7,
			Devid:   1,
			Dir:     DirOut,
			Ep:      2,
		},
		Status:       0,
		ActualLength: 64,
	}
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	require.Equal(t, HeaderLen, buf.Len())

	got, err := UnpackRetSubmit(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestCmdUnlinkRoundTrip(t *testing.T) {
	c := CmdUnlink{
		Basic: HeaderBasic{
			Command: CmdUnlinkCode,
			Seqnum:  9,
			Devid:   1,
			Dir:     DirOut,
			Ep:      0,
		},
		UnlinkSeqnum: 7,
	}
	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf))
	require.Equal(t, HeaderLen, buf.Len())

	got, err := UnpackCmdUnlink(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestRetUnlinkRoundTrip(t *testing.T) {
	r := RetUnlink{
		Basic: HeaderBasic{
			Command: RetUnlinkCode,
			Seqnum:  9,
			Devid:   1,
			Dir:     DirOut,
			Ep:      0,
		},
		Status: ECONNRESET,
	}
	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf))
	require.Equal(t, HeaderLen, buf.Len())

	got, err := UnpackRetUnlink(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, r, got)
	assert.Equal(t, int32(-104), got.Status)
}

func TestRetSubmitMirrorsSubmitHeader(t *testing.T) {
	submit := CmdSubmit{
		Basic: HeaderBasic{Command: CmdSubmitCode, Seqnum: 42, Devid: 3, Dir: DirIn, Ep: 5},
	}
	reply := RetSubmit{
		Basic: HeaderBasic{
			Command: RetSubmitCode,
			Seqnum:  submit.Basic.Seqnum,
			Devid:   submit.Basic.Devid,
			Dir:     submit.Basic.Dir,
			Ep:      submit.Basic.Ep,
		},
	}
	assert.Equal(t, submit.Basic.Seqnum, reply.Basic.Seqnum)
	assert.Equal(t, submit.Basic.Devid, reply.Basic.Devid)
	assert.Equal(t, submit.Basic.Dir, reply.Basic.Dir)
	assert.Equal(t, submit.Basic.Ep, reply.Basic.Ep)
}

func TestUnpackRejectsShortBuffer(t *testing.T) {
	short := make([]byte, HeaderLen-1)
	_, err := UnpackCmdSubmit(short)
	assert.Error(t, err)
	_, err = UnpackRetSubmit(short)
	assert.Error(t, err)
	_, err = UnpackCmdUnlink(short)
	assert.Error(t, err)
	_, err = UnpackRetUnlink(short)
	assert.Error(t, err)
}

func TestReadExactlyHandlesShortReads(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	r := &chunkedReader{data: data, chunk: 3}
	buf := make([]byte, len(data))
	require.NoError(t, ReadExactly(r, buf))
	assert.Equal(t, data, buf)
}

type chunkedReader struct {
	data  []byte
	chunk int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	n := c.chunk
	if n > len(c.data) {
		n = len(c.data)
	}
	if n > len(p) {
		n = len(p)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}
