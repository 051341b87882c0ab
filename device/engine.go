package device

import (
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/virtualusb/vusb/internal/log"
	"github.com/virtualusb/vusb/usb"
	"github.com/virtualusb/vusb/usbip"
	"github.com/virtualusb/vusb/vhci"
)

// State is the device's lifecycle state, mirroring the USB/IP attach and
// SET_CONFIGURATION state machine.
type State int

const (
	StateUnstarted State = iota
	StateAttached
	StateConfigured
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateAttached:
		return "attached"
	case StateConfigured:
		return "configured"
	default:
		return "unknown"
	}
}

// Device is a running (or not-yet-started) virtual USB device: the engine
// that owns the control-transfer state machine, the socket pair connecting
// it to vhci_hcd, and the reader/writer workers that move bytes across it.
//
// A Device is not safe for concurrent use by multiple goroutines; like the
// source this implementation follows, it is meant to be driven by one
// event-loop goroutine at a time.
type Device struct {
	info   Info
	logger *slog.Logger
	raw    log.RawLogger

	state         State
	currentConfig *usb.Configuration

	adapter *vhci.Adapter
	port    vhci.Port
	devid   uint32
	conn    net.Conn

	commands chan Command
	replies  *unboundedQueue[Reply]

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New wraps a built Info as a not-yet-started Device. devid is the USB/IP
// device identifier attached devices report to the host; callers serving
// a single device per process commonly pass 1.
func New(info Info, devid uint32, logger *slog.Logger, raw log.RawLogger) *Device {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Device{
		info:   info,
		logger: logger,
		raw:    raw,
		devid:  devid,
	}
}

// State returns the device's current lifecycle state.
func (d *Device) State() State { return d.state }

// CurrentConfiguration returns the configuration selected by the most
// recent SET_CONFIGURATION, or (nil, false) if none has been selected yet.
func (d *Device) CurrentConfiguration() (*usb.Configuration, bool) {
	if d.currentConfig == nil {
		return nil, false
	}
	return d.currentConfig, true
}

// Start opens a socket pair, attaches one end to a free vhci_hcd port, and
// launches the reader/writer workers. It is the only place this device
// touches vhci_hcd or performs I/O setup; once Start returns successfully,
// all further interaction with the kernel happens on the workers.
func (d *Device) Start(adapter *vhci.Adapter) error {
	if d.state != StateUnstarted {
		return ErrAlreadyStarted
	}

	port, err := adapter.NextFreePort()
	if err != nil {
		return err
	}

	conn, kernelFD, err := vhci.NewSocketPair()
	if err != nil {
		return fmt.Errorf("device: opening socket pair: %w", err)
	}

	speed := vhci.SpeedFromBCD(d.info.Device.BcdUSB)
	if err := adapter.Attach(port, kernelFD, d.devid, uint32(speed)); err != nil {
		conn.Close()
		return err
	}

	d.adapter = adapter
	d.port = port
	d.conn = conn
	d.commands = make(chan Command, 32)
	d.replies = newUnboundedQueue[Reply]()
	d.stopCh = make(chan struct{})
	d.state = StateAttached

	go d.readLoop()
	go d.writeLoop()

	d.logger.Info("device attached", "port", port.Port, "devid", d.devid, "speed", speed)
	return nil
}

// Stop tears the device down: closes the socket (which signals vhci_hcd to
// detach the port) and lets the workers exit on their next blocking
// operation. Stop is idempotent.
func (d *Device) Stop() error {
	if d.state == StateUnstarted {
		return ErrNotStarted
	}
	d.stopOnce.Do(func() {
		close(d.stopCh)
		if d.conn != nil {
			d.conn.Close()
		}
		if d.replies != nil {
			d.replies.Close()
		}
	})
	return nil
}

// Read returns the next Transfer the engine could not handle
// automatically, or (nil, nil) if none is immediately available. It never
// blocks. An OUT transfer on a non-zero endpoint has already been
// acknowledged to the host (status 0, actual_length = payload length) by
// the time it is returned here, so the caller cannot fail it over USB.
func (d *Device) Read() (*Transfer, error) {
	if d.state == StateUnstarted {
		return nil, ErrNotStarted
	}
	select {
	case cmd, ok := <-d.commands:
		if !ok {
			return nil, ErrReaderGone
		}
		return d.dispatch(cmd)
	default:
		return nil, nil
	}
}

// BlockingRead is Read but waits for a command to arrive (or the reader to
// die) instead of returning immediately. It only returns once a Transfer
// surfaces for the caller, an error occurs, or the reader is gone;
// commands the engine handles automatically are processed and looped past
// internally.
func (d *Device) BlockingRead() (*Transfer, error) {
	if d.state == StateUnstarted {
		return nil, ErrNotStarted
	}
	for {
		cmd, ok := <-d.commands
		if !ok {
			return nil, ErrReaderGone
		}
		xfer, err := d.dispatch(cmd)
		if err != nil {
			return nil, err
		}
		if xfer != nil {
			return xfer, nil
		}
	}
}

// Write sends a reply constructed from a Transfer previously returned by
// Read/BlockingRead. It never blocks beyond handing the reply to the
// internal reply queue.
func (d *Device) Write(reply Reply) error {
	if d.state == StateUnstarted {
		return ErrNotStarted
	}
	select {
	case <-d.stopCh:
		return ErrWriterGone
	default:
	}
	d.replies.Send(reply)
	return nil
}

func (d *Device) sendReply(r Reply) {
	d.replies.Send(r)
}

// dispatch runs the protocol engine's decision logic for one Command:
// USBIP_CMD_UNLINK is always auto-acknowledged; USBIP_CMD_SUBMIT on
// endpoint 0 is handled per §4.4.1 of the control-transfer state machine;
// everything else follows the non-zero-endpoint path.
func (d *Device) dispatch(cmd Command) (*Transfer, error) {
	switch cmd.Kind {
	case KindUnlink:
		d.sendReply(Reply{
			Kind: KindUnlink,
			RetUnlink: usbip.RetUnlink{
				Basic: usbip.HeaderBasic{
					Command: usbip.RetUnlinkCode,
					Seqnum:  cmd.Unlink.Basic.Seqnum,
					Devid:   cmd.Unlink.Basic.Devid,
					Dir:     cmd.Unlink.Basic.Dir,
					Ep:      cmd.Unlink.Basic.Ep,
				},
				Status: usbip.ECONNRESET,
			},
		})
		return nil, nil
	case KindSubmit:
		ep := cmd.Submit.Basic.Ep
		if ep >= 16 {
			return nil, ErrInvalidEndpoint
		}
		if ep == 0 {
			return d.dispatchEndpoint0(cmd)
		}
		return d.dispatchEndpointN(cmd)
	default:
		return nil, ErrUnknownRequest
	}
}
