package device

import "errors"

// Engine-level errors surfaced from read()/blocking_read() when a specific
// command could not be serviced. The engine itself remains usable after
// any of these; only a reader decode failure is session-fatal (see
// ErrReaderGone).
var (
	ErrInvalidEndpoint           = errors.New("device: endpoint number out of range")
	ErrNoConfig                  = errors.New("device: no configuration selected")
	ErrUnknownDescriptor         = errors.New("device: unknown or out-of-range descriptor requested")
	ErrUnknownRequest            = errors.New("device: unknown request")
	ErrInvalidConfigurationValue = errors.New("device: no configuration with that bConfigurationValue")
	ErrUnsupportedStandardRequest = errors.New("device: unsupported standard request")
	ErrMalformedRequest           = errors.New("device: request violates a fixed field constraint (e.g. transfer_buffer_length)")

	// ErrReaderGone is returned from read()/blocking_read() once the reader
	// worker has exited (socket EOF or decode failure).
	ErrReaderGone = errors.New("device: reader worker is gone")
	// ErrWriterGone is returned from write() once Stop has shut the device
	// down. A writer worker that exited on a socket write failure is not
	// detected by write(); replies sent after that are queued and never
	// written.
	ErrWriterGone = errors.New("device: writer worker is gone")
	// ErrNotStarted is returned by Stop/Read/Write/BlockingRead on a device
	// that was never successfully started.
	ErrNotStarted = errors.New("device: device has not been started")
	// ErrAlreadyStarted is returned by Start on a device that is already
	// attached or configured.
	ErrAlreadyStarted = errors.New("device: device is already started")
)
