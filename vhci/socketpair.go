//go:build linux

package vhci

import (
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// NewSocketPair creates a connected pair of Unix stream sockets: one side is
// wrapped as a net.Conn for the device engine's reader and writer workers,
// the other side's raw fd is handed to Attach so vhci_hcd can use it as the
// device's USB/IP transport.
//
// The kernel-facing fd is returned as a plain int: it is a unix.Dup of the
// socketpair's second descriptor, and the original descriptor is closed
// before returning.
func NewSocketPair() (local net.Conn, kernelFD int, err error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, 0, err
	}
	localFD, remoteFD := fds[0], fds[1]

	localFile := os.NewFile(uintptr(localFD), "vhci-local")
	conn, err := net.FileConn(localFile)
	localFile.Close()
	if err != nil {
		unix.Close(remoteFD)
		return nil, 0, err
	}

	dup, err := unix.Dup(remoteFD)
	unix.Close(remoteFD)
	if err != nil {
		conn.Close()
		return nil, 0, err
	}

	return conn, dup, nil
}
