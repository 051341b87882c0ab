package vhci

import "errors"

var (
	// ErrNoVHCI is returned when the vhci_hcd sysfs node is not present,
	// meaning the kernel module is not loaded.
	ErrNoVHCI = errors.New("vhci: vhci_hcd sysfs node not found")
	// ErrNoFreePort is returned when every port reports a non-4 status.
	ErrNoFreePort = errors.New("vhci: no free port available")
	// ErrAttachFailed is returned when the write to the attach sysfs
	// attribute fails.
	ErrAttachFailed = errors.New("vhci: attach write failed")
	// ErrLoadFailed is returned by EnsureLoaded when modprobe exits non-zero.
	ErrLoadFailed = errors.New("vhci: failed to load vhci-hcd module")
)
