//go:build linux

package vhci

import (
	"context"
	"fmt"
	"os/exec"
)

// EnsureLoaded loads the vhci-hcd kernel module via modprobe. modprobe
// succeeds (exit 0) whether or not the module was already loaded, so this
// reports success in both cases and only returns ErrLoadFailed when
// modprobe itself fails (missing binary, permission denied, no such
// module).
func EnsureLoaded(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "modprobe", "vhci-hcd")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLoadFailed, output)
	}
	return nil
}
