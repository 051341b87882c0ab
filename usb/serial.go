package usb

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// DeriveSerial produces a stable, deterministic serial number string for a
// device that was not given one explicitly. It hashes the vendor/product
// pair together with any extra seed material a builder wants baked in (for
// example a host-provided name), so the same logical device always attaches
// with the same serial across restarts without needing persisted state.
func DeriveSerial(vendorID, productID uint16, seed ...string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		// blake2b.New only errors on an out-of-range size or bad key; 8 and
		// nil are always valid, so this is unreachable in practice.
		panic(fmt.Sprintf("usb: blake2b.New: %v", err))
	}
	fmt.Fprintf(h, "%04x:%04x", vendorID, productID)
	for _, s := range seed {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}
