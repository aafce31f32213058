//go:build !windows

package clipboard

import "github.com/user/framegrab/pkg/ports"

// stubClipboard is used where no CF_DIB clipboard exists.
type stubClipboard struct{}

func newPlatformClipboard() platformClipboard {
	return &stubClipboard{}
}

func (c *stubClipboard) open() error {
	return ports.ErrPlatformNotSupported
}

func (c *stubClipboard) empty() error {
	return ErrNotOpen
}

func (c *stubClipboard) setDIB(payload []byte) error {
	return ErrNotOpen
}

func (c *stubClipboard) close() error {
	return nil
}

func checkPlatformAvailability() bool {
	return false
}
