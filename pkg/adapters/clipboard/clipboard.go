// Package clipboard provides access to the system clipboard bitmap slot.
// - Windows: user32/kernel32 clipboard API (CF_DIB)
// - other platforms: not supported
package clipboard

import (
	"errors"

	"github.com/user/framegrab/pkg/ports"
)

var (
	// ErrBusy is returned when another process holds the clipboard.
	ErrBusy = errors.New("clipboard: held by another process")

	// ErrNotOpen is returned when mutating the clipboard without opening it.
	ErrNotOpen = errors.New("clipboard: not open")
)

// Clipboard is the system clipboard.
type Clipboard struct {
	platform platformClipboard
}

// platformClipboard is implemented by platform-specific code.
type platformClipboard interface {
	open() error
	empty() error
	setDIB(payload []byte) error
	close() error
}

// New creates a clipboard handle for the current platform.
func New() *Clipboard {
	return &Clipboard{platform: newPlatformClipboard()}
}

// Open acquires the clipboard.
func (c *Clipboard) Open() error { return c.platform.open() }

// Empty clears the clipboard.
func (c *Clipboard) Empty() error { return c.platform.empty() }

// SetDIB places a CF_DIB payload on the clipboard.
func (c *Clipboard) SetDIB(payload []byte) error { return c.platform.setDIB(payload) }

// Close releases the clipboard.
func (c *Clipboard) Close() error { return c.platform.close() }

// IsAvailable reports whether the platform has a supported clipboard.
func IsAvailable() bool {
	return checkPlatformAvailability()
}

var _ ports.Clipboard = (*Clipboard)(nil)
