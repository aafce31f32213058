package clipboard

import (
	"errors"
	"runtime"
	"testing"

	"github.com/user/framegrab/pkg/ports"
)

func TestUnsupportedPlatform(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("clipboard is supported on Windows")
	}

	c := New()
	if IsAvailable() {
		t.Error("expected clipboard to be unavailable")
	}
	if err := c.Open(); !errors.Is(err, ports.ErrPlatformNotSupported) {
		t.Errorf("expected ErrPlatformNotSupported, got %v", err)
	}
	if err := c.SetDIB([]byte{1}); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close should be a no-op, got %v", err)
	}
}

func TestWindowsRequiresOpen(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("Windows only")
	}

	c := New()
	if err := c.Empty(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen before Open, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close without Open should be a no-op, got %v", err)
	}
}
