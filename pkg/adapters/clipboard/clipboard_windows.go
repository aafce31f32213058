//go:build windows

package clipboard

import (
	"fmt"
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	cfDIB        = 8
	gmemMoveable = 0x0002

	openAttempts = 5
	openBackoff  = 20 * time.Millisecond
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procOpenClipboard    = user32.NewProc("OpenClipboard")
	procCloseClipboard   = user32.NewProc("CloseClipboard")
	procEmptyClipboard   = user32.NewProc("EmptyClipboard")
	procSetClipboardData = user32.NewProc("SetClipboardData")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
)

// win32Clipboard keeps the calling goroutine on one OS thread between
// OpenClipboard and CloseClipboard, since clipboard ownership is per thread.
type win32Clipboard struct {
	opened bool
}

func newPlatformClipboard() platformClipboard {
	return &win32Clipboard{}
}

func checkPlatformAvailability() bool {
	return user32.Load() == nil && kernel32.Load() == nil
}

func (c *win32Clipboard) open() error {
	if c.opened {
		return nil
	}

	runtime.LockOSThread()

	var lastErr error
	for attempt := 0; attempt < openAttempts; attempt++ {
		r, _, err := procOpenClipboard.Call(0)
		if r != 0 {
			c.opened = true
			return nil
		}
		lastErr = err
		time.Sleep(openBackoff)
	}

	runtime.UnlockOSThread()
	return fmt.Errorf("%w: %v", ErrBusy, lastErr)
}

func (c *win32Clipboard) empty() error {
	if !c.opened {
		return ErrNotOpen
	}
	if r, _, err := procEmptyClipboard.Call(); r == 0 {
		return fmt.Errorf("EmptyClipboard: %w", err)
	}
	return nil
}

func (c *win32Clipboard) setDIB(payload []byte) error {
	if !c.opened {
		return ErrNotOpen
	}
	if len(payload) == 0 {
		return fmt.Errorf("SetClipboardData: empty payload")
	}

	h, _, err := procGlobalAlloc.Call(gmemMoveable, uintptr(len(payload)))
	if h == 0 {
		return fmt.Errorf("GlobalAlloc: %w", err)
	}

	p, _, err := procGlobalLock.Call(h)
	if p == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("GlobalLock: %w", err)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(p)), len(payload)), payload)
	procGlobalUnlock.Call(h)

	// On success the system owns h; on failure it is still ours to free.
	if r, _, err := procSetClipboardData.Call(cfDIB, h); r == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("SetClipboardData: %w", err)
	}
	return nil
}

func (c *win32Clipboard) close() error {
	if !c.opened {
		return nil
	}
	c.opened = false
	defer runtime.UnlockOSThread()

	if r, _, err := procCloseClipboard.Call(); r == 0 {
		return fmt.Errorf("CloseClipboard: %w", err)
	}
	return nil
}
