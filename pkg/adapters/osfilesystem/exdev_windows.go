//go:build windows

package osfilesystem

import (
	"errors"

	"golang.org/x/sys/windows"
)

// ERROR_NOT_SAME_DEVICE is what MoveFileEx reports for cross-volume moves.
func isEXDEV(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}
