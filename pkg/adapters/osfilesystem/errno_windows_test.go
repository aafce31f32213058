//go:build windows

package osfilesystem

import "golang.org/x/sys/windows"

func crossDeviceErrno() error { return windows.ERROR_NOT_SAME_DEVICE }
