//go:build unix

package osfilesystem

import "syscall"

func crossDeviceErrno() error { return syscall.EXDEV }
