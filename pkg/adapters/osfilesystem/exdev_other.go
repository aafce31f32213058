//go:build !unix && !windows

package osfilesystem

func isEXDEV(err error) bool {
	return false
}
