package ports

import "io"

// TempFile is a staging file created by FileSystem.CreateTemp.
type TempFile interface {
	io.Writer

	// Name returns the full path of the file.
	Name() string

	// Sync commits the file contents to stable storage.
	Sync() error

	// Close closes the file.
	Close() error
}

// FileSystem abstracts file system operations.
type FileSystem interface {
	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error

	// Exists checks if a file or directory exists.
	Exists(path string) (bool, error)

	// Remove deletes a file or empty directory.
	Remove(path string) error

	// CreateTemp creates a new uniquely named file in dir.
	// The pattern follows os.CreateTemp.
	CreateTemp(dir, pattern string) (TempFile, error)

	// Rename atomically replaces newpath with oldpath.
	// Both paths must be on the same filesystem.
	Rename(oldpath, newpath string) error

	// SyncDir flushes directory metadata. Implementations may treat it as best-effort.
	SyncDir(dir string) error
}
