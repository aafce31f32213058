package mocks

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// FileSystem is a mock implementation of ports.FileSystem backed by memory.
type FileSystem struct {
	mu      sync.RWMutex
	files   map[string][]byte
	dirs    map[string]bool
	tempSeq int

	ReadFileFunc   func(path string) ([]byte, error)
	WriteFileFunc  func(path string, data []byte) error
	MkdirAllFunc   func(path string) error
	ExistsFunc     func(path string) (bool, error)
	RemoveFunc     func(path string) error
	CreateTempFunc func(dir, pattern string) (ports.TempFile, error)
	RenameFunc     func(oldpath, newpath string) error
	SyncDirFunc    func(dir string) error

	// TempWriteErr, when set, is returned by Write on temp files.
	TempWriteErr error

	// Recorded calls for verification
	Removed []string
	Renames [][2]string
}

// NewFileSystem creates a new mock FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	if m.ReadFileFunc != nil {
		return m.ReadFileFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if data, ok := m.files[path]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	if m.MkdirAllFunc != nil {
		return m.MkdirAllFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(path)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[path]; ok {
		return true, nil
	}
	if _, ok := m.dirs[path]; ok {
		return true, nil
	}
	return false, nil
}

func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	m.Removed = append(m.Removed, path)
	m.mu.Unlock()

	if m.RemoveFunc != nil {
		return m.RemoveFunc(path)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(m.files, path)
	delete(m.dirs, path)
	return nil
}

func (m *FileSystem) CreateTemp(dir, pattern string) (ports.TempFile, error) {
	if m.CreateTempFunc != nil {
		return m.CreateTempFunc(dir, pattern)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tempSeq++
	name := filepath.Join(dir, strings.Replace(pattern, "*", strconv.Itoa(m.tempSeq), 1))
	m.files[name] = []byte{}
	return &TempFile{fs: m, name: name}, nil
}

func (m *FileSystem) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	m.Renames = append(m.Renames, [2]string{oldpath, newpath})
	m.mu.Unlock()

	if m.RenameFunc != nil {
		return m.RenameFunc(oldpath, newpath)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[oldpath]
	if !ok {
		return fmt.Errorf("file not found: %s", oldpath)
	}
	m.files[newpath] = data
	delete(m.files, oldpath)
	return nil
}

func (m *FileSystem) SyncDir(dir string) error {
	if m.SyncDirFunc != nil {
		return m.SyncDirFunc(dir)
	}
	return nil
}

// GetFile returns the contents of a file (for test verification).
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return data, ok
}

// GetAllFiles returns all files (for test verification).
func (m *FileSystem) GetAllFiles() map[string][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make(map[string][]byte)
	for k, v := range m.files {
		result[k] = v
	}
	return result
}

// TempFile is the in-memory file handed out by FileSystem.CreateTemp.
type TempFile struct {
	fs     *FileSystem
	name   string
	closed bool
}

func (f *TempFile) Name() string { return f.name }

func (f *TempFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, fmt.Errorf("write to closed file: %s", f.name)
	}
	if f.fs.TempWriteErr != nil {
		return 0, f.fs.TempWriteErr
	}
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.files[f.name] = append(f.fs.files[f.name], p...)
	return len(p), nil
}

func (f *TempFile) Sync() error { return nil }

func (f *TempFile) Close() error {
	if f.closed {
		return fmt.Errorf("already closed: %s", f.name)
	}
	f.closed = true
	return nil
}

var _ ports.FileSystem = (*FileSystem)(nil)
var _ ports.TempFile = (*TempFile)(nil)
