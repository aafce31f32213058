package osfilesystem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteAndReadFile(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "a", "b", "test.txt")
	if err := fs.WriteFile(testPath, []byte("hello world")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fs.ReadFile(testPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", data)
	}
}

func TestFileSystem_Exists(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()

	testPath := filepath.Join(tmpDir, "test.txt")
	os.WriteFile(testPath, []byte("test"), 0644)

	exists, err := fs.Exists(testPath)
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if !exists {
		t.Error("expected file to exist")
	}

	exists, err = fs.Exists(filepath.Join(tmpDir, "nonexistent.txt"))
	if err != nil {
		t.Fatalf("Exists failed: %v", err)
	}
	if exists {
		t.Error("expected file to not exist")
	}
}

func TestFileSystem_CreateTempAndRename(t *testing.T) {
	fs := New()
	tmpDir := t.TempDir()
	dst := filepath.Join(tmpDir, "out.png")

	if err := os.WriteFile(dst, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}

	tmp, err := fs.CreateTemp(tmpDir, ".out.png.tmp-*")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	if filepath.Dir(tmp.Name()) != tmpDir {
		t.Errorf("temp file created outside %s: %s", tmpDir, tmp.Name())
	}
	if _, err := tmp.Write([]byte("new")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := tmp.Sync(); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if err := tmp.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := fs.Rename(tmp.Name(), dst); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	if err := fs.SyncDir(tmpDir); err != nil {
		t.Fatalf("SyncDir failed: %v", err)
	}

	data, _ := os.ReadFile(dst)
	if string(data) != "new" {
		t.Errorf("expected destination to be replaced, got %q", data)
	}
	if exists, _ := fs.Exists(tmp.Name()); exists {
		t.Error("expected temp file to be gone after rename")
	}
}

func TestFileSystem_RenameCrossDevice(t *testing.T) {
	fs := New()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: crossDeviceErrno()}
	}
	defer func() { renameFunc = old }()

	err := fs.Rename("/a/x", "/b/x")
	if !IsCrossDevice(err) {
		t.Fatalf("expected CrossDeviceError, got %T %v", err, err)
	}
}

func TestFileSystem_RenameOtherError(t *testing.T) {
	fs := New()

	old := renameFunc
	renameFunc = func(oldpath, newpath string) error {
		return fmt.Errorf("rename: %w", os.ErrPermission)
	}
	defer func() { renameFunc = old }()

	err := fs.Rename("/a/x", "/a/y")
	if IsCrossDevice(err) {
		t.Fatal("permission error must not be reported as cross-device")
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Errorf("expected os.ErrPermission, got %v", err)
	}
}

func TestFileSystem_Remove(t *testing.T) {
	fs := New()
	testPath := filepath.Join(t.TempDir(), "test.txt")
	os.WriteFile(testPath, []byte("test"), 0644)

	if err := fs.Remove(testPath); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if exists, _ := fs.Exists(testPath); exists {
		t.Error("expected file to be removed")
	}
}
