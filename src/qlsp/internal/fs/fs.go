package fs

import (
	"io/fs"
	"os"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// QlspFS wraps the filesystem operations used by qlsp.
type QlspFS interface {
	UserCacheDir() (string, error)
	UserConfigDir() (string, error)
	MkdirAll(path string) error
	DirExists(path string) (bool, error)
	FileExists(path string) (bool, error)
	Open(name string) (*os.File, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	Create(name string) (*os.File, error)
	TempFile(dir, pattern string) (*os.File, error)
	Rename(oldpath, newpath string) error
	Chmod(name string, mode os.FileMode) error
	Remove(name string) error
	RemoveAll(path string) error
}

type fsImpl struct{}

// New creates a new QlspFS.
func New() QlspFS {
	return fsImpl{}
}

// UserCacheDir returns the user's cache directory.
func (fsImpl) UserCacheDir() (string, error) { return os.UserCacheDir() }

// UserConfigDir returns the user's configuration directory.
func (fsImpl) UserConfigDir() (string, error) { return os.UserConfigDir() }

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

// ReadDir reads all the items in a directory (non-recursive)
func (fsImpl) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Open opens a file for reading
func (fsImpl) Open(name string) (*os.File, error) {
	return os.Open(name)
}

func (fsImpl) DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fsImpl) Create(name string) (*os.File, error) {
	return os.Create(name)
}

func (fsImpl) TempFile(dir, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

// Rename moves oldpath to newpath, replacing newpath if it exists.
func (fsImpl) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (fsImpl) Chmod(name string, mode os.FileMode) error {
	return os.Chmod(name, mode)
}

func (fsImpl) Remove(name string) error {
	return os.Remove(name)
}

// RemoveAll removes path and any children it contains.
func (fsImpl) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
