package infra

import (
	"os"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// OSFileSystem implements domain.FileSystem against the real host.
type OSFileSystem struct{}

// NewFileSystem creates the host filesystem capability.
func NewFileSystem() domain.FileSystem {
	return &OSFileSystem{}
}

// Exists checks if a path exists.
func (fs *OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Remove deletes a single file. A missing file is success.
func (fs *OSFileSystem) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveAll deletes a path recursively.
func (fs *OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// MkdirAll creates a directory and parents.
func (fs *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Ensure OSFileSystem implements domain.FileSystem.
var _ domain.FileSystem = (*OSFileSystem)(nil)
