// Package core provides the shared seams between rustle and the host system:
// a context-aware filesystem abstraction and common permission constants.
// Everything that touches disk goes through core.FileSystem so that tests can
// run against the in-memory implementation.
package core

import (
	"context"
	"io/fs"
	"os"
)

// PermOwnerRW is the default permission for files rustle writes
// (owner read/write only).
const PermOwnerRW fs.FileMode = 0o600

// FileSystem abstracts file operations for testability.
type FileSystem interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	WriteFile(ctx context.Context, path string, data []byte, perm fs.FileMode) error
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
}

// OSFileSystem is the production FileSystem backed by the os package.
type OSFileSystem struct{}

// NewOSFileSystem creates a FileSystem that operates on the real filesystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Verify OSFileSystem implements FileSystem.
var _ FileSystem = (*OSFileSystem)(nil)

func (f *OSFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (f *OSFileSystem) WriteFile(_ context.Context, path string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(path, data, perm)
}

func (f *OSFileSystem) Stat(_ context.Context, path string) (fs.FileInfo, error) {
	return os.Stat(path)
}
