package core

import (
	"context"
	"io/fs"
	"os"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests.
type MockFileSystem struct {
	files map[string][]byte
	// ReadErr and WriteErr, when set, are returned by every ReadFile and
	// WriteFile call respectively. Used to simulate IO failures.
	ReadErr  error
	WriteErr error
}

// NewMockFileSystem creates an empty in-memory filesystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{files: make(map[string][]byte)}
}

// Verify MockFileSystem implements FileSystem.
var _ FileSystem = (*MockFileSystem)(nil)

// SetFile stores content at path, creating or replacing it.
func (m *MockFileSystem) SetFile(path string, data []byte) {
	m.files[path] = append([]byte(nil), data...)
}

// GetFile returns the content stored at path.
func (m *MockFileSystem) GetFile(path string) ([]byte, bool) {
	data, ok := m.files[path]
	return data, ok
}

func (m *MockFileSystem) ReadFile(_ context.Context, path string) ([]byte, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

func (m *MockFileSystem) WriteFile(_ context.Context, path string, data []byte, _ fs.FileMode) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *MockFileSystem) Stat(_ context.Context, path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return mockFileInfo{name: path, size: int64(len(m.files[path]))}, nil
}

type mockFileInfo struct {
	name string
	size int64
}

func (fi mockFileInfo) Name() string       { return fi.name }
func (fi mockFileInfo) Size() int64        { return fi.size }
func (fi mockFileInfo) Mode() fs.FileMode  { return PermOwnerRW }
func (fi mockFileInfo) ModTime() time.Time { return time.Time{} }
func (fi mockFileInfo) IsDir() bool        { return false }
func (fi mockFileInfo) Sys() any           { return nil }

// IsNotExist reports whether err indicates a missing file, for either the
// real or the mock filesystem.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
