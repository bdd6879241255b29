package workspace

import (
	"context"
	"path/filepath"

	"github.com/indaco/rustle/internal/changelog"
	"github.com/indaco/rustle/internal/core"
	"github.com/indaco/rustle/internal/readme"
)

// TextFile is a typed accessor for a parseable text file that may be absent.
// Get reports ok false for a missing file; Set writes the rendered value
// back in full.
type TextFile[T any] struct {
	fsys   core.FileSystem
	path   string
	parse  func(string) (T, error)
	render func(T) string
}

// NewTextFile creates an accessor for path using the given parse and render
// functions.
func NewTextFile[T any](fsys core.FileSystem, path string, parse func(string) (T, error), render func(T) string) TextFile[T] {
	return TextFile[T]{fsys: fsys, path: path, parse: parse, render: render}
}

// Path returns the file's path.
func (f TextFile[T]) Path() string {
	return f.path
}

// Get reads and parses the file. ok is false when the file does not exist.
func (f TextFile[T]) Get(ctx context.Context) (value T, ok bool, err error) {
	data, err := f.fsys.ReadFile(ctx, f.path)
	if err != nil {
		if core.IsNotExist(err) {
			var zero T
			return zero, false, nil
		}
		var zero T
		return zero, false, err
	}
	value, err = f.parse(string(data))
	if err != nil {
		var zero T
		return zero, false, err
	}
	return value, true, nil
}

// Set renders value and writes it to the file.
func (f TextFile[T]) Set(ctx context.Context, value T) error {
	return f.fsys.WriteFile(ctx, f.path, []byte(f.render(value)), core.PermOwnerRW)
}

// ChangelogFile returns the accessor for the package's CHANGELOG.md.
func (p *Package) ChangelogFile(fsys core.FileSystem) TextFile[*changelog.Changelog] {
	return NewTextFile(fsys,
		filepath.Join(p.Dir(), "CHANGELOG.md"),
		changelog.Parse,
		func(c *changelog.Changelog) string { return c.String() })
}

// ReadmeFile returns the accessor for the package's README.md.
func (p *Package) ReadmeFile(fsys core.FileSystem) TextFile[*readme.Readme] {
	return NewTextFile(fsys,
		filepath.Join(p.Dir(), "README.md"),
		readme.Parse,
		func(r *readme.Readme) string { return r.String() })
}
