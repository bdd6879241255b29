// Package manifest reads and edits Cargo.toml files. Reading goes through a
// TOML decoder; edits are line surgery that replaces only the targeted value
// so the rest of the file keeps its exact formatting.
package manifest

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Kind classifies a manifest by its top-level tables.
type Kind int

const (
	// KindPackage has a [package] table only.
	KindPackage Kind = iota
	// KindWorkspace has both [package] and [workspace] tables.
	KindWorkspace
	// KindVirtualWorkspace has a [workspace] table only.
	KindVirtualWorkspace
)

// ErrNoTables is returned for manifests with neither a [package] nor a
// [workspace] table.
var ErrNoTables = errors.New("Cargo.toml lacks both [package] and [workspace] tables")

// Flavor is the descriptive metadata carried by a manifest, from [package]
// or [workspace.package].
type Flavor struct {
	Name        string
	Description string
	Repository  string
	Keywords    []string
}

// Info is the decoded shape of a project manifest.
type Info struct {
	Kind   Kind
	Flavor Flavor
}

// IsWorkspace reports whether the manifest declares a workspace.
func (i *Info) IsWorkspace() bool {
	return i.Kind == KindWorkspace || i.Kind == KindVirtualWorkspace
}

type rawFlavor struct {
	Description string   `toml:"description"`
	Repository  string   `toml:"repository"`
	Keywords    []string `toml:"keywords"`
}

type rawManifest struct {
	Package *struct {
		Name string `toml:"name"`
		rawFlavor
	} `toml:"package"`
	Workspace *struct {
		Package *rawFlavor `toml:"package"`
	} `toml:"workspace"`
}

// Classify decodes just enough of a manifest to tell what kind of project it
// declares and what descriptive metadata it carries.
func Classify(data []byte) (*Info, error) {
	var raw rawManifest
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to deserialize Cargo.toml: %w", err)
	}
	switch {
	case raw.Package != nil && raw.Workspace == nil:
		return &Info{Kind: KindPackage, Flavor: flavorOf(raw.Package.rawFlavor, raw.Package.Name)}, nil
	case raw.Package != nil && raw.Workspace != nil:
		return &Info{Kind: KindWorkspace, Flavor: flavorOf(raw.Package.rawFlavor, raw.Package.Name)}, nil
	case raw.Workspace != nil:
		info := &Info{Kind: KindVirtualWorkspace}
		if raw.Workspace.Package != nil {
			info.Flavor = flavorOf(*raw.Workspace.Package, "")
		}
		return info, nil
	default:
		return nil, ErrNoTables
	}
}

func flavorOf(raw rawFlavor, name string) Flavor {
	return Flavor{
		Name:        name,
		Description: raw.Description,
		Repository:  raw.Repository,
		Keywords:    raw.Keywords,
	}
}
