// Package workspace models the Cargo project being released: the set of
// packages reported by cargo metadata, plus the reverse dependency edges
// between workspace members that the version cascade walks.
package workspace

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/indaco/rustle/internal/cargo"
	"github.com/indaco/rustle/internal/semver"
)

// ErrNoPackage is returned when the working directory is not inside a
// package of the current project.
var ErrNoPackage = errors.New("not currently located in a package")

// Package is one workspace member.
type Package struct {
	Name         string
	ManifestPath string
	Version      semver.SemVersion
	IsBin        bool
	IsLib        bool
	Publish      bool
	IsRoot       bool
	// Dependents maps the names of workspace members that depend on this
	// package to the requirement they declare on it.
	Dependents map[string]semver.Req
}

// Dir returns the package's directory.
func (p *Package) Dir() string {
	return filepath.Dir(p.ManifestPath)
}

// Project is the loaded workspace.
type Project struct {
	RootManifest string
	packages     []*Package
	byName       map[string]*Package
}

// Load locates the project governing the runner's working directory and
// builds its package graph from cargo metadata.
func Load(c *cargo.Cargo) (*Project, error) {
	rootManifest, err := c.LocateProject(true)
	if err != nil {
		return nil, err
	}
	metaJSON, err := c.Metadata(rootManifest)
	if err != nil {
		return nil, err
	}
	return ParseMetadata(metaJSON, rootManifest)
}

// ParseMetadata builds the package set from raw `cargo metadata` output.
func ParseMetadata(metaJSON, rootManifest string) (*Project, error) {
	rootDir := filepath.Dir(rootManifest)
	byName := make(map[string]*Package)
	var names []string
	// dependent package name and requirement, keyed by dependency name
	rdeps := make(map[string]map[string]semver.Req)

	for _, md := range gjson.Get(metaJSON, "packages").Array() {
		name := md.Get("name").String()
		if _, dup := byName[name]; dup {
			return nil, fmt.Errorf("workspace contains multiple packages named %q; not proceeding", name)
		}
		ver, err := semver.ParseVersion(md.Get("version").String())
		if err != nil {
			return nil, fmt.Errorf("package %q has unparseable version: %w", name, err)
		}
		manifestPath := md.Get("manifest_path").String()

		pkg := &Package{
			Name:         name,
			ManifestPath: manifestPath,
			Version:      ver,
			IsRoot:       manifestPath == rootManifest,
			Publish:      isPublishable(md.Get("publish")),
			Dependents:   make(map[string]semver.Req),
		}
		for _, target := range md.Get("targets").Array() {
			for _, kind := range target.Get("kind").Array() {
				switch kind.String() {
				case "bin":
					pkg.IsBin = true
				case "lib", "rlib", "dylib", "cdylib", "proc-macro":
					pkg.IsLib = true
				}
			}
		}

		for _, dep := range md.Get("dependencies").Array() {
			depPath := dep.Get("path").String()
			if depPath == "" || !strings.HasPrefix(depPath, rootDir) {
				continue
			}
			req, err := semver.ParseReq(dep.Get("req").String())
			if err != nil {
				// Path-only dependencies carry a wildcard requirement;
				// they never constrain versions, so the cascade skips them.
				continue
			}
			depName := dep.Get("name").String()
			if rdeps[depName] == nil {
				rdeps[depName] = make(map[string]semver.Req)
			}
			rdeps[depName][name] = req
		}

		byName[name] = pkg
		names = append(names, name)
	}

	sort.Strings(names)
	packages := make([]*Package, 0, len(names))
	for _, name := range names {
		pkg := byName[name]
		if deps, ok := rdeps[name]; ok {
			pkg.Dependents = deps
		}
		packages = append(packages, pkg)
	}
	return &Project{RootManifest: rootManifest, packages: packages, byName: byName}, nil
}

func isPublishable(publish gjson.Result) bool {
	if !publish.Exists() || publish.Type == gjson.Null {
		return true
	}
	return len(publish.Array()) > 0
}

// Packages returns all workspace members, sorted by name.
func (pr *Project) Packages() []*Package {
	return pr.packages
}

// ByName returns the named package.
func (pr *Project) ByName(name string) (*Package, bool) {
	pkg, ok := pr.byName[name]
	return pkg, ok
}

// ByManifestPath returns the package with the given manifest path.
func (pr *Project) ByManifestPath(path string) (*Package, bool) {
	for _, pkg := range pr.packages {
		if pkg.ManifestPath == path {
			return pkg, true
		}
	}
	return nil, false
}

// Root returns the root package, if the workspace has one.
func (pr *Project) Root() (*Package, bool) {
	for _, pkg := range pr.packages {
		if pkg.IsRoot {
			return pkg, true
		}
	}
	return nil, false
}

// CurrentPackage returns the package governing the runner's working
// directory.
func (pr *Project) CurrentPackage(c *cargo.Cargo) (*Package, error) {
	manifestPath, err := c.LocateProject(false)
	if err != nil {
		return nil, err
	}
	pkg, ok := pr.ByManifestPath(manifestPath)
	if !ok {
		return nil, ErrNoPackage
	}
	return pkg, nil
}

// Select returns the named package, or the current one when name is empty.
func (pr *Project) Select(c *cargo.Cargo, name string) (*Package, error) {
	if name == "" {
		return pr.CurrentPackage(c)
	}
	pkg, ok := pr.ByName(name)
	if !ok {
		return nil, fmt.Errorf("no package named %q found in current project", name)
	}
	return pkg, nil
}

// LicensePath returns the path of the package's LICENSE file.
func (p *Package) LicensePath() string {
	return filepath.Join(p.Dir(), "LICENSE")
}
