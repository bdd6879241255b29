// Package cascade propagates a package's new version through the workspace
// dependency graph: dependents get their requirement rewritten, are moved
// into their next development cycle when their runtime dependencies changed,
// and have the version change noted in their changelog.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/indaco/rustle/internal/changelog"
	"github.com/indaco/rustle/internal/core"
	"github.com/indaco/rustle/internal/manifest"
	"github.com/indaco/rustle/internal/semver"
	"github.com/indaco/rustle/internal/workspace"
)

// ErrUnknownDependent is returned when a recorded dependent is not a member
// of the current workspace; that means the metadata and the working tree
// disagree.
var ErrUnknownDependent = errors.New("recorded dependent not found in current workspace")

// Action describes one step taken for a dependent.
type Action string

const (
	// ActionRequirementUpdated means the dependent's manifest requirement
	// was rewritten.
	ActionRequirementUpdated Action = "requirement-updated"
	// ActionBeganDev means the dependent was moved to its next development
	// cycle.
	ActionBeganDev Action = "began-dev"
	// ActionChangelogNoted means a bullet recording the dependency change
	// was added to the dependent's changelog.
	ActionChangelogNoted Action = "changelog-noted"
)

// Result is one action taken for one dependent.
type Result struct {
	Dependent string
	Action    Action
}

// Propagator walks reverse dependency edges and applies the updates.
type Propagator struct {
	project *workspace.Project
	fsys    core.FileSystem
}

// New creates a Propagator over the given project.
func New(project *workspace.Project, fsys core.FileSystem) *Propagator {
	return &Propagator{project: project, fsys: fsys}
}

// Propagate records that pkg is now at newVersion and updates every
// dependent whose stored requirement either no longer matches it or matches
// it only through the caret-prerelease quirk. Dependents are visited in name
// order; re-running with the same inputs takes no further action.
func (pr *Propagator) Propagate(ctx context.Context, pkg *workspace.Package, newVersion semver.SemVersion) ([]Result, error) {
	names := make([]string, 0, len(pkg.Dependents))
	for name := range pkg.Dependents {
		names = append(names, name)
	}
	sort.Strings(names)

	var results []Result
	for _, name := range names {
		req := pkg.Dependents[name]
		if req.Matches(newVersion) && !req.DisagreesOnPreRelease(newVersion) {
			continue
		}
		dep, ok := pr.project.ByName(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDependent, name)
		}

		touched, err := pr.rewriteRequirement(ctx, dep, pkg.Name, newVersion)
		if err != nil {
			return nil, err
		}
		results = append(results, Result{Dependent: name, Action: ActionRequirementUpdated})

		newReq, err := semver.ParseReq(newVersion.String())
		if err != nil {
			return nil, err
		}
		pkg.Dependents[name] = newReq

		if !touched.Normal {
			continue
		}
		sub, began, err := pr.beginDev(ctx, dep)
		if err != nil {
			return nil, err
		}
		if began {
			results = append(results, Result{Dependent: name, Action: ActionBeganDev})
		}
		results = append(results, sub...)

		noted, err := pr.noteDependencyBump(ctx, dep, pkg.Name, newVersion)
		if err != nil {
			return nil, err
		}
		if noted {
			results = append(results, Result{Dependent: name, Action: ActionChangelogNoted})
		}
	}
	return results, nil
}

// rewriteRequirement updates dep's manifest requirement on pkgName,
// preserving the entry's shape.
func (pr *Propagator) rewriteRequirement(ctx context.Context, dep *workspace.Package, pkgName string, newVersion semver.SemVersion) (manifest.Touched, error) {
	data, err := pr.fsys.ReadFile(ctx, dep.ManifestPath)
	if err != nil {
		return manifest.Touched{}, err
	}
	out, touched, err := manifest.SetDependencyReq(data, pkgName, newVersion.String())
	if err != nil {
		return manifest.Touched{}, fmt.Errorf("updating %q dependency in %s: %w", pkgName, dep.ManifestPath, err)
	}
	if string(out) == string(data) {
		return touched, nil
	}
	return touched, pr.fsys.WriteFile(ctx, dep.ManifestPath, out, core.PermOwnerRW)
}

// BeginDev prepares pkg for its next development cycle: a package without a
// prerelease suffix moves to the next minor version with a "-dev" suffix,
// gets a fresh in-development changelog section, and has its own new version
// propagated in turn. A package already in development is left alone; the
// returned bool reports whether anything was done.
func (pr *Propagator) BeginDev(ctx context.Context, pkg *workspace.Package) ([]Result, bool, error) {
	return pr.beginDev(ctx, pkg)
}

func (pr *Propagator) beginDev(ctx context.Context, dep *workspace.Package) ([]Result, bool, error) {
	if dep.Version.IsPreRelease() {
		return nil, false, nil
	}
	next, err := semver.Bump(dep.Version, semver.BumpMinor)
	if err != nil {
		return nil, false, err
	}
	devNext := next
	devNext.PreRelease = "dev"

	data, err := pr.fsys.ReadFile(ctx, dep.ManifestPath)
	if err != nil {
		return nil, false, err
	}
	out, err := manifest.SetPackageField(data, "version", devNext.String())
	if err != nil {
		return nil, false, err
	}
	if err := pr.fsys.WriteFile(ctx, dep.ManifestPath, out, core.PermOwnerRW); err != nil {
		return nil, false, err
	}
	dep.Version = devNext

	chlogFile := dep.ChangelogFile(pr.fsys)
	if chlog, ok, err := chlogFile.Get(ctx); err != nil {
		return nil, false, err
	} else if ok {
		if len(chlog.Sections) == 0 || chlog.Sections[0].Header.Kind == changelog.KindReleased {
			chlog.InsertInProgress(next)
			if err := chlogFile.Set(ctx, chlog); err != nil {
				return nil, false, err
			}
		}
	}

	sub, err := pr.Propagate(ctx, dep, devNext)
	if err != nil {
		return nil, false, err
	}
	return sub, true, nil
}

// noteDependencyBump records the dependency change in the top section of
// dep's changelog. A bullet for the same dependency is replaced rather than
// duplicated; a package without a changelog is skipped.
func (pr *Propagator) noteDependencyBump(ctx context.Context, dep *workspace.Package, pkgName string, newVersion semver.SemVersion) (bool, error) {
	chlogFile := dep.ChangelogFile(pr.fsys)
	chlog, ok, err := chlogFile.Get(ctx)
	if err != nil || !ok {
		return false, err
	}
	if len(chlog.Sections) == 0 {
		return false, nil
	}
	prefix := fmt.Sprintf("- Increase `%s` dependency to", pkgName)
	bullet := fmt.Sprintf("- Increase `%s` dependency to `%s`", pkgName, newVersion)
	if !chlog.Sections[0].UpsertBullet(prefix, bullet) {
		return false, nil
	}
	return true, chlogFile.Set(ctx, chlog)
}
