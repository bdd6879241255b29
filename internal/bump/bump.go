// Package bump decides the next release version from the latest Git tag,
// the manifest version, and what the user asked for.
package bump

import (
	"errors"

	"github.com/indaco/rustle/internal/semver"
)

var (
	// ErrNoTagToBump is returned when a bump level is requested but the
	// repository has no tag to bump from.
	ErrNoTagToBump = errors.New("no Git tag to bump")
	// ErrPrereleaseTag is returned when a bump level is requested but the
	// latest tag is a prerelease.
	ErrPrereleaseTag = errors.New("latest Git tag is a prerelease; cannot bump")
	// ErrTagNotBelowManifest is returned when the latest tagged version is
	// at or ahead of the manifest version.
	ErrTagNotBelowManifest = errors.New("latest Git-tagged version exceeds manifest version")
)

// Next computes the version to release.
//
//   - explicit, when given, is used verbatim and bypasses every check.
//   - A bump level requires an existing, non-prerelease tag; the result is
//     the tag bumped at that level.
//   - Otherwise any existing tag must be strictly below the manifest
//     version, and the result is the manifest version with prerelease and
//     build metadata stripped.
func Next(tag *semver.SemVersion, manifest semver.SemVersion, explicit *semver.SemVersion, level semver.BumpLevel) (semver.SemVersion, error) {
	if explicit != nil {
		return *explicit, nil
	}
	if level != "" {
		if tag == nil {
			return semver.SemVersion{}, ErrNoTagToBump
		}
		if tag.IsPreRelease() {
			return semver.SemVersion{}, ErrPrereleaseTag
		}
		return semver.Bump(*tag, level)
	}
	if tag != nil && tag.Compare(manifest) >= 0 {
		return semver.SemVersion{}, ErrTagNotBelowManifest
	}
	return manifest.Core(), nil
}
