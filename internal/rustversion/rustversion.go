// Package rustversion models Rust toolchain versions of the form
// "major.minor" or "major.minor.patch", as used for MSRV declarations.
package rustversion

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// RustVersion is a Rust toolchain version. Patch is optional and its absence
// is preserved through round trips ("1.70" stays "1.70").
type RustVersion struct {
	Major int
	Minor int
	Patch int
	// HasPatch records whether the patch component was written at all.
	HasPatch bool
}

// ErrInvalidRustVersion is returned for text that is not an X.Y or X.Y.Z
// version.
var ErrInvalidRustVersion = errors.New("invalid Rust version/MSRV")

var rustVersionRegex = regexp.MustCompile(`^v?(\d+)\.(\d+)(?:\.(\d+))?$`)

// Parse parses a Rust version. A leading "v" is accepted and discarded.
func Parse(s string) (RustVersion, error) {
	matches := rustVersionRegex.FindStringSubmatch(s)
	if matches == nil {
		return RustVersion{}, fmt.Errorf("%w: %q", ErrInvalidRustVersion, s)
	}

	major, err := strconv.Atoi(matches[1])
	if err != nil {
		return RustVersion{}, fmt.Errorf("%w: %q", ErrInvalidRustVersion, s)
	}
	minor, err := strconv.Atoi(matches[2])
	if err != nil {
		return RustVersion{}, fmt.Errorf("%w: %q", ErrInvalidRustVersion, s)
	}

	rv := RustVersion{Major: major, Minor: minor}
	if matches[3] != "" {
		patch, err := strconv.Atoi(matches[3])
		if err != nil {
			return RustVersion{}, fmt.Errorf("%w: %q", ErrInvalidRustVersion, s)
		}
		rv.Patch = patch
		rv.HasPatch = true
	}
	return rv, nil
}

// String formats the version without a "v" prefix, omitting the patch
// component when it was not written.
func (rv RustVersion) String() string {
	if rv.HasPatch {
		return fmt.Sprintf("%d.%d.%d", rv.Major, rv.Minor, rv.Patch)
	}
	return fmt.Sprintf("%d.%d", rv.Major, rv.Minor)
}

// Compare returns -1, 0, or +1 ordering rv against other. A missing patch
// component compares as zero ("1.70" == "1.70.0").
func (rv RustVersion) Compare(other RustVersion) int {
	for _, pair := range [][2]int{
		{rv.Major, other.Major},
		{rv.Minor, other.Minor},
		{rv.Patch, other.Patch},
	} {
		switch {
		case pair[0] < pair[1]:
			return -1
		case pair[0] > pair[1]:
			return 1
		}
	}
	return 0
}
