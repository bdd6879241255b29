package semver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ReqOp identifies the operator of a version requirement.
type ReqOp int

const (
	// OpCaret is Cargo's default operator: compatible within the leftmost
	// non-zero component. A bare "1.2.3" means "^1.2.3".
	OpCaret ReqOp = iota
	// OpExact pins a single version ("=1.2.3").
	OpExact
)

// ErrInvalidRequirement is returned for requirement strings this tool does
// not understand (wildcards, tilde and comparison ranges are not needed for
// workspace path dependencies).
var ErrInvalidRequirement = errors.New("invalid version requirement")

// Req is a Cargo version requirement on a workspace package.
// The original source text is retained so an untouched requirement
// re-serializes byte for byte.
type Req struct {
	raw       string
	op        ReqOp
	base      SemVersion
	precision int // how many of major.minor.patch were written (1..3)
}

// ParseReq parses a Cargo caret or exact requirement. Partial versions
// ("1", "0.3") are accepted the way Cargo accepts them.
func ParseReq(s string) (Req, error) {
	raw := s
	trimmed := strings.TrimSpace(s)
	op := OpCaret
	switch {
	case strings.HasPrefix(trimmed, "^"):
		trimmed = strings.TrimSpace(trimmed[1:])
	case strings.HasPrefix(trimmed, "="):
		op = OpExact
		trimmed = strings.TrimSpace(trimmed[1:])
	}
	if trimmed == "" || strings.ContainsAny(trimmed, "*<>~, ") {
		return Req{}, fmt.Errorf("%w: %q", ErrInvalidRequirement, s)
	}

	base, precision, err := parsePartialVersion(trimmed)
	if err != nil {
		return Req{}, fmt.Errorf("%w: %q", ErrInvalidRequirement, s)
	}
	return Req{raw: raw, op: op, base: base, precision: precision}, nil
}

// MustParseReq is ParseReq that panics on error, for literals in tests.
func MustParseReq(s string) Req {
	r, err := ParseReq(s)
	if err != nil {
		panic(err)
	}
	return r
}

// String returns the requirement exactly as it was written.
func (r Req) String() string {
	return r.raw
}

// Base returns the version the requirement was anchored on.
func (r Req) Base() SemVersion {
	return r.base
}

// Matches reports whether v satisfies the requirement under Cargo semantics.
// A pre-release version only matches when the requirement base itself names a
// pre-release of the same major.minor.patch triple; conversely a base with a
// pre-release still admits the corresponding plain release.
func (r Req) Matches(v SemVersion) bool {
	if r.op == OpExact {
		return v.Compare(r.base) == 0 && v.PreRelease == r.base.PreRelease
	}

	if v.IsPreRelease() {
		if !r.base.IsPreRelease() {
			return false
		}
		if v.Major != r.base.Major || v.Minor != r.base.Minor || v.Patch != r.base.Patch {
			return false
		}
	}

	if v.Compare(r.base) < 0 {
		return false
	}
	return v.Compare(r.upperBound()) < 0
}

// DisagreesOnPreRelease reports whether the requirement anchors on a
// pre-release while v is a plain release. Cargo's caret semantics make such a
// requirement match the plain release anyway, so callers that care about
// pre-release agreement must check this explicitly.
func (r Req) DisagreesOnPreRelease(v SemVersion) bool {
	return r.base.IsPreRelease() && !v.IsPreRelease()
}

// upperBound returns the exclusive upper limit of the caret range: the next
// version that bumps the leftmost non-zero (or rightmost written) component.
func (r Req) upperBound() SemVersion {
	b := r.base
	switch {
	case b.Major > 0 || r.precision == 1:
		return SemVersion{Major: b.Major + 1}
	case b.Minor > 0 || r.precision == 2:
		return SemVersion{Minor: b.Minor + 1}
	default:
		return SemVersion{Patch: b.Patch + 1}
	}
}

func parsePartialVersion(s string) (SemVersion, int, error) {
	core := s
	var pre string
	if i := strings.IndexByte(s, '-'); i >= 0 {
		core, pre = s[:i], s[i+1:]
		if pre == "" {
			return SemVersion{}, 0, ErrInvalidRequirement
		}
	}

	parts := strings.Split(core, ".")
	if len(parts) > 3 {
		return SemVersion{}, 0, ErrInvalidRequirement
	}
	if pre != "" && len(parts) != 3 {
		return SemVersion{}, 0, ErrInvalidRequirement
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return SemVersion{}, 0, ErrInvalidRequirement
		}
		nums[i] = n
	}
	return SemVersion{Major: nums[0], Minor: nums[1], Patch: nums[2], PreRelease: pre}, len(parts), nil
}
