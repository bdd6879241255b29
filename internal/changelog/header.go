package changelog

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/indaco/rustle/internal/semver"
)

// HeaderKind classifies a section header.
type HeaderKind int

const (
	// KindReleased is a published version with its release date,
	// e.g. "v1.2.3 (2026-08-28)".
	KindReleased HeaderKind = iota
	// KindInProgress is a version under development, e.g.
	// "v1.3.0-dev (in development)".
	KindInProgress
	// KindInDevelopment is the bare "In Development" title with no version.
	KindInDevelopment
)

// Header is a parsed section title. Version is meaningful for KindReleased
// and KindInProgress; Date only for KindReleased.
type Header struct {
	Kind    HeaderKind
	Version semver.SemVersion
	Date    time.Time
}

// dateLayout is the release-date format used in section headers.
const dateLayout = "2006-01-02"

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ParseHeader parses a section title line. The "v" prefix and the
// "in development" marker are matched case-insensitively; String always
// writes the canonical lowercase forms.
func ParseHeader(s string) (Header, error) {
	if strings.EqualFold(s, "In Development") {
		return Header{Kind: KindInDevelopment}, nil
	}

	if len(s) == 0 || (s[0] != 'v' && s[0] != 'V') {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
	rest := s[1:]

	sp := strings.IndexAny(rest, " \t")
	if sp < 0 {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
	version, err := semver.ParseVersion(rest[:sp])
	if err != nil {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}

	rest = strings.TrimLeft(rest[sp:], " \t")
	if len(rest) < 2 || rest[0] != '(' || rest[len(rest)-1] != ')' {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
	inner := rest[1 : len(rest)-1]

	if strings.EqualFold(inner, "in development") {
		return Header{Kind: KindInProgress, Version: version}, nil
	}
	if !dateRegex.MatchString(inner) {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
	date, err := time.Parse(dateLayout, inner)
	if err != nil {
		return Header{}, fmt.Errorf("%w: %q", ErrInvalidHeader, s)
	}
	return Header{Kind: KindReleased, Version: version, Date: date}, nil
}

// String renders the canonical form of the header.
func (h Header) String() string {
	switch h.Kind {
	case KindReleased:
		return fmt.Sprintf("v%s (%s)", h.Version, h.Date.Format(dateLayout))
	case KindInProgress:
		return fmt.Sprintf("v%s (in development)", h.Version)
	default:
		return "In Development"
	}
}
