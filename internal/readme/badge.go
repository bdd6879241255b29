package readme

import (
	"errors"
	"net/url"
	"strings"
)

// BadgeKind classifies a badge by the shape of its image URL.
type BadgeKind int

const (
	// BadgeRepostatus is a www.repostatus.org project-status badge.
	BadgeRepostatus BadgeKind = iota
	// BadgeCI is a GitHub Actions workflow badge.
	BadgeCI
	// BadgeCodecov is a codecov.io coverage badge.
	BadgeCodecov
	// BadgeLicense is an img.shields.io license badge.
	BadgeLicense
	// BadgeMSRV is an img.shields.io minimum-supported-Rust-version badge.
	BadgeMSRV
)

// Kind classifies the badge. Unrecognized URLs report ok false.
func (b Badge) Kind() (BadgeKind, bool) {
	u, err := url.Parse(b.URL)
	if err != nil {
		return 0, false
	}
	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")
	switch u.Hostname() {
	case "www.repostatus.org":
		if _, ok := ParseRepostatusURL(b.URL); ok {
			return BadgeRepostatus, true
		}
	case "github.com":
		if len(segments) == 6 && segments[2] == "actions" &&
			segments[3] == "workflows" && segments[5] == "badge.svg" {
			return BadgeCI, true
		}
	case "codecov.io":
		if len(segments) == 7 && segments[3] == "branch" &&
			segments[5] == "graph" && segments[6] == "badge.svg" {
			return BadgeCodecov, true
		}
	case "img.shields.io":
		if len(segments) == 4 && segments[1] == "license" {
			return BadgeLicense, true
		}
		if len(segments) == 2 && segments[0] == "badge" &&
			strings.HasPrefix(segments[1], "MSRV-") {
			return BadgeMSRV, true
		}
	}
	return 0, false
}

// Repostatus is a www.repostatus.org project maturity status.
type Repostatus int

const (
	StatusAbandoned Repostatus = iota
	StatusActive
	StatusConcept
	StatusInactive
	StatusMoved
	StatusSuspended
	StatusUnsupported
	StatusWip
)

// ErrInvalidRepostatus is returned for text that is not a repostatus status
// name.
var ErrInvalidRepostatus = errors.New("invalid repostatus status")

var repostatusNames = map[string]Repostatus{
	"abandoned":   StatusAbandoned,
	"active":      StatusActive,
	"concept":     StatusConcept,
	"inactive":    StatusInactive,
	"moved":       StatusMoved,
	"suspended":   StatusSuspended,
	"unsupported": StatusUnsupported,
	"wip":         StatusWip,
}

// ParseRepostatus parses a status name, case-insensitively.
func ParseRepostatus(s string) (Repostatus, error) {
	if rs, ok := repostatusNames[strings.ToLower(s)]; ok {
		return rs, nil
	}
	return 0, ErrInvalidRepostatus
}

// String returns the lowercase status name as used in badge URLs.
func (rs Repostatus) String() string {
	for name, status := range repostatusNames {
		if status == rs {
			return name
		}
	}
	return "unknown"
}

const repostatusURLPrefix = "https://www.repostatus.org/badges/latest/"

// ParseRepostatusURL extracts the status from a repostatus badge image URL
// of the form https://www.repostatus.org/badges/latest/<status>.svg.
func ParseRepostatusURL(s string) (Repostatus, bool) {
	name, ok := strings.CutPrefix(s, repostatusURLPrefix)
	if !ok {
		return 0, false
	}
	name, ok = strings.CutSuffix(name, ".svg")
	if !ok {
		return 0, false
	}
	rs, err := ParseRepostatus(name)
	if err != nil {
		return 0, false
	}
	return rs, true
}

// BadgeURL returns the badge image URL for the status.
func (rs Repostatus) BadgeURL() string {
	return repostatusURLPrefix + rs.String() + ".svg"
}
