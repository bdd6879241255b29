package readme

import (
	"fmt"

	"github.com/indaco/rustle/internal/rustversion"
)

// SetRepostatusBadge replaces the existing repostatus badge with b, or
// prepends b when none is present. It reports whether the document changed.
func (r *Readme) SetRepostatusBadge(b Badge) bool {
	for i, existing := range r.Badges {
		if k, ok := existing.Kind(); ok && k == BadgeRepostatus {
			if existing == b {
				return false
			}
			r.Badges[i] = b
			return true
		}
	}
	r.Badges = append([]Badge{b}, r.Badges...)
	return true
}

// SetMSRV inserts or updates the MSRV badge. An existing badge keeps its
// position; otherwise the new badge goes directly before the license badge,
// or at the end of the badge block when there is none. It reports whether
// the document changed.
func (r *Readme) SetMSRV(v rustversion.RustVersion) bool {
	badge := Badge{
		Alt:    "MSRV",
		URL:    fmt.Sprintf("https://img.shields.io/badge/MSRV-%s-orange", v),
		Target: "https://www.rust-lang.org",
	}
	for i, existing := range r.Badges {
		if k, ok := existing.Kind(); ok && k == BadgeMSRV {
			if existing == badge {
				return false
			}
			r.Badges[i] = badge
			return true
		}
	}
	at := len(r.Badges)
	for i, existing := range r.Badges {
		if k, ok := existing.Kind(); ok && k == BadgeLicense {
			at = i
			break
		}
	}
	r.Badges = append(r.Badges[:at], append([]Badge{badge}, r.Badges[at:]...)...)
	return true
}

// EnsureCratesLinks makes sure the link line advertises the crates.io page
// for the named crate, directly after the GitHub link when there is one, and
// for libraries a docs.rs Documentation link right after that. It reports
// whether the document changed.
func (r *Readme) EnsureCratesLinks(name string, isLib bool) bool {
	changed := false
	crates := r.linkIndex("crates.io")
	if crates < 0 {
		at := 0
		if gh := r.linkIndex("GitHub"); gh >= 0 {
			at = gh + 1
		}
		r.insertLink(at, Link{Text: "crates.io", URL: "https://crates.io/crates/" + name})
		crates = at
		changed = true
	}
	if isLib && r.linkIndex("Documentation") < 0 {
		r.insertLink(crates+1, Link{Text: "Documentation", URL: "https://docs.rs/" + name})
		changed = true
	}
	return changed
}

// EnsureChangelogLink appends a Changelog link pointing at url unless one is
// already present. It reports whether the document changed.
func (r *Readme) EnsureChangelogLink(url string) bool {
	if r.linkIndex("Changelog") >= 0 {
		return false
	}
	r.Links = append(r.Links, Link{Text: "Changelog", URL: url})
	return true
}

func (r *Readme) linkIndex(text string) int {
	for i, l := range r.Links {
		if l.Text == text {
			return i
		}
	}
	return -1
}

func (r *Readme) insertLink(at int, l Link) {
	r.Links = append(r.Links[:at], append([]Link{l}, r.Links[at:]...)...)
}
