package changelog

import (
	"errors"
	"time"

	"github.com/indaco/rustle/internal/semver"
)

// ErrNothingToRelease is returned by ReleaseTop when the changelog has no
// unreleased section to stamp.
var ErrNothingToRelease = errors.New("no changelog section to update")

// ReleaseTop stamps the top section as released under version and date. The
// top section must be an In Development or in-development-version header;
// releasing an already released section is an error.
func (c *Changelog) ReleaseTop(version semver.SemVersion, date time.Time) error {
	if len(c.Sections) == 0 || c.Sections[0].Header.Kind == KindReleased {
		return ErrNothingToRelease
	}
	c.Sections[0].Header = Header{Kind: KindReleased, Version: version, Date: date}
	return nil
}

// InsertInProgress pushes a fresh empty in-development section for version on
// top of the changelog.
func (c *Changelog) InsertInProgress(version semver.SemVersion) {
	sect := Section{Header: Header{Kind: KindInProgress, Version: version}}
	c.Sections = append([]Section{sect}, c.Sections...)
}
