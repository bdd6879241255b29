// Package license maintains the copyright line of a LICENSE file. Only the
// year list is ever rewritten; the prefix and author text are preserved as
// written.
package license

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/indaco/rustle/internal/core"
)

var (
	// ErrInvalidCopyright is returned for lines that do not parse as a
	// copyright statement.
	ErrInvalidCopyright = errors.New("invalid copyright line")
	// ErrNoCopyrightLine is returned when a LICENSE file contains no
	// parseable copyright line.
	ErrNoCopyrightLine = errors.New("copyright line not found in LICENSE")
)

// CopyrightLine is a parsed copyright statement: the verbatim prefix
// ("Copyright (c) " as originally spelled), a merged set of year ranges, and
// the author text.
type CopyrightLine struct {
	Prefix  string
	Authors string
	years   yearSet
}

var (
	prefixRegex = regexp.MustCompile(`^[ \t]*Copyright[ \t]+(?:\(c\)[ \t]+)?`)
	rangeRegex  = regexp.MustCompile(`^(\d+)(?:[ \t]*-[ \t]*(\d+))?`)
	sepRegex    = regexp.MustCompile(`^[ \t]*,[ \t]*`)
)

// ParseCopyrightLine parses a single copyright line.
func ParseCopyrightLine(s string) (*CopyrightLine, error) {
	prefix := prefixRegex.FindString(s)
	if prefix == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCopyright, s)
	}
	rest := s[len(prefix):]

	var years yearSet
	for {
		m := rangeRegex.FindStringSubmatch(rest)
		if m == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCopyright, s)
		}
		start, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCopyright, s)
		}
		end := start
		if m[2] != "" {
			if end, err = strconv.Atoi(m[2]); err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidCopyright, s)
			}
		}
		years.insertRange(start, end)
		rest = rest[len(m[0]):]

		sep := sepRegex.FindString(rest)
		if sep == "" {
			break
		}
		rest = rest[len(sep):]
	}

	sp := 0
	for sp < len(rest) && (rest[sp] == ' ' || rest[sp] == '\t') {
		sp++
	}
	if sp == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCopyright, s)
	}
	return &CopyrightLine{Prefix: prefix, Authors: rest[sp:], years: years}, nil
}

// AddYear inserts year into the set, merging it into adjacent or overlapping
// ranges.
func (c *CopyrightLine) AddYear(year int) {
	c.years.insertRange(year, year)
}

// Years returns the merged year ranges in ascending order.
func (c *CopyrightLine) Years() [][2]int {
	out := make([][2]int, len(c.years))
	for i, r := range c.years {
		out[i] = [2]int{r.start, r.end}
	}
	return out
}

// String renders the line: prefix, merged ranges ascending joined by ", "
// (multi-year ranges as "Y1-Y2"), a space, and the author text.
func (c *CopyrightLine) String() string {
	var sb strings.Builder
	sb.WriteString(c.Prefix)
	for i, r := range c.years {
		if i > 0 {
			sb.WriteString(", ")
		}
		if r.start == r.end {
			fmt.Fprintf(&sb, "%d", r.start)
		} else {
			fmt.Fprintf(&sb, "%d-%d", r.start, r.end)
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(c.Authors)
	return sb.String()
}

// yearSet is an ordered set of inclusive year ranges. Inserting coalesces
// overlapping and adjacent ranges, so 2021-2022 plus 2023 becomes 2021-2023.
type yearSet []yearRange

type yearRange struct {
	start, end int
}

func (ys *yearSet) insertRange(start, end int) {
	if end < start {
		start, end = end, start
	}
	merged := yearRange{start: start, end: end}
	out := (*ys)[:0:0]
	for _, r := range *ys {
		switch {
		case r.end < merged.start-1:
			out = append(out, r)
		case r.start > merged.end+1:
			out = append(out, r)
		default:
			if r.start < merged.start {
				merged.start = r.start
			}
			if r.end > merged.end {
				merged.end = r.end
			}
		}
	}
	at := len(out)
	for i, r := range out {
		if r.start > merged.end {
			at = i
			break
		}
	}
	out = append(out[:at], append(yearSet{merged}, out[at:]...)...)
	*ys = out
}

// UpdateYears rewrites the first copyright line of the LICENSE file at path,
// adding the given years to its year set. Later copyright lines and all
// other text are left untouched.
func UpdateYears(ctx context.Context, fsys core.FileSystem, path string, years []int) error {
	data, err := fsys.ReadFile(ctx, path)
	if err != nil {
		return err
	}
	lines := strings.Split(string(data), "\n")
	found := false
	for i, line := range lines {
		if found {
			break
		}
		crl, err := ParseCopyrightLine(line)
		if err != nil {
			continue
		}
		for _, y := range years {
			crl.AddYear(y)
		}
		lines[i] = crl.String()
		found = true
	}
	if !found {
		return ErrNoCopyrightLine
	}
	return fsys.WriteFile(ctx, path, []byte(strings.Join(lines, "\n")), core.PermOwnerRW)
}
