// Package changelog models the release-notes file rustle maintains: a stack
// of sections, newest first, each headed by a title line underlined with a
// hrule of dashes. Parsing and serialization are exact inverses on untouched
// input; command code relies on that to rewrite only what it changed.
package changelog

import (
	"errors"
	"strings"
)

// Parse errors. All of them are fatal; callers never recover a partial
// document.
var (
	ErrUnexpectedHrule  = errors.New("unexpected hrule")
	ErrTextBeforeHeader = errors.New("text before first header")
	ErrInvalidHeader    = errors.New("invalid changelog header title")
)

// Changelog is an ordered list of sections, newest first. Section 0 reflects
// the current unreleased or most recent state.
type Changelog struct {
	Sections []Section
}

// Section is one changelog entry: a header plus its body text. Content holds
// the body lines, each terminated with a newline, with trailing blank lines
// trimmed.
type Section struct {
	Header  Header
	Content string
}

// Parse parses a changelog document.
//
// The scan keeps a one-line lookback: when a hrule appears, the buffered
// previous line becomes the header of a new section and subsequent lines
// accumulate as its body until the next header or EOF.
func Parse(s string) (*Changelog, error) {
	var (
		sections []Section
		current  *sectionBuilder
		prev     *string
	)
	for _, line := range splitLines(s) {
		if isHrule(line) {
			if current != nil {
				sections = append(sections, current.build())
				current = nil
			}
			if prev == nil {
				return nil, ErrUnexpectedHrule
			}
			header, err := ParseHeader(*prev)
			if err != nil {
				return nil, err
			}
			prev = nil
			current = &sectionBuilder{header: header}
		} else {
			line := line
			old := prev
			prev = &line
			if old != nil {
				if current == nil {
					return nil, ErrTextBeforeHeader
				}
				current.push(*old)
			}
		}
	}
	if prev != nil {
		if current == nil {
			return nil, ErrTextBeforeHeader
		}
		current.push(*prev)
	}
	if current != nil {
		sections = append(sections, current.build())
	}
	return &Changelog{Sections: sections}, nil
}

// String serializes the changelog. Sections are joined with one blank line,
// or with two when any section body itself contains a blank line; the wider
// separator keeps the join unambiguous and is what makes the round trip
// byte-exact.
func (c *Changelog) String() string {
	rendered := make([]string, len(c.Sections))
	twoBlank := false
	for i, sect := range c.Sections {
		rendered[i] = sect.String()
		if strings.Contains(rendered[i], "\n\n") {
			twoBlank = true
		}
	}
	sep := "\n"
	if twoBlank {
		sep = "\n\n"
	}
	return strings.Join(rendered, sep)
}

// String serializes one section: the header line, a hrule matching its
// length, then the body.
func (s Section) String() string {
	header := s.Header.String()
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("-", len(header)))
	sb.WriteByte('\n')
	sb.WriteString(s.Content)
	return sb.String()
}

// UpsertBullet replaces the first body line starting with prefix, or appends
// the bullet ahead of any trailing blank lines when no such line exists.
// It reports whether the section changed, so a second identical call is a
// no-op.
func (s *Section) UpsertBullet(prefix, bullet string) bool {
	var sb strings.Builder
	replaced := false
	for _, ln := range splitLines(s.Content) {
		if strings.HasPrefix(ln, prefix) && !replaced {
			sb.WriteString(bullet)
			replaced = true
		} else {
			sb.WriteString(ln)
		}
		sb.WriteByte('\n')
	}
	content := sb.String()
	if !replaced {
		blanks := 0
		for strings.HasSuffix(content, "\n\n") {
			content = content[:len(content)-1]
			blanks++
		}
		content += bullet + "\n" + strings.Repeat("\n", blanks)
	}
	if content == s.Content {
		return false
	}
	s.Content = content
	return true
}

type sectionBuilder struct {
	header Header
	lines  []string
}

func (b *sectionBuilder) push(line string) {
	b.lines = append(b.lines, line)
}

func (b *sectionBuilder) build() Section {
	lines := b.lines
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var sb strings.Builder
	for _, ln := range lines {
		sb.WriteString(ln)
		sb.WriteByte('\n')
	}
	return Section{Header: b.header, Content: sb.String()}
}

// isHrule reports whether line is an underline of three or more dashes and
// nothing else.
func isHrule(line string) bool {
	if len(line) < 3 {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] != '-' {
			return false
		}
	}
	return true
}

// splitLines splits on newlines the way the serializer writes them: the
// final newline does not produce an empty trailing line, and a trailing
// carriage return is stripped.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}
