// Package readme parses and rewrites the badge/link header of a project
// README. The format is narrow on purpose: one or more badge image lines, a
// blank line, an optional pipe-separated link line, a blank line, and then
// the body kept verbatim. Re-serializing an untouched parse reproduces the
// input byte for byte.
package readme

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidReadme is returned when the badge/link header cannot be parsed.
var ErrInvalidReadme = errors.New("invalid readme")

// Readme is the parsed document: the badge block, the link line, and the
// untouched remainder of the file.
type Readme struct {
	Badges []Badge
	Links  []Link
	Body   string
}

// Badge is one badge image line: [![alt](url)](target).
type Badge struct {
	URL    string
	Alt    string
	Target string
}

// Link is one [text](url) entry of the link line.
type Link struct {
	URL  string
	Text string
}

var (
	badgeRegex = regexp.MustCompile(`^\[!\[([^\]]+)\]\(([^)]+)\)\]\(([^)]+)\)$`)
	linkRegex  = regexp.MustCompile(`^\[([^\]]+)\]\(([^)]+)\)$`)
)

// Parse parses a README document.
func Parse(s string) (*Readme, error) {
	rest := s

	var badges []Badge
	for {
		line, after, found := strings.Cut(rest, "\n")
		if !found {
			break
		}
		m := badgeRegex.FindStringSubmatch(line)
		if m == nil {
			break
		}
		badges = append(badges, Badge{Alt: m[1], URL: m[2], Target: m[3]})
		rest = after
	}
	if len(badges) == 0 {
		return nil, fmt.Errorf("%w: no badge lines", ErrInvalidReadme)
	}

	line, after, found := strings.Cut(rest, "\n")
	if !found || line != "" {
		return nil, fmt.Errorf("%w: badge block not followed by a blank line", ErrInvalidReadme)
	}
	rest = after

	var links []Link
	if line, after, found := strings.Cut(rest, "\n"); found && isLinkLine(line) {
		for _, part := range strings.Split(line, " | ") {
			m := linkRegex.FindStringSubmatch(part)
			if m == nil {
				return nil, fmt.Errorf("%w: malformed link %q", ErrInvalidReadme, part)
			}
			links = append(links, Link{Text: m[1], URL: m[2]})
		}
		blank, after, found := strings.Cut(after, "\n")
		if !found || blank != "" {
			return nil, fmt.Errorf("%w: link line not followed by a blank line", ErrInvalidReadme)
		}
		rest = after
	}

	return &Readme{Badges: badges, Links: links, Body: rest}, nil
}

// String serializes the document back to its on-disk form.
func (r *Readme) String() string {
	var sb strings.Builder
	for _, b := range r.Badges {
		sb.WriteString(b.String())
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	if len(r.Links) > 0 {
		parts := make([]string, len(r.Links))
		for i, l := range r.Links {
			parts[i] = l.String()
		}
		sb.WriteString(strings.Join(parts, " | "))
		sb.WriteString("\n\n")
	}
	sb.WriteString(r.Body)
	return sb.String()
}

func (b Badge) String() string {
	return fmt.Sprintf("[![%s](%s)](%s)", b.Alt, b.URL, b.Target)
}

func (l Link) String() string {
	return fmt.Sprintf("[%s](%s)", l.Text, l.URL)
}

// Repostatus returns the project status encoded by the repostatus badge, if
// one is present.
func (r *Readme) Repostatus() (Repostatus, bool) {
	for _, b := range r.Badges {
		if k, ok := b.Kind(); ok && k == BadgeRepostatus {
			return ParseRepostatusURL(b.URL)
		}
	}
	return 0, false
}

// isLinkLine reports whether line looks like a pipe-separated link line: it
// contains a "|" with a space or tab on both sides.
func isLinkLine(line string) bool {
	for i := 1; i < len(line)-1; i++ {
		if line[i] == '|' && isLinkSpace(line[i-1]) && isLinkSpace(line[i+1]) {
			return true
		}
	}
	return false
}

func isLinkSpace(c byte) bool {
	return c == ' ' || c == '\t'
}
