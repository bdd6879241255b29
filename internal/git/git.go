// Package git shells out to the git binary. All commands run in the
// directory the Git value was created for.
package git

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
)

// Git runs git subcommands in a fixed working directory.
type Git struct {
	dir         string
	execCommand func(name string, arg ...string) *exec.Cmd
}

// New creates a Git runner rooted at dir, using the real git binary.
func New(dir string) *Git {
	return &Git{
		dir:         dir,
		execCommand: exec.Command,
	}
}

// LatestTag returns the most recently created tag. ok is false when the
// repository has no tags.
func (g *Git) LatestTag() (tag string, ok bool, err error) {
	lines, err := g.readLines("tag", "-l", "--sort=-creatordate")
	if err != nil {
		return "", false, err
	}
	if len(lines) == 0 {
		return "", false, nil
	}
	return lines[0], true, nil
}

// TagExists reports whether the named tag exists.
func (g *Git) TagExists(name string) (bool, error) {
	out, err := g.read("tag", "-l", name)
	if err != nil {
		return false, fmt.Errorf("failed to list tags: %w", err)
	}
	return out == name, nil
}

// CommitYears returns the distinct years of all commits on the current
// branch, ascending.
func (g *Git) CommitYears() ([]int, error) {
	lines, err := g.readLines("log", "--format=%ad", "--date=format:%Y")
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	for _, line := range lines {
		year, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("error parsing Git commit years: %w", err)
		}
		seen[year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

// DefaultBranch returns the repository's default branch: init.defaultBranch
// when it names an existing branch, else the first conventional name that
// exists.
func (g *Git) DefaultBranch() (string, error) {
	lines, err := g.readLines("branch", "--format=%(refname:short)")
	if err != nil {
		return "", err
	}
	branches := make(map[string]bool, len(lines))
	for _, b := range lines {
		branches[b] = true
	}
	if configured, ok, err := g.ConfigGet("init.defaultBranch"); err != nil {
		return "", err
	} else if ok && branches[configured] {
		return configured, nil
	}
	for _, guess := range []string{"main", "master", "trunk", "draft"} {
		if branches[guess] {
			return guess, nil
		}
	}
	return "", fmt.Errorf("could not determine default Git branch")
}

// UntrackedFiles returns the paths of files not tracked and not ignored,
// relative to the repository toplevel.
func (g *Git) UntrackedFiles() ([]string, error) {
	return g.readLines("ls-files", "--others", "--exclude-standard")
}

// Toplevel returns the absolute path of the repository root.
func (g *Git) Toplevel() (string, error) {
	return g.read("rev-parse", "--show-toplevel")
}

// CommitAll commits all tracked changes with the given message.
func (g *Git) CommitAll(message string) error {
	if err := g.run("commit", "-a", "-m", message); err != nil {
		return fmt.Errorf("git commit failed: %w", err)
	}
	return nil
}

// CreateTag creates an annotated (or signed) tag with a message.
func (g *Git) CreateTag(name, message string, signed bool) error {
	args := []string{"tag", "-a"}
	if signed {
		args = []string{"tag", "-s"}
	}
	args = append(args, "-m", message, name)
	if err := g.run(args...); err != nil {
		return fmt.Errorf("git tag failed: %w", err)
	}
	return nil
}

// PushFollowTags pushes the current branch along with any tags that point at
// pushed commits.
func (g *Git) PushFollowTags() error {
	if err := g.run("push", "--follow-tags"); err != nil {
		return fmt.Errorf("git push failed: %w", err)
	}
	return nil
}

// CommitMessage returns the subject and body of the commit named by rev.
func (g *Git) CommitMessage(rev string) (subject, body string, err error) {
	out, err := g.read("show", "-s", "--format=%s%x00%b", rev)
	if err != nil {
		return "", "", err
	}
	subject, body, found := strings.Cut(out, "\x00")
	if !found {
		return "", "", fmt.Errorf("unexpected `git show` output: %q", out)
	}
	return subject, strings.TrimSpace(body), nil
}

// RemoteURL returns the fetch URL of the named remote.
func (g *Git) RemoteURL(remote string) (string, error) {
	out, err := g.read("remote", "get-url", remote)
	if err != nil {
		return "", fmt.Errorf("failed to get URL of remote %q: %w", remote, err)
	}
	return out, nil
}

// ConfigGet returns the value of a git config key. ok is false when the key
// is unset.
func (g *Git) ConfigGet(key string) (string, bool, error) {
	cmd := g.execCommand("git", "config", "--get", "--", key)
	cmd.Dir = g.dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", false, nil
		}
		return "", false, err
	}
	return strings.TrimSpace(stdout.String()), true, nil
}

func (g *Git) run(args ...string) error {
	cmd := g.execCommand("git", args...)
	cmd.Dir = g.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w", msg, err)
		}
		return err
	}
	return nil
}

func (g *Git) read(args ...string) (string, error) {
	cmd := g.execCommand("git", args...)
	cmd.Dir = g.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w", msg, err)
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (g *Git) readLines(args ...string) ([]string, error) {
	out, err := g.read(args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
