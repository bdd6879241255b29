package github

import (
	"errors"
	"fmt"
	"strings"
)

// Repo identifies a GitHub repository.
type Repo struct {
	Owner string
	Name  string
}

// ErrNotGitHubRemote is returned when a remote URL does not point at
// github.com.
var ErrNotGitHubRemote = errors.New("remote is not a GitHub repository")

// APIPath returns the repository's REST API path.
func (r Repo) APIPath() string {
	return "/repos/" + r.Owner + "/" + r.Name
}

// HTMLURL returns the repository's web address.
func (r Repo) HTMLURL() string {
	return "https://github.com/" + r.Owner + "/" + r.Name
}

// FileURL returns the web address of a file on the given branch.
func (r Repo) FileURL(branch, path string) string {
	return fmt.Sprintf("%s/blob/%s/%s", r.HTMLURL(), branch, path)
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRemoteURL extracts the repository from a git remote URL. The SSH
// shorthand (git@github.com:owner/repo.git), the ssh:// form, and the
// https:// form are all accepted.
func ParseRemoteURL(remote string) (Repo, error) {
	path := ""
	switch {
	case strings.HasPrefix(remote, "git@github.com:"):
		path = strings.TrimPrefix(remote, "git@github.com:")
	case strings.HasPrefix(remote, "ssh://git@github.com/"):
		path = strings.TrimPrefix(remote, "ssh://git@github.com/")
	case strings.HasPrefix(remote, "https://github.com/"):
		path = strings.TrimPrefix(remote, "https://github.com/")
	case strings.HasPrefix(remote, "http://github.com/"):
		path = strings.TrimPrefix(remote, "http://github.com/")
	default:
		return Repo{}, fmt.Errorf("%w: %q", ErrNotGitHubRemote, remote)
	}
	path = strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
	owner, name, found := strings.Cut(path, "/")
	if !found || owner == "" || name == "" || strings.Contains(name, "/") {
		return Repo{}, fmt.Errorf("%w: %q", ErrNotGitHubRemote, remote)
	}
	return Repo{Owner: owner, Name: name}, nil
}
