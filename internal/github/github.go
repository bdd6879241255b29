// Package github is a minimal client for the handful of GitHub REST calls
// the release flow needs: creating a release and reading or replacing
// repository topics.
package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/indaco/rustle/internal/version"
)

const apiEndpoint = "https://api.github.com"

// ErrNoToken is returned when no GitHub token can be found.
var ErrNoToken = errors.New("failed to retrieve GitHub token")

// Client talks to the GitHub REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a Client authenticating with token.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    apiEndpoint,
		token:      token,
	}
}

// AuthedClient creates a Client using the token from the GITHUB_TOKEN
// environment variable, falling back to `gh auth token`.
func AuthedClient() (*Client, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return NewClient(token), nil
	}
	out, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoToken, err)
	}
	token := strings.TrimSpace(string(out))
	if token == "" {
		return nil, ErrNoToken
	}
	return NewClient(token), nil
}

// CreateRelease describes the release to publish.
type CreateRelease struct {
	TagName    string
	Name       string
	Body       string
	Prerelease bool
}

// Release is the subset of the release object the caller cares about.
type Release struct {
	ID      int64
	HTMLURL string
}

// CreateRelease publishes a release for the tag on repo.
func (c *Client) CreateRelease(ctx context.Context, repo Repo, release CreateRelease) (*Release, error) {
	payload, _ := sjson.Set("", "tag_name", release.TagName)
	if release.Name != "" {
		payload, _ = sjson.Set(payload, "name", release.Name)
	}
	if release.Body != "" {
		payload, _ = sjson.Set(payload, "body", release.Body)
	}
	payload, _ = sjson.Set(payload, "prerelease", release.Prerelease)

	resp, err := c.do(ctx, http.MethodPost, repo.APIPath()+"/releases", payload)
	if err != nil {
		return nil, err
	}
	return &Release{
		ID:      gjson.Get(resp, "id").Int(),
		HTMLURL: gjson.Get(resp, "html_url").String(),
	}, nil
}

// GetTopics returns the repository's topics.
func (c *Client) GetTopics(ctx context.Context, repo Repo) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, repo.APIPath()+"/topics", "")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, name := range gjson.Get(resp, "names").Array() {
		topics = append(topics, name.String())
	}
	return topics, nil
}

// SetTopics replaces the repository's topics.
func (c *Client) SetTopics(ctx context.Context, repo Repo, topics []string) error {
	payload, _ := sjson.Set("", "names", topics)
	_, err := c.do(ctx, http.MethodPut, repo.APIPath()+"/topics", payload)
	return err
}

// NormalizeTopic maps s to a valid GitHub topic: lowercase, ASCII
// alphanumerics with every other character replaced by "-", at most 50
// characters.
func NormalizeTopic(s string) string {
	var sb strings.Builder
	for _, ch := range s {
		if sb.Len() >= 50 {
			break
		}
		switch {
		case ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9':
			sb.WriteRune(ch)
		case ch >= 'A' && ch <= 'Z':
			sb.WriteRune(ch + ('a' - 'A'))
		default:
			sb.WriteByte('-')
		}
	}
	return sb.String()
}

func (c *Client) do(ctx context.Context, method, path, payload string) (string, error) {
	var body io.Reader
	if payload != "" {
		body = bytes.NewReader([]byte(payload))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "rustle/"+version.Version)
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make %s request to %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", path, err)
	}
	if resp.StatusCode >= 400 {
		msg := gjson.GetBytes(data, "message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("%s request to %s returned %d: %s", method, path, resp.StatusCode, msg)
	}
	return string(data), nil
}
