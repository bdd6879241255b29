package github

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-token")
	c.baseURL = srv.URL
	return c
}

func TestCreateRelease(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/octocat/widget/releases" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "token test-token" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if gjson.GetBytes(body, "tag_name").String() != "v1.2.3" {
			t.Errorf("body = %s", body)
		}
		if !gjson.GetBytes(body, "prerelease").Exists() {
			t.Errorf("prerelease missing from body: %s", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 7, "html_url": "https://github.com/octocat/widget/releases/tag/v1.2.3"}`))
	})

	rel, err := c.CreateRelease(context.Background(), Repo{Owner: "octocat", Name: "widget"}, CreateRelease{
		TagName: "v1.2.3",
		Name:    "Version 1.2.3",
		Body:    "- Added stuff.",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rel.ID != 7 || !strings.HasSuffix(rel.HTMLURL, "v1.2.3") {
		t.Errorf("release = %+v", rel)
	}
}

func TestGetSetTopics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"names": ["rust", "work-in-progress"]}`))
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			names := gjson.GetBytes(body, "names").Array()
			if len(names) != 1 || names[0].String() != "rust" {
				t.Errorf("PUT body = %s", body)
			}
			_, _ = w.Write(body)
		}
	})

	repo := Repo{Owner: "octocat", Name: "widget"}
	topics, err := c.GetTopics(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 2 || topics[1] != "work-in-progress" {
		t.Errorf("topics = %v", topics)
	}
	if err := c.SetTopics(context.Background(), repo, []string{"rust"}); err != nil {
		t.Fatal(err)
	}
}

func TestDo_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message": "Validation Failed"}`))
	})
	_, err := c.GetTopics(context.Background(), Repo{Owner: "o", Name: "r"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Validation Failed") {
		t.Errorf("error %q lacks API message", err)
	}
}

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"work-in-progress", "work-in-progress"},
		{"Julian day", "julian-day"},
		{"UPPER", "upper"},
	}
	for _, tt := range tests {
		if got := NormalizeTopic(tt.in); got != tt.want {
			t.Errorf("NormalizeTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	long := NormalizeTopic(strings.Repeat("a", 80))
	if len(long) != 50 {
		t.Errorf("len = %d, want 50", len(long))
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		input   string
		want    Repo
		wantErr bool
	}{
		{"git@github.com:octocat/widget.git", Repo{"octocat", "widget"}, false},
		{"ssh://git@github.com/octocat/widget.git", Repo{"octocat", "widget"}, false},
		{"https://github.com/octocat/widget", Repo{"octocat", "widget"}, false},
		{"https://github.com/octocat/widget.git", Repo{"octocat", "widget"}, false},
		{"https://gitlab.com/octocat/widget", Repo{}, true},
		{"git@github.com:broken", Repo{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRemoteURL(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrNotGitHubRemote) {
					t.Fatalf("error = %v, want ErrNotGitHubRemote", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ParseRemoteURL(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
