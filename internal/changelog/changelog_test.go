package changelog

import (
	"errors"
	"testing"
	"time"

	"github.com/indaco/rustle/internal/semver"
)

const sampleTwoBlank = `In Development
--------------

- Something pending.


v0.2.0 (2026-05-01)
-------------------

- Added a feature.

- Fixed a bug.


v0.1.0 (2026-01-15)
-------------------

- Initial release.
`

const sampleOneBlank = `v0.2.0 (2026-05-01)
-------------------
- Added a feature.

v0.1.0 (2026-01-15)
-------------------
- Initial release.
`

func TestParse_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"two blank separator", sampleTwoBlank},
		{"one blank separator", sampleOneBlank},
		{"single section", "v1.0.0 (2026-08-28)\n-------------------\n- Done.\n"},
		{"empty body", "In Development\n--------------\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := doc.String(); got != tt.input {
				t.Errorf("round trip mismatch:\n got %q\nwant %q", got, tt.input)
			}
		})
	}
}

func TestParse_TrimsTrailingBlankLines(t *testing.T) {
	input := "v1.0.0 (2026-08-28)\n-------------------\n- Done.\n\n\n\n"
	doc, err := Parse(input)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Sections[0].Content; got != "- Done.\n" {
		t.Errorf("Content = %q, want %q", got, "- Done.\n")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"hrule first", "----\ntext\n", ErrUnexpectedHrule},
		{"hrule after hrule", "In Development\n--------------\n-----\n", ErrUnexpectedHrule},
		{"text before header", "stray line\nanother\n", ErrTextBeforeHeader},
		{"single stray line", "stray line\n", ErrTextBeforeHeader},
		{"bad title", "not a header\n------------\n", ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	doc, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Sections) != 0 {
		t.Errorf("expected no sections, got %d", len(doc.Sections))
	}
	if doc.String() != "" {
		t.Errorf("String() = %q, want empty", doc.String())
	}
}

func TestParseHeader(t *testing.T) {
	tests := []struct {
		input     string
		wantKind  HeaderKind
		canonical string
		wantErr   bool
	}{
		{"v1.2.3 (2026-08-28)", KindReleased, "v1.2.3 (2026-08-28)", false},
		{"v1.3.0-dev (in development)", KindInProgress, "v1.3.0-dev (in development)", false},
		{"In Development", KindInDevelopment, "In Development", false},
		{"in development", KindInDevelopment, "In Development", false},
		{"V1.2.3 (IN DEVELOPMENT)", KindInProgress, "v1.2.3 (in development)", false},
		{"v1.2.3 (In Development)", KindInProgress, "v1.2.3 (in development)", false},
		{"v1.2.3", 0, "", true},
		{"1.2.3 (2026-08-28)", 0, "", true},
		{"v1.2 (2026-08-28)", 0, "", true},
		{"v1.2.3 (yesterday)", 0, "", true},
		{"v1.2.3 (2026-13-01)", 0, "", true},
		{"", 0, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			h, err := ParseHeader(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseHeader(%q): expected error, got %+v", tt.input, h)
				}
				if !errors.Is(err, ErrInvalidHeader) {
					t.Errorf("error %v is not ErrInvalidHeader", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHeader(%q): unexpected error: %v", tt.input, err)
			}
			if h.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", h.Kind, tt.wantKind)
			}
			if got := h.String(); got != tt.canonical {
				t.Errorf("String() = %q, want %q", got, tt.canonical)
			}
		})
	}
}

func TestSection_UpsertBullet(t *testing.T) {
	t.Run("replace existing", func(t *testing.T) {
		s := Section{Content: "- First.\n- Increase MSRV to 1.69.\n- Last.\n"}
		if !s.UpsertBullet("- Increase MSRV to", "- Increase MSRV to 1.70.") {
			t.Fatal("expected change")
		}
		want := "- First.\n- Increase MSRV to 1.70.\n- Last.\n"
		if s.Content != want {
			t.Errorf("Content = %q, want %q", s.Content, want)
		}
	})

	t.Run("append keeps trailing blanks", func(t *testing.T) {
		s := Section{Content: "- First.\n\n"}
		if !s.UpsertBullet("- Increase MSRV to", "- Increase MSRV to 1.70.") {
			t.Fatal("expected change")
		}
		want := "- First.\n- Increase MSRV to 1.70.\n\n"
		if s.Content != want {
			t.Errorf("Content = %q, want %q", s.Content, want)
		}
	})

	t.Run("append to empty section", func(t *testing.T) {
		s := Section{}
		s.UpsertBullet("- Increase", "- Increase MSRV to 1.70.")
		if s.Content != "- Increase MSRV to 1.70.\n" {
			t.Errorf("Content = %q", s.Content)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		s := Section{Content: "- Increase MSRV to 1.70.\n"}
		if s.UpsertBullet("- Increase MSRV to", "- Increase MSRV to 1.70.") {
			t.Error("second identical upsert should report no change")
		}
	})
}

func TestChangelog_ReleaseTop(t *testing.T) {
	v := semver.SemVersion{Minor: 2}
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	t.Run("stamps in-development section", func(t *testing.T) {
		doc, err := Parse("In Development\n--------------\n- Pending.\n")
		if err != nil {
			t.Fatal(err)
		}
		if err := doc.ReleaseTop(v, date); err != nil {
			t.Fatal(err)
		}
		want := "v0.2.0 (2026-08-28)\n-------------------\n- Pending.\n"
		if got := doc.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	})

	t.Run("already released", func(t *testing.T) {
		doc, err := Parse("v0.1.0 (2026-01-15)\n-------------------\n- Old.\n")
		if err != nil {
			t.Fatal(err)
		}
		if err := doc.ReleaseTop(v, date); !errors.Is(err, ErrNothingToRelease) {
			t.Errorf("error = %v, want ErrNothingToRelease", err)
		}
	})

	t.Run("empty changelog", func(t *testing.T) {
		doc := &Changelog{}
		if err := doc.ReleaseTop(v, date); !errors.Is(err, ErrNothingToRelease) {
			t.Errorf("error = %v, want ErrNothingToRelease", err)
		}
	})
}

func TestChangelog_InsertInProgress(t *testing.T) {
	doc, err := Parse("v0.1.0 (2026-01-15)\n-------------------\n- Old.\n")
	if err != nil {
		t.Fatal(err)
	}
	doc.InsertInProgress(semver.SemVersion{Minor: 2, PreRelease: "dev"})
	if len(doc.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(doc.Sections))
	}
	if got := doc.Sections[0].Header.String(); got != "v0.2.0-dev (in development)" {
		t.Errorf("top header = %q", got)
	}
	if doc.Sections[0].Content != "" {
		t.Errorf("new section content = %q, want empty", doc.Sections[0].Content)
	}
}
