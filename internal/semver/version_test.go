package semver

import (
	"errors"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		input   string
		want    SemVersion
		wantErr bool
	}{
		{"1.2.3", SemVersion{Major: 1, Minor: 2, Patch: 3}, false},
		{"v1.2.3", SemVersion{Major: 1, Minor: 2, Patch: 3}, false},
		{"0.3.0-dev", SemVersion{Minor: 3, PreRelease: "dev"}, false},
		{"1.2.3-alpha.1", SemVersion{Major: 1, Minor: 2, Patch: 3, PreRelease: "alpha.1"}, false},
		{"1.2.3+build.5", SemVersion{Major: 1, Minor: 2, Patch: 3, Build: "build.5"}, false},
		{"1.2.3-rc.1+build.5", SemVersion{Major: 1, Minor: 2, Patch: 3, PreRelease: "rc.1", Build: "build.5"}, false},
		{" 1.2.3 ", SemVersion{Major: 1, Minor: 2, Patch: 3}, false},
		{"1.2", SemVersion{}, true},
		{"1.2.x", SemVersion{}, true},
		{"", SemVersion{}, true},
		{"not-a-version", SemVersion{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVersion(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseVersion(%q): expected error, got %v", tt.input, got)
				}
				if !errors.Is(err, ErrInvalidVersion) {
					t.Errorf("error %v is not ErrInvalidVersion", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseVersion(%q): unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseVersion(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSemVersion_String(t *testing.T) {
	tests := []struct {
		v    SemVersion
		want string
	}{
		{SemVersion{Major: 1, Minor: 2, Patch: 3}, "1.2.3"},
		{SemVersion{Minor: 3, PreRelease: "dev"}, "0.3.0-dev"},
		{SemVersion{Major: 1, PreRelease: "rc.1", Build: "7"}, "1.0.0-rc.1+7"},
	}

	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSemVersion_Compare(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"1.0.0", "1.0.1", -1},
		{"1.1.0", "1.0.9", 1},
		{"2.0.0", "1.9.9", 1},
		{"1.0.0-alpha", "1.0.0", -1},
		{"1.0.0", "1.0.0-alpha", 1},
		{"1.0.0-alpha", "1.0.0-alpha.1", -1},
		{"1.0.0-alpha.1", "1.0.0-alpha.beta", -1},
		{"1.0.0-beta.2", "1.0.0-beta.11", -1},
		{"1.0.0-rc.1", "1.0.0-rc.1", 0},
		{"1.0.0+a", "1.0.0+b", 0}, // build metadata ignored
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			a, err := ParseVersion(tt.a)
			if err != nil {
				t.Fatal(err)
			}
			b, err := ParseVersion(tt.b)
			if err != nil {
				t.Fatal(err)
			}
			if got := a.Compare(b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := b.Compare(a); got != -tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
		})
	}
}

func TestBump(t *testing.T) {
	tests := []struct {
		input string
		level BumpLevel
		want  string
	}{
		{"1.2.3", BumpMajor, "2.0.0"},
		{"1.2.3", BumpMinor, "1.3.0"},
		{"1.2.3", BumpPatch, "1.2.4"},
		{"0.5.0", BumpMajor, "1.0.0"},
		{"0.5.0", BumpMinor, "0.6.0"},
		{"0.5.0", BumpPatch, "0.5.1"},
		{"1.2.3-dev+meta", BumpMinor, "1.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.input+" "+string(tt.level), func(t *testing.T) {
			v, err := ParseVersion(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Bump(v, tt.level)
			if err != nil {
				t.Fatal(err)
			}
			if got.String() != tt.want {
				t.Errorf("Bump(%s, %s) = %s, want %s", tt.input, tt.level, got, tt.want)
			}
		})
	}

	if _, err := Bump(SemVersion{}, BumpLevel("huge")); err == nil {
		t.Error("expected error for unknown bump level")
	}
}

func TestSemVersion_Core(t *testing.T) {
	v := SemVersion{Major: 1, Minor: 2, Patch: 3, PreRelease: "dev", Build: "b1"}
	if got := v.Core().String(); got != "1.2.3" {
		t.Errorf("Core() = %s, want 1.2.3", got)
	}
}
