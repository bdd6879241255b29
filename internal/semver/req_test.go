package semver

import "testing"

func TestParseReq(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"1.2.3", false},
		{"^1.2.3", false},
		{"^0.3.0-dev", false},
		{"=1.2.3", false},
		{"0.3", false},
		{"1", false},
		{"*", true},
		{"~1.2", true},
		{">=1.0, <2.0", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, err := ParseReq(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseReq(%q): expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseReq(%q): unexpected error: %v", tt.input, err)
			}
			if r.String() != tt.input {
				t.Errorf("String() = %q, want the original %q", r.String(), tt.input)
			}
		})
	}
}

func TestReq_Matches(t *testing.T) {
	tests := []struct {
		req     string
		version string
		want    bool
	}{
		// plain caret ranges
		{"^1.2.3", "1.2.3", true},
		{"^1.2.3", "1.4.0", true},
		{"^1.2.3", "2.0.0", false},
		{"^1.2.3", "1.2.2", false},
		{"1.2.3", "1.4.0", true}, // bare means caret
		{"^0.3.0", "0.3.5", true},
		{"^0.3.0", "0.4.0", false},
		{"^0.0.3", "0.0.3", true},
		{"^0.0.3", "0.0.4", false},
		// partial requirements
		{"0.3", "0.3.9", true},
		{"0.3", "0.4.0", false},
		{"1", "1.9.0", true},
		{"1", "2.0.0", false},
		// prerelease interactions
		{"^0.3.0-dev", "0.3.0-dev", true},
		{"^0.3.0-dev", "0.3.0-dev.2", true},
		{"^0.3.0-dev", "0.3.0", true}, // the Cargo quirk: plain release still matches
		{"^0.3.0-dev", "0.3.1-dev", false},
		{"^0.3.0", "0.3.1-dev", false}, // plain base never admits prereleases
		{"^1.2.3", "1.2.4-rc.1", false},
		// exact
		{"=1.2.3", "1.2.3", true},
		{"=1.2.3", "1.2.4", false},
		{"=1.2.3", "1.2.3-dev", false},
	}

	for _, tt := range tests {
		t.Run(tt.req+" vs "+tt.version, func(t *testing.T) {
			r := MustParseReq(tt.req)
			v, err := ParseVersion(tt.version)
			if err != nil {
				t.Fatal(err)
			}
			if got := r.Matches(v); got != tt.want {
				t.Errorf("Matches(%q, %s) = %v, want %v", tt.req, tt.version, got, tt.want)
			}
		})
	}
}

func TestReq_DisagreesOnPreRelease(t *testing.T) {
	tests := []struct {
		req     string
		version string
		want    bool
	}{
		{"^0.3.0-dev", "0.3.0", true},
		{"^0.3.0-dev", "0.3.0-dev", false},
		{"^0.3.0", "0.3.0", false},
	}

	for _, tt := range tests {
		r := MustParseReq(tt.req)
		v, err := ParseVersion(tt.version)
		if err != nil {
			t.Fatal(err)
		}
		if got := r.DisagreesOnPreRelease(v); got != tt.want {
			t.Errorf("DisagreesOnPreRelease(%q, %s) = %v, want %v", tt.req, tt.version, got, tt.want)
		}
	}
}
