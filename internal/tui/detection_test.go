package tui

import "testing"

func TestIsInteractive_CIEnv(t *testing.T) {
	t.Setenv("CI", "true")
	if IsInteractive() {
		t.Error("IsInteractive() = true with CI set")
	}
}
