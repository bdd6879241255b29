// Package tui handles terminal interactivity: deciding whether prompting is
// possible at all, and running the prompts themselves.
package tui

import (
	"os"

	"golang.org/x/term"
)

// ciEnvVars are environment variables that identify common CI systems.
var ciEnvVars = []string{
	"CI",
	"CONTINUOUS_INTEGRATION",
	"GITHUB_ACTIONS",
	"GITLAB_CI",
	"CIRCLECI",
	"TRAVIS",
	"JENKINS_HOME",
	"BUILDKITE",
	"BITBUCKET_BUILD_NUMBER",
	"DRONE",
	"SEMAPHORE",
	"APPVEYOR",
	"CODEBUILD_BUILD_ID",
	"TF_BUILD",
}

// IsInteractive reports whether the current environment supports interactive
// prompts. It returns false when stdout is not a terminal or when a CI
// environment is detected, so prompts are skipped automatically in scripts
// and pipelines.
func IsInteractive() bool {
	if !IsTTY() {
		return false
	}
	for _, env := range ciEnvVars {
		if os.Getenv(env) != "" {
			return false
		}
	}
	return true
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: fd is a small value, no overflow risk
}
