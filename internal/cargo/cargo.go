// Package cargo shells out to the cargo binary. All commands run in the
// directory the Cargo value was created for.
package cargo

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
)

// Cargo runs cargo subcommands in a fixed working directory.
type Cargo struct {
	dir         string
	execCommand func(name string, arg ...string) *exec.Cmd
}

// New creates a Cargo runner rooted at dir, using the real cargo binary.
func New(dir string) *Cargo {
	return &Cargo{
		dir:         dir,
		execCommand: exec.Command,
	}
}

// LocateProject returns the absolute path of the manifest governing the
// working directory. With workspace true it returns the workspace root
// manifest instead of the innermost package manifest.
func (c *Cargo) LocateProject(workspace bool) (string, error) {
	args := []string{"locate-project"}
	if workspace {
		args = append(args, "--workspace")
	}
	out, err := c.output(args...)
	if err != nil {
		return "", fmt.Errorf("could not get project root from cargo: %w", err)
	}
	root := gjson.Get(out, "root").String()
	if !filepath.IsAbs(root) || filepath.Dir(root) == root {
		return "", fmt.Errorf("manifest path is not usable: %q", root)
	}
	return root, nil
}

// Metadata returns the raw `cargo metadata` JSON for the given manifest,
// without resolving external dependencies.
func (c *Cargo) Metadata(manifestPath string) (string, error) {
	out, err := c.output("metadata",
		"--no-deps",
		"--format-version", "1",
		"--manifest-path", manifestPath)
	if err != nil {
		return "", fmt.Errorf("failed to get project metadata: %w", err)
	}
	return out, nil
}

// Publish uploads the package at manifestPath to the registry.
func (c *Cargo) Publish(manifestPath string) error {
	if err := c.run("publish", "--manifest-path", manifestPath); err != nil {
		return fmt.Errorf("cargo publish failed: %w", err)
	}
	return nil
}

// UpdateLockVersion pins the named package to version in Cargo.lock.
func (c *Cargo) UpdateLockVersion(name, version string, offline bool) error {
	args := []string{"update", "-p", name, "--precise", version}
	if offline {
		args = append(args, "--offline")
	}
	if err := c.run(args...); err != nil {
		return fmt.Errorf("cargo update failed: %w", err)
	}
	return nil
}

func (c *Cargo) run(args ...string) error {
	cmd := c.execCommand("cargo", args...)
	cmd.Dir = c.dir
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

func (c *Cargo) output(args ...string) (string, error) {
	cmd := c.execCommand("cargo", args...)
	cmd.Dir = c.dir
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
