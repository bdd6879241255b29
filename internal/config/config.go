// Package config loads the user-level rustle configuration.
package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config holds the user-level settings that cannot be derived from the
// project itself.
type Config struct {
	// Author is the name used when updating LICENSE copyright lines.
	Author string `yaml:"author,omitempty"`
	// AuthorEmail is currently informational only.
	AuthorEmail string `yaml:"author-email,omitempty"`
	// GitHubUser overrides the repository owner derived from the origin
	// remote when talking to the GitHub API.
	GitHubUser string `yaml:"github-user,omitempty"`
}

// DefaultPath returns the default config file location,
// $XDG_CONFIG_HOME/rustle.yaml or ~/.config/rustle.yaml.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rustle.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rustle.yaml"), nil
}

// Load reads the config file at path, or the default location when path is
// empty. A missing file at the default location yields a zero config; a
// missing file at an explicitly given path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, err
	}
	return Parse(data, path)
}

type ctxKey struct{}

// WithContext returns a context carrying cfg.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the config carried by ctx, or a zero config when none
// was attached.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	return &Config{}
}

// Parse decodes raw YAML config data. Unknown keys are rejected so typos do
// not silently turn into defaults.
func Parse(data []byte, path string) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return &cfg, nil
}
