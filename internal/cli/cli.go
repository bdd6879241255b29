// Package cli wires the root command: global flags, config loading, and the
// subcommand table.
package cli

import (
	"context"
	"fmt"
	"os"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/indaco/rustle/internal/commands/begindev"
	"github.com/indaco/rustle/internal/commands/inspect"
	"github.com/indaco/rustle/internal/commands/release"
	"github.com/indaco/rustle/internal/commands/setmsrv"
	"github.com/indaco/rustle/internal/config"
	"github.com/indaco/rustle/internal/logging"
	"github.com/indaco/rustle/internal/printer"
	"github.com/indaco/rustle/internal/tui"
	"github.com/indaco/rustle/internal/version"
)

// New builds and returns the root CLI command, configuring all subcommands
// and flags for the rustle cli.
func New() *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "rustle",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Release automation for Cargo projects",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:    "chdir",
				Aliases: []string{"C"},
				Usage:   "Change to this directory before doing anything",
			},
			&urfavecli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file",
			},
			&urfavecli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				DefaultText: "info",
			},
			&urfavecli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: before,
		Commands: []*urfavecli.Command{
			release.Run(),
			begindev.Run(),
			setmsrv.Run(),
			inspect.Run(),
		},
	}
}

func before(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
	if dir := cmd.String("chdir"); dir != "" {
		if err := os.Chdir(dir); err != nil {
			return ctx, err
		}
	}

	printer.SetNoColor(cmd.Bool("no-color") || !tui.IsTTY())

	level, err := logging.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return ctx, err
	}
	ctx = logging.WithContext(ctx, logging.New(os.Stderr, level))

	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return ctx, err
	}
	return config.WithContext(ctx, cfg), nil
}
