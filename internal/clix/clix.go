// Package clix assembles the per-invocation runtime shared by all commands:
// the loaded workspace, the target package, and the external collaborators.
package clix

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/indaco/rustle/internal/cargo"
	"github.com/indaco/rustle/internal/config"
	"github.com/indaco/rustle/internal/core"
	"github.com/indaco/rustle/internal/git"
	"github.com/indaco/rustle/internal/workspace"
)

// PackageFlag returns the shared --package flag, selecting a workspace
// member other than the one governing the working directory.
func PackageFlag() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "package",
			Aliases: []string{"p"},
			Usage:   "Operate on the named workspace package",
		},
	}
}

// Runtime bundles everything a command needs to operate on the project.
type Runtime struct {
	Config  *config.Config
	FS      core.FileSystem
	Cargo   *cargo.Cargo
	Git     *git.Git
	Project *workspace.Project
	Package *workspace.Package
}

// Load builds the runtime for the current working directory. The target
// package is the one named by the command's --package flag, or the package
// governing the working directory when the flag is absent or empty.
func Load(ctx context.Context, cmd *cli.Command) (*Runtime, error) {
	c := cargo.New(".")
	project, err := workspace.Load(c)
	if err != nil {
		return nil, err
	}
	pkg, err := project.Select(c, cmd.String("package"))
	if err != nil {
		return nil, err
	}
	return &Runtime{
		Config:  config.FromContext(ctx),
		FS:      core.NewOSFileSystem(),
		Cargo:   c,
		Git:     git.New(pkg.Dir()),
		Project: project,
		Package: pkg,
	}, nil
}
