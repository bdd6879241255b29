// Package begindev implements the "begin-dev" command: it moves a package to
// its next development cycle and propagates the change to its dependents.
package begindev

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/indaco/rustle/internal/cascade"
	"github.com/indaco/rustle/internal/clix"
	"github.com/indaco/rustle/internal/logging"
	"github.com/indaco/rustle/internal/printer"
)

// Run returns the "begin-dev" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "begin-dev",
		Usage:     "Begin work on the next version of a package",
		UsageText: "rustle begin-dev [--package name]",
		Flags:     clix.PackageFlag(),
		Action:    runBeginDev,
	}
}

func runBeginDev(ctx context.Context, cmd *cli.Command) error {
	rt, err := clix.Load(ctx, cmd)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	prop := cascade.New(rt.Project, rt.FS)
	results, began, err := prop.BeginDev(ctx, rt.Package)
	if err != nil {
		return err
	}
	if !began {
		printer.PrintInfo(fmt.Sprintf("%s is already in development (%s)", rt.Package.Name, rt.Package.Version))
		return nil
	}
	for _, r := range results {
		logger.Info("Updated dependent", "package", r.Dependent, "action", r.Action)
	}
	printer.PrintSuccess(fmt.Sprintf("%s is now at %s", rt.Package.Name, rt.Package.Version))
	return nil
}
