// Package setmsrv implements the "set-msrv" command: it records a package's
// minimum supported Rust version in the manifest, the README badge, and the
// changelog.
package setmsrv

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/indaco/rustle/internal/clix"
	"github.com/indaco/rustle/internal/core"
	"github.com/indaco/rustle/internal/logging"
	"github.com/indaco/rustle/internal/manifest"
	"github.com/indaco/rustle/internal/printer"
	"github.com/indaco/rustle/internal/rustversion"
)

// Run returns the "set-msrv" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "set-msrv",
		Usage:     "Update a package's minimum supported Rust version",
		UsageText: "rustle set-msrv VERSION [--package name]",
		Flags:     clix.PackageFlag(),
		Action:    runSetMSRV,
	}
}

func runSetMSRV(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.Args().First()
	if arg == "" {
		return errors.New("a VERSION argument is required")
	}
	msrv, err := rustversion.Parse(arg)
	if err != nil {
		return err
	}

	rt, err := clix.Load(ctx, cmd)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	pkg := rt.Package

	logger.Info("Updating Cargo.toml")
	data, err := rt.FS.ReadFile(ctx, pkg.ManifestPath)
	if err != nil {
		return err
	}
	out, err := manifest.SetPackageField(data, "rust-version", msrv.String())
	if err != nil {
		return err
	}
	if err := rt.FS.WriteFile(ctx, pkg.ManifestPath, out, core.PermOwnerRW); err != nil {
		return err
	}

	readmeFile := pkg.ReadmeFile(rt.FS)
	if rm, ok, err := readmeFile.Get(ctx); err != nil {
		return err
	} else if ok {
		logger.Info("Updating README.md")
		rm.SetMSRV(msrv)
		if err := readmeFile.Set(ctx, rm); err != nil {
			return err
		}
	}

	chlogFile := pkg.ChangelogFile(rt.FS)
	if chlog, ok, err := chlogFile.Get(ctx); err != nil {
		return err
	} else if ok && len(chlog.Sections) > 0 {
		logger.Info("Updating CHANGELOG.md")
		chlog.Sections[0].UpsertBullet(
			"- Increased MSRV to ",
			fmt.Sprintf("- Increased MSRV to %s", msrv),
		)
		if err := chlogFile.Set(ctx, chlog); err != nil {
			return err
		}
	}

	printer.PrintSuccess(fmt.Sprintf("MSRV of %s is now %s", pkg.Name, msrv))
	return nil
}
