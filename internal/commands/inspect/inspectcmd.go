// Package inspect implements the "inspect" command: a JSON description of
// the project and its packages, for humans and scripts alike.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/indaco/rustle/internal/cargo"
	"github.com/indaco/rustle/internal/core"
	"github.com/indaco/rustle/internal/manifest"
	"github.com/indaco/rustle/internal/workspace"
)

// Details is the top-level inspection report.
type Details struct {
	ManifestPath       string            `json:"manifest_path"`
	IsWorkspace        bool              `json:"is_workspace"`
	IsVirtualWorkspace bool              `json:"is_virtual_workspace"`
	Repository         string            `json:"repository,omitempty"`
	CurrentPackage     *PackageDetails   `json:"current_package"`
	Packages           []*PackageDetails `json:"packages,omitempty"`
}

// PackageDetails describes one workspace member.
type PackageDetails struct {
	Name         string            `json:"name"`
	ManifestPath string            `json:"manifest_path"`
	Version      string            `json:"version"`
	Bin          bool              `json:"bin"`
	Lib          bool              `json:"lib"`
	Publish      bool              `json:"publish"`
	RootPackage  bool              `json:"root_package"`
	Dependents   map[string]string `json:"dependents,omitempty"`
}

// Run returns the "inspect" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print a JSON description of the project",
		UsageText: "rustle inspect [--package name] [--workspace]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "workspace",
				Usage: "Include every workspace package in the report",
			},
			&cli.StringFlag{
				Name:    "package",
				Aliases: []string{"p"},
				Usage:   "Report on the named workspace package",
			},
		},
		Action: runInspect,
	}
}

func runInspect(ctx context.Context, cmd *cli.Command) error {
	c := cargo.New(".")
	project, err := workspace.Load(c)
	if err != nil {
		return err
	}
	details, err := Report(ctx, core.NewOSFileSystem(), c, project, cmd.String("package"), cmd.Bool("workspace"))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(details, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// Report assembles the inspection report. pkgName selects the reported
// package; when empty the package governing the working directory is used,
// and a working directory outside any package leaves it null. withPackages
// includes the whole workspace.
func Report(ctx context.Context, fsys core.FileSystem, c *cargo.Cargo, project *workspace.Project, pkgName string, withPackages bool) (*Details, error) {
	data, err := fsys.ReadFile(ctx, project.RootManifest)
	if err != nil {
		return nil, err
	}
	info, err := manifest.Classify(data)
	if err != nil {
		return nil, err
	}

	details := &Details{
		ManifestPath:       project.RootManifest,
		IsWorkspace:        info.IsWorkspace(),
		IsVirtualWorkspace: info.Kind == manifest.KindVirtualWorkspace,
		Repository:         info.Flavor.Repository,
	}

	if pkgName != "" {
		pkg, ok := project.ByName(pkgName)
		if !ok {
			return nil, fmt.Errorf("no package named %q found in current project", pkgName)
		}
		details.CurrentPackage = describe(pkg)
	} else if pkg, err := project.CurrentPackage(c); err == nil {
		details.CurrentPackage = describe(pkg)
	} else if !errors.Is(err, workspace.ErrNoPackage) {
		return nil, err
	}

	if withPackages {
		for _, pkg := range project.Packages() {
			details.Packages = append(details.Packages, describe(pkg))
		}
	}
	return details, nil
}

func describe(pkg *workspace.Package) *PackageDetails {
	d := &PackageDetails{
		Name:         pkg.Name,
		ManifestPath: pkg.ManifestPath,
		Version:      pkg.Version.String(),
		Bin:          pkg.IsBin,
		Lib:          pkg.IsLib,
		Publish:      pkg.Publish,
		RootPackage:  pkg.IsRoot,
	}
	if len(pkg.Dependents) > 0 {
		d.Dependents = make(map[string]string, len(pkg.Dependents))
		for name, req := range pkg.Dependents {
			d.Dependents[name] = req.String()
		}
	}
	return d
}
