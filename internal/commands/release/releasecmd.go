// Package release implements the "release" command: it computes the next
// version, rewrites the package's release metadata, tags and publishes, and
// prepares the next development cycle.
package release

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/indaco/rustle/internal/bump"
	"github.com/indaco/rustle/internal/cascade"
	"github.com/indaco/rustle/internal/changelog"
	"github.com/indaco/rustle/internal/clix"
	"github.com/indaco/rustle/internal/core"
	"github.com/indaco/rustle/internal/github"
	"github.com/indaco/rustle/internal/license"
	"github.com/indaco/rustle/internal/logging"
	"github.com/indaco/rustle/internal/manifest"
	"github.com/indaco/rustle/internal/printer"
	"github.com/indaco/rustle/internal/readme"
	"github.com/indaco/rustle/internal/semver"
	"github.com/indaco/rustle/internal/tui"
	"github.com/indaco/rustle/internal/workspace"
)

// ErrAborted is returned when the user declines the confirmation prompt.
var ErrAborted = errors.New("release aborted")

// activeBadge is the repostatus badge a package gets on its first final
// release.
var activeBadge = readme.Badge{
	Alt:    "Project Status: Active – The project has reached a stable, usable state and is being actively developed.",
	URL:    "https://www.repostatus.org/badges/latest/active.svg",
	Target: "https://www.repostatus.org/#active",
}

// Run returns the "release" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "release",
		Usage:     "Prepare and publish a new release for a package",
		UsageText: "rustle release [version] [--major|--minor|--patch] [--no-publish] [--yes]",
		Flags: append([]cli.Flag{
			&cli.BoolFlag{Name: "major", Usage: "Release the next major version"},
			&cli.BoolFlag{Name: "minor", Usage: "Release the next minor version"},
			&cli.BoolFlag{Name: "patch", Usage: "Release the next patch version"},
			&cli.BoolFlag{Name: "no-publish", Usage: "Skip publishing to crates.io"},
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		}, clix.PackageFlag()...),
		Action: runRelease,
	}
}

func runRelease(ctx context.Context, cmd *cli.Command) error {
	rt, err := clix.Load(ctx, cmd)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	pkg := rt.Package

	newVersion, err := targetVersion(cmd, rt)
	if err != nil {
		return err
	}
	for _, name := range []string{"v" + newVersion.String(), newVersion.String()} {
		tagged, err := rt.Git.TagExists(name)
		if err != nil {
			return err
		}
		if tagged {
			return fmt.Errorf("new version v%s already tagged", newVersion)
		}
	}

	if !cmd.Bool("yes") && tui.IsInteractive() {
		ok, err := tui.Confirm(
			fmt.Sprintf("Release %s v%s?", pkg.Name, newVersion),
			"This will commit, tag, publish, and push.",
		)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAborted
		}
	}

	logger.Info("Preparing version", "package", pkg.Name, "version", newVersion)
	releaseDate := time.Now()

	if newVersion.Compare(pkg.Version) != 0 {
		logger.Info("Setting version in Cargo.toml")
		if err := setManifestVersion(ctx, rt.FS, pkg, newVersion); err != nil {
			return err
		}
	}
	if pkg.IsBin {
		if _, err := rt.FS.ReadFile(ctx, filepath.Join(pkg.Dir(), "Cargo.lock")); err == nil {
			logger.Info("Setting version in Cargo.lock")
			if err := rt.Cargo.UpdateLockVersion(pkg.Name, newVersion.String(), true); err != nil {
				return err
			}
		}
	}

	notes, err := releaseChangelog(ctx, rt.FS, pkg, newVersion, releaseDate)
	if err != nil {
		return err
	}

	activated, err := updateReadme(ctx, rt.FS, pkg, newVersion, logger)
	if err != nil {
		return err
	}

	if err := updateLicense(ctx, rt, logger); err != nil {
		return err
	}

	logger.Info("Propagating version to dependents")
	prop := cascade.New(rt.Project, rt.FS)
	results, err := prop.Propagate(ctx, pkg, newVersion)
	if err != nil {
		return err
	}
	for _, r := range results {
		logger.Info("Updated dependent", "package", r.Dependent, "action", r.Action)
	}
	pkg.Version = newVersion

	logger.Info("Committing")
	if err := rt.Git.CommitAll(commitMessage(newVersion, notes)); err != nil {
		return err
	}

	tagName := "v" + newVersion.String()
	logger.Info("Tagging", "tag", tagName)
	if err := rt.Git.CreateTag(tagName, "Version "+newVersion.String(), true); err != nil {
		return err
	}

	publish := pkg.Publish && !cmd.Bool("no-publish")
	if publish {
		logger.Info("Publishing")
		if err := rt.Cargo.Publish(pkg.ManifestPath); err != nil {
			return err
		}
	}

	logger.Info("Pushing tag")
	if err := rt.Git.PushFollowTags(); err != nil {
		return err
	}

	if err := announceOnGitHub(ctx, rt, tagName, newVersion, activated, publish, logger); err != nil {
		return err
	}

	logger.Info("Preparing for work on next version")
	if err := nextDevCycle(ctx, rt.FS, pkg, newVersion, releaseDate); err != nil {
		return err
	}
	if err := ensureChangelogLink(ctx, rt, logger); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Released %s v%s", pkg.Name, newVersion))
	return nil
}

// targetVersion resolves the version to release from the positional argument,
// the bump flags, the latest Git tag, and the manifest version.
func targetVersion(cmd *cli.Command, rt *clix.Runtime) (semver.SemVersion, error) {
	var explicit *semver.SemVersion
	if arg := cmd.Args().First(); arg != "" {
		v, err := semver.ParseVersion(arg)
		if err != nil {
			return semver.SemVersion{}, fmt.Errorf("invalid version %q: %w", arg, err)
		}
		explicit = &v
	}

	level, err := bumpLevel(cmd)
	if err != nil {
		return semver.SemVersion{}, err
	}
	if explicit != nil && level != "" {
		return semver.SemVersion{}, errors.New("an explicit version conflicts with a bump flag")
	}

	var tag *semver.SemVersion
	if name, ok, err := rt.Git.LatestTag(); err != nil {
		return semver.SemVersion{}, err
	} else if ok {
		v, err := semver.ParseVersion(name)
		if err != nil {
			return semver.SemVersion{}, fmt.Errorf("latest tag %q is not a version: %w", name, err)
		}
		tag = &v
	}

	return bump.Next(tag, rt.Package.Version, explicit, level)
}

func bumpLevel(cmd *cli.Command) (semver.BumpLevel, error) {
	var levels []semver.BumpLevel
	for _, l := range []semver.BumpLevel{semver.BumpMajor, semver.BumpMinor, semver.BumpPatch} {
		if cmd.Bool(string(l)) {
			levels = append(levels, l)
		}
	}
	switch len(levels) {
	case 0:
		return "", nil
	case 1:
		return levels[0], nil
	default:
		return "", errors.New("only one of --major, --minor, --patch may be given")
	}
}

// setManifestVersion rewrites the version field of pkg's manifest, leaving
// unrelated bytes untouched, and records the new version in memory.
func setManifestVersion(ctx context.Context, fsys core.FileSystem, pkg *workspace.Package, v semver.SemVersion) error {
	data, err := fsys.ReadFile(ctx, pkg.ManifestPath)
	if err != nil {
		return err
	}
	out, err := manifest.SetPackageField(data, "version", v.String())
	if err != nil {
		return err
	}
	if err := fsys.WriteFile(ctx, pkg.ManifestPath, out, core.PermOwnerRW); err != nil {
		return err
	}
	pkg.Version = v
	return nil
}

// releaseChangelog converts the top changelog section into the released
// section for v and returns its content for use as release notes. A package
// without a changelog yields empty notes.
func releaseChangelog(ctx context.Context, fsys core.FileSystem, pkg *workspace.Package, v semver.SemVersion, date time.Time) (string, error) {
	file := pkg.ChangelogFile(fsys)
	chlog, ok, err := file.Get(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	if err := chlog.ReleaseTop(v, date); err != nil {
		return "", err
	}
	notes := chlog.Sections[0].Content
	return notes, file.Set(ctx, chlog)
}

// updateReadme flips a Wip repostatus badge to Active on final releases and
// ensures crates.io links for publishable packages. It reports whether the
// project status was activated.
func updateReadme(ctx context.Context, fsys core.FileSystem, pkg *workspace.Package, v semver.SemVersion, logger loggerIface) (bool, error) {
	file := pkg.ReadmeFile(fsys)
	rm, ok, err := file.Get(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, errors.New("package lacks README.md")
	}

	changed := false
	activated := false
	if !v.IsPreRelease() {
		if status, ok := rm.Repostatus(); ok && status == readme.StatusWip {
			logger.Info("Setting repostatus in README.md to Active")
			rm.SetRepostatusBadge(activeBadge)
			changed = true
			activated = true
		}
	}
	if pkg.Publish && rm.EnsureCratesLinks(pkg.Name, pkg.IsLib) {
		logger.Info("Adding crates.io links to README.md")
		changed = true
	}
	if !changed {
		return activated, nil
	}
	return activated, file.Set(ctx, rm)
}

// updateLicense refreshes the LICENSE copyright years from the Git commit
// history plus the current year. A package without a LICENSE is skipped.
func updateLicense(ctx context.Context, rt *clix.Runtime, logger loggerIface) error {
	path := rt.Package.LicensePath()
	if _, err := rt.FS.ReadFile(ctx, path); err != nil {
		if core.IsNotExist(err) {
			return nil
		}
		return err
	}
	logger.Info("Updating copyright years in LICENSE")
	years, err := rt.Git.CommitYears()
	if err != nil {
		return err
	}
	years = append(years, time.Now().Year())
	return license.UpdateYears(ctx, rt.FS, path, years)
}

// commitMessage builds the release commit message: the subject becomes the
// GitHub release name and the body its notes.
func commitMessage(v semver.SemVersion, notes string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return fmt.Sprintf("v%s — Initial release", v)
	}
	return fmt.Sprintf("v%s\n\n%s", v, notes)
}

// announceOnGitHub creates the GitHub release and, when the project status
// was just activated, swaps the work-in-progress topic for
// available-on-crates-io. A non-GitHub remote or a missing token downgrades
// the step to a warning.
func announceOnGitHub(ctx context.Context, rt *clix.Runtime, tagName string, v semver.SemVersion, activated, published bool, logger loggerIface) error {
	remote, err := rt.Git.RemoteURL("origin")
	if err != nil {
		logger.Warn("Could not determine origin remote; skipping GitHub release", "err", err)
		return nil
	}
	repo, err := github.ParseRemoteURL(remote)
	if err != nil {
		logger.Warn("Origin remote is not a GitHub repository; skipping GitHub release", "remote", remote)
		return nil
	}
	client, err := github.AuthedClient()
	if err != nil {
		if errors.Is(err, github.ErrNoToken) {
			logger.Warn("No GitHub token available; skipping GitHub release")
			return nil
		}
		return err
	}

	logger.Info("Creating GitHub release")
	subject, body, err := rt.Git.CommitMessage(tagName + "^{commit}")
	if err != nil {
		return err
	}
	rel, err := client.CreateRelease(ctx, repo, github.CreateRelease{
		TagName:    tagName,
		Name:       subject,
		Body:       strings.TrimSpace(body),
		Prerelease: v.IsPreRelease(),
	})
	if err != nil {
		return err
	}
	logger.Info("Created GitHub release", "url", rel.HTMLURL)

	if !activated {
		return nil
	}
	topics, err := client.GetTopics(ctx, repo)
	if err != nil {
		return err
	}
	next := make([]string, 0, len(topics)+1)
	changed := false
	hasCrates := false
	for _, t := range topics {
		switch t {
		case "work-in-progress":
			changed = true
			continue
		case "available-on-crates-io":
			hasCrates = true
		}
		next = append(next, t)
	}
	if published && !hasCrates {
		next = append(next, github.NormalizeTopic("available-on-crates-io"))
		changed = true
	}
	if !changed {
		return nil
	}
	logger.Info("Updating GitHub repository topics")
	return client.SetTopics(ctx, repo, next)
}

// nextDevCycle moves pkg to the next minor version with a -dev suffix and
// opens a fresh in-progress changelog section for it. A missing changelog is
// created with the just-released version as its first entry.
func nextDevCycle(ctx context.Context, fsys core.FileSystem, pkg *workspace.Package, released semver.SemVersion, releaseDate time.Time) error {
	next, err := semver.Bump(released, semver.BumpMinor)
	if err != nil {
		return err
	}
	devNext := next
	devNext.PreRelease = "dev"
	if err := setManifestVersion(ctx, fsys, pkg, devNext); err != nil {
		return err
	}

	file := pkg.ChangelogFile(fsys)
	chlog, ok, err := file.Get(ctx)
	if err != nil {
		return err
	}
	if !ok {
		chlog = &changelog.Changelog{Sections: []changelog.Section{{
			Header: changelog.Header{
				Kind:    changelog.KindReleased,
				Version: released,
				Date:    releaseDate,
			},
			Content: "Initial release",
		}}}
	}
	chlog.InsertInProgress(next)
	return file.Set(ctx, chlog)
}

// ensureChangelogLink adds a Changelog link to the README pointing at the
// repository's CHANGELOG.md on the default branch.
func ensureChangelogLink(ctx context.Context, rt *clix.Runtime, logger loggerIface) error {
	remote, err := rt.Git.RemoteURL("origin")
	if err != nil {
		return nil
	}
	repo, err := github.ParseRemoteURL(remote)
	if err != nil {
		return nil
	}
	branch, err := rt.Git.DefaultBranch()
	if err != nil {
		return err
	}

	file := rt.Package.ReadmeFile(rt.FS)
	rm, ok, err := file.Get(ctx)
	if err != nil || !ok {
		return err
	}
	if rm.EnsureChangelogLink(repo.FileURL(branch, "CHANGELOG.md")) {
		logger.Info("Adding Changelog link to README.md")
		return file.Set(ctx, rm)
	}
	return nil
}

// loggerIface is the slice of charmbracelet/log used by the helpers; it keeps
// them testable without a real logger.
type loggerIface interface {
	Info(msg any, keyvals ...any)
	Warn(msg any, keyvals ...any)
}
