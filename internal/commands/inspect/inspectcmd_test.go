package inspect

import (
	"context"
	"testing"

	"github.com/indaco/rustle/internal/core"
	"github.com/indaco/rustle/internal/workspace"
)

const meta = `{
  "packages": [
    {
      "name": "foo",
      "version": "0.3.0-dev",
      "manifest_path": "/w/foo/Cargo.toml",
      "publish": null,
      "targets": [{"kind": ["lib"]}],
      "dependencies": []
    },
    {
      "name": "bar",
      "version": "0.1.0",
      "manifest_path": "/w/bar/Cargo.toml",
      "publish": [],
      "targets": [{"kind": ["bin"]}],
      "dependencies": [
        {"name": "foo", "req": "^0.3.0-dev", "path": "/w/foo", "kind": null}
      ]
    }
  ]
}`

func TestReport(t *testing.T) {
	ctx := context.Background()
	proj, err := workspace.ParseMetadata(meta, "/w/Cargo.toml")
	if err != nil {
		t.Fatal(err)
	}
	fsys := core.NewMockFileSystem()
	fsys.SetFile("/w/Cargo.toml", []byte("[workspace]\nmembers = [\"foo\", \"bar\"]\n"))

	details, err := Report(ctx, fsys, nil, proj, "foo", true)
	if err != nil {
		t.Fatal(err)
	}
	if !details.IsWorkspace || !details.IsVirtualWorkspace {
		t.Errorf("workspace flags = %v/%v", details.IsWorkspace, details.IsVirtualWorkspace)
	}
	if details.CurrentPackage == nil || details.CurrentPackage.Name != "foo" {
		t.Fatalf("current package = %+v", details.CurrentPackage)
	}
	if details.CurrentPackage.Version != "0.3.0-dev" || !details.CurrentPackage.Lib {
		t.Errorf("foo details = %+v", details.CurrentPackage)
	}
	if got := details.CurrentPackage.Dependents["bar"]; got != "^0.3.0-dev" {
		t.Errorf("foo dependents = %v", details.CurrentPackage.Dependents)
	}
	if len(details.Packages) != 2 {
		t.Fatalf("packages = %d, want 2", len(details.Packages))
	}
	// sorted by name
	if details.Packages[0].Name != "bar" || details.Packages[0].Publish {
		t.Errorf("bar details = %+v", details.Packages[0])
	}
}

func TestReport_UnknownPackage(t *testing.T) {
	proj, err := workspace.ParseMetadata(meta, "/w/Cargo.toml")
	if err != nil {
		t.Fatal(err)
	}
	fsys := core.NewMockFileSystem()
	fsys.SetFile("/w/Cargo.toml", []byte("[workspace]\n"))
	if _, err := Report(context.Background(), fsys, nil, proj, "ghost", false); err == nil {
		t.Error("expected error for unknown package")
	}
}
