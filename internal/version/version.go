// Package version holds the tool's own version string.
package version

// Version is the current rustle version. Release builds override it via
// -ldflags.
var Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
