// Package version carries build identification, injected at link time via
// -ldflags "-X github.com/kestrel-gis/rasterkit/internal/version.Version=...".
package version

import "fmt"

var (
	// Version is the toolkit release, "dev" for local builds.
	Version = "dev"
	// GitSHA is the git commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String formats the build identification on one line.
func String() string {
	return fmt.Sprintf("rasterkit %s (%s, built %s)", Version, GitSHA, BuildTime)
}
