// Package version holds the gallery's build metadata.
package version

import "fmt"

// Overridden with -ldflags "-X gallery/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Details returns the build line shown in the About dialog.
func Details() string {
	return fmt.Sprintf("v%s\n\nBuilt: %s\nCommit: %s", Version, BuildTime, GitCommit)
}
