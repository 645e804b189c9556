// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X artboard-studio/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version with the commit when it is known.
func String() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return "v" + Version
	}
	short := GitCommit
	if len(short) > 7 {
		short = short[:7]
	}
	return fmt.Sprintf("v%s (%s)", Version, short)
}
