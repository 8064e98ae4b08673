// Package contracts carries the cross-cutting values shared by every
// binary: the release version and the build metadata stamped by the
// release workflow.
package contracts

import (
	"fmt"
	"runtime"
)

// Version is the pipeline release.
const Version = "1.0.0"

var (
	// BuildTime is set during build using ldflags
	BuildTime = "unknown"

	// GitCommit is set during build using ldflags
	GitCommit = "unknown"
)

// VersionString returns the one-line identity printed by -version and
// logged at startup.
func VersionString(binary string) string {
	return fmt.Sprintf("%s v%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		binary, Version, BuildTime, GitCommit,
		runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
