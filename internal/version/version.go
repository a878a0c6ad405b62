// Package version carries build metadata stamped in with -ldflags -X.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
	GoVersion = runtime.Version()
)

// String is the one-line form printed by --version and at startup.
func String() string {
	return fmt.Sprintf("directory %s (commit=%s, built=%s, go=%s)", Version, Commit, BuildDate, GoVersion)
}
