// Package version holds build information injected at link time:
//
//	go build -ldflags "-X clillm/internal/version.Version=v1.2.0 -X clillm/internal/version.Commit=$(git rev-parse --short HEAD)"
package version

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns a one-line description of the build.
func Info() string {
	return fmt.Sprintf("clillm %s (commit %s, built %s)", Version, Commit, Date)
}
