// Package build exposes build-time metadata injected via ldflags.
package build

import "fmt"

// Version, Commit, and Date are set at build time by:
//
//	-ldflags "-X github.com/joestump/joe-bookmarks/internal/build.Version=... ..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String returns a single-line summary suitable for `joe-bookmarks version`.
func String() string {
	return fmt.Sprintf("joe-bookmarks %s (commit %s, built %s)", Version, Commit, Date)
}
