// Package buildinfo exposes the version stamped into the binary.
//
// Release builds set the variables through ldflags:
//
//	go build -ldflags "-X github.com/screenlint/screenlint/pkg/buildinfo.Version=v1.2.3 \
//	    -X github.com/screenlint/screenlint/pkg/buildinfo.Commit=$(git rev-parse HEAD)"
//
// Unstamped builds (go install, go run) fall back to the VCS metadata
// the toolchain records, so --version is never entirely blank.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is the semantic version, "dev" when not stamped.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp in RFC 3339.
	Date = "unknown"
)

func init() {
	if Commit != "none" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			Commit = s.Value
		case "vcs.time":
			Date = s.Value
		}
	}
}

// String returns the build information, one field per line.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template installed on the CLI root
// command.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
