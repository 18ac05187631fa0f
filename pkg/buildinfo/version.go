// Package buildinfo reports which allocviz build is running.
//
// Release builds stamp the values with ldflags:
//
//	-X github.com/phallocators/allocviz/pkg/buildinfo.Version=v0.3.0
//	-X github.com/phallocators/allocviz/pkg/buildinfo.Commit=$(git rev-parse HEAD)
//	-X github.com/phallocators/allocviz/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)
//
// Builds made with "go install" carry no ldflags; for those the module
// version and VCS stamp embedded by the toolchain fill in whatever is unset.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		Version, Commit, Date = fill(info, Version, Commit, Date)
	}
}

// fill replaces the unstamped defaults with what info records.
func fill(info *debug.BuildInfo, version, commit, date string) (string, string, string) {
	if v := info.Main.Version; version == "dev" && v != "" && v != "(devel)" {
		version = v
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "none":
			commit = s.Value
		case s.Key == "vcs.time" && date == "unknown":
			date = s.Value
		}
	}
	return version, commit, date
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
