// Package version reports which ScaleRuler build is running. Release builds
// set the variables via ldflags; binaries built with `go install` fall back
// to the module version and VCS revision embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the version string
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// commit returns the ldflags commit, or the embedded VCS revision
func commit() string {
	if GitCommit != "unknown" {
		return GitCommit
	}
	info, ok := readBuildInfo()
	if !ok {
		return GitCommit
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && setting.Value != "" {
			if len(setting.Value) > 12 {
				return setting.Value[:12]
			}
			return setting.Value
		}
	}
	return GitCommit
}

// GetFullVersion returns a full version string with commit and date
func GetFullVersion() string {
	v := GetVersion()
	c := commit()
	if v == "dev" && c == "unknown" {
		return "dev"
	}
	if BuildDate == "unknown" {
		return fmt.Sprintf("%s (commit %s)", v, c)
	}
	return fmt.Sprintf("%s (commit %s, built %s)", v, c, BuildDate)
}
