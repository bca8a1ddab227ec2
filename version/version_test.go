package version

import (
	"runtime/debug"
	"testing"
)

func withBuild(t *testing.T, version, commit, date string, info *debug.BuildInfo) {
	t.Helper()
	oldV, oldC, oldD, oldRead := Version, GitCommit, BuildDate, readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildDate, readBuildInfo = oldV, oldC, oldD, oldRead
	})
	Version, GitCommit, BuildDate = version, commit, date
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func TestLdflagsVersion(t *testing.T) {
	withBuild(t, "1.4.0", "abc123", "2024-05-01", nil)

	if got := GetVersion(); got != "1.4.0" {
		t.Errorf("GetVersion() = %q", got)
	}
	if got := GetFullVersion(); got != "1.4.0 (commit abc123, built 2024-05-01)" {
		t.Errorf("GetFullVersion() = %q", got)
	}
}

func TestModuleVersionFallback(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.5.2"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		},
	}
	withBuild(t, "dev", "unknown", "unknown", info)

	if got := GetVersion(); got != "v1.5.2" {
		t.Errorf("GetVersion() = %q", got)
	}
	if got := GetFullVersion(); got != "v1.5.2 (commit 0123456789ab)" {
		t.Errorf("GetFullVersion() = %q", got)
	}
}

func TestDevBuild(t *testing.T) {
	withBuild(t, "dev", "unknown", "unknown", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	if got := GetFullVersion(); got != "dev" {
		t.Errorf("GetFullVersion() = %q", got)
	}
}
