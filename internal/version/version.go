// Package version provides application version and build info.
//
//nolint:revive
package version

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// Version is the current version of the dashboard.
	// It can be overridden by ldflags at build time.
	Version = "dev"
	// CommitHash is the git commit hash at build time.
	// It can be overridden by ldflags at build time.
	CommitHash = ""
	// BuildTime is the time when the binary was built.
	// It can be overridden by ldflags at build time.
	BuildTime = ""

	readBuildOnce sync.Once
)

// GetInfo returns a formatted version string including the version and short commit hash.
func GetInfo() string {
	readBuildOnce.Do(fillFromBuildInfo)
	return format(Version, CommitHash)
}

func fillFromBuildInfo() {
	if CommitHash != "" {
		return
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			CommitHash = setting.Value
		case "vcs.time":
			BuildTime = setting.Value
		}
	}
}

func format(version, commit string) string {
	if commit == "" {
		return version
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", version, commit)
}
