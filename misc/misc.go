// Package misc provides build information helpers.
package misc

import (
	"runtime/debug"
)

// set by the build via -ldflags, see Taskfile
var (
	appName = "emx"
	version = "dev"
	gitHash = ""
)

// GetAppName returns the program name used in logs and generated file names.
func GetAppName() string {
	return appName
}

// GetVersion returns the program version.
func GetVersion() string {
	return version
}

// GetGitHash returns the VCS revision the binary was built from.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
