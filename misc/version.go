// Package misc keeps small program-identity helpers used by the CLI and
// logging setup.
package misc

import (
	"runtime/debug"
)

// set by the build (-ldflags "-X chatml/misc.version=...")
var (
	version = ""
	gitHash = ""
)

// GetAppName returns the program name used in logs and file names.
func GetAppName() string {
	return "chatml"
}

// GetVersion returns the program version, falling back to module build
// info when no version was linked in.
func GetVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns the vcs revision recorded in build info unless one
// was linked in explicitly.
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
