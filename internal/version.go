package internal

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// SysConfDir is the directory holding the system configuration, it can be overridden at link time with
// -ldflags "-X github.com/rentals/rooms/internal.SysConfDir=/usr/local/etc".
var SysConfDir = "/etc"

// Version contains version and Git commit information.
//
// The placeholders are replaced on `git archive` using the `export-subst` attribute.
var Version = version("0.1.0-dev", "$Format:%(describe)$", "$Format:%H$")

// VersionInfo holds the version of the daemon and the commit it was built from.
type VersionInfo struct {
	Version string
	Commit  string
}

// Print writes verbose version output to stdout.
func (v *VersionInfo) Print(projectName string) {
	fmt.Println(projectName, "version:", v.Version)
	fmt.Println()

	fmt.Println("Build information:")
	fmt.Printf("  Go version: %s (%s, %s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if v.Commit != "" {
		fmt.Println("  Git commit:", v.Commit)
	}
}

// version determines version and commit information based on multiple data sources:
//   - Version information dynamically added by `git archive` in the remaining two parameters.
//   - A hardcoded version number passed as first parameter.
//   - Commit information added to the binary by `go build`.
func version(version, gitDescribe, gitHash string) *VersionInfo {
	const hashLen = 40

	if len(gitDescribe) > 0 && gitDescribe[0] != '$' && len(gitHash) == hashLen {
		return &VersionInfo{Version: gitDescribe, Commit: gitHash}
	}

	commit := ""
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				commit = setting.Value
			}
		}
	}

	return &VersionInfo{Version: version, Commit: commit}
}
