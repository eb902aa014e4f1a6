// Package cli holds version and build information shared by the deduce
// command-line tools.
package cli

import (
	"fmt"
	"runtime"
)

// Version information for the CLI.
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-31"
	CommitSHA = "unknown" // Will be set during build
)

// VersionInfo contains version and build information.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	CommitSHA string `json:"commit_sha"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns structured version information.
func GetVersionInfo() *VersionInfo {
	return &VersionInfo{
		Version:   Version,
		BuildDate: BuildDate,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String renders version info in the plain multi-line format.
func (info *VersionInfo) String() string {
	s := fmt.Sprintf("deduce v%s\nBuild Date: %s\n", info.Version, info.BuildDate)
	if info.CommitSHA != "unknown" && info.CommitSHA != "" {
		s += fmt.Sprintf("Commit: %s\n", info.CommitSHA)
	}
	s += fmt.Sprintf("Go Version: %s\nPlatform: %s/%s\n", info.GoVersion, info.Platform, info.Arch)

	return s
}
