// pkg/version/version.go
// Package version provides version metadata for the application.
package version

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
)

// These variables are typically injected at build time using -ldflags
var (
	// Version holds the current version of netlab.
	Version = "dev"
	// Commit holds the current version commit of netlab.
	Commit = "none"
	// BuildDate holds the build date of netlab.
	BuildDate = "unknown"
	// StartDate holds the process start time.
	StartDate = time.Now()
)

// Struct returns version information in a structured format.
type Struct struct {
	Version    string `json:"version" yaml:"version"`
	Commit     string `json:"commit" yaml:"commit"`
	BuildDate  string `json:"buildDate" yaml:"build_date"`
	Prerelease bool   `json:"prerelease" yaml:"prerelease"`
}

// Info returns a formatted version string.
func Info() string {
	return fmt.Sprintf("NetLab %s (commit: %s, date: %s)", Version, Commit, BuildDate)
}

// Get returns version information as a Struct.
func Get() Struct {
	return Struct{
		Version:    Version,
		Commit:     Commit,
		BuildDate:  BuildDate,
		Prerelease: IsPrerelease(Version),
	}
}

// IsPrerelease reports whether v is a development build or carries a
// semver pre-release suffix such as "1.2.0-rc.1".
func IsPrerelease(v string) bool {
	sv, err := semver.NewVersion(v)
	if err != nil {
		return true
	}
	return sv.Prerelease() != ""
}

// Uptime returns the time elapsed since the process started.
func Uptime() time.Duration {
	return time.Since(StartDate)
}
