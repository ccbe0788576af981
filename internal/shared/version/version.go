// Package version reports the build version stamped at link time.
package version

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version is set with -ldflags "-X github.com/ntwoods/dealerdocs/internal/shared/version.Version=1.2.3".
var Version = "dev"

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// String returns the canonical semver of the build, or "dev" for unstamped
// and non-semver builds.
func String() string {
	v := Normalize(Version)
	if !semver.IsValid(v) {
		return "dev"
	}
	return semver.Canonical(v)
}
