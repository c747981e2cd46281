package version

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Set at build time with -ldflags "-X".
var (
	BuildDate    = "unknown"
	BuildVersion = "0.0.0"
	Commit       = "unknown"
)

// BaseVersion returns "v<major>.<minor>" of the build, or "v0.0" if the
// build version is not semver.
func BaseVersion() string {
	v, err := semver.NewVersion(BuildVersion)
	if err != nil {
		return "v0.0"
	}

	return fmt.Sprintf("v%d.%d", v.Major(), v.Minor())
}

// String is printed by "typstify --version".
func String() string {
	v, err := semver.NewVersion(BuildVersion)
	if err != nil {
		return fmt.Sprintf("typstify %s (%s) on %s", BuildVersion, Commit, BuildDate)
	}
	return fmt.Sprintf("typstify %s (%s) on %s", v.String(), Commit, BuildDate)
}
