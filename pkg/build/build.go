package build

import (
	"errors"
	"fmt"

	"golang.org/x/mod/semver"
)

var ErrBadVersion = errors.New("build version is not valid semver")

// Details represents known data for a given build
type Details struct {
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
}

// version and buildDate are injected at link time via -ldflags.
var version, buildDate string

// String returns build details as a string with formatting
// suitable for console output.
func String() string {
	return fmt.Sprintf("Build Details:\n\tVersion:\t%s\n\tDate:\t\t%s", version, buildDate)
}

// Data returns build details as a struct
func Data() Details {
	return Details{
		Version: version,
		Date:    buildDate,
	}
}

// Validate checks the injected version string. An empty version is allowed,
// local builds are not stamped; anything else must be valid semver.
func Validate() error {
	if version == "" {
		return nil
	}
	if !semver.IsValid(version) {
		return fmt.Errorf("version %q: %w", version, ErrBadVersion)
	}
	return nil
}
