package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/bindgen/errors"
)

// Build information. These variables are set at build time via ldflags.
var (
	// CommitHash is the git commit hash when the binary was built
	CommitHash = "dev"

	// BuildTime is when the binary was built
	BuildTime = "unknown"

	// Version is the semantic version (if tagged)
	Version = "dev"
)

// Info contains version and build information
type Info struct {
	CommitHash string `json:"commit_hash"`
	BuildTime  string `json:"build_time"`
	Version    string `json:"version"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the current version information
func Get() Info {
	return Info{
		CommitHash: CommitHash,
		BuildTime:  BuildTime,
		Version:    Version,
		GoVersion:  runtime.Version(),
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	if i.Version != "dev" {
		return fmt.Sprintf("bindgen %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildTime)
	}
	return fmt.Sprintf("bindgen dev (commit %s, built %s)", i.CommitHash, i.BuildTime)
}

// Short returns a short version string with just the commit hash
func (i Info) Short() string {
	if len(i.CommitHash) >= 7 {
		return i.CommitHash[:7]
	}
	return i.CommitHash
}

// CheckCompatible reports whether this generator satisfies a binding document's
// version constraint. An empty constraint always passes, and so does a dev
// build once the constraint itself parses.
func CheckCompatible(constraint string) error {
	return checkCompatible(Version, constraint)
}

func checkCompatible(current, constraint string) error {
	if constraint == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidSpec, "invalid version constraint %q: %v", constraint, err)
	}
	if current == "dev" {
		return nil
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		return errors.Wrapf(err, "invalid generator version %q", current)
	}
	if !c.Check(v) {
		return errors.WithHintf(
			errors.Wrapf(errors.ErrIncompatibleSpec, "binding document requires bindgen %s, but running %s", constraint, current),
			"upgrade bindgen or relax the 'requires' constraint",
		)
	}
	return nil
}
