// Package version reports the console build. Version, Commit and Date are
// stamped with -ldflags "-X github.com/gotrs-io/gotrs-console/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Build describes the running console and the API it serves pages for.
type Build struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	API     string `json:"api,omitempty"`
}

// Current returns the build info of a console pointed at api. api may be
// empty when no server is configured yet.
func Current(api string) Build {
	return Build{
		Version: Version,
		Commit:  Commit,
		Date:    Date,
		Go:      runtime.Version(),
		API:     api,
	}
}

// String returns "v0.3.0 (abc1234)".
func (b Build) String() string {
	return fmt.Sprintf("%s (%s)", b.Version, b.Commit)
}

// Full adds the build date, Go version and the API base URL when known.
func (b Build) Full() string {
	s := fmt.Sprintf("%s built %s with %s", b.String(), b.Date, b.Go)
	if b.API != "" {
		s += " for " + b.API
	}
	return s
}

// UserAgent is the User-Agent the console sends upstream.
func UserAgent() string { return "gotrs-console/" + Version }

// String returns the short version of the running binary.
func String() string { return Current("").String() }
