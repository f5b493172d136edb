// Package version exposes the build metadata served at /version.
package version

import "runtime"

const serviceName = "clinic-appointments-relay"

// Stamped via -ldflags at release build time; the defaults identify a local
// development build.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the /version response payload.
type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

// Get assembles the build info for the running binary.
func Get() Info {
	return Info{
		Service:   serviceName,
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
	}
}
