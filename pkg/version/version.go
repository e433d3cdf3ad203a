// Package version reports the build identity of the codebridge binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set through -ldflags "-X github.com/Sumatoshi-tech/codebridge/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = "<unknown>"
	Date    = "<unknown>"
)

// Info holds the resolved build identity.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the build identity, falling back to module build info when the
// binary was built without ldflags (e.g. go install).
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "<unknown>" {
				info.Commit = setting.Value
			}
		case "vcs.time":
			if info.Date == "<unknown>" {
				info.Date = setting.Value
			}
		}
	}

	return info
}

// String renders "codebridge <version> (commit: <commit>, built: <date>)".
func (i Info) String() string {
	return fmt.Sprintf("codebridge %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}
