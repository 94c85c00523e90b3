// Package buildinfo exposes version metadata baked in at build time via
// -ldflags, with a debug.ReadBuildInfo fallback for plain `go install`
// builds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Set with:
//
//	go build -ldflags "-X .../buildinfo.Commit=$(git rev-parse --short HEAD) -X .../buildinfo.BuildTS=$(date -u +%s)"
var (
	Version = "0.3.0"
	Commit  = "unknown"
	BuildTS = "unknown"
)

// Render returns the multi-line version report.
func Render() string {
	commit, built := Commit, BuildTS

	if commit == "unknown" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					if len(s.Value) >= 7 {
						commit = s.Value[:7]
					}
				case "vcs.time":
					if built == "unknown" {
						built = s.Value
					}
				}
			}
		}
	}

	return fmt.Sprintf("%s\ncommit: %s\nbuilt: %s", Version, commit, built)
}
