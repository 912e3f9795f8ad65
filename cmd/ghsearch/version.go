package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Info contains version and build information.
type Info struct {
	Version   string
	BuildTime string
	GoVersion string
	Platform  string
}

// Get returns the current version information.
func Get() Info {
	buildVersion := "dev"
	buildTime := "unknown"

	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			buildVersion = info.Main.Version
		}
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				buildTime = setting.Value
			}
		}
	}

	return Info{
		Version:   buildVersion,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("ghsearch %s (built %s, %s, %s)", i.Version, i.BuildTime, i.GoVersion, i.Platform)
}
