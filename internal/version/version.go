package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	// Name of the application
	AppName = "FxHabit"

	// Version of the application
	Version = "0.3.0-dev"

	// Git commit hash of the application
	Revision = "HEAD"
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	// Prefer module version when set by release builds.
	if Version == "0.3.0-dev" || Version == "" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			Version = strings.TrimPrefix(v, "v")
		}
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && (Revision == "HEAD" || Revision == "") {
			Revision = s.Value
			if len(Revision) > 8 {
				Revision = Revision[:8]
			}
		}
	}
}

// Detailed returns a human readable version string for --version output.
func Detailed() string {
	return fmt.Sprintf("%s (%s; %s/%s; %s)", Version, Revision, runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// UserAgent returns the User-Agent value sent on every API call.
func UserAgent() string {
	return fmt.Sprintf("%s/%s (%s; %s; %s)", AppName, Version, Revision, runtime.GOOS, runtime.GOARCH)
}
