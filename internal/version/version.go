package version

import "fmt"

var (
	// Version is overridden via -ldflags "-X".
	Version = "1.0.0"
	Commit  = "dev"
	// BuildDate is injected at build time.
	BuildDate = "unknown"
)

func Full() string {
	return fmt.Sprintf("%s (commit:%s, built:%s)", Version, Commit, BuildDate)
}
