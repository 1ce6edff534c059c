package version

import "fmt"

// set via ldflags
//
//nolint:gochecknoglobals // build info
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

//nolint:gochecknoglobals // build info
var FullVersion = fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate)
