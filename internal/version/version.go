// Package version exposes build information stamped in via ldflags.
package version

// Overridden at build time with -ldflags "-X ...".
var (
	Version = "dev"
	Commit  = "unknown"
)
