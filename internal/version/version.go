// Package version holds build metadata injected via ldflags.
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent is the default User-Agent sent by the client.
func UserAgent() string {
	return "swiftype-go/" + Version
}

// String formats the build metadata for the CLI.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
