package version

import "fmt"

var (
	// Version is the current plugin version.
	// It should be populated by the build system (ldflags).
	Version = "0.0.6.1"

	// Commit is the git short hash of the build.
	Commit = "unknown"

	// Date is the build timestamp.
	Date = "unknown"
)

// Description is the plugin description reported to the host.
const Description = "Speedrun Demo Record, Maxx"

// String returns the static version line printed by the version command.
func String() string {
	return fmt.Sprintf("Version:%s", Version)
}
