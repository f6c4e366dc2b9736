// Package buildinfo reports which tetris build is running.
//
// Release builds stamp the values through the linker:
//
//	go build -ldflags "-X github.com/matzehuels/tetris/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/tetris/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/tetris/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/tetris
//
// Unstamped builds (go run, go test) report a development build.
package buildinfo

import "fmt"

// Name is the tool name printed in version output.
const Name = "tetris"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Dev reports whether the binary was built without release stamping.
func Dev() bool { return Version == "dev" }

// String returns a one-line summary, e.g. "tetris v0.3.0 (abc1234, 2026-10-18T09:00:00Z)".
func String() string {
	if Dev() {
		return fmt.Sprintf("%s development build (commit %s)", Name, Commit)
	}
	return fmt.Sprintf("%s %s (%s, %s)", Name, Version, Commit, Date)
}

// Template returns the --version template for cobra.
func Template() string {
	return String() + "\n"
}
