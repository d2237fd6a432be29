// Command haptic plays haptic feedback patterns.
package main

import "github.com/opencode-ai/haptic/internal/cli"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersion(version, commit, date)
	cli.Main()
}
