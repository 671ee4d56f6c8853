// cmd/subline/main.go
package main

import (
	cmd "github.com/mwiater/subline/internal/cli"
)

// Build-time variables injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the subline CLI application by delegating to the
// cobra root command defined in the subline package.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
