// Command repomap is the CLI entry point for the repomap analysis engine.
package main

import (
	"github.com/repomap-dev/repomap/internal/cmd"
)

func main() {
	cmd.Execute()
}
