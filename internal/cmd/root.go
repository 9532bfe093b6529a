// Package cmd wires the repomap analysis engine's core packages up to a
// trimmed spf13/cobra CLI: scan (populate the tag cache) plus the six
// core operations (analyze, search, graph, cycles, centrality, impact).
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the current version of repomap.
var Version = "0.1.0"

var (
	verbose      bool
	configPath   string
	rootPath     string
	outputFormat string

	log = logrus.New()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "repomap",
	Short: "Repository map and dependency analysis engine",
	Long: `repomap scans a codebase, builds its tag cache, import and call
dependency graphs, and exposes centrality, impact, and identifier-search
analysis over the result.

Typical workflow:
  repomap scan                 # populate the tag cache
  repomap analyze               # per-file density and project overview
  repomap search LoginUser      # fuzzy/semantic identifier search
  repomap graph                 # dependency graph summary
  repomap cycles                # circular import dependencies
  repomap centrality --top 10   # most structurally important files
  repomap impact auth/jwt.go    # blast radius of a prospective change

Global Flags:
  --root     Project root to analyze (default: current directory)
  --format   Output format: text (default) | json
  --config   Path to a .repomap/config.json file`,
	Version: Version,
}

// Execute runs the root command, exiting the process with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: <root>/.repomap/config.json)")
	rootCmd.PersistentFlags().StringVar(&rootPath, "root", ".", "Project root to analyze")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format (text|json)")

	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	cobra.OnInitialize(func() {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		} else {
			log.SetLevel(logrus.WarnLevel)
		}
	})
}
