package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/repomap-dev/repomap/internal/discovery"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Find circular import dependencies",
	Long: `Cycles runs Tarjan's strongly-connected-components algorithm over the
project's file import graph and reports every cycle found, each as the
alphabetically sorted list of files participating in it.`,
	RunE: runCycles,
}

func init() {
	rootCmd.AddCommand(cyclesCmd)
}

func runCycles(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	disc, err := discovery.Discover(root, discovery.Options{})
	if err != nil {
		return fmt.Errorf("discovering project files: %w", err)
	}

	g, err := buildImportGraph(root, disc)
	if err != nil {
		return fmt.Errorf("building dependency graph: %w", err)
	}

	cycles := g.FindCycles()

	return printResult(cmd.OutOrStdout(), cyclesOutput{Cycles: cycles}, func(w io.Writer) error {
		if len(cycles) == 0 {
			_, err := fmt.Fprintln(w, "No cycles found")
			return err
		}
		for i, c := range cycles {
			if _, err := fmt.Fprintf(w, "%d. %v\n", i+1, c); err != nil {
				return err
			}
		}
		return nil
	})
}

type cyclesOutput struct {
	Cycles [][]string `json:"cycles"`
}
