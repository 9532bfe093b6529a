package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/repomap-dev/repomap/internal/discovery"
)

var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Show the file dependency graph, or one file's neighbors",
	Long: `Graph builds the project's file-level import dependency graph. With
no argument, it prints overall graph statistics (nodes, edges, roots,
leaves). Given a file, it prints that file's dependencies (files it
imports) and dependents (files that import it).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
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

	if len(args) == 0 {
		stats := g.ComputeStats()
		return printResult(cmd.OutOrStdout(), stats, func(w io.Writer) error {
			_, err := fmt.Fprintf(w, "Nodes: %d  Edges: %d  Roots: %d  Leaves: %d  MaxInDegree: %d  MaxOutDegree: %d  AvgInDegree: %.2f  Density: %.4f\n",
				stats.NodeCount, stats.EdgeCount, stats.RootCount, stats.LeafCount, stats.MaxInDegree, stats.MaxOutDegree, stats.AvgInDegree, stats.Density)
			return err
		})
	}

	target := args[0]
	out := fileGraphOutput{
		File:         target,
		Dependencies: g.Dependencies(target),
		Dependents:   g.Dependents(target),
	}
	return printResult(cmd.OutOrStdout(), out, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n  depends on (%d): %v\n  depended on by (%d): %v\n",
			out.File, len(out.Dependencies), out.Dependencies, len(out.Dependents), out.Dependents)
		return err
	})
}

type fileGraphOutput struct {
	File         string   `json:"file"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}
