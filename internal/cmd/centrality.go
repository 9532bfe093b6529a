package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/repomap-dev/repomap/internal/centrality"
	"github.com/repomap-dev/repomap/internal/discovery"
)

var centralityCmd = &cobra.Command{
	Use:   "centrality",
	Short: "Rank files by structural importance",
	Long: `Centrality computes degree, betweenness, PageRank, HITS, eigenvector,
and closeness centrality over the project's file dependency graph, then
ranks files by the weighted composite score (degree 0.30, betweenness
0.25, pagerank 0.25, eigenvector 0.10, closeness 0.10).`,
	RunE: runCentrality,
}

var centralityTop int

func init() {
	rootCmd.AddCommand(centralityCmd)
	centralityCmd.Flags().IntVar(&centralityTop, "top", 10, "Number of files to show")
}

func runCentrality(cmd *cobra.Command, args []string) error {
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

	calc := centrality.NewCalculator(g)
	scores, err := calc.Compute(centrality.DefaultWeights())
	if err != nil {
		return fmt.Errorf("computing centrality: %w", err)
	}

	ranked := make([]*centrality.Scores, 0, len(scores))
	for _, s := range scores {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Composite != ranked[j].Composite {
			return ranked[i].Composite > ranked[j].Composite
		}
		return ranked[i].FilePath < ranked[j].FilePath
	})
	if len(ranked) > centralityTop {
		ranked = ranked[:centralityTop]
	}

	return printResult(cmd.OutOrStdout(), ranked, func(w io.Writer) error {
		for i, s := range ranked {
			if _, err := fmt.Fprintf(w, "%2d. %-60s composite=%.4f pagerank=%.4f betweenness=%.4f in=%d out=%d\n",
				i+1, s.FilePath, s.Composite, s.PageRank, s.Betweenness, s.InDegree, s.OutDegree); err != nil {
				return err
			}
		}
		return nil
	})
}
