package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repomap-dev/repomap/internal/callgraph"
	"github.com/repomap-dev/repomap/internal/discovery"
	"github.com/repomap-dev/repomap/internal/impact"
)

var impactCmd = &cobra.Command{
	Use:   "impact <file> [file...]",
	Short: "Analyze the blast radius of changing one or more files",
	Long: `Impact computes the transitive set of files affected by changing the
given files (via both import edges and cross-file function calls), a
composite risk score, a per-file breaking-change classification, and a
list of suggested tests to run before merging the change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImpact,
}

func init() {
	rootCmd.AddCommand(impactCmd)
}

func runImpact(cmd *cobra.Command, args []string) error {
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

	files := make([]string, 0, disc.Count())
	for _, f := range disc.AllFiles() {
		files = append(files, f.Path)
	}
	cfg := loadConfig(root)
	calls, err := callgraph.Build(cmd.Context(), files, callgraph.Options{MaxWorkers: cfg.Performance.MaxWorkers})
	if err != nil {
		return fmt.Errorf("building call graph: %w", err)
	}

	changed := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", a, err)
		}
		changed = append(changed, abs)
	}

	analyzer := impact.NewAnalyzer(g, calls)
	report := analyzer.AnalyzeChangeImpact(changed)

	return printResult(cmd.OutOrStdout(), report, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n\nRisk score: %.2f\nAffected files (%d): %v\nSuggested tests: %v\n",
			report.ImpactSummary, report.RiskScore, len(report.AffectedFiles), report.AffectedFiles, report.SuggestedTests)
		return err
	})
}
