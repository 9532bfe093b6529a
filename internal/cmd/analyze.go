package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/repomap-dev/repomap/internal/callgraph"
	"github.com/repomap-dev/repomap/internal/centrality"
	"github.com/repomap-dev/repomap/internal/density"
	"github.com/repomap-dev/repomap/internal/discovery"
	"github.com/repomap-dev/repomap/internal/fileanalyzer"
	"github.com/repomap-dev/repomap/internal/importresolve"
	"github.com/repomap-dev/repomap/internal/llmsummary"
	"github.com/repomap-dev/repomap/internal/tagcache"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the project: per-file density, call graph, and a budgeted summary",
	Long: `Analyze runs the full per-file analysis pipeline over every discovered
file (imports, defined symbols, function calls, identifier density) and
renders a token-budgeted project summary ordered by structural
centrality, the way an LLM context window would consume it.

Analyze extracts every file's tags afresh on each run; it does not read
the tag cache that 'repomap scan' populates.`,
	RunE: runAnalyze,
}

var (
	analyzeBudget   int
	analyzeStrategy string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&analyzeBudget, "budget", llmsummary.DefaultBudget, "Token budget for the summary")
	analyzeCmd.Flags().StringVar(&analyzeStrategy, "strategy", string(llmsummary.CentralityBased),
		"Ordering strategy: centrality|breadth_first|depth_first|hybrid")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	disc, err := discovery.Discover(root, discovery.Options{})
	if err != nil {
		return fmt.Errorf("discovering project files: %w", err)
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

	resolver := importresolve.New(root, files, goModulePath(root))
	analyzer := fileanalyzer.New(resolver, calls, root)

	tagsByFile := make(map[string][]tagcache.CodeTag, disc.Count())
	results := make(map[string]fileanalyzer.FileAnalysisResult, disc.Count())

	for _, f := range disc.AllFiles() {
		entities, err := extractFileEntities(f.Path, f.Language)
		if err != nil {
			log.WithError(err).WithField("file", f.Path).Debug("skipping file for analysis")
			continue
		}

		ptrs := entityPointers(entities)
		tags := make([]tagcache.CodeTag, len(entities))
		for i, e := range ptrs {
			tags[i] = tagcache.ToCodeTag(e, root)
		}
		tagsByFile[f.Path] = tags

		results[f.Path] = analyzer.AnalyzeFile(f.Path, ptrs, tags, f.Language)
	}

	pkgDensity := density.AnalyzePackage(root, tagsByFile, root)

	g, err := buildImportGraph(root, disc)
	if err != nil {
		return fmt.Errorf("building dependency graph: %w", err)
	}

	calc := centrality.NewCalculator(g)
	scores, err := calc.Compute(centrality.DefaultWeights())
	if err != nil {
		return fmt.Errorf("computing centrality: %w", err)
	}

	entries := make([]llmsummary.FileEntry, 0, len(results))
	for path, s := range scores {
		r, ok := results[path]
		if !ok {
			continue
		}
		entries = append(entries, llmsummary.FileEntry{
			FilePath:     path,
			Score:        s.Composite,
			FanIn:        s.InDegree,
			FanOut:       s.OutDegree,
			KeyFunctions: r.DefinedFunctions,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].FilePath < entries[j].FilePath })

	summarizer := llmsummary.New(g)
	summary, err := summarizer.Summarize(cmd.Context(), entries, llmsummary.Options{
		Budget:   analyzeBudget,
		Strategy: llmsummary.Strategy(analyzeStrategy),
	})
	if err != nil {
		log.WithError(err).Warn("summary truncated by timeout")
	}

	out := analyzeOutput{
		FilesAnalyzed:    len(results),
		TotalIdentifiers: pkgDensity.TotalIdentifiers,
		Categories:       pkgDensity.Categories,
		Summary:          summary,
	}

	return printResult(cmd.OutOrStdout(), out, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Analyzed %d files, %d identifiers\n\n%s", out.FilesAnalyzed, out.TotalIdentifiers, out.Summary)
		return err
	})
}

type analyzeOutput struct {
	FilesAnalyzed    int                      `json:"files_analyzed"`
	TotalIdentifiers int                      `json:"total_identifiers"`
	Categories       map[density.Category]int `json:"categories"`
	Summary          string                   `json:"summary"`
}
