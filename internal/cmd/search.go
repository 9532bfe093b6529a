package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/repomap-dev/repomap/internal/config"
	"github.com/repomap-dev/repomap/internal/embeddings"
	"github.com/repomap-dev/repomap/internal/match"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search cached identifiers by name using the hybrid matcher",
	Long: `Search matches query against every identifier in the tag cache using
the fuzzy + domain-semantic + adaptive TF-IDF hybrid matcher. Pass --embed
to additionally score candidates with a local Ollama embedding model,
pulling the four-way weighted fusion instead of the three-way one;
computed vectors are cached under .repomap/cache/embeddings.

Run 'repomap scan' first to populate the identifier corpus.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

var (
	searchTop       int
	searchThreshold int
	searchEmbed     bool
)

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchTop, "top", 10, "Number of results to return")
	searchCmd.Flags().IntVar(&searchThreshold, "threshold", 10, "Minimum match score (0-100)")
	searchCmd.Flags().BoolVar(&searchEmbed, "embed", false, "Score matches with a local Ollama embedding model in addition to fuzzy/TF-IDF/domain matching")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	root, err := resolveRoot()
	if err != nil {
		return err
	}

	threshold := searchThreshold
	if !cmd.Flags().Changed("threshold") {
		if cfg := loadConfig(root); cfg.FuzzyMatch.Threshold > 0 {
			threshold = cfg.FuzzyMatch.Threshold
		}
	}

	cache, err := openCache(root)
	if err != nil {
		return fmt.Errorf("opening tag cache: %w", err)
	}
	defer cache.Close()

	allTags, err := cache.AllTags()
	if err != nil {
		return fmt.Errorf("reading tag cache: %w", err)
	}

	seen := make(map[string]struct{})
	var corpus []string
	for _, tags := range allTags {
		for _, t := range tags {
			if _, ok := seen[t.Name]; ok {
				continue
			}
			seen[t.Name] = struct{}{}
			corpus = append(corpus, t.Name)
		}
	}
	if len(corpus) == 0 {
		return fmt.Errorf("tag cache is empty: run 'repomap scan' first")
	}

	var embedMatcher *match.EmbeddingMatcher
	if searchEmbed {
		configDir, err := config.EnsureConfigDir(root)
		if err != nil {
			return fmt.Errorf("preparing embedding cache: %w", err)
		}
		embedMatcher = match.NewEmbeddingMatcher(embeddings.NewOllamaEmbedder(), filepath.Join(configDir, "cache", "embeddings"))
	}

	hybrid := match.NewHybridMatcher(
		match.NewFuzzyMatcher(),
		match.NewAdaptiveSemanticMatcher(),
		match.NewDomainSemanticMatcher(),
		embedMatcher,
	)
	hybrid.Adaptive.Learn(corpus)

	matches, err := hybrid.Match(context.Background(), query, corpus, threshold)
	if err != nil {
		return fmt.Errorf("matching: %w", err)
	}
	if len(matches) > searchTop {
		matches = matches[:searchTop]
	}

	return printResult(cmd.OutOrStdout(), searchOutput{Query: query, Matches: matches}, func(w io.Writer) error {
		if len(matches) == 0 {
			_, err := fmt.Fprintf(w, "No matches for %q\n", query)
			return err
		}
		for _, m := range matches {
			if _, err := fmt.Fprintf(w, "%3d  %s\n", m.Score, m.Identifier); err != nil {
				return err
			}
		}
		return nil
	})
}

type searchOutput struct {
	Query   string        `json:"query"`
	Matches []match.Match `json:"matches"`
}
