package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/repomap-dev/repomap/internal/callgraph"
	"github.com/repomap-dev/repomap/internal/discovery"
	"github.com/repomap-dev/repomap/internal/tagcache"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the project and populate the tag cache",
	Long: `Scan walks the project root, parses every recognized source file, and
stores its extracted symbols (functions, methods, types, constants,
variables, imports) in the on-disk tag cache at .repomap/tags.db,
along with "call" and "reference" tags for every call-graph edge
touching the file.

A file's definition tags are only re-parsed when its content hash or
modification time has changed since the last scan; use --force to
re-parse everything. Call/reference tags are always recomputed, since
they depend on cross-file resolution over the whole project.`,
	RunE: runScan,
}

var scanForce bool

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "Re-parse every file, ignoring cache hits")
}

func runScan(cmd *cobra.Command, args []string) error {
	root, err := resolveRoot()
	if err != nil {
		return err
	}

	disc, err := discovery.Discover(root, discovery.Options{})
	if err != nil {
		return fmt.Errorf("discovering project files: %w", err)
	}

	cache, err := openCache(root)
	if err != nil {
		return fmt.Errorf("opening tag cache: %w", err)
	}
	defer cache.Close()

	tagsByFile := make(map[string][]tagcache.CodeTag, disc.Count())
	hashByFile := make(map[string]string, disc.Count())
	mtimeByFile := make(map[string]time.Time, disc.Count())

	var scanned, cached, failed int
	for _, f := range disc.AllFiles() {
		hash, mtime, err := tagcache.HashFile(f.Path)
		if err != nil {
			failed++
			log.WithError(err).WithField("file", f.Path).Warn("reading file for hash")
			continue
		}
		hashByFile[f.Path] = hash
		mtimeByFile[f.Path] = mtime

		if !scanForce {
			if existing, hit, err := cache.Lookup(f.Path, hash, mtime); err == nil && hit {
				cached++
				for _, t := range existing.Tags {
					if t.Kind != string(tagcache.KindCall) && t.Kind != string(tagcache.KindReference) {
						tagsByFile[f.Path] = append(tagsByFile[f.Path], t)
					}
				}
				continue
			}
		}

		entities, err := extractFileEntities(f.Path, f.Language)
		if err != nil {
			failed++
			log.WithError(err).WithField("file", f.Path).Warn("extracting entities")
			continue
		}

		tags := make([]tagcache.CodeTag, 0, len(entities))
		for i := range entities {
			tags = append(tags, tagcache.ToCodeTag(&entities[i], root))
		}
		tagsByFile[f.Path] = tags
		scanned++
	}

	files := make([]string, 0, disc.Count())
	for _, f := range disc.AllFiles() {
		files = append(files, f.Path)
	}
	graph, err := callgraph.Build(cmd.Context(), files, callgraph.Options{})
	if err != nil {
		log.WithError(err).Warn("call graph build failed, caching definition tags only")
	} else {
		for _, dep := range graph.Edges {
			tag, ok := tagcache.DependencyTag(dep, root)
			if !ok {
				continue
			}
			if _, known := hashByFile[tag.File]; !known {
				continue
			}
			tagsByFile[tag.File] = append(tagsByFile[tag.File], tag)
		}
	}

	for path, hash := range hashByFile {
		if err := cache.Store(path, hash, mtimeByFile[path], tagsByFile[path]); err != nil {
			failed++
			log.WithError(err).WithField("file", path).Warn("storing tags")
		}
	}

	stats, err := cache.GetStats()
	if err != nil {
		return fmt.Errorf("reading cache stats: %w", err)
	}

	return printResult(cmd.OutOrStdout(), scanSummary{
		FilesDiscovered: disc.Count(),
		FilesScanned:    scanned,
		FilesCached:     cached,
		FilesFailed:     failed,
		CachedFiles:     stats.FileCount,
		CachedTags:      stats.TagCount,
	}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Discovered %d files: %d scanned, %d unchanged, %d failed\nCache now holds %d files, %d tags\n",
			disc.Count(), scanned, cached, failed, stats.FileCount, stats.TagCount)
		return err
	})
}

type scanSummary struct {
	FilesDiscovered int   `json:"files_discovered"`
	FilesScanned    int   `json:"files_scanned"`
	FilesCached     int   `json:"files_cached"`
	FilesFailed     int   `json:"files_failed"`
	CachedFiles     int64 `json:"cached_files"`
	CachedTags      int64 `json:"cached_tags"`
}
