package cmd

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/repomap-dev/repomap/internal/config"
	"github.com/repomap-dev/repomap/internal/depgraph"
	"github.com/repomap-dev/repomap/internal/discovery"
	"github.com/repomap-dev/repomap/internal/errs"
	"github.com/repomap-dev/repomap/internal/extract"
	"github.com/repomap-dev/repomap/internal/importresolve"
	"github.com/repomap-dev/repomap/internal/parser"
	"github.com/repomap-dev/repomap/internal/tagcache"
)

// resolveRoot turns the --root flag into an absolute project root.
func resolveRoot() (string, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return "", errs.New(errs.Configuration, "resolving project root", err)
	}
	return abs, nil
}

// loadConfig loads the project config, falling back to defaults when
// none is found, mirroring the teacher's own "best-effort config" load.
func loadConfig(root string) *config.Config {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load(root)
	}
	if err != nil {
		log.WithError(err).Debug("using default config")
		return config.DefaultConfig()
	}
	return cfg
}

// goModulePath reads the module path out of root's go.mod, returning ""
// if root has none (a non-Go or mixed-language project).
func goModulePath(root string) string {
	f, err := os.Open(filepath.Join(root, "go.mod"))
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module"))
		}
	}
	return ""
}

// extractFileEntities parses path and extracts its entities, dispatching
// to the language-specific extractor the way the teacher's scan command
// does. Returns (nil, nil) for languages without extraction support.
func extractFileEntities(path string, lang parser.Language) ([]extract.Entity, error) {
	p, err := parser.NewParser(lang)
	if err != nil {
		return nil, errs.New(errs.TagExtraction, "create parser for "+path, err)
	}
	defer p.Close()

	result, err := p.ParseFile(path)
	if err != nil {
		return nil, errs.New(errs.TagExtraction, "parse "+path, err)
	}
	defer result.Close()

	switch lang {
	case parser.Go:
		return extract.NewExtractorWithBase(result, "").ExtractAll()
	case parser.Python:
		return extract.NewPythonExtractor(result).ExtractAll()
	case parser.TypeScript, parser.JavaScript:
		return extract.NewTypeScriptExtractor(result).ExtractAll()
	case parser.Java:
		return extract.NewJavaExtractor(result).ExtractAll()
	case parser.Rust:
		return extract.NewRustExtractor(result).ExtractAll()
	case parser.C:
		return extract.NewCExtractor(result).ExtractAll()
	case parser.Cpp:
		return extract.NewCppExtractor(result).ExtractAll()
	case parser.CSharp:
		return extract.NewCSharpExtractor(result).ExtractAll()
	case parser.PHP:
		return extract.NewPHPExtractor(result).ExtractAll()
	case parser.Kotlin:
		return extract.NewKotlinExtractor(result).ExtractAll()
	case parser.Ruby:
		return extract.NewRubyExtractor(result).ExtractAll()
	default:
		return nil, nil
	}
}

// openCache opens the tag cache under root's .repomap directory, creating
// the directory if needed.
func openCache(root string) (*tagcache.Cache, error) {
	cacheDir, err := config.EnsureConfigDir(root)
	if err != nil {
		return nil, err
	}
	return tagcache.Open(cacheDir)
}

// buildImportGraph resolves every discovered file's imports against the
// project file index and folds them into a file-level dependency graph,
// the same imported->importing edge convention internal/depgraph uses.
func buildImportGraph(root string, disc *discovery.Discovery) (*depgraph.Graph, error) {
	files := make([]string, 0, disc.Count())
	for _, f := range disc.AllFiles() {
		files = append(files, f.Path)
	}

	resolver := importresolve.New(root, files, goModulePath(root))
	g := depgraph.New()

	for _, f := range disc.AllFiles() {
		g.AddNode(f.Path, string(f.Language))

		entities, err := extractFileEntities(f.Path, f.Language)
		if err != nil {
			log.WithError(err).WithField("file", f.Path).Debug("skipping file for import resolution")
			continue
		}

		fileImports := resolver.ResolveFile(f.Path, entityPointers(entities), f.Language)
		for _, imp := range fileImports.Imports {
			if imp.External || imp.ResolvedPath == "" {
				continue
			}
			g.AddImport(imp.ResolvedPath, f.Path)
		}
	}

	return g, nil
}

func entityPointers(entities []extract.Entity) []*extract.Entity {
	ptrs := make([]*extract.Entity, len(entities))
	for i := range entities {
		ptrs[i] = &entities[i]
	}
	return ptrs
}

// printResult renders v as JSON or as pre-formatted text, depending on
// --format. textFn is only invoked for the text format, so callers don't
// pay for building a text rendering that will be discarded.
func printResult(w io.Writer, v interface{}, textFn func(io.Writer) error) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return textFn(w)
}
