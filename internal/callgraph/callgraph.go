// Package callgraph coordinates per-file entity and dependency
// extraction across a project, building a single cross-file call graph
// out of the kept per-language extractors in internal/extract. Files
// are processed on a bounded worker pool; each file's dependencies are
// merged into the shared graph under a single mutex, following the
// spec's "single mutex-protected merge step" model.
package callgraph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/repomap-dev/repomap/internal/errs"
	"github.com/repomap-dev/repomap/internal/extract"
	"github.com/repomap-dev/repomap/internal/parser"
)

// dependencyExtractor is satisfied by every language's generated
// CallGraphExtractor (CallGraphExtractor, PythonCallGraphExtractor,
// JavaCallGraphExtractor, ...); each exposes the same
// ExtractDependencies signature.
type dependencyExtractor interface {
	ExtractDependencies() ([]extract.Dependency, error)
}

// FileFailure records a single file's extraction failure without
// aborting the rest of the build.
type FileFailure struct {
	Path    string
	Message string
}

// Graph is the merged, project-wide call graph: every entity found
// across every analyzed file, and every dependency edge between them.
type Graph struct {
	mu       sync.Mutex
	Entities map[string]extract.CallGraphEntity
	Edges    []extract.Dependency
	Failures []FileFailure
}

func newGraph() *Graph {
	return &Graph{Entities: make(map[string]extract.CallGraphEntity)}
}

func (g *Graph) merge(entities []extract.CallGraphEntity, deps []extract.Dependency) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, e := range entities {
		g.Entities[e.ID] = e
	}
	g.Edges = append(g.Edges, deps...)
}

func (g *Graph) recordFailure(path string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Failures = append(g.Failures, FileFailure{Path: path, Message: err.Error()})
}

// Callers returns every entity ID that calls targetID.
func (g *Graph) Callers(targetID string) []string {
	set := make(map[string]struct{})
	for _, d := range g.Edges {
		if d.ToID == targetID && d.DepType == extract.Calls {
			set[d.FromID] = struct{}{}
		}
	}
	return sortedKeys(set)
}

// Callees returns every entity ID that sourceID calls.
func (g *Graph) Callees(sourceID string) []string {
	set := make(map[string]struct{})
	for _, d := range g.Edges {
		if d.FromID == sourceID && d.DepType == extract.Calls {
			set[d.ToID] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Options configures a project-wide call graph build.
type Options struct {
	MaxWorkers int // worker pool size; files are processed concurrently above this
}

// Build parses every file in the given list and merges their entities
// and dependencies into a single project-wide Graph. A per-file failure
// (parser construction, parse error, extraction error) is recorded in
// Graph.Failures and does not abort the build, matching the spec's
// parallel-processing fault-tolerance model. Files whose extension maps
// to no supported language are skipped without recording a failure.
func Build(ctx context.Context, files []string, opts Options) (*Graph, error) {
	if opts.MaxWorkers <= 0 {
		opts.MaxWorkers = 8
	}

	g := newGraph()
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.MaxWorkers)

	for _, path := range files {
		path := path
		eg.Go(func() error {
			if egCtx.Err() != nil {
				return egCtx.Err()
			}
			if err := processFile(path, g); err != nil {
				g.recordFailure(path, err)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, errs.New(errs.ParallelProcessing, "build call graph", err)
	}
	return g, nil
}

func processFile(path string, g *Graph) error {
	lang := parser.LanguageFromExtension(extOf(path))
	if lang == "" {
		return nil
	}

	p, err := parser.NewParser(lang)
	if err != nil {
		return errs.New(errs.TagExtraction, fmt.Sprintf("unsupported language for %s", path), err)
	}

	result, err := p.ParseFile(path)
	if err != nil {
		return errs.New(errs.TagExtraction, fmt.Sprintf("parse %s", path), err)
	}

	withNodes, err := extractEntitiesWithNodes(lang, result)
	if err != nil {
		return errs.New(errs.TagExtraction, fmt.Sprintf("extract entities %s", path), err)
	}
	if len(withNodes) == 0 {
		return nil
	}

	cgEntities := make([]extract.CallGraphEntity, 0, len(withNodes))
	for _, ewn := range withNodes {
		ce := ewn.Entity.ToCallGraphEntity()
		ce.Node = ewn.Node
		cgEntities = append(cgEntities, ce)
	}

	depExtractor := newDependencyExtractor(lang, result, cgEntities)
	if depExtractor == nil {
		g.merge(cgEntities, nil)
		return nil
	}

	deps, err := depExtractor.ExtractDependencies()
	if err != nil {
		return errs.New(errs.TagExtraction, fmt.Sprintf("extract dependencies %s", path), err)
	}

	g.merge(cgEntities, deps)
	return nil
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}

func extractEntitiesWithNodes(lang parser.Language, result *parser.ParseResult) ([]extract.EntityWithNode, error) {
	switch lang {
	case parser.Go:
		return extract.NewExtractor(result).ExtractAllWithNodes()
	case parser.Python:
		return extract.NewPythonExtractor(result).ExtractAllWithNodes()
	case parser.TypeScript, parser.JavaScript:
		return extract.NewTypeScriptExtractor(result).ExtractAllWithNodes()
	case parser.Java:
		return extract.NewJavaExtractor(result).ExtractAllWithNodes()
	case parser.CSharp:
		return extract.NewCSharpExtractor(result).ExtractAllWithNodes()
	case parser.C:
		return extract.NewCExtractor(result).ExtractAllWithNodes()
	case parser.Cpp:
		return extract.NewCppExtractor(result).ExtractAllWithNodes()
	case parser.PHP:
		return extract.NewPHPExtractor(result).ExtractAllWithNodes()
	case parser.Kotlin:
		return extract.NewKotlinExtractor(result).ExtractAllWithNodes()
	case parser.Ruby:
		return extract.NewRubyExtractor(result).ExtractAllWithNodes()
	case parser.Rust:
		return extract.NewRustExtractor(result).ExtractAllWithNodes()
	default:
		return nil, nil
	}
}

func newDependencyExtractor(lang parser.Language, result *parser.ParseResult, entities []extract.CallGraphEntity) dependencyExtractor {
	switch lang {
	case parser.Go:
		return extract.NewCallGraphExtractor(result, entities)
	case parser.Python:
		return extract.NewPythonCallGraphExtractor(result, entities)
	case parser.TypeScript, parser.JavaScript:
		return extract.NewTypeScriptCallGraphExtractor(result, entities)
	case parser.Java:
		return extract.NewJavaCallGraphExtractor(result, entities)
	case parser.CSharp:
		return extract.NewCSharpCallGraphExtractor(result, entities)
	case parser.C:
		return extract.NewCCallGraphExtractor(result, entities)
	case parser.Cpp:
		return extract.NewCppCallGraphExtractor(result, entities)
	case parser.PHP:
		return extract.NewPHPCallGraphExtractor(result, entities)
	case parser.Kotlin:
		return extract.NewKotlinCallGraphExtractor(result, entities)
	case parser.Ruby:
		return extract.NewRubyCallGraphExtractor(result, entities)
	case parser.Rust:
		return extract.NewRustCallGraphExtractor(result, entities)
	default:
		return nil
	}
}
