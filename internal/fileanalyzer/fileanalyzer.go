// Package fileanalyzer composes per-file tag, import, call-graph, and
// density data into a single FileAnalysisResult, the unit every
// higher-level analysis (impact, centrality summaries) is built from.
package fileanalyzer

import (
	"bufio"
	"os"

	"github.com/repomap-dev/repomap/internal/callgraph"
	"github.com/repomap-dev/repomap/internal/density"
	"github.com/repomap-dev/repomap/internal/extract"
	"github.com/repomap-dev/repomap/internal/importresolve"
	"github.com/repomap-dev/repomap/internal/parser"
	"github.com/repomap-dev/repomap/internal/tagcache"
)

// FileAnalysisResult is the complete per-file analysis: what a file
// imports, what it defines, what it calls, and how dense it is.
type FileAnalysisResult struct {
	FilePath         string
	Imports          []importresolve.Import
	FunctionCalls    []extract.Dependency
	DefinedFunctions []string
	DefinedClasses   []string
	Density          density.FileDensity
	LineCount        int
	AnalysisErrors   []string
}

// Analyzer composes the resolver, call graph, and tag cache into
// whole-file analyses.
type Analyzer struct {
	resolver    *importresolve.Resolver
	calls       *callgraph.Graph // optional; nil omits FunctionCalls
	projectRoot string
}

// New builds an Analyzer. calls may be nil if no cross-file call graph
// has been built yet; AnalyzeFile then leaves FunctionCalls empty.
func New(resolver *importresolve.Resolver, calls *callgraph.Graph, projectRoot string) *Analyzer {
	return &Analyzer{resolver: resolver, calls: calls, projectRoot: projectRoot}
}

// AnalyzeFile composes one file's already-extracted entities and tags
// into a FileAnalysisResult. It never returns an error; per-concern
// failures are recorded in AnalysisErrors so one missing piece (e.g. an
// unreadable file for line counting) doesn't blank out the rest.
func (a *Analyzer) AnalyzeFile(filePath string, entities []*extract.Entity, tags []tagcache.CodeTag, lang parser.Language) FileAnalysisResult {
	result := FileAnalysisResult{FilePath: filePath}

	if a.resolver != nil {
		fileImports := a.resolver.ResolveFile(filePath, entities, lang)
		result.Imports = fileImports.Imports
	}

	for _, e := range entities {
		switch e.Kind {
		case extract.FunctionEntity, extract.MethodEntity:
			result.DefinedFunctions = append(result.DefinedFunctions, e.Name)
		case extract.TypeEntity, extract.EnumEntity:
			result.DefinedClasses = append(result.DefinedClasses, e.Name)
		}
	}

	if a.calls != nil {
		result.FunctionCalls = a.callsOriginatingIn(filePath)
	}

	result.Density = density.AnalyzeFile(filePath, a.projectRoot, tags)

	lineCount, err := countLines(filePath)
	if err != nil {
		result.AnalysisErrors = append(result.AnalysisErrors, err.Error())
	}
	result.LineCount = lineCount

	return result
}

// callsOriginatingIn collects every Calls-typed dependency whose source
// entity is defined in filePath.
func (a *Analyzer) callsOriginatingIn(filePath string) []extract.Dependency {
	var calls []extract.Dependency
	for _, dep := range a.calls.Edges {
		if dep.DepType != extract.Calls {
			continue
		}
		source, ok := a.calls.Entities[dep.FromID]
		if !ok || entityFile(source) != filePath {
			continue
		}
		calls = append(calls, dep)
	}
	return calls
}

// entityFile recovers the file path from a CallGraphEntity's
// "file:line" Location.
func entityFile(e extract.CallGraphEntity) string {
	idx := lastColon(e.Location)
	if idx < 0 {
		return e.Location
	}
	return e.Location[:idx]
}

func lastColon(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			return i
		}
	}
	return -1
}

func countLines(filePath string) (int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		count++
	}
	return count, scanner.Err()
}
