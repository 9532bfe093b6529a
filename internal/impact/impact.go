// Package impact analyzes the blast radius of a set of changed files:
// the transitive affected set, a composite risk score, per-file
// breaking-change classification, and suggested tests to run.
package impact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/repomap-dev/repomap/internal/callgraph"
	"github.com/repomap-dev/repomap/internal/depgraph"
)

// Report is the result of analyzing the impact of a set of changed files.
type Report struct {
	ChangedFiles            []string
	AffectedFiles           []string
	RiskScore               float64
	DirectImpact            []string
	TransitiveImpact        []string
	BreakingChangePotential map[string]string
	SuggestedTests          []string
	ImpactSummary           string
}

// Analyzer computes Reports over a dependency graph and an optional
// call graph (used to widen the affected set with cross-file function
// call dependents, not just import edges).
type Analyzer struct {
	graph *depgraph.Graph
	calls *callgraph.Graph

	mu           sync.Mutex
	cache        map[string]*Report
	CacheEnabled bool
}

// NewAnalyzer builds an Analyzer over the given dependency graph. calls
// may be nil, in which case affected sets are computed from import
// edges alone.
func NewAnalyzer(g *depgraph.Graph, calls *callgraph.Graph) *Analyzer {
	return &Analyzer{graph: g, calls: calls, cache: make(map[string]*Report), CacheEnabled: true}
}

// AnalyzeChangeImpact analyzes the impact of changing changedFiles,
// returning a cached report when one exists for the same sorted file
// set and caching is enabled. Never returns an error: any internal
// failure produces a safe-fallback report with RiskScore 1.0.
func (a *Analyzer) AnalyzeChangeImpact(changedFiles []string) *Report {
	if len(changedFiles) == 0 {
		return &Report{ImpactSummary: "No files specified for change"}
	}

	key := cacheKey(changedFiles)
	if a.CacheEnabled {
		a.mu.Lock()
		cached, ok := a.cache[key]
		a.mu.Unlock()
		if ok {
			return cached
		}
	}

	report := a.safeAnalyze(changedFiles)

	if a.CacheEnabled {
		a.mu.Lock()
		a.cache[key] = report
		a.mu.Unlock()
	}
	return report
}

// safeAnalyze wraps analyze with a recover so a panic in any of the
// graph heuristics degrades to the spec's safe-fallback report instead
// of propagating, matching the never-raises invariant callers depend on.
func (a *Analyzer) safeAnalyze(changedFiles []string) (report *Report) {
	defer func() {
		if r := recover(); r != nil {
			report = &Report{
				ChangedFiles:  changedFiles,
				AffectedFiles: []string{},
				RiskScore:     1.0,
				ImpactSummary: fmt.Sprintf("Error during impact analysis: %v", r),
			}
		}
	}()
	return a.analyze(changedFiles)
}

func (a *Analyzer) analyze(changedFiles []string) *Report {
	affected := a.findAffectedFiles(changedFiles)
	riskScore := a.calculateOverallRiskScore(changedFiles, affected)
	breakingChange := a.assessBreakingChangePotential(changedFiles)
	suggestedTests := a.suggestTestFiles(changedFiles, affected)
	summary := generateImpactSummary(changedFiles, affected, riskScore, breakingChange)

	affectedList := sortedSet(affected)
	changedSet := toSet(changedFiles)
	var transitive []string
	for f := range affected {
		if _, isChanged := changedSet[f]; !isChanged {
			transitive = append(transitive, f)
		}
	}
	sort.Strings(transitive)

	return &Report{
		ChangedFiles:            changedFiles,
		AffectedFiles:           affectedList,
		RiskScore:               riskScore,
		DirectImpact:            changedFiles,
		TransitiveImpact:        transitive,
		BreakingChangePotential: breakingChange,
		SuggestedTests:          suggestedTests,
		ImpactSummary:           summary,
	}
}

func (a *Analyzer) findAffectedFiles(changedFiles []string) map[string]struct{} {
	affected := toSet(changedFiles)
	for _, file := range changedFiles {
		for _, dep := range a.graph.TransitiveDependents(file) {
			affected[dep] = struct{}{}
		}
		for _, dep := range a.callGraphDependents(file) {
			affected[dep] = struct{}{}
		}
	}
	return affected
}

// callGraphDependents returns the files containing functions that call
// a function defined in file, per the call graph.
func (a *Analyzer) callGraphDependents(file string) []string {
	if a.calls == nil {
		return nil
	}
	files := make(map[string]struct{})
	for id, entity := range a.calls.Entities {
		if entityFile(entity.Location) != file {
			continue
		}
		for _, callerID := range a.calls.Callers(id) {
			callerEntity, ok := a.calls.Entities[callerID]
			if !ok {
				continue
			}
			if callerFile := entityFile(callerEntity.Location); callerFile != "" && callerFile != file {
				files[callerFile] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(files))
	for f := range files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// functionCallDependentCount counts distinct call-graph-derived
// dependents of file, used for the MEDIUM/HIGH breaking-change bump.
func (a *Analyzer) functionCallDependentCount(file string) int {
	return len(a.callGraphDependents(file))
}

func entityFile(location string) string {
	idx := strings.LastIndex(location, ":")
	if idx < 0 {
		return location
	}
	return location[:idx]
}

func (a *Analyzer) calculateOverallRiskScore(changedFiles []string, affected map[string]struct{}) float64 {
	const base = 0.3
	fileCountRisk := min(float64(len(changedFiles))*0.1, 0.3)
	affectedCountRisk := min(float64(len(affected))*0.05, 0.4)
	centralityRisk := a.calculateCentralityRisk(changedFiles)
	breakingChangeRisk := a.calculateBreakingChangeRisk(changedFiles)

	total := base + fileCountRisk + affectedCountRisk + centralityRisk + breakingChangeRisk
	return min(total, 1.0)
}

// minStructuralGraphSize mirrors depgraph.minHotspotGraphSize: below
// this many files, degree-ratio signals like "very stable" don't carry
// enough structure to mean anything, so the bonus they'd otherwise add
// to centrality risk is skipped.
const minStructuralGraphSize = 5

func (a *Analyzer) calculateCentralityRisk(changedFiles []string) float64 {
	known := toSet(a.graph.Nodes())
	hotspots := toSet(hotspotPaths(a.graph))
	stability := a.graph.ComputeStability()
	structurallySignificant := len(known) >= minStructuralGraphSize

	risk := 0.0
	for _, file := range changedFiles {
		if _, ok := known[file]; !ok {
			continue
		}
		if _, isHotspot := hotspots[file]; isHotspot {
			risk += 0.15
		}
		if a.graph.DependencyDepth(file) > 3 {
			risk += 0.1
		}
		if structurallySignificant {
			if s, ok := stability[file]; ok && s.Instability < 0.3 {
				risk += 0.1
			}
		}
	}
	return min(risk, 0.3)
}

func (a *Analyzer) calculateBreakingChangeRisk(changedFiles []string) float64 {
	known := toSet(a.graph.Nodes())
	cycles := a.graph.FindCycles()

	risk := 0.0
	for _, file := range changedFiles {
		if _, ok := known[file]; !ok {
			continue
		}
		if len(a.graph.Dependents(file)) > 5 {
			risk += 0.1
		}
		if inAnyCycle(cycles, file) {
			risk += 0.1
		}
	}
	return min(risk, 0.2)
}

func (a *Analyzer) assessBreakingChangePotential(changedFiles []string) map[string]string {
	hotspots := toSet(hotspotPaths(a.graph))
	cycles := a.graph.FindCycles()
	known := toSet(a.graph.Nodes())

	result := make(map[string]string, len(changedFiles))
	for _, file := range changedFiles {
		if _, ok := known[file]; !ok {
			result[file] = "UNKNOWN"
			continue
		}

		level := "LOW"
		dependents := len(a.graph.Dependents(file))
		if dependents > 10 {
			level = "HIGH"
		} else if dependents > 5 {
			level = "MEDIUM"
		}

		if _, isHotspot := hotspots[file]; isHotspot {
			level = "HIGH"
		}
		if inAnyCycle(cycles, file) {
			level = "HIGH"
		}

		if fc := a.functionCallDependentCount(file); fc > 8 {
			level = "HIGH"
		} else if fc > 4 && level != "HIGH" {
			level = "MEDIUM"
		}

		result[file] = level
	}
	return result
}

func (a *Analyzer) suggestTestFiles(changedFiles []string, affected map[string]struct{}) []string {
	suggestions := make(map[string]struct{})

	for _, file := range changedFiles {
		if test := findTestFile(file); test != "" {
			suggestions[test] = struct{}{}
		}
	}

	for file := range affected {
		if len(a.graph.Dependents(file)) > 3 {
			if test := findTestFile(file); test != "" {
				suggestions[test] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(suggestions))
	for s := range suggestions {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

var testNamePatterns = []string{"test_%s%s", "%s_test%s", "%s.test%s"}

// findTestFile looks for a conventionally-named test file alongside
// source in a sibling tests/ or test/ directory, one or two levels up.
func findTestFile(source string) string {
	dir := filepath.Dir(source)
	ext := filepath.Ext(source)
	stem := strings.TrimSuffix(filepath.Base(source), ext)

	candidates := []string{
		filepath.Join(dir, "tests"),
		filepath.Join(dir, "test"),
		filepath.Join(filepath.Dir(dir), "tests"),
		filepath.Join(filepath.Dir(dir), "test"),
	}

	for _, testDir := range candidates {
		info, err := os.Stat(testDir)
		if err != nil || !info.IsDir() {
			continue
		}
		for _, pattern := range testNamePatterns {
			candidate := filepath.Join(testDir, fmt.Sprintf(pattern, stem, ext))
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}
	return ""
}

func generateImpactSummary(changedFiles []string, affected map[string]struct{}, riskScore float64, breakingChange map[string]string) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Changes to %d file(s) will affect %d file(s) total.", len(changedFiles), len(affected)))

	riskLevel := "LOW"
	if riskScore > 0.8 {
		riskLevel = "HIGH"
	} else if riskScore > 0.5 {
		riskLevel = "MEDIUM"
	}
	parts = append(parts, fmt.Sprintf("Overall risk level: %s (score: %s).", riskLevel, strconv.FormatFloat(riskScore, 'f', 2, 64)))

	var highRisk []string
	for f, level := range breakingChange {
		if level == "HIGH" {
			highRisk = append(highRisk, f)
		}
	}
	if len(highRisk) > 0 {
		parts = append(parts, fmt.Sprintf("High breaking change potential in %d file(s).", len(highRisk)))
	}

	switch {
	case riskScore > 0.7:
		parts = append(parts, "Recommend comprehensive testing and careful review.")
	case riskScore > 0.4:
		parts = append(parts, "Recommend focused testing of affected areas.")
	default:
		parts = append(parts, "Low risk changes, standard testing should suffice.")
	}

	return strings.Join(parts, " ")
}

func hotspotPaths(g *depgraph.Graph) []string {
	hotspots := g.IdentifyHotspots(0)
	out := make([]string, 0, len(hotspots))
	for _, h := range hotspots {
		out = append(out, h.FilePath)
	}
	return out
}

func inAnyCycle(cycles [][]string, file string) bool {
	for _, cycle := range cycles {
		for _, f := range cycle {
			if f == file {
				return true
			}
		}
	}
	return false
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for item := range set {
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}

func cacheKey(files []string) string {
	sorted := append([]string{}, files...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
