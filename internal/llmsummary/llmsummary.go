// Package llmsummary shapes centrality and impact results into
// token-budgeted text summaries for LLM consumption. It never calls an
// LLM itself; it only selects and truncates content to fit a budget.
package llmsummary

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/repomap-dev/repomap/internal/depgraph"
	"github.com/repomap-dev/repomap/internal/errs"
)

// Strategy selects how files are ordered into the summary.
type Strategy string

const (
	// CentralityBased orders files by Score descending.
	CentralityBased Strategy = "centrality"
	// BreadthFirst expands from the highest-scoring file via the
	// dependency graph, level by level.
	BreadthFirst Strategy = "breadth_first"
	// DepthFirst expands from the highest-scoring file, following the
	// first unvisited dependent/dependency at each step.
	DepthFirst Strategy = "depth_first"
	// Hybrid blends centrality score with BFS distance from the
	// top-ranked file.
	Hybrid Strategy = "hybrid"
)

const (
	DefaultBudget  = 4000
	MinBudget      = 1000
	MaxBudget      = 8000
	DefaultTimeout = 30 * time.Second
	MinTimeout     = 5 * time.Second
	MaxTimeout     = 120 * time.Second
)

// tokensPerWord is the whitespace-word-to-token scaling factor.
const tokensPerWord = 1.3

// EstimateTokens estimates the token count of text via a whitespace-word
// heuristic scaled by 1.3.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(float64(words) * tokensPerWord)
}

// FileEntry is one file's centrality/impact summary input.
type FileEntry struct {
	FilePath     string
	Score        float64
	FanIn        int
	FanOut       int
	KeyFunctions []string
}

// Options configures a Summarize call.
type Options struct {
	Budget   int
	Strategy Strategy
	Timeout  time.Duration
}

// DefaultOptions returns the default budget, strategy, and timeout.
func DefaultOptions() Options {
	return Options{Budget: DefaultBudget, Strategy: CentralityBased, Timeout: DefaultTimeout}
}

func clampOptions(opts Options) Options {
	if opts.Budget == 0 {
		opts.Budget = DefaultBudget
	}
	if opts.Budget < MinBudget {
		opts.Budget = MinBudget
	}
	if opts.Budget > MaxBudget {
		opts.Budget = MaxBudget
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Timeout < MinTimeout {
		opts.Timeout = MinTimeout
	}
	if opts.Timeout > MaxTimeout {
		opts.Timeout = MaxTimeout
	}
	if opts.Strategy == "" {
		opts.Strategy = CentralityBased
	}
	return opts
}

// Analyzer selects and renders FileEntry summaries against a dependency
// graph, for fan-in/fan-out and graph-walk ordering.
type Analyzer struct {
	graph *depgraph.Graph
}

// New builds an Analyzer over graph. graph may be nil; BreadthFirst,
// DepthFirst, and Hybrid then fall back to centrality ordering.
func New(graph *depgraph.Graph) *Analyzer {
	return &Analyzer{graph: graph}
}

// Summarize orders entries per opts.Strategy and renders per-file
// sections until the token budget is exhausted or ctx's timeout elapses.
// A context deadline reached mid-render yields the summary built so far
// alongside a Timeout error; callers may still use the partial text.
func (a *Analyzer) Summarize(ctx context.Context, entries []FileEntry, opts Options) (string, error) {
	opts = clampOptions(opts)

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	ordered := a.order(entries, opts.Strategy)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Summary of %d files (strategy: %s)\n\n", len(ordered), opts.Strategy))

	for _, entry := range ordered {
		if err := ctx.Err(); err != nil {
			return sb.String(), errs.New(errs.Timeout, "llm summary render", err)
		}

		section := renderSection(entry)
		if EstimateTokens(sb.String()+section) > opts.Budget {
			break
		}
		sb.WriteString(section)
	}

	return sb.String(), nil
}

func renderSection(e FileEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n", e.FilePath)
	fmt.Fprintf(&sb, "score=%.3f fan_in=%d fan_out=%d\n", e.Score, e.FanIn, e.FanOut)
	if len(e.KeyFunctions) > 0 {
		fmt.Fprintf(&sb, "key functions: %s\n", strings.Join(e.KeyFunctions, ", "))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (a *Analyzer) order(entries []FileEntry, strategy Strategy) []FileEntry {
	byScore := append([]FileEntry(nil), entries...)
	sort.Slice(byScore, func(i, j int) bool {
		if byScore[i].Score != byScore[j].Score {
			return byScore[i].Score > byScore[j].Score
		}
		return byScore[i].FilePath < byScore[j].FilePath
	})

	if a.graph == nil || len(byScore) == 0 {
		return byScore
	}

	switch strategy {
	case BreadthFirst:
		return a.traverse(byScore, breadthFirstOrder)
	case DepthFirst:
		return a.traverse(byScore, depthFirstOrder)
	case Hybrid:
		return a.hybridOrder(byScore)
	default:
		return byScore
	}
}

// traverse walks the dependency graph starting from the top-scoring
// file using walkOrder, falling back to the remaining score-ordered
// entries for anything the walk never reaches.
func (a *Analyzer) traverse(byScore []FileEntry, walkOrder func(g *depgraph.Graph, root string) []string) []FileEntry {
	byPath := make(map[string]FileEntry, len(byScore))
	for _, e := range byScore {
		byPath[e.FilePath] = e
	}

	visited := make(map[string]bool)
	var ordered []FileEntry
	for _, path := range walkOrder(a.graph, byScore[0].FilePath) {
		if e, ok := byPath[path]; ok && !visited[path] {
			visited[path] = true
			ordered = append(ordered, e)
		}
	}
	for _, e := range byScore {
		if !visited[e.FilePath] {
			visited[e.FilePath] = true
			ordered = append(ordered, e)
		}
	}
	return ordered
}

func breadthFirstOrder(g *depgraph.Graph, root string) []string {
	var order []string
	visited := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		neighbors := append(append([]string{}, g.Dependents(node)...), g.Dependencies(node)...)
		for _, n := range neighbors {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return order
}

func depthFirstOrder(g *depgraph.Graph, root string) []string {
	var order []string
	visited := make(map[string]bool)
	var visit func(node string)
	visit = func(node string) {
		if visited[node] {
			return
		}
		visited[node] = true
		order = append(order, node)
		for _, n := range g.Dependents(node) {
			visit(n)
		}
		for _, n := range g.Dependencies(node) {
			visit(n)
		}
	}
	visit(root)
	return order
}

// hybridOrder blends centrality score with BFS distance from the
// top-ranked file: relevance = score / (1 + hop).
func (a *Analyzer) hybridOrder(byScore []FileEntry) []FileEntry {
	byPath := make(map[string]FileEntry, len(byScore))
	for _, e := range byScore {
		byPath[e.FilePath] = e
	}

	hops := make(map[string]int)
	hops[byScore[0].FilePath] = 0
	queue := []string{byScore[0].FilePath}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		neighbors := append(append([]string{}, a.graph.Dependents(node)...), a.graph.Dependencies(node)...)
		for _, n := range neighbors {
			if _, seen := hops[n]; !seen {
				hops[n] = hops[node] + 1
				queue = append(queue, n)
			}
		}
	}

	type scored struct {
		entry     FileEntry
		relevance float64
	}
	all := make([]scored, 0, len(byScore))
	for _, e := range byScore {
		hop, ok := hops[e.FilePath]
		if !ok {
			hop = len(byScore) // unreached files sink to the bottom
		}
		all = append(all, scored{entry: e, relevance: e.Score / float64(1+hop)})
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].relevance > all[j].relevance
	})

	ordered := make([]FileEntry, len(all))
	for i, s := range all {
		ordered[i] = s.entry
	}
	return ordered
}
