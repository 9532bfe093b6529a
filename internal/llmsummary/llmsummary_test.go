package llmsummary

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/repomap-dev/repomap/internal/depgraph"
)

func TestEstimateTokensScalesWordCount(t *testing.T) {
	got := EstimateTokens("one two three four five")
	words := 5
	want := int(float64(words) * tokensPerWord)
	if got != want {
		t.Fatalf("EstimateTokens() = %d, want %d", got, want)
	}
}

func TestClampOptionsAppliesDefaultsAndBounds(t *testing.T) {
	opts := clampOptions(Options{})
	if opts.Budget != DefaultBudget || opts.Strategy != CentralityBased || opts.Timeout != DefaultTimeout {
		t.Fatalf("clampOptions(zero value) = %+v, want defaults", opts)
	}

	opts = clampOptions(Options{Budget: 100, Timeout: time.Second})
	if opts.Budget != MinBudget {
		t.Errorf("Budget = %d, want clamped to %d", opts.Budget, MinBudget)
	}
	if opts.Timeout != MinTimeout {
		t.Errorf("Timeout = %v, want clamped to %v", opts.Timeout, MinTimeout)
	}

	opts = clampOptions(Options{Budget: 100000, Timeout: time.Hour})
	if opts.Budget != MaxBudget {
		t.Errorf("Budget = %d, want clamped to %d", opts.Budget, MaxBudget)
	}
	if opts.Timeout != MaxTimeout {
		t.Errorf("Timeout = %v, want clamped to %v", opts.Timeout, MaxTimeout)
	}
}

func sampleEntries() []FileEntry {
	return []FileEntry{
		{FilePath: "low.go", Score: 0.1, FanIn: 1, FanOut: 1, KeyFunctions: []string{"Helper"}},
		{FilePath: "high.go", Score: 0.9, FanIn: 10, FanOut: 2, KeyFunctions: []string{"Core"}},
		{FilePath: "mid.go", Score: 0.5, FanIn: 3, FanOut: 3, KeyFunctions: []string{"Mid"}},
	}
}

func TestSummarizeCentralityOrdersByScoreDescending(t *testing.T) {
	a := New(nil)
	out, err := a.Summarize(context.Background(), sampleEntries(), Options{Strategy: CentralityBased})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	highIdx := strings.Index(out, "high.go")
	midIdx := strings.Index(out, "mid.go")
	lowIdx := strings.Index(out, "low.go")
	if !(highIdx < midIdx && midIdx < lowIdx) {
		t.Fatalf("Summarize() order wrong: high=%d mid=%d low=%d", highIdx, midIdx, lowIdx)
	}
}

func TestSummarizeTruncatesAtBudget(t *testing.T) {
	a := New(nil)
	out, err := a.Summarize(context.Background(), sampleEntries(), Options{Strategy: CentralityBased, Budget: MinBudget})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(out, "high.go") {
		t.Fatalf("Summarize() output missing highest-scored file: %s", out)
	}

	tiny := make([]FileEntry, 0, 200)
	for i := 0; i < 200; i++ {
		tiny = append(tiny, FileEntry{FilePath: "file.go", Score: float64(i), KeyFunctions: []string{"A", "B", "C", "D", "E", "F", "G", "H"}})
	}
	out, err = a.Summarize(context.Background(), tiny, Options{Strategy: CentralityBased, Budget: MinBudget})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if EstimateTokens(out) > MinBudget {
		t.Fatalf("Summarize() used %d tokens, want <= %d", EstimateTokens(out), MinBudget)
	}
}

func TestSummarizeRespectsExpiredContext(t *testing.T) {
	a := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Summarize(ctx, sampleEntries(), Options{})
	if err == nil {
		t.Fatal("Summarize() with an already-canceled context should return an error")
	}
}

func buildTestGraph() *depgraph.Graph {
	g := depgraph.New()
	g.AddImport("util.go", "high.go")
	g.AddImport("high.go", "mid.go")
	g.AddImport("mid.go", "low.go")
	return g
}

func TestOrderBreadthFirstStartsFromTopScore(t *testing.T) {
	a := New(buildTestGraph())
	entries := []FileEntry{
		{FilePath: "high.go", Score: 0.9},
		{FilePath: "mid.go", Score: 0.5},
		{FilePath: "low.go", Score: 0.1},
		{FilePath: "util.go", Score: 0.05},
	}
	ordered := a.order(entries, BreadthFirst)
	if ordered[0].FilePath != "high.go" {
		t.Fatalf("order(BreadthFirst)[0] = %q, want high.go", ordered[0].FilePath)
	}
	if len(ordered) != len(entries) {
		t.Fatalf("order(BreadthFirst) returned %d entries, want %d", len(ordered), len(entries))
	}
}

func TestOrderDepthFirstStartsFromTopScore(t *testing.T) {
	a := New(buildTestGraph())
	entries := []FileEntry{
		{FilePath: "high.go", Score: 0.9},
		{FilePath: "mid.go", Score: 0.5},
		{FilePath: "low.go", Score: 0.1},
	}
	ordered := a.order(entries, DepthFirst)
	if ordered[0].FilePath != "high.go" {
		t.Fatalf("order(DepthFirst)[0] = %q, want high.go", ordered[0].FilePath)
	}
}

func TestOrderHybridFavorsCloseHighScoreFiles(t *testing.T) {
	a := New(buildTestGraph())
	entries := []FileEntry{
		{FilePath: "high.go", Score: 0.9},
		{FilePath: "mid.go", Score: 0.5},
		{FilePath: "low.go", Score: 0.1},
	}
	ordered := a.order(entries, Hybrid)
	if ordered[0].FilePath != "high.go" {
		t.Fatalf("order(Hybrid)[0] = %q, want high.go (itself zero hops away)", ordered[0].FilePath)
	}
}

func TestOrderWithNilGraphFallsBackToScore(t *testing.T) {
	a := New(nil)
	ordered := a.order(sampleEntries(), BreadthFirst)
	if ordered[0].FilePath != "high.go" {
		t.Fatalf("order() with nil graph = %v, want score-ordered fallback", ordered)
	}
}
