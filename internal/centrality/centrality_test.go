package centrality

import (
	"math"
	"testing"

	"github.com/repomap-dev/repomap/internal/depgraph"
)

// chain builds a -> b -> c style edges where AddImport(imported,
// importing) means "importing" imports "imported".
func chain() *depgraph.Graph {
	g := depgraph.New()
	g.AddImport("a.go", "b.go") // b imports a
	g.AddImport("b.go", "c.go") // c imports b
	return g
}

func TestComputePageRankSumsToOne(t *testing.T) {
	g := chain()
	scores := ComputePageRank(g, DefaultPageRankConfig())

	total := 0.0
	for _, v := range scores {
		total += v
	}
	if math.Abs(total-1.0) > 0.01 {
		t.Errorf("expected pagerank scores to sum to ~1.0, got %f", total)
	}
	if scores["c.go"] <= scores["a.go"] {
		t.Errorf("expected c.go (sink of the chain) to outrank a.go, got a=%f c=%f", scores["a.go"], scores["c.go"])
	}
}

func TestComputePageRankEmptyGraph(t *testing.T) {
	scores := ComputePageRank(depgraph.New(), DefaultPageRankConfig())
	if len(scores) != 0 {
		t.Errorf("expected no scores for empty graph, got %v", scores)
	}
}

func TestComputeBetweennessSmallGraphIsZero(t *testing.T) {
	g := depgraph.New()
	g.AddImport("a.go", "b.go")
	scores := ComputeBetweenness(g)
	for node, v := range scores {
		if v != 0 {
			t.Errorf("expected zero betweenness for graphs under 3 nodes, got %s=%f", node, v)
		}
	}
}

func TestComputeBetweennessFlagsMiddleNode(t *testing.T) {
	g := chain()
	scores := ComputeBetweenness(g)
	if scores["b.go"] <= scores["a.go"] {
		t.Errorf("expected b.go (on every shortest path) to have higher betweenness than a.go, got a=%f b=%f", scores["a.go"], scores["b.go"])
	}
}

func TestComputeHITSNormalizes(t *testing.T) {
	g := chain()
	scores := ComputeHITS(g, 100, 1e-6)

	if scores["a.go"].Hub <= scores["c.go"].Hub {
		t.Errorf("expected a.go to be a stronger hub than c.go, got a=%f c=%f", scores["a.go"].Hub, scores["c.go"].Hub)
	}
	if scores["c.go"].Authority <= scores["a.go"].Authority {
		t.Errorf("expected c.go to be a stronger authority than a.go, got a=%f c=%f", scores["a.go"].Authority, scores["c.go"].Authority)
	}
}

func TestComputeEigenvectorFavorsConnectedNode(t *testing.T) {
	g := chain()
	scores := ComputeEigenvector(g, 100, 1e-6)
	if scores["b.go"] <= scores["a.go"] || scores["b.go"] <= scores["c.go"] {
		t.Errorf("expected b.go (the hub of the chain) to outrank its endpoints, got %+v", scores)
	}
}

func TestComputeClosenessDisconnectedNodeIsZero(t *testing.T) {
	g := chain()
	g.AddNode("isolated.go", "")
	scores := ComputeCloseness(g)
	if scores["isolated.go"] != 0 {
		t.Errorf("expected isolated.go to have zero closeness, got %f", scores["isolated.go"])
	}
	if scores["b.go"] <= 0 {
		t.Errorf("expected b.go to have positive closeness, got %f", scores["b.go"])
	}
}

func TestCalculatorComputeRejectsBadWeights(t *testing.T) {
	c := NewCalculator(chain())
	_, err := c.Compute(Weights{Degree: 0.5})
	if err == nil {
		t.Error("expected an error for weights that do not sum to 1.0")
	}
}

func TestCalculatorTopNAndRanking(t *testing.T) {
	c := NewCalculator(chain())
	ranked, err := c.Ranking(DefaultWeights())
	if err != nil {
		t.Fatalf("Ranking returned error: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked files, got %d", len(ranked))
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Composite < ranked[i].Composite {
			t.Errorf("expected ranking sorted descending by composite, got %+v", ranked)
		}
	}

	top, err := c.TopN(2, DefaultWeights())
	if err != nil {
		t.Fatalf("TopN returned error: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("expected top 2 files, got %d", len(top))
	}
}

func TestCalculatorPercentile(t *testing.T) {
	c := NewCalculator(chain())
	p, err := c.Percentile("b.go", DefaultWeights())
	if err != nil {
		t.Fatalf("Percentile returned error: %v", err)
	}
	if p < 0 || p > 100 {
		t.Errorf("expected percentile in [0, 100], got %f", p)
	}

	unknown, err := c.Percentile("missing.go", DefaultWeights())
	if err != nil {
		t.Fatalf("Percentile returned error: %v", err)
	}
	if unknown != -1 {
		t.Errorf("expected -1 for an unknown file, got %f", unknown)
	}
}

func TestClassify(t *testing.T) {
	thresholds := DefaultImportanceThresholds()

	keystone := &Scores{PageRank: 0.5}
	if got := Classify(keystone, thresholds); got != ImportanceKeystone {
		t.Errorf("expected keystone classification, got %s", got)
	}

	bottleneck := &Scores{PageRank: 0.01, Betweenness: 0.5}
	if got := Classify(bottleneck, thresholds); got != ImportanceBottleneck {
		t.Errorf("expected bottleneck classification, got %s", got)
	}

	peripheral := &Scores{PageRank: 0.01, Betweenness: 0.01, Composite: 0.001}
	if got := Classify(peripheral, thresholds); got != ImportancePeripheral {
		t.Errorf("expected peripheral classification, got %s", got)
	}
}
