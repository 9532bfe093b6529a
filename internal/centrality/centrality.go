// Package centrality computes and ranks structural importance measures
// over the project's file dependency graph: degree, betweenness,
// PageRank, HITS, eigenvector, closeness, and a weighted composite.
package centrality

import (
	"fmt"
	"sort"

	"github.com/repomap-dev/repomap/internal/depgraph"
)

// Scores holds every centrality measure computed for one file.
type Scores struct {
	FilePath    string
	Degree      float64
	InDegree    int
	OutDegree   int
	Betweenness float64
	PageRank    float64
	Hub         float64
	Authority   float64
	Eigenvector float64
	Closeness   float64
	Composite   float64
}

// Weights configures the composite centrality blend. Values must sum to 1.0.
type Weights struct {
	Degree      float64
	Betweenness float64
	PageRank    float64
	Eigenvector float64
	Closeness   float64
}

// DefaultWeights matches the corpus's own default composite weighting.
func DefaultWeights() Weights {
	return Weights{Degree: 0.30, Betweenness: 0.25, PageRank: 0.25, Eigenvector: 0.10, Closeness: 0.10}
}

// Calculator computes centrality measures over a dependency graph,
// memoizing each measure so repeated queries don't recompute it.
type Calculator struct {
	graph  *depgraph.Graph
	scores map[string]*Scores
}

// NewCalculator builds a Calculator over the given dependency graph.
func NewCalculator(g *depgraph.Graph) *Calculator {
	return &Calculator{graph: g}
}

// ClearCache drops any memoized scores, forcing recomputation on next use.
func (c *Calculator) ClearCache() { c.scores = nil }

// Compute returns centrality scores for every file, computing and caching
// them on first call.
func (c *Calculator) Compute(weights Weights) (map[string]*Scores, error) {
	if err := validateWeights(weights); err != nil {
		return nil, err
	}
	if c.scores != nil {
		return c.scores, nil
	}

	nodes := c.graph.Nodes()
	scores := make(map[string]*Scores, len(nodes))
	for _, node := range nodes {
		scores[node] = &Scores{
			FilePath:  node,
			InDegree:  len(c.graph.Dependencies(node)),
			OutDegree: len(c.graph.Dependents(node)),
		}
	}

	n := len(nodes)
	maxDegree := 0
	for _, node := range nodes {
		d := scores[node].InDegree + scores[node].OutDegree
		if d > maxDegree {
			maxDegree = d
		}
	}
	for _, node := range nodes {
		if maxDegree > 0 {
			scores[node].Degree = float64(scores[node].InDegree+scores[node].OutDegree) / float64(maxDegree)
		}
	}

	betweenness := ComputeBetweenness(c.graph)
	pagerank := ComputePageRank(c.graph, DefaultPageRankConfig())
	hits := ComputeHITS(c.graph, 100, 1e-6)
	eigen := ComputeEigenvector(c.graph, 100, 1e-6)
	closeness := ComputeCloseness(c.graph)

	for _, node := range nodes {
		s := scores[node]
		s.Betweenness = betweenness[node]
		s.PageRank = pagerank[node]
		s.Hub = hits[node].Hub
		s.Authority = hits[node].Authority
		s.Eigenvector = eigen[node]
		s.Closeness = closeness[node]
		s.Composite = weights.Degree*s.Degree +
			weights.Betweenness*s.Betweenness +
			weights.PageRank*s.PageRank +
			weights.Eigenvector*s.Eigenvector +
			weights.Closeness*s.Closeness
	}

	if n > 0 {
		c.scores = scores
	}
	return scores, nil
}

func validateWeights(w Weights) error {
	total := w.Degree + w.Betweenness + w.PageRank + w.Eigenvector + w.Closeness
	if total < 0.999 || total > 1.001 {
		return fmt.Errorf("centrality weights must sum to 1.0, got %f", total)
	}
	return nil
}

// TopN returns the n files with the highest composite score.
func (c *Calculator) TopN(n int, weights Weights) ([]*Scores, error) {
	scores, err := c.Compute(weights)
	if err != nil {
		return nil, err
	}
	ranked := rankByComposite(scores)
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n], nil
}

// Ranking returns every file ordered from most to least central.
func (c *Calculator) Ranking(weights Weights) ([]*Scores, error) {
	scores, err := c.Compute(weights)
	if err != nil {
		return nil, err
	}
	return rankByComposite(scores), nil
}

// Percentile returns what percentile of the composite-score distribution
// filePath falls at, in [0, 100]. Returns -1 if filePath is unknown.
func (c *Calculator) Percentile(filePath string, weights Weights) (float64, error) {
	ranked, err := c.Ranking(weights)
	if err != nil {
		return 0, err
	}
	n := len(ranked)
	if n == 0 {
		return -1, nil
	}
	for i, s := range ranked {
		if s.FilePath == filePath {
			below := n - 1 - i
			return float64(below) / float64(n) * 100, nil
		}
	}
	return -1, nil
}

func rankByComposite(scores map[string]*Scores) []*Scores {
	ranked := make([]*Scores, 0, len(scores))
	for _, s := range scores {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Composite != ranked[j].Composite {
			return ranked[i].Composite > ranked[j].Composite
		}
		return ranked[i].FilePath < ranked[j].FilePath
	})
	return ranked
}

// Importance classifies a file's structural role.
type Importance string

const (
	ImportanceKeystone   Importance = "keystone"
	ImportanceBottleneck Importance = "bottleneck"
	ImportanceNormal     Importance = "normal"
	ImportancePeripheral Importance = "peripheral"
)

// ImportanceThresholds configures keystone/bottleneck/peripheral cutoffs.
type ImportanceThresholds struct {
	KeystonePageRank     float64
	BottleneckBetweenness float64
	PeripheralComposite   float64
}

// DefaultImportanceThresholds matches the corpus's own defaults.
func DefaultImportanceThresholds() ImportanceThresholds {
	return ImportanceThresholds{KeystonePageRank: 0.1, BottleneckBetweenness: 0.1, PeripheralComposite: 0.02}
}

// Classify assigns an Importance label to a score using the given thresholds.
func Classify(s *Scores, t ImportanceThresholds) Importance {
	switch {
	case s.PageRank >= t.KeystonePageRank:
		return ImportanceKeystone
	case s.Betweenness >= t.BottleneckBetweenness:
		return ImportanceBottleneck
	case s.Composite <= t.PeripheralComposite:
		return ImportancePeripheral
	default:
		return ImportanceNormal
	}
}

// IsKeystone reports whether a file's PageRank is at or above the keystone threshold.
func IsKeystone(s *Scores, t ImportanceThresholds) bool {
	return s.PageRank >= t.KeystonePageRank
}

// IsBottleneck reports whether a file's betweenness is at or above the bottleneck threshold.
func IsBottleneck(s *Scores, t ImportanceThresholds) bool {
	return s.Betweenness >= t.BottleneckBetweenness
}
