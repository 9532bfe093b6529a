package centrality

import "github.com/repomap-dev/repomap/internal/depgraph"

// PageRankConfig controls the PageRank iteration.
type PageRankConfig struct {
	Damping       float64
	MaxIterations int
	Tolerance     float64
}

// DefaultPageRankConfig matches the values used across the retrieved
// corpus's own PageRank implementations.
func DefaultPageRankConfig() PageRankConfig {
	return PageRankConfig{Damping: 0.85, MaxIterations: 100, Tolerance: 0.0001}
}

// ComputePageRank runs PageRank over the dependency graph's edges,
// treating an edge imported->importing as a "vote" from the imported
// file toward the importing file.
func ComputePageRank(g *depgraph.Graph, cfg PageRankConfig) map[string]float64 {
	nodes := g.Nodes()
	n := len(nodes)
	scores := make(map[string]float64, n)
	if n == 0 {
		return scores
	}

	initial := 1.0 / float64(n)
	for _, node := range nodes {
		scores[node] = initial
	}

	incoming := make(map[string][]string, n)
	outDegree := make(map[string]int, n)
	for _, node := range nodes {
		outDegree[node] = len(g.Edges[node])
		for _, target := range g.Edges[node] {
			incoming[target] = append(incoming[target], node)
		}
	}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		next := make(map[string]float64, n)
		danglingSum := 0.0
		for _, node := range nodes {
			if outDegree[node] == 0 {
				danglingSum += scores[node]
			}
		}

		base := (1 - cfg.Damping) / float64(n)
		danglingShare := cfg.Damping * danglingSum / float64(n)

		maxDelta := 0.0
		for _, node := range nodes {
			sum := 0.0
			for _, src := range incoming[node] {
				if outDegree[src] > 0 {
					sum += scores[src] / float64(outDegree[src])
				}
			}
			val := base + danglingShare + cfg.Damping*sum
			next[node] = val
			if d := abs(val - scores[node]); d > maxDelta {
				maxDelta = d
			}
		}

		scores = next
		if maxDelta < cfg.Tolerance {
			break
		}
	}

	return scores
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
