package centrality

import (
	"math"

	"github.com/repomap-dev/repomap/internal/depgraph"
)

// ComputeEigenvector runs power iteration over the undirected projection
// of the dependency graph (a file is "connected" to both what it depends
// on and what depends on it) until convergence or maxIterations. Each
// step adds a node's own score to its neighbors' sum (iterating A+I
// rather than A), so bipartite graphs such as a chain converge instead
// of oscillating; the principal eigenvector is the same.
func ComputeEigenvector(g *depgraph.Graph, maxIterations int, tolerance float64) map[string]float64 {
	nodes := g.Nodes()
	n := len(nodes)
	scores := make(map[string]float64, n)
	if n == 0 {
		return scores
	}
	for _, node := range nodes {
		scores[node] = 1.0 / math.Sqrt(float64(n))
	}

	neighbors := make(map[string][]string, n)
	for _, node := range nodes {
		neighbors[node] = append(append([]string{}, g.Edges[node]...), g.ReverseEdges[node]...)
	}

	for iter := 0; iter < maxIterations; iter++ {
		next := make(map[string]float64, n)
		for _, node := range nodes {
			sum := scores[node]
			for _, nb := range neighbors[node] {
				sum += scores[nb]
			}
			next[node] = sum
		}
		normalize(next)

		delta := 0.0
		for _, node := range nodes {
			delta += abs(next[node] - scores[node])
		}
		scores = next
		if delta < tolerance {
			break
		}
	}

	return scores
}
