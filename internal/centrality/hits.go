package centrality

import (
	"math"

	"github.com/repomap-dev/repomap/internal/depgraph"
)

// HITSScores holds the hub and authority score for one node.
type HITSScores struct {
	Hub       float64
	Authority float64
}

// ComputeHITS runs Kleinberg's HITS algorithm to convergence or
// maxIterations, whichever comes first, and L2-normalizes each vector
// after every iteration.
func ComputeHITS(g *depgraph.Graph, maxIterations int, tolerance float64) map[string]HITSScores {
	nodes := g.Nodes()
	n := len(nodes)
	hub := make(map[string]float64, n)
	auth := make(map[string]float64, n)
	for _, node := range nodes {
		hub[node] = 1
		auth[node] = 1
	}
	if n == 0 {
		return map[string]HITSScores{}
	}

	for iter := 0; iter < maxIterations; iter++ {
		newAuth := make(map[string]float64, n)
		for _, node := range nodes {
			sum := 0.0
			for _, pred := range g.ReverseEdges[node] {
				sum += hub[pred]
			}
			newAuth[node] = sum
		}
		normalize(newAuth)

		newHub := make(map[string]float64, n)
		for _, node := range nodes {
			sum := 0.0
			for _, succ := range g.Edges[node] {
				sum += newAuth[succ]
			}
			newHub[node] = sum
		}
		normalize(newHub)

		delta := 0.0
		for _, node := range nodes {
			delta += abs(newHub[node]-hub[node]) + abs(newAuth[node]-auth[node])
		}

		hub = newHub
		auth = newAuth
		if delta < tolerance {
			break
		}
	}

	out := make(map[string]HITSScores, n)
	for _, node := range nodes {
		out[node] = HITSScores{Hub: hub[node], Authority: auth[node]}
	}
	return out
}

func normalize(m map[string]float64) {
	sumSq := 0.0
	for _, v := range m {
		sumSq += v * v
	}
	if sumSq == 0 {
		return
	}
	norm := math.Sqrt(sumSq)
	for k, v := range m {
		m[k] = v / norm
	}
}
