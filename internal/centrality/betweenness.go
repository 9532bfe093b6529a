package centrality

import "github.com/repomap-dev/repomap/internal/depgraph"

// ComputeBetweenness computes normalized betweenness centrality using
// Brandes' algorithm, treating the graph as directed along Edges.
func ComputeBetweenness(g *depgraph.Graph) map[string]float64 {
	nodes := g.Nodes()
	n := len(nodes)
	centrality := make(map[string]float64, n)
	for _, node := range nodes {
		centrality[node] = 0
	}
	if n < 3 {
		return centrality
	}

	for _, s := range nodes {
		stack := []string{}
		preds := make(map[string][]string, n)
		sigma := make(map[string]float64, n)
		dist := make(map[string]int, n)
		for _, v := range nodes {
			sigma[v] = 0
			dist[v] = -1
		}
		sigma[s] = 1
		dist[s] = 0

		queue := []string{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			stack = append(stack, v)
			for _, w := range g.Edges[v] {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		delta := make(map[string]float64, n)
		for i := len(stack) - 1; i >= 0; i-- {
			w := stack[i]
			for _, v := range preds[w] {
				if sigma[w] != 0 {
					delta[v] += (sigma[v] / sigma[w]) * (1 + delta[w])
				}
			}
			if w != s {
				centrality[w] += delta[w]
			}
		}
	}

	norm := 1.0 / float64((n-1)*(n-2))
	for node := range centrality {
		centrality[node] *= norm
	}
	return centrality
}
