package centrality

import "github.com/repomap-dev/repomap/internal/depgraph"

// ComputeCloseness computes closeness centrality from shortest-path
// distances over the undirected projection of the graph: the inverse of
// the average distance from a node to every other reachable node,
// scaled by the fraction of the graph that node can reach (Wasserman-Faust
// normalization), so disconnected graphs still produce comparable scores.
func ComputeCloseness(g *depgraph.Graph) map[string]float64 {
	nodes := g.Nodes()
	n := len(nodes)
	closeness := make(map[string]float64, n)
	if n < 2 {
		for _, node := range nodes {
			closeness[node] = 0
		}
		return closeness
	}

	undirected := make(map[string][]string, n)
	for _, node := range nodes {
		undirected[node] = append(undirected[node], g.Edges[node]...)
		undirected[node] = append(undirected[node], g.ReverseEdges[node]...)
	}

	for _, source := range nodes {
		dist := bfsDistances(source, undirected)
		reachable := 0
		totalDist := 0
		for _, d := range dist {
			if d > 0 {
				reachable++
				totalDist += d
			}
		}
		if reachable == 0 || totalDist == 0 {
			closeness[source] = 0
			continue
		}
		avgDist := float64(totalDist) / float64(reachable)
		fractionReachable := float64(reachable) / float64(n-1)
		closeness[source] = (1.0 / avgDist) * fractionReachable
	}

	return closeness
}

func bfsDistances(start string, adj map[string][]string) map[string]int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			if _, seen := dist[nb]; !seen {
				dist[nb] = dist[cur] + 1
				queue = append(queue, nb)
			}
		}
	}
	return dist
}
