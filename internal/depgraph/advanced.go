package depgraph

import "sort"

// StabilityMetrics captures Robert Martin's instability measure for a file:
// Ca (afferent coupling, i.e. dependents) and Ce (efferent coupling, i.e.
// dependencies), with Instability = Ce / (Ca + Ce).
type StabilityMetrics struct {
	FilePath     string
	Afferent     int
	Efferent     int
	Instability  float64
	IsStable     bool
	IsUnstable   bool
}

// ComputeStability returns stability metrics for every file in the graph.
// An isolated file (no dependents and no dependencies) gets Instability
// 0.5 rather than the Go zero value, since it is neither clearly stable
// nor clearly unstable.
func (g *Graph) ComputeStability() map[string]StabilityMetrics {
	out := make(map[string]StabilityMetrics, len(g.Edges))
	for node := range g.Edges {
		ca := len(g.Edges[node])        // dependents
		ce := len(g.ReverseEdges[node]) // dependencies
		instability := 0.5
		if ca+ce > 0 {
			instability = float64(ce) / float64(ca+ce)
		}
		out[node] = StabilityMetrics{
			FilePath:    node,
			Afferent:    ca,
			Efferent:    ce,
			Instability: instability,
			IsStable:    instability <= 0.3,
			IsUnstable:  instability >= 0.7,
		}
	}
	return out
}

// Cluster is a set of files connected to each other by import edges in
// either direction, as produced by IdentifyClusters.
type Cluster struct {
	ID    int
	Files []string
}

// IdentifyClusters groups files using connected-components over the
// undirected projection of the dependency graph. This is a coarse,
// deterministic grouping meant for a human-readable module overview,
// not a community-detection algorithm.
func (g *Graph) IdentifyClusters() []Cluster {
	undirected := make(map[string]map[string]struct{})
	for node := range g.Edges {
		undirected[node] = make(map[string]struct{})
	}
	for from, tos := range g.Edges {
		for _, to := range tos {
			undirected[from][to] = struct{}{}
			if undirected[to] == nil {
				undirected[to] = make(map[string]struct{})
			}
			undirected[to][from] = struct{}{}
		}
	}

	visited := make(map[string]bool)
	var clusters []Cluster
	id := 0
	for _, node := range g.Nodes() {
		if visited[node] {
			continue
		}
		var members []string
		queue := []string{node}
		visited[node] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			members = append(members, cur)
			neighbors := make([]string, 0, len(undirected[cur]))
			for n := range undirected[cur] {
				neighbors = append(neighbors, n)
			}
			sort.Strings(neighbors)
			for _, n := range neighbors {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Strings(members)
		clusters = append(clusters, Cluster{ID: id, Files: members})
		id++
	}
	return clusters
}

// DependencyDepth returns the length of the longest path from any root
// (a file with no dependencies) down to filePath, following dependency
// edges. A root itself has depth 0; an unknown file has depth 0.
func (g *Graph) DependencyDepth(filePath string) int {
	if _, ok := g.Edges[filePath]; !ok {
		return 0
	}

	depth := make(map[string]int)
	var visit func(node string, stack map[string]bool) int
	visit = func(node string, stack map[string]bool) int {
		if d, ok := depth[node]; ok {
			return d
		}
		if stack[node] {
			return 0
		}
		stack[node] = true
		defer delete(stack, node)

		best := 0
		for _, dep := range g.ReverseEdges[node] {
			if d := visit(dep, stack) + 1; d > best {
				best = d
			}
		}
		depth[node] = best
		return best
	}

	return visit(filePath, make(map[string]bool))
}

// Hotspot is a file flagged as structurally significant because many
// files depend on it (high fan-in).
type Hotspot struct {
	FilePath   string
	Dependents int
	Reason     string
}

// minHotspotGraphSize is the smallest graph IdentifyHotspots will apply
// its percentile threshold to. Below this, a percentile computed over a
// handful of nodes just names whichever file has the single highest
// fan-in, not a structurally significant outlier, so no file is flagged.
const minHotspotGraphSize = 5

// IdentifyHotspots flags files whose dependent count (fan-in) sits at or
// above the given percentile of the graph's fan-in distribution, with a
// floor of one dependent. A file's dependency count is not considered.
func (g *Graph) IdentifyHotspots(percentile float64) []Hotspot {
	if percentile <= 0 {
		percentile = 0.9
	}
	n := len(g.Edges)
	if n < minHotspotGraphSize {
		return nil
	}

	inDegrees := make([]int, 0, n)
	for node := range g.Edges {
		inDegrees = append(inDegrees, len(g.Edges[node]))
	}
	sort.Ints(inDegrees)
	idx := int(float64(len(inDegrees)) * percentile)
	if idx >= len(inDegrees) {
		idx = len(inDegrees) - 1
	}
	threshold := inDegrees[idx]
	if threshold < 1 {
		threshold = 1
	}

	var hotspots []Hotspot
	for _, node := range g.Nodes() {
		dependents := len(g.Edges[node])
		if dependents >= threshold {
			hotspots = append(hotspots, Hotspot{
				FilePath:   node,
				Dependents: dependents,
				Reason:     "high fan-in: many files depend on this one",
			})
		}
	}
	return hotspots
}

// RefactoringOpportunity names a file and a structural reason it may be
// worth splitting or decoupling.
type RefactoringOpportunity struct {
	FilePath    string
	Type        string
	Description string
}

// SuggestRefactoringOpportunities flags three kinds of file: a file in an
// import cycle with at least 3 dependencies ("break_cycle"); otherwise, a
// file with at least 10 dependencies and at most 1 dependent
// ("reduce_coupling"); and, for each cluster of 25 or more files, the
// cluster's alphabetically first file ("split_cluster").
func (g *Graph) SuggestRefactoringOpportunities() []RefactoringOpportunity {
	var suggestions []RefactoringOpportunity

	cycles := g.FindCycles()
	inCycle := make(map[string]bool)
	for _, cycle := range cycles {
		for _, f := range cycle {
			inCycle[f] = true
		}
	}

	stability := g.ComputeStability()
	for _, node := range g.Nodes() {
		s := stability[node]
		if inCycle[node] && s.Efferent >= 3 {
			suggestions = append(suggestions, RefactoringOpportunity{
				FilePath:    node,
				Type:        "break_cycle",
				Description: "participates in an import cycle and has several dependencies; consider extracting a shared interface",
			})
			continue
		}
		if s.Efferent >= 10 && s.Afferent <= 1 {
			suggestions = append(suggestions, RefactoringOpportunity{
				FilePath:    node,
				Type:        "reduce_coupling",
				Description: "imports many files while being imported by almost none; consider narrowing its dependencies",
			})
		}
	}

	for _, cluster := range g.IdentifyClusters() {
		if len(cluster.Files) >= 25 {
			suggestions = append(suggestions, RefactoringOpportunity{
				FilePath:    cluster.Files[0],
				Type:        "split_cluster",
				Description: "part of a densely interconnected cluster of files; consider splitting into smaller packages",
			})
		}
	}

	return suggestions
}
