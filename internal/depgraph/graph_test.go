package depgraph

import "testing"

// buildSample wires a -> b -> c style edges where AddImport(imported,
// importing) means "importing" imports "imported".
func buildSample() *Graph {
	g := New()
	g.AddImport("a.go", "b.go") // b imports a
	g.AddImport("b.go", "c.go") // c imports b
	return g
}

func TestDependenciesAndDependents(t *testing.T) {
	g := buildSample()

	deps := g.Dependencies("b.go")
	if len(deps) != 1 || deps[0] != "a.go" {
		t.Errorf("expected b.go to depend on a.go, got %v", deps)
	}

	dependents := g.Dependents("a.go")
	if len(dependents) != 1 || dependents[0] != "b.go" {
		t.Errorf("expected a.go to have dependent b.go, got %v", dependents)
	}
}

func TestTransitiveDependenciesAndDependents(t *testing.T) {
	g := buildSample()

	transDeps := g.TransitiveDependencies("c.go")
	if len(transDeps) != 2 {
		t.Errorf("expected c.go to transitively depend on 2 files, got %v", transDeps)
	}

	transDependents := g.TransitiveDependents("a.go")
	if len(transDependents) != 2 {
		t.Errorf("expected a.go to have 2 transitive dependents, got %v", transDependents)
	}
}

func TestRootsAndLeaves(t *testing.T) {
	g := buildSample()

	roots := g.Roots()
	if len(roots) != 1 || roots[0] != "a.go" {
		t.Errorf("expected a.go as the only root, got %v", roots)
	}

	leaves := g.Leaves()
	if len(leaves) != 1 || leaves[0] != "c.go" {
		t.Errorf("expected c.go as the only leaf, got %v", leaves)
	}
}

func TestSubgraphRestrictsToGivenFiles(t *testing.T) {
	g := buildSample()
	sub := g.Subgraph([]string{"a.go", "b.go"})

	if sub.NodeCount() != 2 {
		t.Errorf("expected 2 nodes in subgraph, got %d", sub.NodeCount())
	}
	if deps := sub.Dependencies("b.go"); len(deps) != 1 || deps[0] != "a.go" {
		t.Errorf("expected subgraph to keep a.go->b.go edge, got %v", deps)
	}
}

func TestComputeStats(t *testing.T) {
	g := buildSample()
	stats := g.ComputeStats()

	if stats.NodeCount != 3 {
		t.Errorf("expected 3 nodes, got %d", stats.NodeCount)
	}
	if stats.EdgeCount != 2 {
		t.Errorf("expected 2 edges, got %d", stats.EdgeCount)
	}
	if stats.RootCount != 1 || stats.LeafCount != 1 {
		t.Errorf("expected 1 root and 1 leaf, got roots=%d leaves=%d", stats.RootCount, stats.LeafCount)
	}
}
