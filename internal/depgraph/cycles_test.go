package depgraph

import "testing"

func TestFindCyclesDetectsStronglyConnectedComponent(t *testing.T) {
	g := New()
	// a -> b -> c -> a is a 3-cycle stored as imported->importing edges.
	g.AddImport("a.go", "b.go")
	g.AddImport("b.go", "c.go")
	g.AddImport("c.go", "a.go")
	g.AddNode("d.go", "")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if len(cycles[0]) != 3 {
		t.Errorf("expected cycle of 3 files, got %v", cycles[0])
	}
	if !g.HasCycles() {
		t.Error("expected HasCycles to report true")
	}
}

func TestFindCyclesDetectsSelfImport(t *testing.T) {
	g := New()
	g.AddImport("a.go", "a.go")

	cycles := g.FindCycles()
	if len(cycles) != 1 || len(cycles[0]) != 1 || cycles[0][0] != "a.go" {
		t.Errorf("expected self-loop cycle [a.go], got %v", cycles)
	}
}

func TestNoCyclesInAcyclicGraph(t *testing.T) {
	g := buildSample()
	if g.HasCycles() {
		t.Error("expected acyclic sample graph to report no cycles")
	}
	if cycles := g.FindCycles(); len(cycles) != 0 {
		t.Errorf("expected no cycles, got %v", cycles)
	}
}
