package fileanalyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/repomap-dev/repomap/internal/callgraph"
	"github.com/repomap-dev/repomap/internal/extract"
	"github.com/repomap-dev/repomap/internal/importresolve"
	"github.com/repomap-dev/repomap/internal/parser"
	"github.com/repomap-dev/repomap/internal/tagcache"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s) error = %v", path, err)
	}
	return path
}

func TestAnalyzeFileComposesDefinitionsAndDensity(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "widget.go", "package widget\n\nfunc DoThing() {}\n")

	resolver := importresolve.New(dir, []string{path}, "")
	analyzer := New(resolver, nil, dir)

	entities := []*extract.Entity{
		{Kind: extract.FunctionEntity, Name: "DoThing", File: path, StartLine: 3},
		{Kind: extract.TypeEntity, Name: "Widget", File: path, StartLine: 1},
	}
	tags := []tagcache.CodeTag{
		{Name: "DoThing", Kind: "definition", File: path},
		{Name: "Widget", Kind: "class", File: path},
	}

	result := analyzer.AnalyzeFile(path, entities, tags, parser.Go)

	if len(result.DefinedFunctions) != 1 || result.DefinedFunctions[0] != "DoThing" {
		t.Errorf("DefinedFunctions = %v, want [DoThing]", result.DefinedFunctions)
	}
	if len(result.DefinedClasses) != 1 || result.DefinedClasses[0] != "Widget" {
		t.Errorf("DefinedClasses = %v, want [Widget]", result.DefinedClasses)
	}
	if result.Density.TotalIdentifiers != 2 {
		t.Errorf("Density.TotalIdentifiers = %d, want 2", result.Density.TotalIdentifiers)
	}
	if result.LineCount != 3 {
		t.Errorf("LineCount = %d, want 3", result.LineCount)
	}
	if len(result.AnalysisErrors) != 0 {
		t.Errorf("AnalysisErrors = %v, want none", result.AnalysisErrors)
	}
}

func TestAnalyzeFileRecordsErrorForMissingFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "gone.go")
	analyzer := New(nil, nil, dir)

	result := analyzer.AnalyzeFile(missing, nil, nil, parser.Go)

	if len(result.AnalysisErrors) == 0 {
		t.Fatal("AnalysisErrors is empty, want a line-count read error for a missing file")
	}
	if result.LineCount != 0 {
		t.Errorf("LineCount = %d, want 0 for unreadable file", result.LineCount)
	}
}

func TestAnalyzeFileFiltersCallsToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "widget.go", "package widget\n")

	calls := &callgraph.Graph{
		Entities: map[string]extract.CallGraphEntity{
			"widget.DoThing":     {ID: "widget.DoThing", Location: path + ":3"},
			"other.OtherFunc":    {ID: "other.OtherFunc", Location: "/proj/other.go:1"},
		},
		Edges: []extract.Dependency{
			{FromID: "widget.DoThing", ToID: "other.OtherFunc", DepType: extract.Calls},
			{FromID: "other.OtherFunc", ToID: "widget.DoThing", DepType: extract.Calls},
			{FromID: "widget.DoThing", ToID: "other.OtherFunc", DepType: extract.UsesType},
		},
	}

	analyzer := New(nil, calls, dir)
	result := analyzer.AnalyzeFile(path, nil, nil, parser.Go)

	if len(result.FunctionCalls) != 1 {
		t.Fatalf("FunctionCalls = %v, want exactly 1 call originating in widget.go", result.FunctionCalls)
	}
	if result.FunctionCalls[0].FromID != "widget.DoThing" {
		t.Errorf("FunctionCalls[0].FromID = %q, want widget.DoThing", result.FunctionCalls[0].FromID)
	}
}

func TestEntityFileParsesFileLineLocation(t *testing.T) {
	got := entityFile(extract.CallGraphEntity{Location: "/proj/widget.go:42"})
	if got != "/proj/widget.go" {
		t.Fatalf("entityFile() = %q, want /proj/widget.go", got)
	}
}

func TestEntityFileNoColonReturnsWholeLocation(t *testing.T) {
	got := entityFile(extract.CallGraphEntity{Location: "/proj/widget.go"})
	if got != "/proj/widget.go" {
		t.Fatalf("entityFile() = %q, want /proj/widget.go unchanged", got)
	}
}
