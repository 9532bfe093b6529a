// Package density computes identifier-density metrics over CodeTags:
// per-file counts by category (classes, functions, methods, variables,
// imports), and aggregates across a package/directory.
package density

import (
	"path/filepath"
	"sort"

	"github.com/repomap-dev/repomap/internal/tagcache"
)

// Category names a density bucket. Buckets intentionally coarsen the
// tagcache.Kind taxonomy: "classes" absorbs type/enum declarations,
// "variables" absorbs constants, and call/reference/other tags are
// not counted as identifier density.
type Category string

const (
	CategoryClasses   Category = "classes"
	CategoryFunctions Category = "functions"
	CategoryMethods   Category = "methods"
	CategoryVariables Category = "variables"
	CategoryImports   Category = "imports"
)

var allCategories = []Category{
	CategoryClasses, CategoryFunctions, CategoryMethods, CategoryVariables, CategoryImports,
}

func emptyCategories() map[Category]int {
	counts := make(map[Category]int, len(allCategories))
	for _, c := range allCategories {
		counts[c] = 0
	}
	return counts
}

// FileDensity holds density metrics for a single file.
type FileDensity struct {
	FilePath           string
	RelativePath       string
	TotalIdentifiers   int
	Categories         map[Category]int
	PrimaryIdentifiers int // classes + functions + methods
}

// PackageDensity aggregates FileDensity across a directory.
type PackageDensity struct {
	PackagePath           string
	TotalIdentifiers      int
	FileCount             int
	Files                 []FileDensity // sorted by TotalIdentifiers descending
	Categories            map[Category]int
	AvgIdentifiersPerFile float64
}

// mapTagToCategory maps a CodeTag's normalized kind to a density
// category, or "" if the kind is not counted (call/reference/other
// pseudo-tags carry no identifier-density weight of their own).
func mapTagToCategory(kind string) Category {
	switch tagcache.Kind(kind) {
	case tagcache.KindClass:
		return CategoryClasses
	case tagcache.KindDefinition:
		return CategoryFunctions
	case tagcache.KindMethod:
		return CategoryMethods
	case tagcache.KindVariable:
		return CategoryVariables
	case tagcache.KindImport:
		return CategoryImports
	default:
		return ""
	}
}

// AnalyzeFile categorizes a single file's tags into a FileDensity.
func AnalyzeFile(filePath, projectRoot string, tags []tagcache.CodeTag) FileDensity {
	categories := emptyCategories()
	for _, tag := range tags {
		if cat := mapTagToCategory(tag.Kind); cat != "" {
			categories[cat]++
		}
	}

	total := 0
	for _, n := range categories {
		total += n
	}
	primary := categories[CategoryClasses] + categories[CategoryFunctions] + categories[CategoryMethods]

	relPath, err := filepath.Rel(projectRoot, filePath)
	if err != nil {
		relPath = filePath
	}

	return FileDensity{
		FilePath:           filePath,
		RelativePath:       relPath,
		TotalIdentifiers:   total,
		Categories:         categories,
		PrimaryIdentifiers: primary,
	}
}

// AnalyzeFiles runs AnalyzeFile over every entry in byFile (file path ->
// its tags), dropping files with zero identifiers, sorted by density
// descending.
func AnalyzeFiles(byFile map[string][]tagcache.CodeTag, projectRoot string) []FileDensity {
	densities := make([]FileDensity, 0, len(byFile))
	for filePath, tags := range byFile {
		fd := AnalyzeFile(filePath, projectRoot, tags)
		if fd.TotalIdentifiers > 0 {
			densities = append(densities, fd)
		}
	}
	sortByDensityDescending(densities)
	return densities
}

func sortByDensityDescending(densities []FileDensity) {
	sort.Slice(densities, func(i, j int) bool {
		if densities[i].TotalIdentifiers != densities[j].TotalIdentifiers {
			return densities[i].TotalIdentifiers > densities[j].TotalIdentifiers
		}
		return densities[i].FilePath < densities[j].FilePath
	})
}

// AnalyzePackage aggregates density across the files in a single
// package/directory, given their already-sorted-or-unsorted densities.
func AnalyzePackage(packagePath string, byFile map[string][]tagcache.CodeTag, projectRoot string) PackageDensity {
	files := AnalyzeFiles(byFile, projectRoot)

	total := 0
	categories := emptyCategories()
	for _, fd := range files {
		total += fd.TotalIdentifiers
		for cat, n := range fd.Categories {
			categories[cat] += n
		}
	}

	avg := 0.0
	if len(files) > 0 {
		avg = float64(total) / float64(len(files))
	}

	return PackageDensity{
		PackagePath:           packagePath,
		TotalIdentifiers:      total,
		FileCount:             len(files),
		Files:                 files,
		Categories:            categories,
		AvgIdentifiersPerFile: avg,
	}
}
