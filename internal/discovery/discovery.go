// Package discovery walks a project tree and classifies the files it
// finds by language, building the memoized views the rest of the
// analysis engine queries against.
package discovery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/repomap-dev/repomap/internal/exclude"
	"github.com/repomap-dev/repomap/internal/parser"
)

// File describes one discovered source file.
type File struct {
	Path     string
	Language parser.Language
	IsTest   bool
}

// Discovery holds the results of a project scan, along with the
// memoized views (by language, by directory) built from it.
type Discovery struct {
	root        string
	files       []File
	byLanguage  map[parser.Language][]File
	byDirectory map[string][]File
}

// Options configures a project scan.
type Options struct {
	// ExtraExcludes are additional relative directory names to skip,
	// beyond what exclude.DetectAutoExcludes finds automatically.
	ExtraExcludes []string
}

// Discover walks root and classifies every file with a recognized
// source extension, excluding dependency directories and any entry
// under ExtraExcludes.
func Discover(root string, opts Options) (*Discovery, error) {
	auto := exclude.DetectAutoExcludes(root)
	excluded := make(map[string]struct{}, len(auto.Directories)+len(opts.ExtraExcludes))
	for _, d := range auto.Directories {
		excluded[d] = struct{}{}
	}
	for _, d := range opts.ExtraExcludes {
		excluded[d] = struct{}{}
	}

	d := &Discovery{
		root:        root,
		byLanguage:  make(map[parser.Language][]File),
		byDirectory: make(map[string][]File),
	}

	err := filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}

		if entry.IsDir() {
			if rel != "." && isExcluded(rel, excluded) {
				return filepath.SkipDir
			}
			if strings.HasPrefix(entry.Name(), ".") && rel != "." {
				return filepath.SkipDir
			}
			return nil
		}

		if isExcluded(rel, excluded) {
			return nil
		}

		lang := parser.LanguageFromExtension(filepath.Ext(path))
		if lang == "" {
			return nil
		}

		f := File{
			Path:     path,
			Language: lang,
			IsTest:   isTestFile(path, lang),
		}
		d.files = append(d.files, f)
		d.byLanguage[lang] = append(d.byLanguage[lang], f)
		dir := filepath.Dir(path)
		d.byDirectory[dir] = append(d.byDirectory[dir], f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(d.files, func(i, j int) bool { return d.files[i].Path < d.files[j].Path })
	for lang := range d.byLanguage {
		sortFiles(d.byLanguage[lang])
	}
	for dir := range d.byDirectory {
		sortFiles(d.byDirectory[dir])
	}

	return d, nil
}

func sortFiles(files []File) {
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
}

func isExcluded(rel string, excluded map[string]struct{}) bool {
	if _, ok := excluded[rel]; ok {
		return true
	}
	for dir := range excluded {
		if strings.HasPrefix(rel, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

var testFileMarkers = []string{"_test.", ".test.", "test_", "/test/", "/tests/", "/__tests__/"}

func isTestFile(path string, lang parser.Language) bool {
	base := filepath.Base(path)
	lower := strings.ToLower(path)
	switch lang {
	case parser.Go:
		return strings.HasSuffix(base, "_test.go")
	case parser.Python:
		return strings.HasPrefix(base, "test_") || strings.HasSuffix(base, "_test.py")
	default:
		for _, marker := range testFileMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
		return false
	}
}

// AllFiles returns every discovered file, sorted by path.
func (d *Discovery) AllFiles() []File { return d.files }

// ByLanguage returns every discovered file in the given language.
func (d *Discovery) ByLanguage(lang parser.Language) []File { return d.byLanguage[lang] }

// ByDirectory returns every discovered file directly inside dir.
func (d *Discovery) ByDirectory(dir string) []File { return d.byDirectory[dir] }

// Languages returns the set of languages found in the project, sorted.
func (d *Discovery) Languages() []parser.Language {
	langs := make([]parser.Language, 0, len(d.byLanguage))
	for l := range d.byLanguage {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	return langs
}

// Count returns the total number of discovered files.
func (d *Discovery) Count() int { return len(d.files) }
