// Package importresolve turns the raw import statements tree-sitter
// extracts out of a source file into concrete project file paths,
// following the same relative/absolute resolution strategy as the
// Python import analyzer this component was distilled from: relative
// imports walk up from the importing file's directory, absolute
// imports are matched against the project root, and anything that
// resolves outside the project (or to nothing at all) is recorded as
// external rather than silently dropped.
package importresolve

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/repomap-dev/repomap/internal/extract"
	"github.com/repomap-dev/repomap/internal/parser"
)

// Import describes one parsed import statement and its resolution.
type Import struct {
	Module       string
	Alias        string
	Line         int
	IsRelative   bool
	ResolvedPath string // empty if unresolved
	External     bool
}

// FileImports is every resolved import found in one file.
type FileImports struct {
	FilePath string
	Language parser.Language
	Imports  []Import
}

// Resolver resolves import statements against a fixed project file
// index, built once from a discovery pass.
type Resolver struct {
	projectRoot string
	// filesByDir indexes every known project file by its containing
	// directory, for absolute Go-style package imports.
	filesByDir map[string][]string
	// modulePrefix is the Go module path, stripped from absolute Go
	// import paths before they are joined back onto projectRoot.
	modulePrefix string
}

// New builds a Resolver over the given project root and file list
// (typically discovery.Discovery.AllFiles()). modulePrefix is the Go
// module path declared in go.mod, used to resolve Go import paths back
// to project directories; pass "" if the project has no Go module.
func New(projectRoot string, files []string, modulePrefix string) *Resolver {
	r := &Resolver{
		projectRoot:  filepath.Clean(projectRoot),
		filesByDir:   make(map[string][]string),
		modulePrefix: modulePrefix,
	}
	for _, f := range files {
		dir := filepath.Dir(f)
		r.filesByDir[dir] = append(r.filesByDir[dir], f)
	}
	for dir := range r.filesByDir {
		sort.Strings(r.filesByDir[dir])
	}
	return r
}

// externalPackages lists well-known standard-library and third-party
// module roots that are never resolved to a project file.
var externalPackages = map[string]bool{
	"fmt": true, "os": true, "io": true, "strings": true, "strconv": true,
	"errors": true, "context": true, "time": true, "sync": true, "sort": true,
	"net": true, "http": true, "json": true, "bytes": true, "path": true,
	"regexp": true, "math": true, "reflect": true, "testing": true,
	"os.path": true, "sys": true, "re": true, "json5": true, "collections": true,
	"itertools": true, "functools": true, "typing": true, "logging": true,
	"react": true, "lodash": true, "express": true, "axios": true,
}

// ResolveFile resolves every import entity extracted from one file.
func (r *Resolver) ResolveFile(filePath string, entities []*extract.Entity, lang parser.Language) FileImports {
	fileDir := filepath.Dir(filePath)

	out := FileImports{FilePath: filePath, Language: lang}
	for _, e := range entities {
		if e.Kind != extract.ImportEntity {
			continue
		}
		imp := Import{
			Module:     e.ImportPath,
			Alias:      e.ImportAlias,
			Line:       int(e.StartLine),
			IsRelative: isRelativeImport(e.ImportPath),
		}

		var resolved string
		if imp.IsRelative {
			resolved = r.resolveRelative(imp.Module, fileDir)
		} else {
			resolved = r.resolveAbsolute(imp.Module)
		}

		if resolved == "" {
			imp.External = true
		} else {
			imp.ResolvedPath = resolved
			if !r.isInProject(resolved) {
				imp.External = true
			}
		}

		out.Imports = append(out.Imports, imp)
	}
	return out
}

func isRelativeImport(module string) bool {
	return strings.HasPrefix(module, ".") || strings.HasPrefix(module, "/")
}

// resolveRelative walks up fileDir by the import's leading-dot count
// (Python-style) or one level per leading "../" ("./" stays in fileDir,
// JS-style) and matches the
// remaining path component against a known project file.
func (r *Resolver) resolveRelative(module, fileDir string) string {
	rest := module
	dir := fileDir

	switch {
	case strings.HasPrefix(module, "../"), module == "..":
		dotCount := 0
		for strings.HasPrefix(rest, "../") {
			rest = strings.TrimPrefix(rest, "../")
			dotCount++
		}
		for i := 0; i < dotCount; i++ {
			dir = filepath.Dir(dir)
		}
	case strings.HasPrefix(module, "./"):
		rest = strings.TrimPrefix(module, "./")
	case strings.HasPrefix(module, "."):
		// Python-style: leading dots count levels up, one dot means
		// the current package.
		dotCount := len(module) - len(strings.TrimLeft(module, "."))
		rest = strings.TrimLeft(module, ".")
		for i := 0; i < dotCount-1; i++ {
			dir = filepath.Dir(dir)
		}
	}

	if rest == "" {
		return r.findPackageInit(dir)
	}

	rest = strings.ReplaceAll(rest, ".", string(filepath.Separator))
	candidateDir := filepath.Join(dir, filepath.Dir(rest))
	base := filepath.Base(rest)

	if found := r.findFileWithBase(candidateDir, base); found != "" {
		return found
	}
	return r.findPackageInit(filepath.Join(dir, rest))
}

// resolveAbsolute matches a Go-style module-path import (or a bare
// top-level package name for other languages) against the project's
// known files. External library imports resolve to "".
func (r *Resolver) resolveAbsolute(module string) string {
	if r.isExternalLibrary(module) {
		return ""
	}

	if r.modulePrefix != "" && strings.HasPrefix(module, r.modulePrefix) {
		rel := strings.TrimPrefix(module, r.modulePrefix)
		rel = strings.TrimPrefix(rel, "/")
		pkgDir := filepath.Join(r.projectRoot, filepath.FromSlash(rel))
		if files, ok := r.filesByDir[pkgDir]; ok && len(files) > 0 {
			return files[0]
		}
		return ""
	}

	parts := strings.Split(module, ".")
	candidateDir := filepath.Join(r.projectRoot, "src", filepath.Join(parts...))
	if found := r.findPackageInit(candidateDir); found != "" {
		return found
	}
	if len(parts) > 0 {
		parentDir := filepath.Join(r.projectRoot, "src", filepath.Join(parts[:max(0, len(parts)-1)]...))
		base := parts[len(parts)-1]
		if found := r.findFileWithBase(parentDir, base); found != "" {
			return found
		}
	}
	return ""
}

func (r *Resolver) isExternalLibrary(module string) bool {
	top := module
	if idx := strings.IndexAny(module, "./"); idx > 0 {
		top = module[:idx]
	}
	return externalPackages[top]
}

func (r *Resolver) findFileWithBase(dir, base string) string {
	files, ok := r.filesByDir[dir]
	if !ok {
		return ""
	}
	for _, f := range files {
		name := filepath.Base(f)
		if strings.TrimSuffix(name, filepath.Ext(name)) == base {
			return f
		}
	}
	return ""
}

func (r *Resolver) findPackageInit(dir string) string {
	files, ok := r.filesByDir[dir]
	if !ok || len(files) == 0 {
		return ""
	}
	for _, f := range files {
		base := filepath.Base(f)
		if strings.HasPrefix(base, "__init__.") || strings.HasPrefix(base, "index.") {
			return f
		}
	}
	return files[0]
}

func (r *Resolver) isInProject(path string) bool {
	rel, err := filepath.Rel(r.projectRoot, path)
	if err != nil {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}
