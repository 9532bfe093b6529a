package tagcache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/repomap-dev/repomap/internal/extract"
)

// Kind is the closed, language-agnostic tag classification every
// CodeTag.Kind value is normalized into, regardless of which of the
// eleven extract.Entity/extract.Dependency taxonomies produced it.
type Kind string

const (
	KindDefinition Kind = "definition"
	KindReference  Kind = "reference"
	KindCall       Kind = "call"
	KindClass      Kind = "class"
	KindMethod     Kind = "method"
	KindVariable   Kind = "variable"
	KindImport     Kind = "import"
	KindOther      Kind = "other"
)

// normalizeEntityKind maps a per-language extract.EntityKind (function,
// method, type, constant, variable, enum, import) onto the universal
// Kind enum. Plain functions become "definition"; methods, classes,
// variables and imports keep their own bucket since the enum carries
// them separately.
func normalizeEntityKind(k extract.EntityKind) Kind {
	switch k {
	case extract.FunctionEntity:
		return KindDefinition
	case extract.MethodEntity:
		return KindMethod
	case extract.TypeEntity, extract.EnumEntity:
		return KindClass
	case extract.ConstEntity, extract.VarEntity:
		return KindVariable
	case extract.ImportEntity:
		return KindImport
	default:
		return KindOther
	}
}

// ToCodeTag projects a per-language extract.Entity onto the universal
// CodeTag shape used by the cache and every downstream analysis
// component. The entity's own richer fields (signature, doc comment,
// skeleton) remain available from internal/extract for callers that
// need them; CodeTag only carries what every consumer needs in common.
func ToCodeTag(e *extract.Entity, relBase string) CodeTag {
	endLine := int(e.EndLine)
	if endLine == 0 {
		endLine = int(e.StartLine)
	}
	return CodeTag{
		Name:      e.Name,
		Kind:      string(normalizeEntityKind(e.Kind)),
		File:      e.File,
		Line:      int(e.StartLine),
		Column:    0,
		EndLine:   endLine,
		EndColumn: 0,
		RelFname:  extract.NormalizePath(e.File, relBase),
	}
}

// normalizeDepKind maps a call-graph extract.Dependency's DepType onto
// the universal Kind enum: an actual invocation becomes "call", every
// other relationship (uses_type, implements, extends, method_of,
// contains, instantiates) is a non-call reference to another entity.
func normalizeDepKind(t extract.DepType) Kind {
	if t == extract.Calls {
		return KindCall
	}
	return KindReference
}

// DependencyTag projects a call-graph extract.Dependency (a call or
// type-reference edge) onto a CodeTag, the same way ToCodeTag projects
// a definition-time Entity. Returns ok=false for edges whose Location
// doesn't carry a parseable "file:line" (e.g. unresolved dependencies
// recorded without a source position).
func DependencyTag(d extract.Dependency, relBase string) (CodeTag, bool) {
	file, line, ok := splitLocation(d.Location)
	if !ok {
		return CodeTag{}, false
	}

	name := d.ToName
	if name == "" {
		name = d.ToQualified
	}
	if name == "" {
		return CodeTag{}, false
	}

	return CodeTag{
		Name:      name,
		Kind:      string(normalizeDepKind(d.DepType)),
		File:      file,
		Line:      line,
		EndLine:   line,
		RelFname:  extract.NormalizePath(file, relBase),
	}, true
}

// splitLocation parses a "file:line" location string as produced by
// extract.CallGraphExtractor.
func splitLocation(loc string) (file string, line int, ok bool) {
	idx := strings.LastIndex(loc, ":")
	if idx <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(loc[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return loc[:idx], n, true
}

// HashFile computes the SHA-256 content hash and modification time of a
// file on disk, the joint key the cache uses for invalidation.
func HashFile(path string) (hash string, mtime time.Time, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", time.Time{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", time.Time{}, err
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), info.ModTime(), nil
}

// HashBytes computes the SHA-256 content hash of in-memory source, for
// callers parsing content that did not come directly from disk.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
