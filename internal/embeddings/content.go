package embeddings

import (
	"strings"

	"github.com/repomap-dev/repomap/internal/extract"
)

// PrepareEntityContent generates the text to embed for an entity.
// Combines kind, name, signature, and doc comment into a single string.
func PrepareEntityContent(e *extract.Entity) string {
	var parts []string

	// Kind and name (e.g., "function LoginUser")
	parts = append(parts, string(e.Kind)+" "+e.Name)

	// Full signature if available
	if sig := e.FormatSignature(); sig != "" {
		parts = append(parts, sig)
	}

	// Doc comment if present
	if e.DocComment != "" {
		parts = append(parts, e.DocComment)
	}

	return strings.Join(parts, "\n")
}
