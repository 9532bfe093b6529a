// Package match implements the identifier-matching pipeline: fuzzy,
// domain-dictionary, adaptive TF-IDF, embedding, and a hybrid fusion of
// all four. Every matcher scores candidates from an identifier corpus
// harvested from CodeTags, returning integer scores in [0, 100] sorted
// descending.
package match

import (
	"regexp"
	"sort"
	"strings"
)

// Match pairs a corpus identifier with its score against a query.
type Match struct {
	Identifier string
	Score      int
}

var camelBoundary = regexp.MustCompile(`[A-Z]?[a-z]+|[A-Z]{2,}(?:[A-Z][a-z]|\b|\d)|\d+`)

// splitIdentifier tokenizes an identifier on underscores, hyphens, and
// camelCase/PascalCase boundaries, lowercasing every token.
func splitIdentifier(identifier string) []string {
	if identifier == "" {
		return nil
	}
	parts := strings.FieldsFunc(identifier, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var words []string
	for _, part := range parts {
		for part != "" {
			loc := camelBoundary.FindStringIndex(part)
			if loc == nil {
				break
			}
			w := part[loc[0]:loc[1]]
			// An acronym match ends by consuming the first two letters of
			// the next word ("HTTPCl" in "HTTPClient"); hand them back.
			if n := len(w); n > 2 && w[n-2] >= 'A' && w[n-2] <= 'Z' && w[n-1] >= 'a' && w[n-1] <= 'z' {
				w = w[:n-2]
			}
			words = append(words, strings.ToLower(w))
			part = part[loc[0]+len(w):]
		}
	}
	return words
}

func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Identifier < matches[j].Identifier
	})
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
