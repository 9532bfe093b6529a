package match

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// DefaultFuzzyThreshold is the score below which FuzzyMatcher drops a
// candidate from its results.
const DefaultFuzzyThreshold = 70

// FuzzyMatcher does token-aware approximate string matching over an
// identifier corpus using Levenshtein distance, normalized against
// token-split, lowercased forms of both query and candidate.
type FuzzyMatcher struct {
	Threshold int
}

// NewFuzzyMatcher builds a FuzzyMatcher with the default threshold.
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{Threshold: DefaultFuzzyThreshold}
}

func normalizeIdentifier(identifier string) string {
	return strings.Join(splitIdentifier(identifier), "")
}

// Similarity returns a fuzzy-match score in [0, 100] for query against
// candidate, or 0 if candidate is not a fuzzy subsequence match.
func (m *FuzzyMatcher) Similarity(query, candidate string) int {
	normQuery := normalizeIdentifier(query)
	normCandidate := normalizeIdentifier(candidate)
	if normQuery == "" || normCandidate == "" {
		return 0
	}
	if !fuzzy.MatchNormalizedFold(normQuery, normCandidate) {
		return 0
	}

	distance := fuzzy.RankMatchNormalizedFold(normQuery, normCandidate)
	if distance < 0 {
		return 0
	}

	maxLen := len(normQuery)
	if len(normCandidate) > maxLen {
		maxLen = len(normCandidate)
	}
	if maxLen == 0 {
		return 100
	}
	return clampScore(100 - (distance*100)/maxLen)
}

// Match scores every candidate in corpus against query, keeping only
// those at or above the matcher's threshold.
func (m *FuzzyMatcher) Match(query string, corpus []string) []Match {
	threshold := m.Threshold
	if threshold == 0 {
		threshold = DefaultFuzzyThreshold
	}

	var matches []Match
	for _, candidate := range corpus {
		if score := m.Similarity(query, candidate); score >= threshold {
			matches = append(matches, Match{Identifier: candidate, Score: score})
		}
	}
	sortMatches(matches)
	return matches
}
