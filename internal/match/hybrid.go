package match

import "context"

// DefaultHybridThreshold is the fused score below which HybridMatcher
// drops a candidate from its results.
const DefaultHybridThreshold = 0.1

type hybridWeights struct {
	fuzzy, tfidf, domain, embedding float64
}

// HybridMatcher fuses FuzzyMatcher, AdaptiveSemanticMatcher, and
// (when available) DomainSemanticMatcher and EmbeddingMatcher into a
// single weighted score. The weight scheme is chosen per call, by
// which matchers are actually usable for that query.
type HybridMatcher struct {
	Fuzzy    *FuzzyMatcher
	Adaptive *AdaptiveSemanticMatcher
	// Domain is optional; leave nil to exclude it from the fusion.
	Domain *DomainSemanticMatcher
	// Embedding is optional; leave nil to exclude it from the fusion.
	Embedding *EmbeddingMatcher
}

// NewHybridMatcher builds a HybridMatcher. fuzzy and adaptive are
// required; domain and embedding may both be nil.
func NewHybridMatcher(fuzzy *FuzzyMatcher, adaptive *AdaptiveSemanticMatcher, domain *DomainSemanticMatcher, embedding *EmbeddingMatcher) *HybridMatcher {
	return &HybridMatcher{Fuzzy: fuzzy, Adaptive: adaptive, Domain: domain, Embedding: embedding}
}

// selectWeights picks the weight row for the closed table of matcher
// combinations: all four, fuzzy+TFIDF+domain, fuzzy+TFIDF+embedding, or
// fuzzy+TFIDF alone.
func selectWeights(hasDomain, hasEmbedding bool) hybridWeights {
	switch {
	case hasDomain && hasEmbedding:
		return hybridWeights{fuzzy: 0.25, tfidf: 0.20, domain: 0.30, embedding: 0.25}
	case hasDomain:
		return hybridWeights{fuzzy: 0.40, tfidf: 0.30, domain: 0.30, embedding: 0}
	case hasEmbedding:
		return hybridWeights{fuzzy: 0.35, tfidf: 0.25, domain: 0, embedding: 0.40}
	default:
		return hybridWeights{fuzzy: 0.60, tfidf: 0.40, domain: 0, embedding: 0}
	}
}

// Similarity returns the fused similarity of query against identifier
// in [0, 1]. Embedding is skipped for single-token queries to avoid
// its cost.
func (h *HybridMatcher) Similarity(ctx context.Context, query, identifier string) (float64, error) {
	fuzzyScore := float64(h.Fuzzy.Similarity(query, identifier)) / 100
	tfidfScore := h.Adaptive.Similarity(query, identifier)

	domainScore := 0.0
	hasDomain := h.Domain != nil
	if hasDomain {
		domainScore = h.Domain.Similarity(query, identifier)
	}

	embeddingScore := 0.0
	singleToken := len(splitIdentifier(query)) <= 1
	hasEmbedding := h.Embedding != nil && h.Embedding.Enabled && !singleToken
	if hasEmbedding {
		var err error
		embeddingScore, err = h.Embedding.Similarity(ctx, query, identifier)
		if err != nil {
			return 0, err
		}
	}

	weights := selectWeights(hasDomain, hasEmbedding)
	total := fuzzyScore*weights.fuzzy + tfidfScore*weights.tfidf +
		domainScore*weights.domain + embeddingScore*weights.embedding
	if total > 1 {
		total = 1
	}
	return total, nil
}

// Match fuses all available matchers' scores for every candidate in
// corpus, keeping only those at or above threshold (DefaultHybridThreshold
// if 0), rescaled to [0, 100] and sorted descending.
func (h *HybridMatcher) Match(ctx context.Context, query string, corpus []string, threshold float64) ([]Match, error) {
	if threshold == 0 {
		threshold = DefaultHybridThreshold
	}

	var matches []Match
	for _, candidate := range corpus {
		similarity, err := h.Similarity(ctx, query, candidate)
		if err != nil {
			return nil, err
		}
		if similarity >= threshold {
			matches = append(matches, Match{Identifier: candidate, Score: clampScore(int(similarity * 100))})
		}
	}
	sortMatches(matches)
	return matches, nil
}
