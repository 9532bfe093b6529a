package match

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/repomap-dev/repomap/internal/embeddings"
)

// DefaultEmbeddingThreshold is the similarity below which EmbeddingMatcher
// drops a candidate from its results.
const DefaultEmbeddingThreshold = 0.3

// EmbeddingMatcher scores identifiers by cosine similarity of dense
// embedding vectors, computed by an embeddings.Embedder and cached
// two ways: an in-memory map for the lifetime of the process, and one
// file per embedding under cacheDir, named by a 16-hex-character
// content hash. The matcher is optional: a nil *EmbeddingMatcher, or
// one with Enabled false, contributes nothing to the hybrid pipeline.
type EmbeddingMatcher struct {
	embedder embeddings.Embedder
	cacheDir string
	Enabled  bool

	mu    sync.Mutex
	cache map[string][]float32
}

// NewEmbeddingMatcher builds an EmbeddingMatcher backed by embedder,
// persisting vectors under cacheDir (typically
// "<project>/.repomap/cache/embeddings").
func NewEmbeddingMatcher(embedder embeddings.Embedder, cacheDir string) *EmbeddingMatcher {
	return &EmbeddingMatcher{
		embedder: embedder,
		cacheDir: cacheDir,
		Enabled:  embedder != nil,
		cache:    make(map[string][]float32),
	}
}

func cacheKeyFor(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:16]
}

func (m *EmbeddingMatcher) cachePath(key string) string {
	return filepath.Join(m.cacheDir, key+".bin")
}

func (m *EmbeddingMatcher) vector(ctx context.Context, text string) ([]float32, error) {
	key := cacheKeyFor(text)

	m.mu.Lock()
	if v, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return v, nil
	}
	m.mu.Unlock()

	if v, ok := m.readDiskCache(key); ok {
		m.mu.Lock()
		m.cache[key] = v
		m.mu.Unlock()
		return v, nil
	}

	v, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[key] = v
	m.mu.Unlock()
	m.writeDiskCache(key, v)
	return v, nil
}

func (m *EmbeddingMatcher) readDiskCache(key string) ([]float32, bool) {
	if m.cacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(m.cachePath(key))
	if err != nil || len(data)%4 != 0 {
		return nil, false
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		v[i] = math.Float32frombits(bits)
	}
	return v, true
}

func (m *EmbeddingMatcher) writeDiskCache(key string, v []float32) {
	if m.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(m.cacheDir, 0755); err != nil {
		return
	}
	data := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(data[i*4:i*4+4], math.Float32bits(f))
	}
	_ = os.WriteFile(m.cachePath(key), data, 0644)
}

func cosineSimilarity32(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// Similarity returns the cosine similarity of query's and identifier's
// embeddings in [0, 1]. Returns 0 without error if the matcher is
// disabled.
func (m *EmbeddingMatcher) Similarity(ctx context.Context, query, identifier string) (float64, error) {
	if m == nil || !m.Enabled {
		return 0, nil
	}

	qv, err := m.vector(ctx, query)
	if err != nil {
		return 0, err
	}
	iv, err := m.vector(ctx, identifier)
	if err != nil {
		return 0, err
	}
	return cosineSimilarity32(qv, iv), nil
}

// Match scores every candidate in corpus against query, keeping only
// those at or above threshold (DefaultEmbeddingThreshold if 0). Returns
// nil, nil if the matcher is disabled.
func (m *EmbeddingMatcher) Match(ctx context.Context, query string, corpus []string, threshold float64) ([]Match, error) {
	if m == nil || !m.Enabled {
		return nil, nil
	}
	if threshold == 0 {
		threshold = DefaultEmbeddingThreshold
	}

	var matches []Match
	for _, candidate := range corpus {
		similarity, err := m.Similarity(ctx, query, candidate)
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
