package scorer

import (
	"context"
	"math"

	"github.com/mindpalace/localmem-go/pkg/embedder"
)

// EmbeddingScorer implements Provider by embedding both strings and
// comparing them with cosine similarity.
//
// Cosine similarity lands in [-1,1]; it is shifted to [0,1] so the result
// honors the scorer contract. Cheaper than an LLM call per pair, at some
// cost in ranking quality for short facts.
type EmbeddingScorer struct {
	embedder embedder.Provider
}

// NewEmbeddingScorer creates a scorer backed by the given embedding
// provider.
func NewEmbeddingScorer(provider embedder.Provider) *EmbeddingScorer {
	return &EmbeddingScorer{embedder: provider}
}

// Score embeds query and document and returns their shifted cosine
// similarity.
func (s *EmbeddingScorer) Score(ctx context.Context, query, document string) (float64, error) {
	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return 0, err
	}
	docVec, err := s.embedder.Embed(ctx, document)
	if err != nil {
		return 0, err
	}

	return clamp01((cosineSimilarity(queryVec, docVec) + 1) / 2), nil
}

// Close closes the underlying embedding provider.
func (s *EmbeddingScorer) Close() error {
	return s.embedder.Close()
}

// cosineSimilarity returns (A · B) / (||A|| * ||B||), or 0 when the vectors
// have mismatched dimensions or zero norm.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
