// Package embedder defines the text embedding boundary used by the
// embedding-backed scorer.
package embedder

import "context"

// Provider converts text into vector embeddings.
type Provider interface {
	// Embed converts one text string into an embedding vector.
	Embed(ctx context.Context, text string) ([]float64, error)

	// Close closes the provider and releases resources.
	Close() error
}
