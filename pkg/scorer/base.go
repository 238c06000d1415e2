// Package scorer defines the semantic relevance scorer consumed by the
// memory core, plus implementations backed by an LLM or an embedding model.
//
// The core uses a scorer twice: once per candidate fact during add (query =
// the importance probe, document = candidate content) and once per Stage-1
// candidate during search (query = user query, document = entry content).
package scorer

import "context"

// Provider produces a relevance score in [0,1] for a pair of strings.
//
// The function is symmetric in spirit but not necessarily commutative; the
// first argument is always the query side. Implementations must not return
// out-of-range values; callers clamp the result regardless.
type Provider interface {
	// Score returns the relevance of document to query.
	Score(ctx context.Context, query, document string) (float64, error)

	// Close closes the provider and releases resources.
	Close() error
}
