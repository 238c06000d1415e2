// Package extractor defines the fact extractor consumed by the memory core,
// plus an LLM-backed implementation.
//
// An extractor turns a raw interaction turn into zero or more candidate
// facts. The core treats extractor-reported confidence as non-authoritative
// and overwrites it with a measured importance score before persisting.
package extractor

import "context"

// Fact is one candidate fact extracted from an interaction.
//
// Content is the only required field; everything else defaults to empty and
// is filled in by the add pipeline (kind defaults to "fact", title to
// "Memory").
type Fact struct {
	// Content is the fact text. Candidates with empty content are dropped.
	Content string `json:"content"`

	// Kind classifies the fact: fact, preference, behavior, person, or
	// event. Open enumeration, never validated.
	Kind string `json:"type"`

	// Title is a short optional human label.
	Title string `json:"title"`

	// Confidence is the extractor's own confidence (0.0-1.0). Parsed but
	// not authoritative.
	Confidence float64 `json:"confidence"`

	// Tags holds short labels suggested by the extractor.
	Tags []string `json:"tags"`
}

// Provider extracts candidate facts from interaction text.
//
// Implementations must return an empty list, not an error, when nothing
// extractable is found. An error means the extraction itself failed; callers
// recover by treating it as zero candidates.
type Provider interface {
	// Extract returns the candidate facts found in text.
	Extract(ctx context.Context, text string) ([]Fact, error)

	// Close closes the provider and releases resources.
	Close() error
}
