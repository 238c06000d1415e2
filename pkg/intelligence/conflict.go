package intelligence

import (
	"github.com/mindpalace/localmem-go/pkg/storage"
)

// DefaultConflictThreshold is the token-overlap level above which a new fact
// is considered to be about the same thing as an existing entry.
const DefaultConflictThreshold = 0.6

// ConflictDetector finds the existing entry most similar to new fact
// content, using Jaccard overlap of token sets.
//
// Detection has no side effects: the existing entry is never mutated or
// removed here. The caller tags the new entry when a conflict is
// reported.
type ConflictDetector struct {
	// Threshold is the minimum Jaccard similarity for a conflict. Only
	// entries strictly above it are reported.
	Threshold float64
}

// NewConflictDetector creates a detector with the given threshold. A zero
// threshold selects the default.
func NewConflictDetector(threshold float64) *ConflictDetector {
	if threshold == 0 {
		threshold = DefaultConflictThreshold
	}
	return &ConflictDetector{Threshold: threshold}
}

// FindConflict returns the maximum-similarity entry whose content overlaps
// the candidate content above the threshold, or nil when no entry clears it.
//
// The scan is deterministic for a given slice order; when several entries
// tie at the maximum, the first one reached wins.
func (d *ConflictDetector) FindConflict(content string, entries []*storage.Entry) *storage.Entry {
	tokens := Tokenize(content)
	if len(tokens) == 0 {
		return nil
	}

	var best *storage.Entry
	maxScore := 0.0

	for _, entry := range entries {
		entryTokens := Tokenize(entry.Content)
		if len(entryTokens) == 0 {
			continue
		}

		score := Jaccard(tokens, entryTokens)
		if score > d.Threshold && score > maxScore {
			maxScore = score
			best = entry
		}
	}
	return best
}
