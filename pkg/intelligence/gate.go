package intelligence

// DefaultImportanceThreshold is the default gate threshold. It is
// deliberately permissive: the system favors over-remembering, and retrieval
// ranking is expected to bury unimportant entries rather than the gate
// rejecting them.
const DefaultImportanceThreshold = 0.1

// ImportanceGate decides whether a candidate fact is worth persisting based
// on an externally supplied importance score.
//
// The gate treats the score opaquely: it assumes nothing about its
// distribution beyond the [0,1] contract, and clamps out-of-range values
// rather than rejecting them.
type ImportanceGate struct {
	// Threshold is the minimum score a candidate must reach to be kept.
	Threshold float64
}

// NewImportanceGate creates a gate with the given threshold. A zero
// threshold selects the default.
func NewImportanceGate(threshold float64) *ImportanceGate {
	if threshold == 0 {
		threshold = DefaultImportanceThreshold
	}
	return &ImportanceGate{Threshold: threshold}
}

// Accept reports whether a candidate with the given importance score should
// be persisted.
func (g *ImportanceGate) Accept(score float64) bool {
	return ClampScore(score) >= g.Threshold
}

// ClampScore forces a score into [0,1]. Scorer output outside the range is a
// data-quality issue, not a fatal condition.
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
