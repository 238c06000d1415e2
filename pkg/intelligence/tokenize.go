// Package intelligence provides the in-process reasoning pieces of the
// memory system: tokenization, conflict detection, importance gating, and
// two-stage retrieval ranking. Anything that needs a model (fact extraction,
// semantic scoring) lives behind the extractor and scorer packages instead.
package intelligence

import (
	"strings"
	"unicode"
)

// Tokenize normalizes free text into a lower-cased word set.
//
// Tokens are maximal runs of letters and digits; punctuation and whitespace
// are discarded. The function is pure and deterministic, and empty input
// yields an empty set.
func Tokenize(text string) map[string]struct{} {
	tokens := map[string]struct{}{}

	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			tokens[b.String()] = struct{}{}
			b.Reset()
		}
	}

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return tokens
}

// Jaccard computes |A ∩ B| / |A ∪ B| over two token sets.
//
// By convention the similarity of two empty sets is 0, not 1: two texts that
// tokenize to nothing have no evidence of being about the same thing.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
