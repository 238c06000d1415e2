package intelligence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindpalace/localmem-go/pkg/intelligence"
)

func TestTokenize(t *testing.T) {
	tokens := intelligence.Tokenize("Hello, World! Hello again - 42nd time.")

	assert.Equal(t, map[string]struct{}{
		"hello": {},
		"world": {},
		"again": {},
		"42nd":  {},
		"time":  {},
	}, tokens)
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, intelligence.Tokenize(""))
	assert.Empty(t, intelligence.Tokenize("  ... !!! "))
}

func TestTokenizeUnicode(t *testing.T) {
	tokens := intelligence.Tokenize("Crème brûlée in München")

	assert.Contains(t, tokens, "crème")
	assert.Contains(t, tokens, "brûlée")
	assert.Contains(t, tokens, "münchen")
	assert.Contains(t, tokens, "in")
}

func TestJaccard(t *testing.T) {
	a := intelligence.Tokenize("user likes python")
	b := intelligence.Tokenize("user likes java")

	// Intersection {user, likes}, union {user, likes, python, java}.
	assert.InDelta(t, 0.5, intelligence.Jaccard(a, b), 1e-9)
}

func TestJaccardSymmetric(t *testing.T) {
	a := intelligence.Tokenize("my sister lives in Berlin")
	b := intelligence.Tokenize("Berlin is where my sister lives now")

	assert.Equal(t, intelligence.Jaccard(a, b), intelligence.Jaccard(b, a))
}

func TestJaccardIdentical(t *testing.T) {
	a := intelligence.Tokenize("exact same words")
	b := intelligence.Tokenize("same exact words")

	assert.Equal(t, 1.0, intelligence.Jaccard(a, b))
}

func TestJaccardBothEmpty(t *testing.T) {
	// Two empty token sets carry no evidence of similarity.
	assert.Equal(t, 0.0, intelligence.Jaccard(nil, nil))
}

func TestJaccardDisjoint(t *testing.T) {
	a := intelligence.Tokenize("cats")
	b := intelligence.Tokenize("dogs")

	assert.Equal(t, 0.0, intelligence.Jaccard(a, b))
}
