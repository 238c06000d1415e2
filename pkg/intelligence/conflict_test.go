package intelligence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpalace/localmem-go/pkg/intelligence"
	"github.com/mindpalace/localmem-go/pkg/storage"
)

func entry(id, content string) *storage.Entry {
	return &storage.Entry{ID: id, UserID: "u1", Content: content}
}

func TestFindConflictAboveThreshold(t *testing.T) {
	detector := intelligence.NewConflictDetector(0)
	existing := []*storage.Entry{
		entry("1", "user lives in Berlin Germany"),
		entry("2", "user has a cat named Miso"),
	}

	// Near-identical wording clears the 0.6 overlap bar.
	found := detector.FindConflict("user lives in Hamburg Germany", existing)
	require.NotNil(t, found)
	assert.Equal(t, "1", found.ID)
}

func TestFindConflictBelowThreshold(t *testing.T) {
	detector := intelligence.NewConflictDetector(0)
	existing := []*storage.Entry{
		entry("1", "user works as a teacher"),
	}

	assert.Nil(t, detector.FindConflict("user enjoys baking sourdough bread", existing))
}

func TestFindConflictThresholdIsStrict(t *testing.T) {
	// Exactly at the threshold is not a conflict; only strictly above.
	detector := intelligence.NewConflictDetector(0.5)
	existing := []*storage.Entry{
		entry("1", "alpha beta gamma delta"),
	}

	// Overlap 2/4 = 0.5 sits exactly at the threshold and is not a conflict.
	assert.Nil(t, detector.FindConflict("alpha beta", existing))

	// Overlap 3/5 = 0.6 > 0.5.
	found := detector.FindConflict("alpha beta gamma epsilon", existing)
	assert.NotNil(t, found)
}

func TestFindConflictPicksMaxSimilarity(t *testing.T) {
	detector := intelligence.NewConflictDetector(0)
	existing := []*storage.Entry{
		entry("1", "user likes coffee in the morning sometimes"),
		entry("2", "user likes coffee in the morning"),
	}

	found := detector.FindConflict("user likes coffee in the morning", existing)
	require.NotNil(t, found)
	assert.Equal(t, "2", found.ID, "highest-overlap entry wins")
}

func TestFindConflictFirstAtMaxWins(t *testing.T) {
	detector := intelligence.NewConflictDetector(0)
	existing := []*storage.Entry{
		entry("1", "user likes green tea"),
		entry("2", "user likes green tea"),
	}

	found := detector.FindConflict("user likes green tea", existing)
	require.NotNil(t, found)
	assert.Equal(t, "1", found.ID, "scan order breaks ties")
}

func TestFindConflictEmptyInputs(t *testing.T) {
	detector := intelligence.NewConflictDetector(0)

	assert.Nil(t, detector.FindConflict("", []*storage.Entry{entry("1", "something")}))
	assert.Nil(t, detector.FindConflict("...", []*storage.Entry{entry("1", "something")}))
	assert.Nil(t, detector.FindConflict("new fact", nil))
	assert.Nil(t, detector.FindConflict("new fact", []*storage.Entry{entry("1", "!!!")}))
}

func TestFindConflictIsIdempotent(t *testing.T) {
	detector := intelligence.NewConflictDetector(0)
	existing := []*storage.Entry{
		entry("1", "user moved to Amsterdam"),
		entry("2", "user plays the violin"),
	}

	first := detector.FindConflict("user moved to Amsterdam recently", existing)
	second := detector.FindConflict("user moved to Amsterdam recently", existing)
	assert.Equal(t, first, second)
}
