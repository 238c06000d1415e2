package intelligence_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpalace/localmem-go/pkg/intelligence"
	"github.com/mindpalace/localmem-go/pkg/storage"
)

// fakeScorer returns canned scores per document and counts calls.
type fakeScorer struct {
	scores map[string]float64
	err    error
	calls  int
}

func (f *fakeScorer) Score(ctx context.Context, query, document string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.scores[document], nil
}

func (f *fakeScorer) Close() error { return nil }

func timedEntry(id, content string, createdAt time.Time) *storage.Entry {
	return &storage.Entry{
		ID:        id,
		UserID:    "u1",
		Content:   content,
		CreatedAt: createdAt,
	}
}

func TestRankEmptyInputs(t *testing.T) {
	ranker := intelligence.NewRanker(&fakeScorer{}, 0, nil)
	entries := []*storage.Entry{timedEntry("1", "something", time.Now())}

	ranked, err := ranker.Rank(context.Background(), "", entries, 5)
	require.NoError(t, err)
	assert.Nil(t, ranked)

	ranked, err = ranker.Rank(context.Background(), "query", nil, 5)
	require.NoError(t, err)
	assert.Nil(t, ranked)
}

func TestRankSemanticScoreIsAuthoritative(t *testing.T) {
	// The heuristic favors the lexical match, but the semantic scorer
	// decides the final order.
	sc := &fakeScorer{scores: map[string]float64{
		"user loves the Python language": 0.95,
		"user ate pizza for lunch":       0.05,
	}}
	ranker := intelligence.NewRanker(sc, 0, nil)

	now := time.Now()
	entries := []*storage.Entry{
		timedEntry("pizza", "user ate pizza for lunch", now),
		timedEntry("python", "user loves the Python language", now),
	}

	ranked, err := ranker.Rank(context.Background(), "what does the user like to eat for lunch", entries, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "python", ranked[0].Entry.ID)
	assert.InDelta(t, 0.95, ranked[0].Score, 1e-9)
	assert.Equal(t, "pizza", ranked[1].Entry.ID)
}

func TestRankZeroOverlapEntriesSurviveStageOne(t *testing.T) {
	// An entry sharing no tokens with the query must still reach the
	// semantic scorer.
	sc := &fakeScorer{scores: map[string]float64{
		"prefers vim keybindings": 0.9,
	}}
	ranker := intelligence.NewRanker(sc, 0, nil)

	entries := []*storage.Entry{
		timedEntry("1", "prefers vim keybindings", time.Now()),
	}

	ranked, err := ranker.Rank(context.Background(), "editor configuration", entries, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "1", ranked[0].Entry.ID)
}

func TestRankLimitCap(t *testing.T) {
	sc := &fakeScorer{scores: map[string]float64{}}
	ranker := intelligence.NewRanker(sc, 0, nil)

	var entries []*storage.Entry
	for i := 0; i < 10; i++ {
		entries = append(entries, timedEntry(fmt.Sprintf("%d", i), fmt.Sprintf("note number %d", i), time.Now()))
	}

	ranked, err := ranker.Rank(context.Background(), "note", entries, 3)
	require.NoError(t, err)
	assert.Len(t, ranked, 3)
}

func TestRankStageOneCutWidth(t *testing.T) {
	// With limit 1 the candidate cut stays at the floor of 50, so every
	// one of the 40 entries is scored semantically.
	sc := &fakeScorer{scores: map[string]float64{}}
	ranker := intelligence.NewRanker(sc, 0, nil)

	var entries []*storage.Entry
	for i := 0; i < 40; i++ {
		entries = append(entries, timedEntry(fmt.Sprintf("%d", i), fmt.Sprintf("note number %d", i), time.Now()))
	}

	_, err := ranker.Rank(context.Background(), "note", entries, 1)
	require.NoError(t, err)
	assert.Equal(t, 40, sc.calls)
}

func TestRankScorerFaultDemotesEntry(t *testing.T) {
	sc := &fakeScorer{err: errors.New("model unavailable")}
	ranker := intelligence.NewRanker(sc, 0, nil)

	entries := []*storage.Entry{
		timedEntry("1", "user likes tea", time.Now()),
	}

	ranked, err := ranker.Rank(context.Background(), "tea", entries, 5)
	require.NoError(t, err, "scorer faults must not fail the search")
	require.Len(t, ranked, 1)
	assert.Equal(t, 0.0, ranked[0].Score)
}

func TestRankRecencyBreaksTies(t *testing.T) {
	// Equal semantic scores preserve stage-one order, where the newer
	// entry wins through the recency component.
	sc := &fakeScorer{scores: map[string]float64{
		"user enjoys long walks": 0.5,
		"user enjoys long runs":  0.5,
	}}
	ranker := intelligence.NewRanker(sc, 0, nil)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ranker.Now = func() time.Time { return base }

	entries := []*storage.Entry{
		timedEntry("old", "user enjoys long walks", base.Add(-72*time.Hour)),
		timedEntry("new", "user enjoys long runs", base.Add(-1*time.Hour)),
	}

	ranked, err := ranker.Rank(context.Background(), "user enjoys long exercise", entries, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "new", ranked[0].Entry.ID)
}

func TestRankUnknownTimestampPenalized(t *testing.T) {
	// A zero creation time ranks as a day old, so a fresh entry with the
	// same content beats it in stage one.
	sc := &fakeScorer{scores: map[string]float64{}}
	ranker := intelligence.NewRanker(sc, 0, nil)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	ranker.Now = func() time.Time { return base }

	entries := []*storage.Entry{
		timedEntry("unknown", "user collects stamps", time.Time{}),
		timedEntry("fresh", "user collects stamps", base),
	}

	ranked, err := ranker.Rank(context.Background(), "stamps", entries, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "fresh", ranked[0].Entry.ID)
}

func TestRankCancelledContext(t *testing.T) {
	sc := &fakeScorer{scores: map[string]float64{}}
	ranker := intelligence.NewRanker(sc, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	entries := []*storage.Entry{timedEntry("1", "anything at all", time.Now())}
	_, err := ranker.Rank(ctx, "anything", entries, 5)
	assert.ErrorIs(t, err, context.Canceled)
}
