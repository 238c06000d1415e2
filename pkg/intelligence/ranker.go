package intelligence

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/mindpalace/localmem-go/pkg/scorer"
	"github.com/mindpalace/localmem-go/pkg/storage"
)

// Ranking constants. The heuristic weights sum to 1.
const (
	// DefaultDecayRate is the per-hour recency decay multiplier.
	DefaultDecayRate = 0.01

	relevanceWeight  = 0.5
	recencyWeight    = 0.3
	confidenceWeight = 0.2

	// candidateFloor is the minimum Stage-1 candidate set size. The cut is
	// kept wide so a semantically relevant but lexically dissimilar entry
	// survives into Stage 2.
	candidateFloor = 50
	candidateScale = 10

	// staleFallbackHours is charged to an entry whose creation timestamp
	// could not be parsed: it ranks as one day old instead of failing.
	staleFallbackHours = 24.0
)

// Ranked pairs an entry with its current ranking score. After Stage 1 the
// score is the heuristic composite; after Stage 2 it is the semantic rerank
// score, which is authoritative for final ordering.
type Ranked struct {
	Entry *storage.Entry
	Score float64
}

// Ranker performs two-stage query-time ranking: a cheap heuristic pass
// (lexical relevance + recency decay + stored confidence) narrows a large
// candidate set, then an external semantic scorer re-ranks the survivors.
type Ranker struct {
	scorer scorer.Provider
	logger *log.Logger

	// DecayRate is the per-hour recency decay multiplier.
	DecayRate float64

	// Now supplies the current time; replaced in tests.
	Now func() time.Time
}

// NewRanker creates a ranker using the given semantic scorer for Stage 2.
// A zero decayRate selects the default. A nil logger silences the
// ranker.
func NewRanker(sc scorer.Provider, decayRate float64, logger *log.Logger) *Ranker {
	if decayRate == 0 {
		decayRate = DefaultDecayRate
	}
	return &Ranker{
		scorer:    sc,
		logger:    logger,
		DecayRate: decayRate,
		Now:       time.Now,
	}
}

// Rank orders entries by relevance to query and returns at most limit
// results, best first.
//
// Stage 1 scores every entry; entries with zero lexical overlap still earn
// recency and confidence contributions, because Stage 2 is expected to
// recover semantic matches the lexical measure misses. Stage 2 calls the
// external scorer per candidate; a scorer fault demotes that candidate to
// score 0 rather than failing the search.
func (r *Ranker) Rank(ctx context.Context, query string, entries []*storage.Entry, limit int) ([]Ranked, error) {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 || len(entries) == 0 {
		return nil, nil
	}

	// Stage 1: heuristic composite over the whole partition.
	now := r.Now()
	candidates := make([]Ranked, 0, len(entries))
	for _, entry := range entries {
		candidates = append(candidates, Ranked{
			Entry: entry,
			Score: r.heuristicScore(queryTokens, entry, now),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	width := limit * candidateScale
	if width < candidateFloor {
		width = candidateFloor
	}
	if len(candidates) > width {
		candidates = candidates[:width]
	}

	// Stage 2: semantic rerank. The heuristic score is discarded here.
	for i := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		score, err := r.scorer.Score(ctx, query, candidates[i].Entry.Content)
		if err != nil {
			if r.logger != nil {
				r.logger.Printf("scorer failed for entry %s: %v", candidates[i].Entry.ID, err)
			}
			score = 0
		}
		candidates[i].Score = ClampScore(score)
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

// heuristicScore combines lexical relevance, recency decay, and stored
// confidence with the fixed weights.
func (r *Ranker) heuristicScore(queryTokens map[string]struct{}, entry *storage.Entry, now time.Time) float64 {
	// Tags join the content token set for better recall on system tags.
	entryTokens := Tokenize(entry.Content)
	for _, tag := range entry.Tags {
		for token := range Tokenize(tag) {
			entryTokens[token] = struct{}{}
		}
	}

	relevance := Jaccard(queryTokens, entryTokens)
	recency := r.recencyScore(entry.CreatedAt, now)
	confidence := ClampScore(entry.Confidence)

	return relevanceWeight*relevance + recencyWeight*recency + confidenceWeight*confidence
}

// recencyScore computes 1 / (1 + decayRate * hoursSinceCreation). An entry
// with an unknown creation time is charged the stale fallback instead.
func (r *Ranker) recencyScore(createdAt time.Time, now time.Time) float64 {
	hours := staleFallbackHours
	if !createdAt.IsZero() {
		hours = now.Sub(createdAt).Hours()
		if hours < 0 {
			hours = 0
		}
	}
	return 1 / (1 + r.DecayRate*hours)
}
