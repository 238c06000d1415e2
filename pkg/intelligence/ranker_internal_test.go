package intelligence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecencyScoreMonotonicallyNonIncreasing(t *testing.T) {
	r := NewRanker(nil, 0, nil)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	ages := []time.Duration{
		0,
		30 * time.Minute,
		time.Hour,
		6 * time.Hour,
		24 * time.Hour,
		7 * 24 * time.Hour,
		365 * 24 * time.Hour,
	}

	prev := r.recencyScore(now.Add(-ages[0]), now)
	assert.Equal(t, 1.0, prev, "a brand new entry scores full recency")
	for _, age := range ages[1:] {
		score := r.recencyScore(now.Add(-age), now)
		assert.LessOrEqual(t, score, prev, "older entry (%v) must not outscore a newer one", age)
		assert.Greater(t, score, 0.0)
		prev = score
	}
}

func TestRecencyScoreEdgeTimestamps(t *testing.T) {
	r := NewRanker(nil, 0, nil)
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	dayOld := r.recencyScore(now.Add(-24*time.Hour), now)
	assert.Equal(t, dayOld, r.recencyScore(time.Time{}, now),
		"an unknown creation time is charged as one day old")

	// Clock skew can put a timestamp in the future; it ranks as brand new.
	assert.Equal(t, 1.0, r.recencyScore(now.Add(time.Hour), now))
}
