package usermemory_test

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpalace/localmem-go/pkg/core"
	"github.com/mindpalace/localmem-go/pkg/extractor"
	"github.com/mindpalace/localmem-go/pkg/storage/file"
	usermemory "github.com/mindpalace/localmem-go/pkg/user_memory"
)

type fakeExtractor struct {
	facts []extractor.Fact
}

func (f *fakeExtractor) Extract(ctx context.Context, text string) ([]extractor.Fact, error) {
	return f.facts, nil
}

func (f *fakeExtractor) Close() error { return nil }

type fakeScorer struct {
	score float64
}

func (f *fakeScorer) Score(ctx context.Context, query, document string) (float64, error) {
	return f.score, nil
}

func (f *fakeScorer) Close() error { return nil }

func newBoundClient(t *testing.T, ex *fakeExtractor) *usermemory.Client {
	t.Helper()

	store, err := file.NewStore(&file.Config{BaseDir: t.TempDir()})
	require.NoError(t, err)

	client, err := core.NewClient(
		&core.Config{Storage: core.StorageConfig{Provider: "file"}},
		core.WithStore(store),
		core.WithExtractor(ex),
		core.WithScorer(&fakeScorer{score: 0.9}),
		core.WithLogger(log.New(io.Discard, "", 0)),
	)
	require.NoError(t, err)

	mem := usermemory.New(client, "alice")
	t.Cleanup(func() { _ = mem.Close() })
	return mem
}

func TestRememberAndRecall(t *testing.T) {
	ex := &fakeExtractor{facts: []extractor.Fact{
		{Content: "alice plays the violin", Kind: "preference"},
	}}
	mem := newBoundClient(t, ex)
	ctx := context.Background()

	result, err := mem.Remember(ctx, "I play the violin")
	require.NoError(t, err)
	require.Len(t, result.Stored, 1)
	assert.Equal(t, "alice", result.Stored[0].UserID)

	recalled, err := mem.Recall(ctx, "violin", 5)
	require.NoError(t, err)
	require.Len(t, recalled.Memories, 1)
	assert.Equal(t, "alice plays the violin", recalled.Memories[0].Content)
}

func TestForget(t *testing.T) {
	ex := &fakeExtractor{facts: []extractor.Fact{{Content: "alice rows on Sundays"}}}
	mem := newBoundClient(t, ex)
	ctx := context.Background()

	result, err := mem.Remember(ctx, "I row on Sundays")
	require.NoError(t, err)
	require.Len(t, result.Stored, 1)

	require.NoError(t, mem.Forget(ctx, result.Stored[0].ID))

	listed, err := mem.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestForgetAllAndStats(t *testing.T) {
	ex := &fakeExtractor{facts: []extractor.Fact{
		{Content: "alice reads science fiction", Kind: "preference"},
		{Content: "alice was born in Porto", Kind: "fact"},
	}}
	mem := newBoundClient(t, ex)
	ctx := context.Background()

	_, err := mem.Remember(ctx, "about alice")
	require.NoError(t, err)

	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByKind["preference"])
	assert.Equal(t, 1, stats.ByKind["fact"])

	removed, err := mem.ForgetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
}
