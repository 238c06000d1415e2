package scorer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpalace/localmem-go/pkg/llm"
	"github.com/mindpalace/localmem-go/pkg/scorer"
)

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	return f.GenerateWithMessages(ctx, nil, opts...)
}

func (f *fakeLLM) GenerateWithMessages(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Close() error { return nil }

func TestLLMScorerJSONResponse(t *testing.T) {
	s := scorer.NewLLMScorer(&fakeLLM{response: `{"relevance_score": 0.85}`})

	score, err := s.Score(context.Background(), "query", "document")
	require.NoError(t, err)
	assert.InDelta(t, 0.85, score, 1e-9)
}

func TestLLMScorerJSONWithProse(t *testing.T) {
	s := scorer.NewLLMScorer(&fakeLLM{response: `Sure! {"relevance_score": 0.4} as requested.`})

	score, err := s.Score(context.Background(), "query", "document")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, score, 1e-9)
}

func TestLLMScorerBareNumberFallback(t *testing.T) {
	s := scorer.NewLLMScorer(&fakeLLM{response: `0.72`})

	score, err := s.Score(context.Background(), "query", "document")
	require.NoError(t, err)
	assert.InDelta(t, 0.72, score, 1e-9)
}

func TestLLMScorerClampsOutOfRange(t *testing.T) {
	s := scorer.NewLLMScorer(&fakeLLM{response: `{"relevance_score": 7.5}`})

	score, err := s.Score(context.Background(), "query", "document")
	require.NoError(t, err)
	assert.Equal(t, 1.0, score)
}

func TestLLMScorerUnparseableResponse(t *testing.T) {
	s := scorer.NewLLMScorer(&fakeLLM{response: `no idea`})

	_, err := s.Score(context.Background(), "query", "document")
	assert.Error(t, err)
}

func TestLLMScorerProviderError(t *testing.T) {
	s := scorer.NewLLMScorer(&fakeLLM{err: errors.New("timeout")})

	_, err := s.Score(context.Background(), "query", "document")
	assert.Error(t, err)
}
