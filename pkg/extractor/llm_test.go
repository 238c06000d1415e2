package extractor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindpalace/localmem-go/pkg/extractor"
	"github.com/mindpalace/localmem-go/pkg/llm"
)

// fakeLLM replies with a canned response and records the last messages.
type fakeLLM struct {
	response string
	err      error
	messages []llm.Message
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.GenerateOption) (string, error) {
	return f.GenerateWithMessages(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (f *fakeLLM) GenerateWithMessages(ctx context.Context, messages []llm.Message, opts ...llm.GenerateOption) (string, error) {
	f.messages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Close() error { return nil }

func TestExtractBareList(t *testing.T) {
	provider := &fakeLLM{response: `[
		{"content": "User is named Sam", "title": "Name", "confidence": 1.0, "type": "fact", "tags": ["identity"]},
		{"content": "User likes hiking", "type": "preference"}
	]`}
	ex := extractor.NewLLMExtractor(provider)

	facts, err := ex.Extract(context.Background(), "Hi, I'm Sam and I love hiking")
	require.NoError(t, err)
	require.Len(t, facts, 2)
	assert.Equal(t, "User is named Sam", facts[0].Content)
	assert.Equal(t, "Name", facts[0].Title)
	assert.Equal(t, 1.0, facts[0].Confidence)
	assert.Equal(t, "fact", facts[0].Kind)
	assert.Equal(t, []string{"identity"}, facts[0].Tags)
	assert.Equal(t, "preference", facts[1].Kind)
}

func TestExtractCodeFencedList(t *testing.T) {
	provider := &fakeLLM{response: "```json\n[{\"content\": \"User plays chess\"}]\n```"}
	ex := extractor.NewLLMExtractor(provider)

	facts, err := ex.Extract(context.Background(), "I play chess on weekends")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "User plays chess", facts[0].Content)
}

func TestExtractSurroundingProse(t *testing.T) {
	provider := &fakeLLM{response: `Here are the facts I found:
[{"content": "User moved to Berlin"}]
Hope this helps!`}
	ex := extractor.NewLLMExtractor(provider)

	facts, err := ex.Extract(context.Background(), "I moved to Berlin")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "User moved to Berlin", facts[0].Content)
}

func TestExtractWrappedObject(t *testing.T) {
	provider := &fakeLLM{response: `{"facts": [{"content": "User has a dog"}]}`}
	ex := extractor.NewLLMExtractor(provider)

	facts, err := ex.Extract(context.Background(), "My dog is asleep")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "User has a dog", facts[0].Content)
}

func TestExtractEmptyList(t *testing.T) {
	provider := &fakeLLM{response: `[]`}
	ex := extractor.NewLLMExtractor(provider)

	facts, err := ex.Extract(context.Background(), "ok")
	require.NoError(t, err, "nothing worth remembering is not an error")
	assert.Empty(t, facts)
}

func TestExtractDropsEmptyContent(t *testing.T) {
	provider := &fakeLLM{response: `[{"content": ""}, {"content": "  "}, {"content": "kept"}]`}
	ex := extractor.NewLLMExtractor(provider)

	facts, err := ex.Extract(context.Background(), "something")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, "kept", facts[0].Content)
}

func TestExtractMalformedResponse(t *testing.T) {
	provider := &fakeLLM{response: `I could not find any facts, sorry.`}
	ex := extractor.NewLLMExtractor(provider)

	_, err := ex.Extract(context.Background(), "something")
	assert.ErrorContains(t, err, "parse facts response")
}

func TestExtractProviderError(t *testing.T) {
	provider := &fakeLLM{err: errors.New("rate limited")}
	ex := extractor.NewLLMExtractor(provider)

	_, err := ex.Extract(context.Background(), "something")
	assert.ErrorContains(t, err, "extract facts")
}

func TestExtractCustomPrompt(t *testing.T) {
	provider := &fakeLLM{response: `[]`}
	ex := extractor.NewLLMExtractorWithPrompt(provider, "Only extract food preferences.")

	_, err := ex.Extract(context.Background(), "I love ramen")
	require.NoError(t, err)
	require.NotEmpty(t, provider.messages)
	assert.Equal(t, "system", provider.messages[0].Role)
	assert.Equal(t, "Only extract food preferences.", provider.messages[0].Content)
}
