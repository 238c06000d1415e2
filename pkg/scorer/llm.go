package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/mindpalace/localmem-go/pkg/llm"
)

const llmScorerSystemPrompt = `You are a relevance scorer.
Given a query and a document, rate how relevant the document is to the query
on a scale from 0.0 to 1.0. Judge semantic relevance, not word overlap.
Return a JSON object with a "relevance_score" field and nothing else.`

// LLMScorer implements Provider by asking an LLM to rate the pair.
//
// The response is parsed leniently: a JSON object is extracted from the
// reply if present, and a bare number is accepted as a fallback. A reply
// that yields neither is an error, not a guess.
type LLMScorer struct {
	llm llm.Provider
}

// NewLLMScorer creates a scorer backed by the given LLM provider.
func NewLLMScorer(provider llm.Provider) *LLMScorer {
	return &LLMScorer{llm: provider}
}

// Score rates document against query via one LLM call.
func (s *LLMScorer) Score(ctx context.Context, query, document string) (float64, error) {
	userPrompt := fmt.Sprintf(
		"Query: %s\n\nDocument: %s\n\nReturn JSON: {\"relevance_score\": 0.0-1.0}",
		query, document,
	)

	messages := []llm.Message{
		{Role: "system", Content: llmScorerSystemPrompt},
		{Role: "user", Content: userPrompt},
	}

	response, err := s.llm.GenerateWithMessages(ctx, messages, llm.WithTemperature(0))
	if err != nil {
		return 0, err
	}

	score, err := parseScoreResponse(response)
	if err != nil {
		return 0, err
	}
	return clamp01(score), nil
}

// Close closes the underlying LLM provider.
func (s *LLMScorer) Close() error {
	return s.llm.Close()
}

var numberPattern = regexp.MustCompile(`-?\d+\.?\d*`)

// parseScoreResponse extracts a relevance score from an LLM reply.
func parseScoreResponse(response string) (float64, error) {
	// Preferred shape: a JSON object with a relevance_score field.
	if start := strings.Index(response, "{"); start >= 0 {
		if end := strings.LastIndex(response, "}"); end > start {
			var result map[string]interface{}
			if err := json.Unmarshal([]byte(response[start:end+1]), &result); err == nil {
				if score, ok := result["relevance_score"].(float64); ok {
					return score, nil
				}
			}
		}
	}

	// Fallback: the first number anywhere in the reply.
	if match := numberPattern.FindString(response); match != "" {
		var score float64
		if _, err := fmt.Sscanf(match, "%f", &score); err == nil {
			return score, nil
		}
	}

	return 0, fmt.Errorf("scorer: unparseable response %q", truncate(response, 80))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
