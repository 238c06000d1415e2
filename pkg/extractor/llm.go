package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mindpalace/localmem-go/pkg/llm"
)

const extractorSystemPrompt = `You are a Memory Extractor.
Target: Extract atomic facts, user preferences, or behavioral patterns from the conversation.
Output Format: JSON list of objects.
Schema: [{"content": "...", "title": "Short Label", "confidence": 0.0 to 1.0, "type": "fact|preference|behavior|person|event", "tags": [...]}]

Rules:
1. EXTRACT EVERYTHING. If a name is mentioned ("I'm X", "Call me Y"), EXTRACT IT.
2. If an event is mentioned ("Date", "Meeting"), EXTRACT IT.
3. If a preference is implied ("Casual", "Formal"), EXTRACT IT.
4. BE AGGRESSIVE. Better to remember too much than nothing.
5. High confidence (1.0) for self-identification.
6. If nothing is worth remembering, return [].`

// LLMExtractor implements Provider using an LLM.
//
// The model reply is parsed leniently: code fences are stripped, the
// outermost JSON bracket pair is located by scan, and both a bare list and a
// {"facts": [...]} wrapper are accepted. Facts with empty content are
// dropped during parsing.
type LLMExtractor struct {
	llm          llm.Provider
	customPrompt string
}

// NewLLMExtractor creates an extractor backed by the given LLM provider.
func NewLLMExtractor(provider llm.Provider) *LLMExtractor {
	return &LLMExtractor{llm: provider}
}

// NewLLMExtractorWithPrompt creates an extractor with a custom system
// prompt. An empty prompt selects the default.
func NewLLMExtractorWithPrompt(provider llm.Provider, prompt string) *LLMExtractor {
	return &LLMExtractor{llm: provider, customPrompt: prompt}
}

// Extract runs one LLM call over text and parses the reply into facts.
func (e *LLMExtractor) Extract(ctx context.Context, text string) ([]Fact, error) {
	systemPrompt := e.customPrompt
	if systemPrompt == "" {
		systemPrompt = extractorSystemPrompt
	}

	messages := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: fmt.Sprintf("Analyze this interaction and extract memories:\n\n%s", text)},
	}

	response, err := e.llm.GenerateWithMessages(ctx, messages, llm.WithTemperature(0))
	if err != nil {
		return nil, fmt.Errorf("extract facts: %w", err)
	}

	facts, err := parseFactsResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parse facts response: %w", err)
	}
	return facts, nil
}

// Close closes the underlying LLM provider.
func (e *LLMExtractor) Close() error {
	return e.llm.Close()
}

// parseFactsResponse turns an LLM reply into a fact list.
func parseFactsResponse(response string) ([]Fact, error) {
	response = stripCodeFences(response)
	response = extractJSONPayload(response)

	// Bare list is the documented shape.
	var facts []Fact
	if err := json.Unmarshal([]byte(response), &facts); err == nil {
		return dropEmpty(facts), nil
	}

	// Some models wrap the list in an object.
	var wrapper struct {
		Facts []Fact `json:"facts"`
	}
	if err := json.Unmarshal([]byte(response), &wrapper); err == nil && wrapper.Facts != nil {
		return dropEmpty(wrapper.Facts), nil
	}

	return nil, fmt.Errorf("invalid JSON response")
}

// extractJSONPayload returns the outermost bracketed region of the reply, so
// prose around the JSON does not break parsing.
func extractJSONPayload(response string) string {
	listStart := strings.Index(response, "[")
	objStart := strings.Index(response, "{")

	start := listStart
	closer := "]"
	if start < 0 || (objStart >= 0 && objStart < start) {
		start = objStart
		closer = "}"
	}

	if start < 0 {
		return response
	}
	end := strings.LastIndex(response, closer)
	if end <= start {
		return response
	}
	return response[start : end+1]
}

func stripCodeFences(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```", "")
	return strings.TrimSpace(response)
}

func dropEmpty(facts []Fact) []Fact {
	kept := facts[:0]
	for _, fact := range facts {
		if strings.TrimSpace(fact.Content) != "" {
			kept = append(kept, fact)
		}
	}
	return kept
}
