// Package openai implements embedder.Provider against the OpenAI embeddings
// API. OpenAI-compatible endpoints work by pointing BaseURL at them.
package openai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Client is an OpenAI-compatible embedding client.
type Client struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// Config is the configuration for the client.
type Config struct {
	// APIKey is the API key (required by most endpoints).
	APIKey string

	// BaseURL overrides the OpenAI default.
	BaseURL string
}

// NewClient creates a new embedding client. The model is pinned to Ada v2,
// the widest-supported embedding model across compatible endpoints.
func NewClient(cfg *Config) (*Client, error) {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  openai.AdaEmbeddingV2,
	}, nil
}

// Embed converts one text string into an embedding vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding generation failed: no data returned")
	}

	embedding32 := resp.Data[0].Embedding
	embedding64 := make([]float64, len(embedding32))
	for i, v := range embedding32 {
		embedding64[i] = float64(v)
	}
	return embedding64, nil
}

// Close is a no-op; the SDK client holds no resources needing release.
func (c *Client) Close() error {
	return nil
}
