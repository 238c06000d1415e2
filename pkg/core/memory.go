package core

import (
	"context"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/mindpalace/localmem-go/pkg/embedder"
	openaiEmbedder "github.com/mindpalace/localmem-go/pkg/embedder/openai"
	"github.com/mindpalace/localmem-go/pkg/extractor"
	"github.com/mindpalace/localmem-go/pkg/intelligence"
	"github.com/mindpalace/localmem-go/pkg/llm"
	openaiLLM "github.com/mindpalace/localmem-go/pkg/llm/openai"
	"github.com/mindpalace/localmem-go/pkg/scorer"
	"github.com/mindpalace/localmem-go/pkg/storage"
	fileStore "github.com/mindpalace/localmem-go/pkg/storage/file"
	mysqlStore "github.com/mindpalace/localmem-go/pkg/storage/mysql"
	postgresStore "github.com/mindpalace/localmem-go/pkg/storage/postgres"
	sqliteStore "github.com/mindpalace/localmem-go/pkg/storage/sqlite"
)

// Client is the main LocalMem client for memory management.
//
// It runs the full memory pipeline:
//   - Fact extraction from free-form interaction text
//   - Importance gating against a fixed reference probe
//   - Conflict flagging against existing entries
//   - Two-stage retrieval ranking for search
//
// The client is thread-safe and can be used concurrently from multiple
// goroutines. Stored entries are immutable; a correction arrives as a
// new entry tagged potential_conflict, never as an edit of the old one.
//
// Example usage:
//
//	config, _ := core.LoadConfigFromEnv()
//	client, _ := core.NewClient(config)
//	defer client.Close()
//
//	result, _ := client.Add(ctx, "My name is Sam and I love hiking",
//	    core.WithUserID("user_001"),
//	)
type Client struct {
	// config contains the client configuration.
	config *Config

	// store is the backend for memory persistence.
	store storage.Store

	// extractor turns interaction text into candidate facts.
	extractor extractor.Provider

	// scorer measures importance and search relevance.
	scorer scorer.Provider

	// gate filters candidate facts by importance.
	gate *intelligence.ImportanceGate

	// detector finds existing entries a new fact likely contradicts.
	detector *intelligence.ConflictDetector

	// ranker performs two-stage retrieval ranking.
	ranker *intelligence.Ranker

	// probe is the reference query used for importance measurement.
	probe string

	// snowflakeNode generates unique IDs for memories.
	snowflakeNode *snowflake.Node

	// logger receives pipeline diagnostics.
	logger *log.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time

	// mu protects concurrent access to the client.
	mu sync.RWMutex
}

// NewClient creates a new LocalMem client.
//
// The client is initialized from the configuration:
//   - Storage backend (file, SQLite, PostgreSQL, or MySQL)
//   - LLM provider for fact extraction
//   - Relevance scorer (LLM based or embedding based)
//
// Options can replace any of these with an injected implementation,
// which skips the corresponding provider construction entirely.
//
// Example:
//
//	config := &core.Config{
//	    Storage: core.StorageConfig{Provider: "file", Config: map[string]interface{}{"base_dir": "./memory"}},
//	    LLM:     core.LLMConfig{Provider: "openai", APIKey: "sk-...", Model: "gpt-4o-mini"},
//	}
//	client, err := core.NewClient(config)
func NewClient(cfg *Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &clientOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = log.New(os.Stderr, "[localmem] ", log.LstdFlags)
	}

	store := options.store
	if store == nil {
		var err error
		store, err = initStorage(cfg.Storage, logger)
		if err != nil {
			return nil, err
		}
	}

	factExtractor := options.extractor
	if factExtractor == nil {
		llmProvider, err := initLLM(cfg.LLM)
		if err != nil {
			return nil, err
		}
		factExtractor = extractor.NewLLMExtractor(llmProvider)
	}

	relevanceScorer := options.scorer
	if relevanceScorer == nil {
		var err error
		relevanceScorer, err = initScorer(cfg)
		if err != nil {
			return nil, err
		}
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, NewMemoryError("NewClient", err)
	}

	probe := cfg.Memory.ImportanceProbe
	if probe == "" {
		probe = DefaultImportanceProbe
	}

	return &Client{
		config:        cfg,
		store:         store,
		extractor:     factExtractor,
		scorer:        relevanceScorer,
		gate:          intelligence.NewImportanceGate(cfg.Memory.ImportanceThreshold),
		detector:      intelligence.NewConflictDetector(cfg.Memory.ConflictThreshold),
		ranker:        intelligence.NewRanker(relevanceScorer, cfg.Memory.DecayRate, logger),
		probe:         probe,
		snowflakeNode: node,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}, nil
}

// Add processes an interaction and stores the important facts it contains.
//
// The method:
//  1. Extracts candidate facts from the text
//  2. Scores each candidate against the importance probe
//  3. Drops candidates below the importance threshold
//  4. Tags facts that conflict with an existing entry
//  5. Persists the surviving facts
//
// A conflicting older entry is never mutated or removed; the new entry
// carries the potential_conflict tag instead.
//
// Extraction failures are not fatal: the call logs the error and
// returns an empty result, so a flaky provider never blocks the caller.
// A storage write failure is logged, the remaining facts are still
// attempted, and the first write error is returned alongside whatever
// was stored.
//
// Parameters:
//   - ctx: Context for cancellation
//   - text: Interaction text (user message, conversation turn)
//   - opts: Optional parameters (UserID, ProjectID)
//
// Returns an AddResult describing what was stored, rejected, and
// flagged as conflicting.
//
// Example:
//
//	result, err := client.Add(ctx, "I moved to Berlin last month",
//	    core.WithUserID("user_001"),
//	)
func (c *Client) Add(ctx context.Context, text string, opts ...AddOption) (*AddResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	addOpts := applyAddOptions(opts)
	result := &AddResult{}

	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	facts, err := c.extractor.Extract(ctx, text)
	if err != nil {
		c.logger.Printf("extraction failed, storing nothing: %v", err)
		return result, nil
	}
	if len(facts) == 0 {
		return result, nil
	}

	existing, err := c.store.List(ctx, addOpts.UserID)
	if err != nil {
		return nil, NewMemoryError("Add", err)
	}

	var firstWriteErr error
	for _, fact := range facts {
		content := strings.TrimSpace(fact.Content)
		if content == "" {
			continue
		}

		score, err := c.scorer.Score(ctx, c.probe, content)
		if err != nil {
			c.logger.Printf("importance scoring failed for %q: %v", snippet(content), err)
			score = 0
		}
		score = intelligence.ClampScore(score)

		if !c.gate.Accept(score) {
			result.Rejected++
			continue
		}

		tags := fact.Tags
		if old := c.detector.FindConflict(content, existing); old != nil {
			c.logger.Printf("new fact conflicts with entry %s, flagging", old.ID)
			tags = append(tags, TagConflict)
			result.Conflicts++
		}

		now := c.now()
		entry := &storage.Entry{
			ID:           c.snowflakeNode.Generate().String(),
			UserID:       addOpts.UserID,
			ProjectID:    addOpts.ProjectID,
			Kind:         defaultString(fact.Kind, KindFact),
			Title:        defaultString(fact.Title, "Memory"),
			Content:      content,
			Confidence:   score,
			CreatedAt:    now,
			LastAccessed: now,
			Tags:         tags,
		}

		if err := c.store.Insert(ctx, entry); err != nil {
			c.logger.Printf("failed to persist entry %s: %v", entry.ID, err)
			if firstWriteErr == nil {
				firstWriteErr = err
			}
			continue
		}

		// Later candidates in the same call conflict-check against
		// entries stored earlier in the loop.
		existing = append(existing, entry)
		result.Stored = append(result.Stored, fromStorageEntry(entry))
	}

	if firstWriteErr != nil {
		return result, NewMemoryError("Add", firstWriteErr)
	}
	return result, nil
}

// Search retrieves the memories most relevant to a query.
//
// The method runs two-stage ranking: a cheap lexical and recency
// heuristic narrows the candidate set, then the relevance scorer
// produces the final ordering. The scorer's output is authoritative for
// the entries it sees.
//
// An empty query returns an empty result. Search never mutates stored
// entries.
//
// Parameters:
//   - ctx: Context for cancellation
//   - query: Search query (text string)
//   - opts: Optional parameters (UserID, Limit)
//
// Returns a SearchResult sorted by relevance (highest first), or an error.
//
// Example:
//
//	results, err := client.Search(ctx, "where does the user live",
//	    core.WithUserIDForSearch("user_001"),
//	    core.WithLimit(10),
//	)
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	searchOpts := applySearchOptions(opts)
	limit := searchOpts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	entries, err := c.store.List(ctx, searchOpts.UserID)
	if err != nil {
		return nil, NewMemoryError("Search", err)
	}

	ranked, err := c.ranker.Rank(ctx, query, entries, limit)
	if err != nil {
		return nil, NewMemoryError("Search", err)
	}

	memories := make([]*Memory, 0, len(ranked))
	for _, r := range ranked {
		m := fromStorageEntry(r.Entry)
		m.Score = r.Score
		memories = append(memories, m)
	}

	return &SearchResult{
		Memories:   memories,
		TotalCount: len(entries),
	}, nil
}

// GetAll retrieves all memories for a user, newest first.
//
// Example:
//
//	memories, err := client.GetAll(ctx, core.WithUserIDForGetAll("user_001"))
func (c *Client) GetAll(ctx context.Context, opts ...GetAllOption) ([]*Memory, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	getAllOpts := applyGetAllOptions(opts)

	entries, err := c.store.List(ctx, getAllOpts.UserID)
	if err != nil {
		return nil, NewMemoryError("GetAll", err)
	}

	return fromStorageEntries(entries), nil
}

// Delete deletes a memory by its ID.
//
// Returns a wrapped ErrNotFound if no entry with the ID exists for the
// user.
//
// Example:
//
//	err := client.Delete(ctx, memoryID, core.WithUserIDForDelete("user_001"))
func (c *Client) Delete(ctx context.Context, id string, opts ...DeleteOption) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleteOpts := applyDeleteOptions(opts)

	removed, err := c.store.Delete(ctx, id, deleteOpts.UserID)
	if err != nil {
		return NewMemoryError("Delete", err)
	}
	if !removed {
		return NewMemoryError("Delete", ErrNotFound)
	}
	return nil
}

// DeleteBatch deletes several memories and reports how many existed.
//
// Missing IDs are skipped rather than treated as errors.
//
// Example:
//
//	deleted, err := client.DeleteBatch(ctx, ids, core.WithUserIDForDelete("user_001"))
func (c *Client) DeleteBatch(ctx context.Context, ids []string, opts ...DeleteOption) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleteOpts := applyDeleteOptions(opts)

	deleted := 0
	for _, id := range ids {
		removed, err := c.store.Delete(ctx, id, deleteOpts.UserID)
		if err != nil {
			return deleted, NewMemoryError("DeleteBatch", err)
		}
		if removed {
			deleted++
		}
	}
	return deleted, nil
}

// DeleteAll deletes all memories for a user and reports how many were
// removed.
//
// Example:
//
//	removed, err := client.DeleteAll(ctx, core.WithUserIDForDeleteAll("user_001"))
func (c *Client) DeleteAll(ctx context.Context, opts ...DeleteAllOption) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleteAllOpts := applyDeleteAllOptions(opts)

	removed, err := c.store.DeleteAll(ctx, deleteAllOpts.UserID)
	if err != nil {
		return 0, NewMemoryError("DeleteAll", err)
	}
	return removed, nil
}

// Close closes the client and releases all resources.
//
// Returns the first error encountered during cleanup, or nil if all
// resources were closed successfully.
//
// Example:
//
//	defer client.Close()
func (c *Client) Close() error {
	var errs []error

	if c.store != nil {
		if err := c.store.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.extractor != nil {
		if err := c.extractor.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if c.scorer != nil {
		if err := c.scorer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}

	return nil
}

// initStorage initializes the storage backend.
func initStorage(cfg StorageConfig, logger *log.Logger) (storage.Store, error) {
	switch cfg.Provider {
	case "file":
		return fileStore.NewStore(&fileStore.Config{
			BaseDir: stringValue(cfg.Config, "base_dir", "memory"),
			Logger:  logger,
		})
	case "sqlite":
		return sqliteStore.NewClient(&sqliteStore.Config{
			DBPath: stringValue(cfg.Config, "db_path", "./localmem.db"),
		})
	case "postgres":
		return postgresStore.NewClient(&postgresStore.Config{
			Host:     stringValue(cfg.Config, "host", "localhost"),
			Port:     intValue(cfg.Config, "port", 5432),
			User:     stringValue(cfg.Config, "user", "postgres"),
			Password: stringValue(cfg.Config, "password", ""),
			DBName:   stringValue(cfg.Config, "db_name", "localmem"),
			SSLMode:  stringValue(cfg.Config, "ssl_mode", "disable"),
		})
	case "mysql":
		return mysqlStore.NewClient(&mysqlStore.Config{
			Host:     stringValue(cfg.Config, "host", "127.0.0.1"),
			Port:     intValue(cfg.Config, "port", 3306),
			User:     stringValue(cfg.Config, "user", "root"),
			Password: stringValue(cfg.Config, "password", ""),
			DBName:   stringValue(cfg.Config, "db_name", "localmem"),
		})
	default:
		return nil, NewMemoryError("initStorage", ErrInvalidConfig)
	}
}

// initLLM initializes the LLM provider.
func initLLM(cfg LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return openaiLLM.NewClient(&openaiLLM.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, NewMemoryError("initLLM", ErrInvalidConfig)
	}
}

// initEmbedder initializes the embedder provider.
func initEmbedder(cfg EmbedderConfig) (embedder.Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return openaiEmbedder.NewClient(&openaiEmbedder.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
		})
	default:
		return nil, NewMemoryError("initEmbedder", ErrInvalidConfig)
	}
}

// initScorer builds the stage two relevance scorer selected by the
// configuration.
func initScorer(cfg *Config) (scorer.Provider, error) {
	switch cfg.Scorer {
	case "", "llm":
		llmProvider, err := initLLM(cfg.LLM)
		if err != nil {
			return nil, err
		}
		return scorer.NewLLMScorer(llmProvider), nil
	case "embedding":
		embedderProvider, err := initEmbedder(cfg.Embedder)
		if err != nil {
			return nil, err
		}
		return scorer.NewEmbeddingScorer(embedderProvider), nil
	default:
		return nil, NewMemoryError("initScorer", ErrInvalidConfig)
	}
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// stringValue reads a string key from provider config with a fallback.
func stringValue(cfg map[string]interface{}, key, fallback string) string {
	if v, ok := cfg[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// intValue reads an int key from provider config with a fallback.
// JSON decoding produces float64 for numbers, so both are accepted.
func intValue(cfg map[string]interface{}, key string, fallback int) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// snippet shortens text for log lines.
func snippet(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
