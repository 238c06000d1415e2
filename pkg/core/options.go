// Package core provides the main LocalMem client and memory management functionality.
package core

import (
	"log"

	"github.com/mindpalace/localmem-go/pkg/extractor"
	"github.com/mindpalace/localmem-go/pkg/scorer"
	"github.com/mindpalace/localmem-go/pkg/storage"
)

// Option is a function type for configuring a Client at construction time.
//
// Options allow swapping any collaborator for an alternative
// implementation, which is also how tests substitute fakes.
type Option func(*clientOptions)

type clientOptions struct {
	logger    *log.Logger
	store     storage.Store
	extractor extractor.Provider
	scorer    scorer.Provider
}

// WithLogger sets the logger used by the client and the components it
// constructs. The default logger writes to stderr.
//
// Example:
//
//	client, _ := core.NewClient(cfg, core.WithLogger(log.New(os.Stdout, "", log.LstdFlags)))
func WithLogger(logger *log.Logger) Option {
	return func(opts *clientOptions) {
		opts.logger = logger
	}
}

// WithStore injects a storage backend, bypassing the provider selected
// in the configuration.
func WithStore(store storage.Store) Option {
	return func(opts *clientOptions) {
		opts.store = store
	}
}

// WithExtractor injects a fact extractor, bypassing the LLM extractor
// built from the configuration.
func WithExtractor(p extractor.Provider) Option {
	return func(opts *clientOptions) {
		opts.extractor = p
	}
}

// WithScorer injects a relevance scorer, bypassing the scorer selected
// in the configuration.
func WithScorer(p scorer.Provider) Option {
	return func(opts *clientOptions) {
		opts.scorer = p
	}
}

// AddOption is a function type for configuring Add operations.
//
// Options are applied using the functional options pattern, allowing
// flexible configuration without requiring all parameters.
type AddOption func(*AddOptions)

// AddOptions contains configuration options for Add operations.
type AddOptions struct {
	// UserID identifies the user who owns the stored memories.
	UserID string

	// ProjectID identifies the project the memories belong to.
	ProjectID string
}

// WithUserID sets the user ID for Add operations.
//
// Example:
//
//	result, _ := client.Add(ctx, "content", core.WithUserID("user_001"))
func WithUserID(userID string) AddOption {
	return func(opts *AddOptions) {
		opts.UserID = userID
	}
}

// WithProjectID sets the project ID for Add operations.
func WithProjectID(projectID string) AddOption {
	return func(opts *AddOptions) {
		opts.ProjectID = projectID
	}
}

// applyAddOptions applies the options and fills in defaults.
func applyAddOptions(opts []AddOption) *AddOptions {
	options := &AddOptions{
		UserID:    "default",
		ProjectID: "default",
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// SearchOption is a function type for configuring Search operations.
type SearchOption func(*SearchOptions)

// SearchOptions contains configuration options for Search operations.
type SearchOptions struct {
	// UserID restricts the search to one user's memories.
	UserID string

	// Limit caps the number of results. Non-positive means
	// DefaultSearchLimit.
	Limit int
}

// WithUserIDForSearch sets the user ID for Search operations.
//
// Example:
//
//	results, _ := client.Search(ctx, "query", core.WithUserIDForSearch("user_001"))
func WithUserIDForSearch(userID string) SearchOption {
	return func(opts *SearchOptions) {
		opts.UserID = userID
	}
}

// WithLimit sets the maximum number of search results.
func WithLimit(limit int) SearchOption {
	return func(opts *SearchOptions) {
		opts.Limit = limit
	}
}

func applySearchOptions(opts []SearchOption) *SearchOptions {
	options := &SearchOptions{
		UserID: "default",
		Limit:  DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// GetAllOption is a function type for configuring GetAll operations.
type GetAllOption func(*GetAllOptions)

// GetAllOptions contains configuration options for GetAll operations.
type GetAllOptions struct {
	// UserID restricts the listing to one user's memories.
	UserID string
}

// WithUserIDForGetAll sets the user ID for GetAll operations.
//
// Example:
//
//	memories, _ := client.GetAll(ctx, core.WithUserIDForGetAll("user_001"))
func WithUserIDForGetAll(userID string) GetAllOption {
	return func(opts *GetAllOptions) {
		opts.UserID = userID
	}
}

func applyGetAllOptions(opts []GetAllOption) *GetAllOptions {
	options := &GetAllOptions{UserID: "default"}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// DeleteOption is a function type for configuring Delete operations.
type DeleteOption func(*DeleteOptions)

// DeleteOptions contains configuration options for Delete operations.
type DeleteOptions struct {
	// UserID scopes the deletion to one user's memories.
	UserID string
}

// WithUserIDForDelete sets the user ID for Delete operations.
func WithUserIDForDelete(userID string) DeleteOption {
	return func(opts *DeleteOptions) {
		opts.UserID = userID
	}
}

func applyDeleteOptions(opts []DeleteOption) *DeleteOptions {
	options := &DeleteOptions{UserID: "default"}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// DeleteAllOption is a function type for configuring DeleteAll operations.
type DeleteAllOption func(*DeleteAllOptions)

// DeleteAllOptions contains configuration options for DeleteAll operations.
type DeleteAllOptions struct {
	// UserID scopes the deletion to one user's memories.
	UserID string
}

// WithUserIDForDeleteAll sets the user ID for DeleteAll operations.
//
// Example:
//
//	_, _ = client.DeleteAll(ctx, core.WithUserIDForDeleteAll("user_001"))
func WithUserIDForDeleteAll(userID string) DeleteAllOption {
	return func(opts *DeleteAllOptions) {
		opts.UserID = userID
	}
}

func applyDeleteAllOptions(opts []DeleteAllOption) *DeleteAllOptions {
	options := &DeleteAllOptions{UserID: "default"}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
