// Package usermemory provides a user-bound view over the core memory client.
//
// A Client fixes the user and project once so call sites working on
// behalf of a single user never thread identifiers through every
// operation:
//
//	mem, _ := usermemory.New(client, "user_001")
//	defer mem.Close()
//
//	mem.Remember(ctx, "I started a new job at a bakery")
//	results, _ := mem.Recall(ctx, "where does the user work", 5)
package usermemory

import (
	"context"

	"github.com/mindpalace/localmem-go/pkg/core"
)

// Client binds a core memory client to one user.
//
// All operations are scoped to that user's partition. The wrapper owns
// the underlying client: Close closes it.
type Client struct {
	memory    *core.Client
	userID    string
	projectID string
}

// New wraps a core client for a single user.
func New(memory *core.Client, userID string) *Client {
	return &Client{
		memory:    memory,
		userID:    userID,
		projectID: "default",
	}
}

// NewWithProject wraps a core client for a single user and project.
func NewWithProject(memory *core.Client, userID, projectID string) *Client {
	return &Client{
		memory:    memory,
		userID:    userID,
		projectID: projectID,
	}
}

// UserID returns the bound user identifier.
func (c *Client) UserID() string {
	return c.userID
}

// Remember processes an interaction and stores the important facts it
// contains for the bound user.
func (c *Client) Remember(ctx context.Context, text string) (*core.AddResult, error) {
	return c.memory.Add(ctx, text,
		core.WithUserID(c.userID),
		core.WithProjectID(c.projectID),
	)
}

// Recall retrieves the memories most relevant to the query. A
// non-positive limit selects the default.
func (c *Client) Recall(ctx context.Context, query string, limit int) (*core.SearchResult, error) {
	return c.memory.Search(ctx, query,
		core.WithUserIDForSearch(c.userID),
		core.WithLimit(limit),
	)
}

// List returns all of the user's memories, newest first.
func (c *Client) List(ctx context.Context) ([]*core.Memory, error) {
	return c.memory.GetAll(ctx, core.WithUserIDForGetAll(c.userID))
}

// Forget deletes a single memory by ID.
func (c *Client) Forget(ctx context.Context, id string) error {
	return c.memory.Delete(ctx, id, core.WithUserIDForDelete(c.userID))
}

// ForgetAll deletes every memory of the bound user and reports how many
// were removed.
func (c *Client) ForgetAll(ctx context.Context) (int, error) {
	return c.memory.DeleteAll(ctx, core.WithUserIDForDeleteAll(c.userID))
}

// Stats summarizes the user's memory partition.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	memories, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	return collectStats(memories), nil
}

// Close closes the underlying core client.
func (c *Client) Close() error {
	return c.memory.Close()
}
