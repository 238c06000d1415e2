// Package core provides the main LocalMem client and memory management functionality.
package core

import "time"

// Memory represents a single fact stored in the system.
//
// A memory contains:
//   - Content: The text content of the fact
//   - Kind: A coarse category such as "fact" or "preference"
//   - Confidence: The measured importance score assigned at creation
//
// Example:
//
//	memory := &core.Memory{
//	    ID:      "1234567890",
//	    UserID:  "user_001",
//	    Kind:    core.KindPreference,
//	    Content: "User likes Python programming",
//	}
type Memory struct {
	// ID is the unique identifier of the memory.
	ID string `json:"id"`

	// UserID identifies the user who owns this memory.
	UserID string `json:"user_id"`

	// ProjectID identifies the project this memory belongs to.
	ProjectID string `json:"project_id,omitempty"`

	// Kind is the category of the fact (fact, preference, behavior, person, event).
	Kind string `json:"kind"`

	// Title is a short human readable label for the fact.
	Title string `json:"title"`

	// Content is the text content of the memory.
	Content string `json:"content"`

	// Confidence is the importance score measured when the memory was
	// stored (0.0-1.0).
	Confidence float64 `json:"confidence"`

	// Tags contains free-form labels such as conflict markers.
	Tags []string `json:"tags,omitempty"`

	// CreatedAt is when the memory was created.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessed records the creation instant; entries are immutable
	// once persisted.
	LastAccessed time.Time `json:"last_accessed"`

	// Score is the relevance score from search operations (0.0-1.0).
	// Higher scores indicate better matches. Zero outside of search.
	Score float64 `json:"score,omitempty"`
}

// Fact kinds produced by extraction.
const (
	// KindFact is a general factual statement about the user.
	KindFact = "fact"

	// KindPreference captures likes, dislikes, and habits.
	KindPreference = "preference"

	// KindBehavior captures recurring behavioral patterns.
	KindBehavior = "behavior"

	// KindPerson captures people and relations in the user's life.
	KindPerson = "person"

	// KindEvent captures dated or dateable life events.
	KindEvent = "event"
)

// Tags attached by the client during Add.
const (
	// TagConflict marks a new entry that likely contradicts or updates an
	// older entry. The older entry is never touched.
	TagConflict = "potential_conflict"
)

// SearchResult contains the results of a search operation.
type SearchResult struct {
	// Memories is the list of matching memories, sorted by relevance.
	Memories []*Memory

	// TotalCount is the number of memories considered before the limit cut.
	TotalCount int
}

// AddResult reports what Add stored for a single interaction.
type AddResult struct {
	// Stored lists the memories persisted by the call.
	Stored []*Memory

	// Rejected is the number of extracted candidates below the
	// importance threshold.
	Rejected int

	// Conflicts is the number of stored memories flagged as potentially
	// conflicting with an existing entry.
	Conflicts int
}
