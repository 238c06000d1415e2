// Package storage provides interfaces and types for memory entry persistence.
//
// It defines the Store interface that all backends must satisfy, along with
// the persisted Entry record. Entries are immutable once persisted: backends
// expose no update operation, and corrections are always written as new
// entries by the caller.
package storage

import (
	"context"
	"time"
)

// Entry is a single persisted memory record.
//
// This type is defined in the storage package to avoid circular dependencies
// with the core package. It mirrors core.MemoryEntry.
type Entry struct {
	// ID is the unique identifier of the entry, assigned at creation.
	ID string

	// UserID identifies the user who owns this entry. Entries are strictly
	// partitioned by this key; no operation crosses users.
	UserID string

	// ProjectID is a secondary partition tag. Defaults to "default".
	ProjectID string

	// Kind classifies the entry (fact, preference, behavior, summary,
	// person, event). Stored as opaque text, never validated here.
	Kind string

	// Title is a short optional human label.
	Title string

	// Content is the fact text itself. Never empty for a valid entry.
	Content string

	// Confidence is the importance score measured at creation (0.0-1.0).
	Confidence float64

	// CreatedAt is when the entry was created. A zero value means the
	// persisted timestamp could not be parsed.
	CreatedAt time.Time

	// LastAccessed mirrors CreatedAt at creation and is never mutated
	// afterwards. Reads do not touch it.
	LastAccessed time.Time

	// Tags holds short labels, including system tags such as
	// "potential_conflict".
	Tags []string
}

// Store defines the interface for entry persistence backends.
//
// All backends (file, SQLite, PostgreSQL, MySQL) must implement this
// interface. Implementations must tolerate corrupt persisted records by
// skipping them during List rather than failing the whole enumeration.
type Store interface {
	// Insert persists a new entry. The entry's ID must be unique within
	// the user's partition.
	Insert(ctx context.Context, entry *Entry) error

	// List returns every entry belonging to userID, ordered by CreatedAt
	// descending. Corrupt records are skipped, not reported as errors.
	List(ctx context.Context, userID string) ([]*Entry, error)

	// Delete removes the entry with the given id for userID.
	// Returns true iff a matching entry existed and was removed.
	// A missing entry is not an error.
	Delete(ctx context.Context, id, userID string) (bool, error)

	// DeleteAll removes every entry for userID and returns the number of
	// entries removed.
	DeleteAll(ctx context.Context, userID string) (int, error)

	// Close closes the store and releases resources.
	Close() error
}
