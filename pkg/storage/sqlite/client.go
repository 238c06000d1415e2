// Package sqlite provides a SQLite implementation of storage.Store.
//
// SQLite is a good fit for single-machine deployments that need the
// durability and multi-process safety the plain file layout cannot give:
// every write is a transaction, so concurrent adds from independent
// processes cannot interleave half-written records.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mindpalace/localmem-go/pkg/storage"
)

// Client implements storage.Store using SQLite as the backend.
type Client struct {
	db    *sql.DB
	table string
}

// Config contains configuration for creating a SQLite Store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// Table is the name of the table storing entries. Defaults to "entries".
	Table string
}

// NewClient opens (creating if necessary) the SQLite database at cfg.DBPath
// and ensures the entries table exists.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Table == "" {
		cfg.Table = "entries"
	}

	dbDir := filepath.Dir(cfg.DBPath)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o755); err != nil {
			return nil, fmt.Errorf("NewSQLiteClient: failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_foreign_keys=1&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewSQLiteClient: %w", err)
	}

	client := &Client{db: db, table: cfg.Table}
	if err := client.initTables(context.Background()); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) initTables(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			project_id TEXT NOT NULL DEFAULT 'default',
			kind TEXT NOT NULL,
			title TEXT,
			content TEXT NOT NULL,
			confidence REAL NOT NULL,
			created_at DATETIME NOT NULL,
			last_accessed DATETIME NOT NULL,
			tags TEXT
		)
	`, c.table)

	if _, err := c.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("initTables: %w", err)
	}

	indexQuery := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS idx_%s_user ON %s(user_id)
	`, c.table, c.table)
	if _, err := c.db.ExecContext(ctx, indexQuery); err != nil {
		return fmt.Errorf("initTables: %w", err)
	}
	return nil
}

// Insert persists a new entry. Tags are stored as a JSON array in a TEXT
// column.
func (c *Client) Insert(ctx context.Context, entry *storage.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, user_id, project_id, kind, title, content, confidence, created_at, last_accessed, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.table)

	tagsJSON, err := json.Marshal(entry.Tags)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}

	_, err = c.db.ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.ProjectID,
		entry.Kind,
		entry.Title,
		entry.Content,
		entry.Confidence,
		entry.CreatedAt,
		entry.LastAccessed,
		string(tagsJSON),
	)
	if err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	return nil
}

// List returns every entry for userID, newest first. Rows whose tags column
// fails to decode are returned with no tags rather than dropped: the row is
// still a valid entry.
func (c *Client) List(ctx context.Context, userID string) ([]*storage.Entry, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, project_id, kind, title, content, confidence,
		       created_at, last_accessed, tags
		FROM %s
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, c.table)

	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*storage.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return entries, nil
}

// Delete removes one entry scoped to userID. A missing entry is reported as
// false, not as an error.
func (c *Client) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ? AND user_id = ?", c.table)

	result, err := c.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("Delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Delete: %w", err)
	}
	return affected > 0, nil
}

// DeleteAll removes every entry for userID and reports the count.
func (c *Client) DeleteAll(ctx context.Context, userID string) (int, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", c.table)

	result, err := c.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteAll: %w", err)
	}
	return int(affected), nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// scanEntry scans one row into a storage.Entry.
func scanEntry(rows *sql.Rows) (*storage.Entry, error) {
	var entry storage.Entry
	var title sql.NullString
	var tagsStr sql.NullString
	var createdAt, lastAccessed time.Time

	err := rows.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.ProjectID,
		&entry.Kind,
		&title,
		&entry.Content,
		&entry.Confidence,
		&createdAt,
		&lastAccessed,
		&tagsStr,
	)
	if err != nil {
		return nil, err
	}

	entry.Title = title.String
	entry.CreatedAt = createdAt
	entry.LastAccessed = lastAccessed
	if tagsStr.Valid && tagsStr.String != "" {
		// A mangled tags column degrades to an untagged entry.
		_ = json.Unmarshal([]byte(tagsStr.String), &entry.Tags)
	}
	return &entry, nil
}
