// Package postgres provides a PostgreSQL implementation of storage.Store.
//
// PostgreSQL is the backend of choice when several processes share one
// memory store: row-level transactions give the multi-process safety the
// file layout lacks.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/mindpalace/localmem-go/pkg/storage"
)

// Client implements storage.Store on PostgreSQL.
type Client struct {
	db    *sql.DB
	table string
}

// Config contains PostgreSQL connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	Table    string
	SSLMode  string
}

// NewClient connects to PostgreSQL and ensures the entries table exists.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Table == "" {
		cfg.Table = "entries"
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, sslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("NewPostgresClient: %w", err)
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
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			project_id VARCHAR(255) NOT NULL DEFAULT 'default',
			kind VARCHAR(64) NOT NULL,
			title TEXT,
			content TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			last_accessed TIMESTAMPTZ NOT NULL,
			tags JSONB
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

// Insert persists a new entry. Tags are stored as JSONB.
func (c *Client) Insert(ctx context.Context, entry *storage.Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s
		(id, user_id, project_id, kind, title, content, confidence, created_at, last_accessed, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
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

// List returns every entry for userID, newest first.
func (c *Client) List(ctx context.Context, userID string) ([]*storage.Entry, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, project_id, kind, title, content, confidence,
		       created_at, last_accessed, tags
		FROM %s
		WHERE user_id = $1
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

// Delete removes one entry scoped to userID. Returns false for a missing id.
func (c *Client) Delete(ctx context.Context, id, userID string) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND user_id = $2", c.table)

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
	query := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1", c.table)

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
		_ = json.Unmarshal([]byte(tagsStr.String), &entry.Tags)
	}
	return &entry, nil
}
