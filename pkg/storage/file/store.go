// Package file provides a file-per-entry implementation of storage.Store.
//
// Each user owns a directory under the base path; each entry is one
// pretty-printed JSON file named by entry ID. There is no index file and no
// write-ahead log: enumeration is a directory listing plus a per-file parse.
// A per-user mutex serializes writers within the process, closing the
// read-modify-write race the layout would otherwise have.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mindpalace/localmem-go/pkg/storage"
)

// record is the on-disk shape of an entry. Timestamps are stored as RFC 3339
// strings so that a record with a mangled timestamp can still be loaded with
// a zero time instead of being discarded whole.
type record struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	ProjectID    string   `json:"project_id"`
	Kind         string   `json:"kind"`
	Title        string   `json:"title,omitempty"`
	Content      string   `json:"content"`
	Confidence   float64  `json:"confidence"`
	CreatedAt    string   `json:"created_at"`
	LastAccessed string   `json:"last_accessed"`
	Tags         []string `json:"tags"`
}

// Store implements storage.Store with one JSON file per entry.
type Store struct {
	baseDir string
	logger  *log.Logger

	// mu guards users; each user gets a dedicated mutex so writers for
	// different users do not contend.
	mu    sync.Mutex
	users map[string]*sync.Mutex
}

// Config contains configuration for creating a file Store.
type Config struct {
	// BaseDir is the directory holding per-user subdirectories.
	BaseDir string

	// Logger receives skipped-record and cleanup notices. If nil, output
	// is discarded.
	Logger *log.Logger
}

// NewStore creates a file-backed store rooted at cfg.BaseDir, creating the
// directory if needed.
func NewStore(cfg *Config) (*Store, error) {
	if cfg.BaseDir == "" {
		cfg.BaseDir = "memory"
	}
	if err := os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		baseDir: cfg.BaseDir,
		logger:  logger,
		users:   map[string]*sync.Mutex{},
	}, nil
}

// userLock returns the mutex dedicated to userID, creating it on first use.
func (s *Store) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.users[userID]
	if !ok {
		l = &sync.Mutex{}
		s.users[userID] = l
	}
	return l
}

func (s *Store) userDir(userID string) string {
	return filepath.Join(s.baseDir, userID)
}

func (s *Store) entryPath(userID, id string) string {
	return filepath.Join(s.userDir(userID), id+".json")
}

// Insert writes the entry as <baseDir>/<user_id>/<id>.json. The file is
// written to a temporary name and renamed so a crash cannot leave a
// half-written record behind.
func (s *Store) Insert(ctx context.Context, entry *storage.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lock := s.userLock(entry.UserID)
	lock.Lock()
	defer lock.Unlock()

	dir := s.userDir(entry.UserID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(toRecord(entry), "", "  ")
	if err != nil {
		return err
	}

	tmp := s.entryPath(entry.UserID, entry.ID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.entryPath(entry.UserID, entry.ID)); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// List loads every entry for userID, newest first. Files that fail to parse
// or break the entry invariants are skipped with a log line.
func (s *Store) List(ctx context.Context, userID string) ([]*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.userDir(userID)
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]*storage.Entry, 0, len(files))
	for _, fi := range files {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".json") {
			continue
		}
		entry, err := s.loadEntry(filepath.Join(dir, fi.Name()))
		if err != nil {
			s.logger.Printf("skipping corrupt record %s: %v", fi.Name(), err)
			continue
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries, nil
}

// Delete removes one entry file. Returns false without error when the entry
// does not exist.
func (s *Store) Delete(ctx context.Context, id, userID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	err := os.Remove(s.entryPath(userID, id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAll removes every entry file for userID and reports how many were
// removed. Individual removal failures are logged and do not abort the wipe.
func (s *Store) DeleteAll(ctx context.Context, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	dir := s.userDir(userID)
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, fi := range files {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(dir, fi.Name())); err != nil {
			s.logger.Printf("failed to remove %s: %v", fi.Name(), err)
			continue
		}
		count++
	}
	return count, nil
}

// Close is a no-op; the store holds no open handles between calls.
func (s *Store) Close() error {
	return nil
}

// loadEntry reads and validates one record file.
func (s *Store) loadEntry(path string) (*storage.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	if rec.Content == "" {
		return nil, errors.New("record has empty content")
	}
	return fromRecord(&rec), nil
}

func toRecord(entry *storage.Entry) *record {
	tags := entry.Tags
	if tags == nil {
		tags = []string{}
	}
	return &record{
		ID:           entry.ID,
		UserID:       entry.UserID,
		ProjectID:    entry.ProjectID,
		Kind:         entry.Kind,
		Title:        entry.Title,
		Content:      entry.Content,
		Confidence:   entry.Confidence,
		CreatedAt:    entry.CreatedAt.Format(time.RFC3339Nano),
		LastAccessed: entry.LastAccessed.Format(time.RFC3339Nano),
		Tags:         tags,
	}
}

func fromRecord(rec *record) *storage.Entry {
	return &storage.Entry{
		ID:           rec.ID,
		UserID:       rec.UserID,
		ProjectID:    rec.ProjectID,
		Kind:         rec.Kind,
		Title:        rec.Title,
		Content:      rec.Content,
		Confidence:   rec.Confidence,
		CreatedAt:    parseTime(rec.CreatedAt),
		LastAccessed: parseTime(rec.LastAccessed),
		Tags:         rec.Tags,
	}
}

// parseTime parses an RFC 3339 timestamp leniently: a bad value yields a zero
// time rather than discarding the record. Rankers treat zero as stale.
// RFC3339Nano accepts both fractional and whole-second values, so records
// written before sub-second precision still parse.
func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
