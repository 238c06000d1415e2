// Package core provides the main LocalMem client and memory management functionality.
package core

import (
	"github.com/mindpalace/localmem-go/pkg/storage"
)

// fromStorageEntry converts a storage.Entry to core.Memory.
func fromStorageEntry(e *storage.Entry) *Memory {
	return &Memory{
		ID:           e.ID,
		UserID:       e.UserID,
		ProjectID:    e.ProjectID,
		Kind:         e.Kind,
		Title:        e.Title,
		Content:      e.Content,
		Confidence:   e.Confidence,
		CreatedAt:    e.CreatedAt,
		LastAccessed: e.LastAccessed,
		Tags:         e.Tags,
	}
}

// fromStorageEntries converts a slice of storage entries.
func fromStorageEntries(entries []*storage.Entry) []*Memory {
	memories := make([]*Memory, 0, len(entries))
	for _, e := range entries {
		memories = append(memories, fromStorageEntry(e))
	}
	return memories
}
