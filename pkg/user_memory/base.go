// Package usermemory provides a user-bound view over the core memory client.
package usermemory

import "github.com/mindpalace/localmem-go/pkg/core"

// Stats summarizes one user's memory partition.
type Stats struct {
	// Total is the number of stored entries.
	Total int `json:"total"`

	// ByKind counts entries per fact kind.
	ByKind map[string]int `json:"by_kind"`

	// Conflicts is the number of entries flagged potential_conflict.
	Conflicts int `json:"conflicts"`
}

// collectStats derives Stats from a listing.
func collectStats(memories []*core.Memory) *Stats {
	stats := &Stats{ByKind: make(map[string]int)}
	for _, m := range memories {
		stats.Total++
		stats.ByKind[m.Kind]++
		for _, tag := range m.Tags {
			if tag == core.TagConflict {
				stats.Conflicts++
				break
			}
		}
	}
	return stats
}
