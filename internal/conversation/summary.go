package conversation

import (
	"sort"
	"strings"
	"time"
)

// Summary describes a parsed export without normalizing it, so malformed
// threads still count. Collection IDs are raw; display-name resolution is
// the caller's concern.
type Summary struct {
	Conversations int               `json:"conversations"`
	Exchanges     int               `json:"exchanges"`
	Collections   []CollectionCount `json:"collections"`
	Modes         map[string]int    `json:"modes,omitempty"`
	Earliest      time.Time         `json:"earliest,omitzero"`
	Latest        time.Time         `json:"latest,omitzero"`
}

// CollectionCount is the number of conversations under one raw collection ID.
// An empty ID groups the conversations that carry none.
type CollectionCount struct {
	ID            string `json:"id"`
	Conversations int    `json:"conversations"`
}

// Summarize computes counts and the creation-time range over a parsed
// export. Collections are ordered by size, largest first, ties by ID.
func Summarize(export *Export) Summary {
	summary := Summary{
		Conversations: len(export.Conversations),
		Modes:         make(map[string]int),
	}
	collections := make(map[string]int)

	for i := range export.Conversations {
		c := &export.Conversations[i]
		collections[stringValue(c.CollectionUUID)]++
		summary.Exchanges += len(c.Entries)

		for _, entry := range c.Entries {
			summary.Modes[entryMode(&entry, c)]++
		}

		created := createdTime(c)
		if created.IsZero() {
			continue
		}
		if summary.Earliest.IsZero() || created.Before(summary.Earliest) {
			summary.Earliest = created
		}
		if created.After(summary.Latest) {
			summary.Latest = created
		}
	}

	summary.Collections = make([]CollectionCount, 0, len(collections))
	for id, count := range collections {
		summary.Collections = append(summary.Collections, CollectionCount{ID: id, Conversations: count})
	}
	sort.Slice(summary.Collections, func(i, j int) bool {
		if summary.Collections[i].Conversations != summary.Collections[j].Conversations {
			return summary.Collections[i].Conversations > summary.Collections[j].Conversations
		}
		return summary.Collections[i].ID < summary.Collections[j].ID
	})

	if len(summary.Modes) == 0 {
		summary.Modes = nil
	}

	return summary
}

// entryMode applies the same mode fallback chain normalization uses,
// lowercased for grouping.
func entryMode(e *Entry, c *Conversation) string {
	mode := stringValue(e.Mode)
	if mode == "" {
		mode = stringValue(c.Mode)
	}
	if mode == "" {
		mode = ModeUnknown
	}
	return strings.ToLower(mode)
}
