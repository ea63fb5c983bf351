package export

import (
	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/sanitize"
)

// ResolveCollection maps a raw collection ID to the directory segment its
// conversations land under. Absent and unmapped IDs both group under the
// default collection rather than leaking opaque IDs into the output tree.
// Display names pass through the filename sanitizer; a name that sanitizes
// to nothing also falls back to the default so no file lands in the output
// root.
func ResolveCollection(collectionID string, cfg *config.Config) string {
	if collectionID != "" {
		if name, ok := cfg.Collections[collectionID]; ok {
			if dir := sanitize.Filename(name); dir != "" {
				return dir
			}
		}
	}
	return sanitize.Filename(cfg.DefaultCollection)
}

// FilterByCollection keeps conversations matching key by raw collection ID
// or by the directory name the ID resolves to, so users can filter with
// either the opaque ID from the export or the name they configured.
// Input order is preserved.
func FilterByCollection(conversations []conversation.Conversation, cfg *config.Config, key string) []conversation.Conversation {
	want := sanitize.Filename(key)
	var matched []conversation.Conversation
	for _, c := range conversations {
		id := ""
		if c.CollectionUUID != nil {
			id = *c.CollectionUUID
		}
		if id == key || ResolveCollection(id, cfg) == want {
			matched = append(matched, c)
		}
	}
	return matched
}
