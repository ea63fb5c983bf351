// Package conversation decodes the raw conversational export document and
// normalizes its threads into validated records for rendering.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Export is the decoded top-level wire document.
type Export struct {
	Conversations []Conversation `json:"conversations"`
}

// Conversation is one raw exported thread. Every field is a pointer because
// the wire format omits fields freely; requiredness is enforced by Normalize,
// not by decoding.
type Conversation struct {
	UUID           *string `json:"uuid"`
	Title          *string `json:"context_title"`
	CollectionUUID *string `json:"collection_uuid"`
	CreatedAt      *string `json:"created_at"`
	Mode           *string `json:"mode"`
	Entries        []Entry `json:"entries"`
}

// Entry is one raw query/answer pair within a thread.
type Entry struct {
	Query       *string `json:"query"`
	Answer      *string `json:"answer"`
	Mode        *string `json:"mode"`
	CreatedAt   *string `json:"created_at"`
	QueryStatus *string `json:"query_status"`
}

// ValidationError is returned when a raw conversation is missing fields the
// normalized record requires.
type ValidationError struct {
	Fields  []string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// ParseExport decodes an export document. The only structural requirement is
// a top-level "conversations" array; the array may be empty.
func ParseExport(data []byte) (*Export, error) {
	if len(data) == 0 {
		return nil, errors.New("empty export data")
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing export JSON: %w", err)
	}
	if export.Conversations == nil {
		return nil, errors.New(`export has no "conversations" array`)
	}

	return &export, nil
}

// ParseExportFile reads and decodes an export document from disk.
func ParseExportFile(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}

	export, err := ParseExport(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return export, nil
}

// stringValue dereferences an optional wire field, treating absent as empty.
func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
