package conversation

import (
	"fmt"
	"strings"
	"time"
)

// StatusCompleted is the only exchange status rendered without an annotation.
const StatusCompleted = "COMPLETED"

// ModeUnknown labels exchanges whose mode is absent at both the entry and
// the conversation level.
const ModeUnknown = "UNKNOWN"

// Record is a normalized conversation ready for rendering. A zero CreatedAt
// means the export carried no creation time.
type Record struct {
	ID           string
	Title        string
	CollectionID string
	CreatedAt    time.Time
	ExportedAt   time.Time
	Exchanges    []Exchange
}

// Exchange is a normalized query/answer pair. When the wire timestamp does
// not parse, AnsweredAt stays zero and AnsweredRaw keeps the verbatim wire
// value so the heading can still show it.
type Exchange struct {
	Query       string
	Answer      string
	Mode        string
	Status      string
	AnsweredAt  time.Time
	AnsweredRaw string
}

// timestampLayouts are the wire timestamp shapes accepted, most specific
// first. RFC3339 covers both "Z" and "+00:00" offsets.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a wire timestamp value.
func ParseTimestamp(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp: %s", value)
}

// Normalize validates a raw conversation and produces its record.
// A thread must carry an identity (uuid) and a title field; the title value
// itself may be empty. A creation time is optional, but one that is present
// and unparseable fails normalization because every downstream name and date
// would be wrong.
func (c *Conversation) Normalize(exportedAt time.Time) (*Record, error) {
	var missing []string
	if c.UUID == nil {
		missing = append(missing, "uuid")
	}
	if c.Title == nil {
		missing = append(missing, "context_title")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing, Message: "missing required fields"}
	}

	record := &Record{
		ID:           *c.UUID,
		Title:        *c.Title,
		CollectionID: stringValue(c.CollectionUUID),
		ExportedAt:   exportedAt,
		Exchanges:    make([]Exchange, 0, len(c.Entries)),
	}

	if raw := stringValue(c.CreatedAt); raw != "" {
		created, err := ParseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		record.CreatedAt = created
	}

	for _, entry := range c.Entries {
		record.Exchanges = append(record.Exchanges, entry.normalize(stringValue(c.Mode)))
	}

	return record, nil
}

// normalize fills an exchange with the documented fallbacks: entry mode,
// then conversation mode, then ModeUnknown; an absent status means the
// exchange completed.
func (e *Entry) normalize(conversationMode string) Exchange {
	mode := stringValue(e.Mode)
	if mode == "" {
		mode = conversationMode
	}
	if mode == "" {
		mode = ModeUnknown
	}

	status := stringValue(e.QueryStatus)
	if status == "" {
		status = StatusCompleted
	}

	exchange := Exchange{
		Query:  stringValue(e.Query),
		Answer: stringValue(e.Answer),
		Mode:   mode,
		Status: status,
	}

	if raw := stringValue(e.CreatedAt); raw != "" {
		if answered, err := ParseTimestamp(raw); err == nil {
			exchange.AnsweredAt = answered
		} else {
			exchange.AnsweredRaw = raw
		}
	}

	return exchange
}
