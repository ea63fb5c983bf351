package conversation

import "time"

// FilterSince returns the conversations created at or after the cutoff.
// A conversation without a parseable creation time never matches.
func FilterSince(conversations []Conversation, cutoff time.Time) []Conversation {
	var result []Conversation
	for _, c := range conversations {
		created := createdTime(&c)
		if created.After(cutoff) || created.Equal(cutoff) {
			result = append(result, c)
		}
	}
	return result
}

// FilterUntil returns the conversations created before or at the cutoff.
// A conversation without a parseable creation time always matches.
func FilterUntil(conversations []Conversation, cutoff time.Time) []Conversation {
	var result []Conversation
	for _, c := range conversations {
		created := createdTime(&c)
		if created.Before(cutoff) || created.Equal(cutoff) {
			result = append(result, c)
		}
	}
	return result
}

// createdTime parses the raw creation time, treating absent or unparseable
// values as the zero time.
func createdTime(c *Conversation) time.Time {
	raw := stringValue(c.CreatedAt)
	if raw == "" {
		return time.Time{}
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
