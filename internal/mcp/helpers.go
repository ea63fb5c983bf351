package mcp

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/export"
)

// toCollectionSummaries resolves each counted collection ID to the directory
// name it converts under.
func toCollectionSummaries(counts []conversation.CollectionCount, cfg *config.Config) []CollectionSummary {
	result := make([]CollectionSummary, 0, len(counts))
	for _, count := range counts {
		result = append(result, CollectionSummary{
			ID:            count.ID,
			Name:          export.ResolveCollection(count.ID, cfg),
			Conversations: count.Conversations,
		})
	}
	return result
}

// toConversionErrors converts pipeline events to tool output.
func toConversionErrors(events []export.ErrorEvent) []ConversionError {
	result := make([]ConversionError, 0, len(events))
	for _, event := range events {
		result = append(result, ConversionError{
			Title:   event.Title,
			Kind:    string(event.Kind),
			Message: event.Message,
		})
	}
	return result
}

// writeErrorLog persists the events and returns the log path.
func writeErrorLog(outputDir string, events []export.ErrorEvent) (string, error) {
	if err := export.WriteErrorLog(outputDir, events); err != nil {
		return "", fmt.Errorf("writing error log: %w", err)
	}
	return filepath.Join(outputDir, export.ErrorLogName), nil
}

// parseDurationOrDate parses a duration string (24h, 7d) or ISO date into a
// time. Durations are taken backwards from now.
func parseDurationOrDate(value string) (time.Time, error) {
	// Try parsing as a Go duration first
	if duration, err := time.ParseDuration(value); err == nil {
		return time.Now().UTC().Add(-duration), nil
	}

	// Try day-based duration (e.g. "7d")
	if len(value) > 1 && value[len(value)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(value, "%dd", &days); err == nil && days > 0 {
			return time.Now().UTC().AddDate(0, 0, -days), nil
		}
	}

	// Fall back to the export timestamp layouts (dates, RFC 3339)
	if parsed, err := conversation.ParseTimestamp(value); err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("cannot parse %q as duration or date", value)
}
