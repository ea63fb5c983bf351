package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pplx2md/pplx2md/internal/sanitize"
)

// ErrorLogName is the per-run failure log written under the output root.
const ErrorLogName = "ERRORS.log"

// WriteErrorLog persists a run's error events, one line each:
//
//	<timestamp> | <title> | <message>
//
// No events means no file is written. A run with failures rewrites the log
// wholesale; it always describes the latest run. Titles and messages pass
// through the metadata sanitizer so a hostile title cannot split a line.
func WriteErrorLog(outputDir string, events []ErrorEvent) error {
	if len(events) == 0 {
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	var builder strings.Builder
	for _, event := range events {
		fmt.Fprintf(&builder, "%s | %s | %s\n",
			event.Timestamp.Format(time.RFC3339),
			sanitize.Metadata(event.Title),
			sanitize.Metadata(event.Message))
	}

	path := filepath.Join(outputDir, ErrorLogName)
	if err := os.WriteFile(path, []byte(builder.String()), 0o600); err != nil {
		return fmt.Errorf("write error log: %w", err)
	}
	return nil
}
