// Package render turns normalized conversation records into Markdown
// documents: a front-matter block followed by one Query/Answer section pair
// per exchange.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/sanitize"
)

// unknownDate stands in for a creation time the export did not carry.
const unknownDate = "Unknown"

// Options control document layout. Fields are never zero in practice;
// configuration loading guarantees complete values.
type Options struct {
	// DateLayout formats the front-matter Date and Export date values.
	DateLayout string
	// TimeLayout formats the answer-heading timestamp.
	TimeLayout string
	// DemoteDepth is how many levels answer-body headings shift down.
	DemoteDepth int
	// Assets configures reference rewriting; an empty table disables it.
	Assets AssetOptions
}

// Document renders one record. Rendering is total: every record produced by
// normalization renders to a well-formed document, including records with no
// exchanges (front matter only).
func Document(record *conversation.Record, opts Options) string {
	var builder strings.Builder

	writeFrontmatter(&builder, record, opts.DateLayout)
	for i := range record.Exchanges {
		writeExchange(&builder, &record.Exchanges[i], opts)
	}

	return builder.String()
}

// writeFrontmatter writes the metadata block. Title goes through the
// metadata sanitizer so it cannot break the block structure.
func writeFrontmatter(builder *strings.Builder, record *conversation.Record, dateLayout string) {
	builder.WriteString("---\n")
	fmt.Fprintf(builder, "Date: %s\n", formatDate(record.CreatedAt, dateLayout))
	fmt.Fprintf(builder, "Title: %s\n", sanitize.Metadata(record.Title))
	fmt.Fprintf(builder, "Export date: %s\n", formatDate(record.ExportedAt, dateLayout))
	builder.WriteString("---\n")
}

// writeExchange writes one Query section and one Answer section, each
// preceded by a blank line.
func writeExchange(builder *strings.Builder, exchange *conversation.Exchange, opts Options) {
	builder.WriteString("\n# Query\n")
	if query := sanitize.Metadata(exchange.Query); query != "" {
		builder.WriteString(query)
		builder.WriteString("\n")
	}

	builder.WriteString("\n")
	builder.WriteString(answerHeading(exchange, opts.TimeLayout))
	builder.WriteString("\n")

	body := exchange.Answer
	body = StripEmptyCitations(body)
	body = DemoteHeadings(body, opts.DemoteDepth)
	body = RewriteAssets(body, opts.Assets)
	body = strings.TrimRight(body, "\n")
	if body != "" {
		builder.WriteString(body)
		builder.WriteString("\n")
	}
}

// answerHeading builds the `# Answer (<mode> - <timestamp>)` line. The
// timestamp falls back to the verbatim wire value when it never parsed and
// is omitted along with its separator when absent entirely. Any status other
// than COMPLETED is appended so failed exchanges are visible at a glance.
func answerHeading(exchange *conversation.Exchange, timeLayout string) string {
	mode := strings.ToLower(sanitize.Metadata(exchange.Mode))

	var timestamp string
	switch {
	case !exchange.AnsweredAt.IsZero():
		timestamp = exchange.AnsweredAt.Format(timeLayout)
	case exchange.AnsweredRaw != "":
		timestamp = sanitize.Metadata(exchange.AnsweredRaw)
	}

	heading := "# Answer (" + mode
	if timestamp != "" {
		heading += " - " + timestamp
	}
	heading += ")"

	if exchange.Status != conversation.StatusCompleted {
		heading += " " + sanitize.Metadata(exchange.Status)
	}

	return heading
}

// formatDate renders a front-matter date, or the Unknown placeholder for a
// zero time.
func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return unknownDate
	}
	return t.Format(layout)
}
