// Package sanitize cleans arbitrary conversation text for use in filenames
// and document metadata. Both entry points are total and idempotent: they
// accept any input, never fail, and applying them twice equals applying
// them once.
package sanitize

import (
	"regexp"
	"strings"
)

// disallowedRuns matches runs of characters outside the filename allow-list.
// The allow-list is deliberately conservative ASCII; anything else (emoji,
// non-Latin scripts, stray punctuation) collapses to a single underscore.
var disallowedRuns = regexp.MustCompile(`[^a-zA-Z0-9\s.,\-_()"@]+`)

// reservedChars are rejected by at least one mainstream filesystem.
// They are removed outright rather than replaced.
var reservedChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// controlChars covers C0 controls and DEL, the characters that would break
// a front-matter line or an error-log line.
var controlChars = regexp.MustCompile("[\x00-\x1f\x7f]")

var whitespaceRuns = regexp.MustCompile(`\s+`)

var underscoreRuns = regexp.MustCompile(`_+`)

// flatten converts line structure to plain spaces and drops backticks before
// the character-class passes run.
var flatten = strings.NewReplacer("\r", " ", "\n", " ", "`", "")

// Filename reduces text to a safe filename base: disallowed characters become
// underscores, filesystem-reserved characters disappear, and whitespace and
// underscore runs collapse. The result may be empty; callers decide the
// fallback name. The result never contains a path separator.
func Filename(text string) string {
	s := flatten.Replace(text)
	s = disallowedRuns.ReplaceAllString(s, "_")
	s = reservedChars.ReplaceAllString(s, "")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = underscoreRuns.ReplaceAllString(s, "_")
	return strings.Trim(s, " _")
}

// Metadata cleans text for a single front-matter or log line. It is
// conservative: Unicode and punctuation survive, only control characters
// (including newlines) are replaced so the value cannot span lines or start
// a new delimiter.
func Metadata(text string) string {
	s := controlChars.ReplaceAllString(text, " ")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
