package render

import (
	"regexp"
	"strings"
)

// citationRuns matches runs of bracketed numeric citation markers, plus a
// trailing "(" when one immediately follows. The trailing parenthesis marks
// a Markdown link whose marker carries content; RE2 has no lookahead, so the
// parenthesis is captured and checked instead.
var citationRuns = regexp.MustCompile(`(\[\d+\])+\(?`)

// headingLine matches an ATX heading at the start of a line.
var headingLine = regexp.MustCompile(`^#{1,6}\s`)

// StripEmptyCitations removes citation marker runs that resolve to no
// content, leaving no stray brackets or digits behind. Markers that
// introduce content, like the `[1]` of a `[1](https://...)` link, are kept
// intact.
func StripEmptyCitations(text string) string {
	if !strings.Contains(text, "[") {
		return text
	}
	return citationRuns.ReplaceAllStringFunc(text, func(match string) string {
		if strings.HasSuffix(match, "(") {
			return match
		}
		return ""
	})
}

// DemoteHeadings shifts every answer-body heading down by depth levels so
// none collides with or outranks the document's own section headings. The
// shift is unconditional and depth-consistent: a level-L heading always
// becomes level L+depth.
func DemoteHeadings(text string, depth int) string {
	if depth <= 0 || text == "" {
		return text
	}

	extra := strings.Repeat("#", depth)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if headingLine.MatchString(line) {
			lines[i] = extra + line
		}
	}
	return strings.Join(lines, "\n")
}
