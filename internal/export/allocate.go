package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/sanitize"
)

// untitledBase names files whose titles sanitize away entirely.
const untitledBase = "untitled"

// Allocator hands out collision-free output paths for one pipeline run. Its
// claims registry is the only mutable state in the conversion core; it lives
// exactly as long as the allocator, so a later run may legitimately reuse a
// first-claimant name.
type Allocator struct {
	maxLength  int
	appendDate bool
	timeLayout string
	runTime    time.Time
	claims     map[string]int
}

// NewAllocator creates an empty-registry allocator for one run. runTime
// stamps the collision suffix of records that carry no creation time.
func NewAllocator(cfg *config.Config, runTime time.Time) *Allocator {
	return &Allocator{
		maxLength:  cfg.Filename.MaxLength,
		appendDate: cfg.Filename.AppendDate,
		timeLayout: cfg.Filename.TimeLayout,
		runTime:    runTime,
		claims:     make(map[string]int),
	}
}

// Allocate returns a `.md` path under dir for a conversation title, unique
// for the lifetime of this allocator. The first claim of a base name gets it
// bare; later claims get a timestamp suffix; a suffix that itself collides
// exhausts allocation for that record. In append-date mode every name gets
// the suffix up front.
func (a *Allocator) Allocate(dir, title string, createdAt time.Time) (string, error) {
	base := truncateBase(sanitize.Filename(title), a.maxLength)
	if base == "" {
		base = untitledBase
	}

	if !a.appendDate && a.claim(dir, base) {
		return filepath.Join(dir, base+".md"), nil
	}

	suffixed := a.withSuffix(base, createdAt)
	if !a.claim(dir, suffixed) {
		return "", fmt.Errorf("%w: %s", ErrAllocationExhausted, filepath.Join(dir, suffixed+".md"))
	}
	return filepath.Join(dir, suffixed+".md"), nil
}

// claim counts a (directory, base) claim and reports whether it was the
// first.
func (a *Allocator) claim(dir, base string) bool {
	key := filepath.Join(dir, base)
	a.claims[key]++
	return a.claims[key] == 1
}

// withSuffix appends the timestamp suffix, re-truncating the base first so
// the suffixed name still honors the length cap. The suffix itself always
// survives truncation.
func (a *Allocator) withSuffix(base string, createdAt time.Time) string {
	stamp := createdAt
	if stamp.IsZero() {
		stamp = a.runTime
	}
	suffix := stamp.Format(a.timeLayout)

	trimmed := truncateBase(base, a.maxLength-len(suffix)-1)
	if trimmed == "" {
		trimmed = untitledBase
	}
	return trimmed + "-" + suffix
}

// truncateBase cuts on rune boundaries and re-trims the stray separators a
// cut can expose.
func truncateBase(base string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(base)
	if len(runes) <= maxRunes {
		return base
	}
	return strings.Trim(string(runes[:maxRunes]), " _")
}
