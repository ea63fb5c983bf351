package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/render"
)

// WriteFunc persists one rendered document. Implementations must either
// write the full document or leave nothing behind at path.
type WriteFunc func(path string, data []byte) error

// Pipeline converts parsed conversations into documents on disk. One
// pipeline serves one run: it owns the run's allocator and stamps every
// document with the same export time.
type Pipeline struct {
	cfg        *config.Config
	write      WriteFunc
	alloc      *Allocator
	renderOpts render.Options
	exportedAt time.Time
}

// Result summarizes one run.
type Result struct {
	Written int          `json:"written"`
	Files   []string     `json:"files,omitempty"`
	Events  []ErrorEvent `json:"errors,omitempty"`
}

// Failed returns the number of conversations that produced error events.
func (r *Result) Failed() int {
	return len(r.Events)
}

// NewPipeline creates a pipeline for one run over a validated config.
// A nil write falls back to AtomicWrite; tests and dry runs inject their
// own.
func NewPipeline(cfg *config.Config, write WriteFunc) *Pipeline {
	if write == nil {
		write = AtomicWrite
	}
	now := time.Now()
	return &Pipeline{
		cfg:        cfg,
		write:      write,
		alloc:      NewAllocator(cfg, now),
		renderOpts: renderOptions(cfg),
		exportedAt: now,
	}
}

// Run converts every conversation in input order. A failing conversation
// contributes one error event and processing continues; the run itself never
// fails.
func (p *Pipeline) Run(conversations []conversation.Conversation) *Result {
	result := &Result{}
	for i := range conversations {
		p.convert(&conversations[i], result)
	}
	return result
}

// convert takes one conversation through normalize, resolve, allocate,
// render, write.
func (p *Pipeline) convert(c *conversation.Conversation, result *Result) {
	record, err := c.Normalize(p.exportedAt)
	if err != nil {
		result.Events = append(result.Events, newEvent(KindMalformedRecord, rawTitle(c), err))
		return
	}

	dir := filepath.Join(p.cfg.OutputDir, ResolveCollection(record.CollectionID, p.cfg))
	path, err := p.alloc.Allocate(dir, record.Title, record.CreatedAt)
	if err != nil {
		result.Events = append(result.Events, newEvent(KindAllocationExhausted, record.Title, err))
		return
	}

	doc := render.Document(record, p.renderOpts)
	if err := p.write(path, []byte(doc)); err != nil {
		result.Events = append(result.Events, newEvent(KindWriteFailure, record.Title, err))
		return
	}

	result.Written++
	result.Files = append(result.Files, path)
}

// rawTitle is best effort for error reporting; a malformed conversation may
// not carry one.
func rawTitle(c *conversation.Conversation) string {
	if c.Title != nil {
		return *c.Title
	}
	return "(missing title)"
}

// renderOptions bridges the validated config into renderer options.
func renderOptions(cfg *config.Config) render.Options {
	return render.Options{
		DateLayout:  cfg.Render.DateLayout,
		TimeLayout:  cfg.Filename.TimeLayout,
		DemoteDepth: cfg.Render.DemoteDepth,
		Assets: render.AssetOptions{
			Wikilinks:          cfg.Render.Assets.Wikilinks,
			RelativeToMarkdown: cfg.Render.Assets.RelativeToMarkdown,
			Rewrites:           cfg.Render.Assets.Rewrites,
		},
	}
}

// AtomicWrite is the default WriteFunc. It creates the target directory,
// writes to a temp file alongside the target, and renames into place, so a
// failed record never leaves a partial document.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*.md")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
