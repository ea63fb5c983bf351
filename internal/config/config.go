package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pplx2md/pplx2md/internal/sanitize"
)

// DefaultFile is the config file name searched for in the working directory.
const DefaultFile = "pplx2md.yaml"

// Config is the complete converter configuration. Load guarantees every
// field holds a usable value before the config reaches any other package.
type Config struct {
	// Input is the export file commands fall back to when none is given.
	Input string `yaml:"input"`
	// OutputDir is the root the collection directories are created under.
	OutputDir string `yaml:"output_dir"`
	// Collections maps a raw collection ID to a display name.
	Collections map[string]string `yaml:"collections"`
	// DefaultCollection receives conversations with no mapped collection.
	DefaultCollection string   `yaml:"default_collection"`
	Filename          Filename `yaml:"filename"`
	Render            Render   `yaml:"render"`
}

// Filename controls output file naming.
type Filename struct {
	// MaxLength caps the base name length in runes, before the extension.
	MaxLength int `yaml:"max_length"`
	// AppendDate suffixes every file name with its timestamp up front
	// instead of only on collision.
	AppendDate bool `yaml:"append_date"`
	// TimeLayout formats collision suffixes and answer-heading timestamps.
	TimeLayout string `yaml:"time_layout"`
}

// Render controls document layout.
type Render struct {
	// DateLayout formats the front-matter date values.
	DateLayout string `yaml:"date_layout"`
	// DemoteDepth is how many levels answer-body headings shift down.
	DemoteDepth int    `yaml:"demote_depth"`
	Assets      Assets `yaml:"assets"`
}

// Assets controls asset reference rewriting in answer bodies.
type Assets struct {
	Wikilinks          bool              `yaml:"wikilinks"`
	RelativeToMarkdown bool              `yaml:"relative_to_markdown"`
	Rewrites           map[string]string `yaml:"rewrites"`
}

// ValidationError reports every invalid configuration value at once so the
// user fixes the file in one pass.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Input:             "perplexity-export.json",
		OutputDir:         "output",
		DefaultCollection: "uncategorized",
		Filename: Filename{
			MaxLength:  128,
			TimeLayout: "20060102T150405",
		},
		Render: Render{
			DateLayout:  "2006-01-02",
			DemoteDepth: 1,
		},
	}
}

// Load reads and validates the configuration at path. An empty path searches
// the working directory and then the config directory; no file found there
// means pure defaults. An explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		return parse(data)
	}

	candidates := []string{DefaultFile}
	if dir := Dir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "config.yaml"))
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", candidate, err)
		}
		return parse(data)
	}

	return Default(), nil
}

// parse decodes YAML over the defaults, so keys absent from the file keep
// their default values.
func parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every value that later stages assume is usable. It runs
// once at load time; per-record processing never revalidates.
func (c *Config) Validate() error {
	var problems []string

	if c.OutputDir == "" {
		problems = append(problems, "output_dir must not be empty")
	}
	if sanitize.Filename(c.DefaultCollection) == "" {
		problems = append(problems, "default_collection must sanitize to a usable directory name")
	}
	if c.Filename.MaxLength <= 0 {
		problems = append(problems, "filename.max_length must be positive")
	}
	if !layoutRenders(c.Filename.TimeLayout) {
		problems = append(problems, "filename.time_layout cannot render a timestamp")
	}
	if !layoutRenders(c.Render.DateLayout) {
		problems = append(problems, "render.date_layout cannot render a date")
	}
	if c.Render.DemoteDepth < 1 || c.Render.DemoteDepth > 5 {
		problems = append(problems, "render.demote_depth must be between 1 and 5")
	}

	ids := make([]string, 0, len(c.Collections))
	for id := range c.Collections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if sanitize.Filename(c.Collections[id]) == "" {
			problems = append(problems, fmt.Sprintf("collections[%s] must sanitize to a usable directory name", id))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// layoutRenders reports whether a time layout contains at least one
// reference-time token. Formatting a probe time with a token-free layout
// returns the layout unchanged, which would stamp every file identically.
func layoutRenders(layout string) bool {
	if layout == "" {
		return false
	}
	probe := time.Date(2024, 11, 28, 21, 42, 17, 0, time.UTC)
	return probe.Format(layout) != layout
}
