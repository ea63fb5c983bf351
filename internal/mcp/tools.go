package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/export"
)

// --- Shared types ---

// CollectionSummary is one collection's share of an export.
type CollectionSummary struct {
	ID            string `json:"id"            jsonschema:"raw collection ID, empty for conversations without one"`
	Name          string `json:"name"          jsonschema:"directory name the collection resolves to"`
	Conversations int    `json:"conversations" jsonschema:"number of conversations in the collection"`
}

// ConversionError is one conversation's failure during a conversion run.
type ConversionError struct {
	Title   string `json:"title"   jsonschema:"conversation title, best effort"`
	Kind    string `json:"kind"    jsonschema:"failure kind: malformed_record, allocation_exhausted, or write_failure"`
	Message string `json:"message" jsonschema:"failure detail"`
}

// --- inspect_export tool ---

// InspectInput is the input for the inspect_export tool.
type InspectInput struct {
	Path   string `json:"path,omitempty"   jsonschema:"path to the export JSON file (defaults to the configured input)"`
	Config string `json:"config,omitempty" jsonschema:"path to a pplx2md config file (defaults to the standard lookup)"`
}

// InspectOutput is the output for the inspect_export tool.
type InspectOutput struct {
	Conversations int                 `json:"conversations"      jsonschema:"total conversations in the export"`
	Exchanges     int                 `json:"exchanges"          jsonschema:"total query/answer exchanges"`
	Collections   []CollectionSummary `json:"collections"        jsonschema:"per-collection conversation counts"`
	Modes         map[string]int      `json:"modes,omitempty"    jsonschema:"exchange counts per answer mode"`
	Earliest      string              `json:"earliest,omitempty" jsonschema:"oldest conversation creation time, RFC 3339"`
	Latest        string              `json:"latest,omitempty"   jsonschema:"newest conversation creation time, RFC 3339"`
}

func handleInspect(_ context.Context, _ *mcp.CallToolRequest, input InspectInput) (*mcp.CallToolResult, InspectOutput, error) {
	cfg, err := config.Load(input.Config)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	path, err := exportPath(input.Path, cfg)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	parsed, err := conversation.ParseExportFile(path)
	if err != nil {
		return nil, InspectOutput{}, err
	}

	summary := conversation.Summarize(parsed)
	out := InspectOutput{
		Conversations: summary.Conversations,
		Exchanges:     summary.Exchanges,
		Collections:   toCollectionSummaries(summary.Collections, cfg),
		Modes:         summary.Modes,
	}
	if !summary.Earliest.IsZero() {
		out.Earliest = summary.Earliest.Format(time.RFC3339)
	}
	if !summary.Latest.IsZero() {
		out.Latest = summary.Latest.Format(time.RFC3339)
	}

	return nil, out, nil
}

// --- convert_export tool ---

// ConvertInput is the input for the convert_export tool.
type ConvertInput struct {
	Path       string `json:"path,omitempty"       jsonschema:"path to the export JSON file (defaults to the configured input)"`
	Config     string `json:"config,omitempty"     jsonschema:"path to a pplx2md config file (defaults to the standard lookup)"`
	Out        string `json:"out,omitempty"        jsonschema:"output directory (overrides the configured output_dir)"`
	Collection string `json:"collection,omitempty" jsonschema:"convert only this collection, by raw ID or configured name"`
	Since      string `json:"since,omitempty"      jsonschema:"keep conversations created at or after this time (duration like 7d or 24h, or a date)"`
	Until      string `json:"until,omitempty"      jsonschema:"keep conversations created at or before this time (duration like 7d or 24h, or a date)"`
	DryRun     bool   `json:"dry_run,omitempty"    jsonschema:"report target paths without writing any file"`
}

// ConvertOutput is the output for the convert_export tool.
type ConvertOutput struct {
	Written   int               `json:"written"             jsonschema:"number of documents written"`
	Failed    int               `json:"failed"              jsonschema:"number of conversations that failed"`
	OutputDir string            `json:"output_dir"          jsonschema:"root directory the documents were written under"`
	Files     []string          `json:"files,omitempty"     jsonschema:"paths of the written documents"`
	Errors    []ConversionError `json:"errors,omitempty"    jsonschema:"per-conversation failures"`
	ErrorLog  string            `json:"error_log,omitempty" jsonschema:"path of the error log, when failures were recorded"`
	DryRun    bool              `json:"dry_run,omitempty"   jsonschema:"true when no file was written"`
}

func handleConvert(_ context.Context, _ *mcp.CallToolRequest, input ConvertInput) (*mcp.CallToolResult, ConvertOutput, error) {
	cfg, err := config.Load(input.Config)
	if err != nil {
		return nil, ConvertOutput{}, err
	}
	if input.Out != "" {
		cfg.OutputDir = input.Out
	}

	path, err := exportPath(input.Path, cfg)
	if err != nil {
		return nil, ConvertOutput{}, err
	}

	parsed, err := conversation.ParseExportFile(path)
	if err != nil {
		return nil, ConvertOutput{}, err
	}

	conversations, err := applyFilters(parsed.Conversations, cfg, input)
	if err != nil {
		return nil, ConvertOutput{}, err
	}

	var write export.WriteFunc
	if input.DryRun {
		write = func(string, []byte) error { return nil }
	}

	result := export.NewPipeline(cfg, write).Run(conversations)

	out := ConvertOutput{
		Written:   result.Written,
		Failed:    result.Failed(),
		OutputDir: cfg.OutputDir,
		Files:     result.Files,
		Errors:    toConversionErrors(result.Events),
		DryRun:    input.DryRun,
	}

	if !input.DryRun && len(result.Events) > 0 {
		logPath, err := writeErrorLog(cfg.OutputDir, result.Events)
		if err != nil {
			return nil, ConvertOutput{}, err
		}
		out.ErrorLog = logPath
	}

	return nil, out, nil
}

// applyFilters narrows the conversation list by collection and date window.
func applyFilters(conversations []conversation.Conversation, cfg *config.Config, input ConvertInput) ([]conversation.Conversation, error) {
	if input.Collection != "" {
		conversations = export.FilterByCollection(conversations, cfg, input.Collection)
	}
	if input.Since != "" {
		cutoff, err := parseDurationOrDate(input.Since)
		if err != nil {
			return nil, fmt.Errorf("invalid since: %w", err)
		}
		conversations = conversation.FilterSince(conversations, cutoff)
	}
	if input.Until != "" {
		cutoff, err := parseDurationOrDate(input.Until)
		if err != nil {
			return nil, fmt.Errorf("invalid until: %w", err)
		}
		conversations = conversation.FilterUntil(conversations, cutoff)
	}
	return conversations, nil
}

// exportPath picks the export file: explicit path first, configured input
// second.
func exportPath(path string, cfg *config.Config) (string, error) {
	if path != "" {
		return path, nil
	}
	if cfg.Input != "" {
		return cfg.Input, nil
	}
	return "", errors.New("no export file: pass path or configure input")
}
