package main

import (
	"context"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/export"
	"github.com/pplx2md/pplx2md/internal/output"
	"github.com/pplx2md/pplx2md/internal/watch"
)

// convertFlags holds the command-line flags for the convert command.
type convertFlags struct {
	out        string
	configPath string
	collection string
	since      string
	until      string
	dryRun     bool
	watch      bool
}

// convertResult is the JSON shape of one conversion run.
type convertResult struct {
	Written   int                 `json:"written"`
	Failed    int                 `json:"failed"`
	OutputDir string              `json:"output_dir"`
	Files     []string            `json:"files,omitempty"`
	Errors    []export.ErrorEvent `json:"errors,omitempty"`
	ErrorLog  string              `json:"error_log,omitempty"`
	DryRun    bool                `json:"dry_run,omitempty"`
}

// newConvertCmd creates the convert command.
func newConvertCmd() *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [export-file]",
		Short: "Convert an export into Markdown documents",
		Long: `Convert a Perplexity export into per-conversation Markdown documents.

Each conversation becomes one document under its collection's directory.
Conversations that cannot be converted are skipped and reported; they never
abort the run. When any conversation fails, an ERRORS.log is written to the
output directory.

Examples:
  pplx2md convert export.json                    # Convert with defaults
  pplx2md convert export.json --out ./notes      # Choose the output root
  pplx2md convert --collection Hardware          # Only one collection
  pplx2md convert --since 7d --until 2026-02-01  # Date window
  pplx2md convert export.json --dry-run          # Show target paths only
  pplx2md convert export.json --watch            # Re-convert on change
  pplx2md convert export.json --json             # Structured result`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "Output directory (overrides output_dir from config)")
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Config file path")
	cmd.Flags().StringVar(&flags.collection, "collection", "", "Convert only this collection (raw ID or configured name)")
	cmd.Flags().StringVar(&flags.since, "since", "", "Keep conversations created at or after (24h, 7d, 2026-01-17)")
	cmd.Flags().StringVar(&flags.until, "until", "", "Keep conversations created before or at (24h, 7d, 2026-01-17)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Report target paths without writing any file")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "Keep running and re-convert when the export file changes")

	return cmd
}

// runConvert executes the convert command.
func runConvert(cmd *cobra.Command, args []string, flags *convertFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	cfg, err := loadConfig(printer, flags.configPath)
	if err != nil {
		return err
	}
	if flags.out != "" {
		cfg.OutputDir = flags.out
	}

	exportPath, err := resolveExportPath(printer, args, cfg)
	if err != nil {
		return err
	}

	if err := convertOnce(printer, cfg, exportPath, flags); err != nil {
		return err
	}

	if flags.watch {
		return watchAndConvert(cmd, printer, cfg, exportPath, flags)
	}
	return nil
}

// loadConfig loads and validates the configuration, mapping failures to the
// user-error exit code.
func loadConfig(printer *output.Printer, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return nil, userErr
	}
	return cfg, nil
}

// resolveExportPath picks the export file: positional argument first,
// configured input second.
func resolveExportPath(printer *output.Printer, args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Input != "" {
		return cfg.Input, nil
	}
	err := output.NewUserError("no export file: pass one as an argument or set input in the config")
	printer.Error(err)
	return "", err
}

// convertOnce runs a single conversion over the export file.
func convertOnce(printer *output.Printer, cfg *config.Config, exportPath string, flags *convertFlags) error {
	parsed, err := conversation.ParseExportFile(exportPath)
	if err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	conversations, err := filterConversations(printer, parsed.Conversations, cfg, flags)
	if err != nil {
		return err
	}

	var write export.WriteFunc
	if flags.dryRun {
		write = func(string, []byte) error { return nil }
	}
	result := export.NewPipeline(cfg, write).Run(conversations)

	logPath := ""
	if !flags.dryRun && len(result.Events) > 0 {
		if err := export.WriteErrorLog(cfg.OutputDir, result.Events); err != nil {
			sysErr := output.NewSystemErrorWithCause("writing error log failed", err)
			printer.Error(sysErr)
			return sysErr
		}
		logPath = filepath.Join(cfg.OutputDir, export.ErrorLogName)
	}

	return outputConvertResult(printer, result, cfg, flags, logPath)
}

// filterConversations narrows the conversation list by collection and date
// window.
func filterConversations(
	printer *output.Printer, conversations []conversation.Conversation,
	cfg *config.Config, flags *convertFlags,
) ([]conversation.Conversation, error) {
	if flags.collection != "" {
		conversations = export.FilterByCollection(conversations, cfg, flags.collection)
	}
	if flags.since != "" {
		cutoff, err := parseSinceValue(flags.since)
		if err != nil {
			userErr := output.NewUserError(err.Error())
			printer.Error(userErr)
			return nil, userErr
		}
		conversations = conversation.FilterSince(conversations, cutoff)
	}
	if flags.until != "" {
		cutoff, err := parseUntilValue(flags.until)
		if err != nil {
			userErr := output.NewUserError(err.Error())
			printer.Error(userErr)
			return nil, userErr
		}
		conversations = conversation.FilterUntil(conversations, cutoff)
	}
	return conversations, nil
}

// outputConvertResult renders the run result in the requested mode.
func outputConvertResult(
	printer *output.Printer, result *export.Result,
	cfg *config.Config, flags *convertFlags, logPath string,
) error {
	if printer.IsJSON() {
		return printer.WriteJSON(convertResult{
			Written:   result.Written,
			Failed:    result.Failed(),
			OutputDir: cfg.OutputDir,
			Files:     result.Files,
			Errors:    result.Events,
			ErrorLog:  logPath,
			DryRun:    flags.dryRun,
		})
	}

	printHumanConvert(printer, result, cfg, flags, logPath)
	return nil
}

// printHumanConvert outputs the run result in human-readable format.
func printHumanConvert(
	printer *output.Printer, result *export.Result,
	cfg *config.Config, flags *convertFlags, logPath string,
) {
	if flags.dryRun {
		printer.Section("Dry Run")
	} else {
		printer.Section("Conversion")
	}
	printer.KeyValue("Output", cfg.OutputDir)
	printer.KeyValue("Written", strconv.Itoa(result.Written))

	if result.Failed() > 0 {
		printer.KeyValue("Failed", strconv.Itoa(result.Failed()))
		if logPath != "" {
			printer.Warn("%d conversations failed; see %s", result.Failed(), logPath)
		} else {
			printer.Warn("%d conversations failed", result.Failed())
		}
	}

	if flags.dryRun && len(result.Files) > 0 {
		printer.Println()
		for _, file := range result.Files {
			printer.Println(file)
		}
	}
}

// watchAndConvert blocks re-running the conversion on every settled change
// to the export file.
func watchAndConvert(
	cmd *cobra.Command, printer *output.Printer,
	cfg *config.Config, exportPath string, flags *convertFlags,
) error {
	printer.Stderr("watching %s for changes\n", exportPath)

	err := watch.File(cmd.Context(), exportPath, watch.DefaultDebounce, func(context.Context) {
		// Failures are already reported by convertOnce; keep watching.
		_ = convertOnce(printer, cfg, exportPath, flags)
	})
	if err != nil {
		sysErr := output.NewSystemErrorWithCause("watching export file failed", err)
		printer.Error(sysErr)
		return sysErr
	}
	return nil
}
