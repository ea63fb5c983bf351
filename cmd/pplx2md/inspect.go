package main

import (
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/export"
	"github.com/pplx2md/pplx2md/internal/output"
)

// inspectFlags holds the command-line flags for the inspect command.
type inspectFlags struct {
	configPath string
}

// inspectResult is the JSON shape of the inspect command.
type inspectResult struct {
	Conversations int             `json:"conversations"`
	Exchanges     int             `json:"exchanges"`
	Collections   []collectionRow `json:"collections"`
	Modes         map[string]int  `json:"modes,omitempty"`
	Earliest      string          `json:"earliest,omitempty"`
	Latest        string          `json:"latest,omitempty"`
}

// collectionRow pairs a collection ID with its resolved directory name.
type collectionRow struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Conversations int    `json:"conversations"`
}

// newInspectCmd creates the inspect command.
func newInspectCmd() *cobra.Command {
	flags := &inspectFlags{}

	cmd := &cobra.Command{
		Use:   "inspect [export-file]",
		Short: "Summarize an export without converting it",
		Long: `Summarize an export file: conversation and exchange counts, the date
range, collections and their resolved directory names, and answer modes.

Nothing is written; use it to preview what a conversion would cover.

Examples:
  pplx2md inspect export.json          # Summarize an export
  pplx2md inspect                      # Use input from the config
  pplx2md inspect export.json --json   # Structured summary`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Config file path")

	return cmd
}

// runInspect executes the inspect command.
func runInspect(cmd *cobra.Command, args []string, flags *inspectFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	cfg, err := loadConfig(printer, flags.configPath)
	if err != nil {
		return err
	}

	exportPath, err := resolveExportPath(printer, args, cfg)
	if err != nil {
		return err
	}

	parsed, err := conversation.ParseExportFile(exportPath)
	if err != nil {
		userErr := output.NewUserError(err.Error())
		printer.Error(userErr)
		return userErr
	}

	summary := conversation.Summarize(parsed)

	rows := make([]collectionRow, 0, len(summary.Collections))
	for _, c := range summary.Collections {
		rows = append(rows, collectionRow{
			ID:            c.ID,
			Name:          export.ResolveCollection(c.ID, cfg),
			Conversations: c.Conversations,
		})
	}

	if printer.IsJSON() {
		res := inspectResult{
			Conversations: summary.Conversations,
			Exchanges:     summary.Exchanges,
			Collections:   rows,
			Modes:         summary.Modes,
		}
		if !summary.Earliest.IsZero() {
			res.Earliest = summary.Earliest.UTC().Format(time.RFC3339)
		}
		if !summary.Latest.IsZero() {
			res.Latest = summary.Latest.UTC().Format(time.RFC3339)
		}
		return printer.WriteJSON(res)
	}

	printHumanInspect(printer, exportPath, summary, rows)
	return nil
}

// printHumanInspect outputs the export summary in human-readable format.
func printHumanInspect(
	printer *output.Printer, exportPath string,
	summary conversation.Summary, rows []collectionRow,
) {
	printer.Section("Export")
	printer.KeyValue("File", exportPath)
	printer.KeyValue("Conversations", strconv.Itoa(summary.Conversations))
	printer.KeyValue("Exchanges", strconv.Itoa(summary.Exchanges))
	if !summary.Earliest.IsZero() {
		printer.KeyValue("Earliest", summary.Earliest.UTC().Format("2006-01-02 15:04"))
	}
	if !summary.Latest.IsZero() {
		printer.KeyValue("Latest", summary.Latest.UTC().Format("2006-01-02 15:04"))
	}

	if len(rows) > 0 {
		printer.Section("Collections")
		tableRows := make([][]string, 0, len(rows))
		for _, row := range rows {
			id := row.ID
			if id == "" {
				id = "-"
			}
			tableRows = append(tableRows, []string{id, row.Name, strconv.Itoa(row.Conversations)})
		}
		printer.Table([]string{"ID", "NAME", "CONVERSATIONS"}, tableRows)
	}

	if len(summary.Modes) > 0 {
		printer.Section("Modes")
		modes := make([]string, 0, len(summary.Modes))
		for mode := range summary.Modes {
			modes = append(modes, mode)
		}
		sort.Strings(modes)
		for _, mode := range modes {
			printer.KeyValue(mode, strconv.Itoa(summary.Modes[mode]))
		}
	}
}
