package main

import (
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/conversation"
	"github.com/pplx2md/pplx2md/internal/export"
	"github.com/pplx2md/pplx2md/internal/output"
)

// collectionsFlags holds the command-line flags for the collections command.
type collectionsFlags struct {
	configPath string
}

// collectionInfo describes one collection and how it maps to a directory.
type collectionInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Conversations int    `json:"conversations"`
	Mapped        bool   `json:"mapped"`
}

// collectionsResult is the JSON shape of the collections command.
type collectionsResult struct {
	Collections []collectionInfo `json:"collections"`
}

// newCollectionsCmd creates the collections command.
func newCollectionsCmd() *cobra.Command {
	flags := &collectionsFlags{}

	cmd := &cobra.Command{
		Use:   "collections [export-file]",
		Short: "List collections and their directory names",
		Long: `List every collection: the ones configured under collections in the
config file and, when an export file is given or configured, the ones
actually present in it with their conversation counts.

Collections without a configured name fall back to the default directory.

Examples:
  pplx2md collections                  # Configured mappings only
  pplx2md collections export.json      # Merged with export counts
  pplx2md collections --json           # Structured listing`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollections(cmd, args, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Config file path")

	return cmd
}

// runCollections executes the collections command.
func runCollections(cmd *cobra.Command, args []string, flags *collectionsFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	cfg, err := loadConfig(printer, flags.configPath)
	if err != nil {
		return err
	}

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = cfg.Input
	}

	counts := map[string]int{}
	if path != "" {
		parsed, err := conversation.ParseExportFile(path)
		if err != nil {
			userErr := output.NewUserError(err.Error())
			printer.Error(userErr)
			return userErr
		}
		for _, c := range conversation.Summarize(parsed).Collections {
			counts[c.ID] = c.Conversations
		}
	}

	rows := mergeCollections(cfg, counts)

	if printer.IsJSON() {
		return printer.WriteJSON(collectionsResult{Collections: rows})
	}

	printHumanCollections(printer, rows)
	return nil
}

// mergeCollections joins configured mappings with collections seen in the
// export, most populated first.
func mergeCollections(cfg *config.Config, counts map[string]int) []collectionInfo {
	ids := make(map[string]bool, len(counts)+len(cfg.Collections))
	for id := range counts {
		ids[id] = true
	}
	for id := range cfg.Collections {
		ids[id] = true
	}

	rows := make([]collectionInfo, 0, len(ids))
	for id := range ids {
		_, mapped := cfg.Collections[id]
		rows = append(rows, collectionInfo{
			ID:            id,
			Name:          export.ResolveCollection(id, cfg),
			Conversations: counts[id],
			Mapped:        mapped,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Conversations != rows[j].Conversations {
			return rows[i].Conversations > rows[j].Conversations
		}
		return rows[i].ID < rows[j].ID
	})
	return rows
}

// printHumanCollections outputs the collection listing in human-readable
// format.
func printHumanCollections(printer *output.Printer, rows []collectionInfo) {
	if len(rows) == 0 {
		printer.Println("no collections configured or present in the export")
		return
	}

	printer.Section("Collections")
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		id := row.ID
		if id == "" {
			id = "-"
		}
		mapped := "no"
		if row.Mapped {
			mapped = "yes"
		}
		tableRows = append(tableRows, []string{id, row.Name, strconv.Itoa(row.Conversations), mapped})
	}
	printer.Table([]string{"ID", "NAME", "CONVERSATIONS", "MAPPED"}, tableRows)
}
