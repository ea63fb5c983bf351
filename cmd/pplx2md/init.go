package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pplx2md/pplx2md/internal/config"
	"github.com/pplx2md/pplx2md/internal/output"
)

// starterConfig is the file written by init. Every uncommented value matches
// the built-in defaults, so the file is inert until edited.
const starterConfig = `# pplx2md configuration. Every field is optional; absent fields keep their
# built-in defaults.

# Export file to convert when no path is passed on the command line.
input: perplexity-export.json

# Root directory for generated Markdown.
output_dir: output

# Collection ID to directory name mappings. Conversations in unmapped
# collections land in default_collection.
collections:
#  col-1a2b3c: Hardware
#  col-9f8e7d: Compilers

# Directory for conversations without a mapped collection.
default_collection: uncategorized

filename:
  # Longest generated file name, in characters, before any suffix.
  max_length: 128
  # Append the creation timestamp to every file name instead of only on
  # collision.
  append_date: false
  # Timestamp layout for file name suffixes, in Go reference time form.
  time_layout: "20060102T150405"

render:
  # Date layout for front matter fields.
  date_layout: "2006-01-02"
  # How many levels Markdown headings inside answers are demoted.
  demote_depth: 1
  assets:
    # Rewrite matched asset links as [[wikilinks]].
    wikilinks: false
    # Make rewritten asset paths relative to each document.
    relative_to_markdown: false
    # Replace verbatim references in answers with links to exported asset
    # files.
    rewrites:
#      "https://pplx-res.cloudinary.com/image/upload/v9/diagram.png": "diagram.png"
`

// initFlags holds the command-line flags for the init command.
type initFlags struct {
	path  string
	force bool
}

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		Long: `Write a commented starter config to the working directory.

The generated file mirrors the built-in defaults; edit it to map collection
IDs to directory names, pick an output directory, or change file naming.

Examples:
  pplx2md init                   # Create pplx2md.yaml here
  pplx2md init --force           # Overwrite an existing one
  pplx2md init --path conf.yaml  # Choose the destination`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.path, "path", config.DefaultFile, "Destination for the generated config")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite an existing config file")

	return cmd
}

// runInit executes the init command.
func runInit(cmd *cobra.Command, flags *initFlags) error {
	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))

	if _, err := os.Stat(flags.path); err == nil && !flags.force {
		conflictErr := output.NewConflictError(
			fmt.Sprintf("%s already exists; use --force to overwrite", flags.path))
		printer.Error(conflictErr)
		return conflictErr
	}

	if err := os.WriteFile(flags.path, []byte(starterConfig), 0o644); err != nil {
		sysErr := output.NewSystemErrorWithCause("writing config file failed", err)
		printer.Error(sysErr)
		return sysErr
	}

	printer.Success(map[string]any{
		"message": "config file created",
		"path":    flags.path,
	})
	return nil
}
