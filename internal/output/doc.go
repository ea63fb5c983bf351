// Package output provides structured output handling for the pplx2md CLI.
//
// This package handles both human-readable and JSON output formats, so every
// command works equally well for a person at a terminal and for a script
// consuming structured results.
//
// # Printer
//
// The Printer is the primary interface for command output. It automatically
// handles format switching based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//
//	// For success output
//	printer.Success(map[string]any{"message": "Wrote pplx2md.yaml"})
//
//	// For structured results
//	printer.WriteJSON(result)
//
//	// For error output
//	printer.Error(err)
//
// # JSON Mode
//
// When JSON mode is enabled (via --json flag), all output is structured:
//
//	// Success: {"written": 12, "files": [...], ...}
//	// Error: {"error": "message", "code": N}
//
// # Styling
//
// For human-readable output, the package provides lipgloss-based styling
// that automatically disables when output is piped:
//
//	printer.styles.Error   // Red, bold
//	printer.styles.Success // Green
//	printer.styles.Warning // Yellow
//	printer.styles.Bold    // Bold
//	printer.styles.Dim     // Gray
//
// # Exit Codes
//
// The package defines standard exit codes and error types:
//
//	output.ExitSuccess     // 0: Success, even when single conversations failed
//	output.ExitUserError   // 1: User error (bad args, unreadable export, bad config)
//	output.ExitSystemError // 2: System error (I/O failure)
//	output.ExitConflict    // 3: Conflict (would overwrite existing state)
//
// # Error Types
//
// Use the error constructors to create properly-coded errors:
//
//	output.NewUserError("reading export file: no such file")
//	output.NewSystemError("creating output directory failed")
//	output.NewConflictError("pplx2md.yaml already exists (use --force to overwrite)")
//
// These errors carry exit codes that are used for both JSON error output
// and process exit codes.
package output
