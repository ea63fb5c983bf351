// Package export orchestrates the conversion of parsed conversations into
// Markdown documents on disk.
//
// The pipeline takes each conversation through five steps, in input order:
//
//  1. Normalize the raw thread into a validated record
//  2. Resolve its collection ID to an output directory
//  3. Allocate a collision-free file path
//  4. Render the Markdown document
//  5. Write the file atomically
//
// A failure at any step for one conversation becomes an ErrorEvent and the
// run continues with the next conversation; only configuration problems,
// which are caught before the pipeline is built, abort a run.
//
// # Filename Allocation
//
// The Allocator owns the run's registry of claimed (directory, base) pairs.
// The first conversation to claim a name gets it bare; later claimants get a
// timestamp suffix derived from their creation time (or the run time when
// they carry none):
//
//	output/Hardware/Memory.md
//	output/Hardware/Memory-20260131T142558.md
//
// A suffixed name that itself collides exhausts allocation for that record.
// The registry lives for exactly one run, so intra-run uniqueness is
// guaranteed but a later run may reuse names.
//
// # Error Log
//
// WriteErrorLog persists a run's events under the output root as ERRORS.log,
// one line per failed conversation:
//
//	2026-08-25T12:00:00Z | Memory timings | missing required fields: uuid
//
// A clean run writes no log.
package export
