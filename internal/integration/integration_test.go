//go:build integration

// Package integration provides end-to-end tests for the pplx2md CLI.
// These tests build the real binary and run full conversion workflows
// against a temporary workspace.
//
// Run with: go test -tags=integration ./internal/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// sampleExport covers every per-record outcome in one run: a clean
// conversation, a duplicate title in the same collection, a conversation
// without a collection, and a malformed record missing its title.
const sampleExport = `{
  "conversations": [
    {
      "uuid": "cv-1",
      "context_title": "Is this DDR2 or DDR3 memory?",
      "collection_uuid": "col-hw",
      "created_at": "2026-01-31T14:25:58Z",
      "entries": [
        {
          "query": "Is this DDR3?",
          "answer": "Yes, the module is DDR3.\n\n# Sources\n[1][2]",
          "mode": "copilot",
          "created_at": "2026-01-31T14:25:58Z",
          "query_status": "COMPLETED"
        }
      ]
    },
    {
      "uuid": "cv-2",
      "context_title": "Is this DDR2 or DDR3 memory?",
      "collection_uuid": "col-hw",
      "created_at": "2026-01-31T15:00:00Z",
      "entries": [
        {
          "query": "And this one?",
          "answer": "That one is DDR2.",
          "mode": "pro",
          "created_at": "2026-01-31T15:00:00Z",
          "query_status": "FAILED"
        }
      ]
    },
    {
      "uuid": "cv-3",
      "context_title": "Memory shopping",
      "created_at": "2026-02-01T09:00:00Z",
      "entries": []
    },
    {
      "uuid": "cv-4",
      "created_at": "2026-02-02T08:00:00Z",
      "entries": []
    }
  ]
}`

const sampleConfig = "output_dir: out\ncollections:\n  col-hw: Hardware\n"

// testWorkspace manages a temp directory and a built pplx2md binary.
type testWorkspace struct {
	t      *testing.T
	dir    string
	binary string
}

// newTestWorkspace builds the pplx2md binary into a fresh temp directory.
func newTestWorkspace(t *testing.T) *testWorkspace {
	t.Helper()

	dir := t.TempDir()
	binary := filepath.Join(dir, "pplx2md")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/pplx2md")
	buildCmd.Dir = findProjectRoot(t)
	buildCmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build pplx2md: %v\n%s", err, output)
	}

	return &testWorkspace{t: t, dir: dir, binary: binary}
}

// findProjectRoot locates the project root by finding go.mod.
func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// createFile creates a file with the given content inside the workspace.
func (w *testWorkspace) createFile(name, content string) {
	w.t.Helper()

	path := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		w.t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		w.t.Fatalf("failed to write file %s: %v", name, err)
	}
}

// readFile reads a workspace file.
func (w *testWorkspace) readFile(name string) string {
	w.t.Helper()

	data, err := os.ReadFile(filepath.Join(w.dir, name))
	if err != nil {
		w.t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// pplx2md runs the binary with the given args in the workspace.
// Returns stdout, stderr, and error.
func (w *testWorkspace) pplx2md(args ...string) (string, string, error) {
	w.t.Helper()

	cmd := exec.Command(w.binary, args...)
	cmd.Dir = w.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// pplx2mdOK runs the binary and expects success.
func (w *testWorkspace) pplx2mdOK(args ...string) string {
	w.t.Helper()

	stdout, stderr, err := w.pplx2md(args...)
	if err != nil {
		w.t.Fatalf("pplx2md %v failed: %v\nstdout: %s\nstderr: %s", args, err, stdout, stderr)
	}
	return stdout
}

// pplx2mdErr runs the binary, expects failure, and returns the combined
// output plus the process exit code.
func (w *testWorkspace) pplx2mdErr(args ...string) (string, int) {
	w.t.Helper()

	stdout, stderr, err := w.pplx2md(args...)
	if err == nil {
		w.t.Fatalf("pplx2md %v expected to fail but succeeded\nstdout: %s", args, stdout)
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		w.t.Fatalf("pplx2md %v did not run: %v", args, err)
	}
	return stdout + stderr, exitErr.ExitCode()
}

type convertJSON struct {
	Written   int      `json:"written"`
	Failed    int      `json:"failed"`
	OutputDir string   `json:"output_dir"`
	Files     []string `json:"files"`
	Errors    []struct {
		Title   string `json:"title"`
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"errors"`
	ErrorLog string `json:"error_log"`
}

// TestConvertInspectCycle runs the full workflow: inspect the export,
// convert it, check the resulting tree and error log, then convert again to
// confirm re-runs regenerate the same tree.
func TestConvertInspectCycle(t *testing.T) {
	w := newTestWorkspace(t)
	w.createFile("export.json", sampleExport)
	w.createFile("pplx2md.yaml", sampleConfig)

	// Step 1: inspect reports the totals before anything is written.
	inspectOut := w.pplx2mdOK("inspect", "export.json", "--json")
	var inspectResult struct {
		Conversations int            `json:"conversations"`
		Exchanges     int            `json:"exchanges"`
		Modes         map[string]int `json:"modes"`
		Earliest      string         `json:"earliest"`
		Latest        string         `json:"latest"`
	}
	if err := json.Unmarshal([]byte(inspectOut), &inspectResult); err != nil {
		t.Fatalf("failed to parse inspect JSON: %v\noutput: %s", err, inspectOut)
	}
	if inspectResult.Conversations != 4 {
		t.Errorf("expected 4 conversations, got %d", inspectResult.Conversations)
	}
	if inspectResult.Exchanges != 2 {
		t.Errorf("expected 2 exchanges, got %d", inspectResult.Exchanges)
	}
	if inspectResult.Earliest != "2026-01-31T14:25:58Z" {
		t.Errorf("expected earliest 2026-01-31T14:25:58Z, got %q", inspectResult.Earliest)
	}
	if inspectResult.Modes["copilot"] != 1 || inspectResult.Modes["pro"] != 1 {
		t.Errorf("expected one copilot and one pro exchange, got %v", inspectResult.Modes)
	}

	// Step 2: convert writes three documents and records one failure.
	convertOut := w.pplx2mdOK("convert", "export.json", "--json")
	var convertResult convertJSON
	if err := json.Unmarshal([]byte(convertOut), &convertResult); err != nil {
		t.Fatalf("failed to parse convert JSON: %v\noutput: %s", err, convertOut)
	}
	if convertResult.Written != 3 {
		t.Errorf("expected 3 written, got %d (errors: %+v)", convertResult.Written, convertResult.Errors)
	}
	if convertResult.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", convertResult.Failed)
	}
	if len(convertResult.Errors) != 1 || convertResult.Errors[0].Kind != "malformed_record" {
		t.Fatalf("expected one malformed_record error, got %+v", convertResult.Errors)
	}

	// Step 3: the output tree matches the collection mapping, and the
	// duplicate title carries its creation-time suffix.
	first := w.readFile(filepath.Join("out", "Hardware", "Is this DDR2 or DDR3 memory.md"))
	if !strings.Contains(first, "Title: Is this DDR2 or DDR3 memory?") {
		t.Errorf("front matter missing original title:\n%s", first)
	}
	if !strings.Contains(first, "# Answer (copilot - 20260131T142558)") {
		t.Errorf("document missing answer heading:\n%s", first)
	}
	if !strings.Contains(first, "## Sources") {
		t.Errorf("answer heading not demoted:\n%s", first)
	}
	if strings.Contains(first, "[1][2]") {
		t.Errorf("empty citation markers survived:\n%s", first)
	}

	second := w.readFile(filepath.Join("out", "Hardware", "Is this DDR2 or DDR3 memory-20260131T150000.md"))
	if !strings.Contains(second, "# Answer (pro - 20260131T150000) FAILED") {
		t.Errorf("failed status not annotated:\n%s", second)
	}

	third := w.readFile(filepath.Join("out", "uncategorized", "Memory shopping.md"))
	if strings.Contains(third, "# Query") {
		t.Errorf("empty conversation must render front matter only:\n%s", third)
	}

	// Step 4: the error log names the malformed record.
	errLog := w.readFile(filepath.Join("out", "ERRORS.log"))
	if !strings.Contains(errLog, "missing required fields") {
		t.Errorf("error log missing failure reason:\n%s", errLog)
	}
	if strings.Count(errLog, "\n") != 1 {
		t.Errorf("expected exactly one error line, got:\n%s", errLog)
	}

	// Step 5: a second run starts a fresh registry and regenerates the
	// same tree.
	rerunOut := w.pplx2mdOK("convert", "export.json", "--json")
	var rerunResult convertJSON
	if err := json.Unmarshal([]byte(rerunOut), &rerunResult); err != nil {
		t.Fatalf("failed to parse rerun JSON: %v", err)
	}
	if rerunResult.Written != 3 {
		t.Errorf("expected rerun to write 3, got %d", rerunResult.Written)
	}
	if _, err := os.Stat(filepath.Join(w.dir, "out", "Hardware", "Is this DDR2 or DDR3 memory.md")); err != nil {
		t.Errorf("rerun lost a document: %v", err)
	}
}

// TestDryRunWritesNothing verifies --dry-run reports paths without touching
// the disk, including the error log.
func TestDryRunWritesNothing(t *testing.T) {
	w := newTestWorkspace(t)
	w.createFile("export.json", sampleExport)
	w.createFile("pplx2md.yaml", sampleConfig)

	out := w.pplx2mdOK("convert", "export.json", "--dry-run", "--json")
	var result convertJSON
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse convert JSON: %v\noutput: %s", err, out)
	}

	if result.Written != 3 {
		t.Errorf("expected 3 allocated, got %d", result.Written)
	}
	if len(result.Files) != 3 {
		t.Errorf("expected 3 target paths, got %v", result.Files)
	}
	if result.ErrorLog != "" {
		t.Errorf("dry run must not name an error log, got %q", result.ErrorLog)
	}
	if _, err := os.Stat(filepath.Join(w.dir, "out")); !os.IsNotExist(err) {
		t.Errorf("dry run must not create the output tree, stat err = %v", err)
	}
}

// TestCollectionFilter converts a single collection by its display name.
func TestCollectionFilter(t *testing.T) {
	w := newTestWorkspace(t)
	w.createFile("export.json", sampleExport)
	w.createFile("pplx2md.yaml", sampleConfig)

	out := w.pplx2mdOK("convert", "export.json", "--collection", "Hardware", "--json")
	var result convertJSON
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse convert JSON: %v", err)
	}

	if result.Written != 2 {
		t.Errorf("expected 2 written, got %d", result.Written)
	}
	if _, err := os.Stat(filepath.Join(w.dir, "out", "uncategorized")); !os.IsNotExist(err) {
		t.Errorf("filtered collection must not be written, stat err = %v", err)
	}
}

// TestInitConflictExitCode verifies the init conflict guard and its exit
// code.
func TestInitConflictExitCode(t *testing.T) {
	w := newTestWorkspace(t)

	w.pplx2mdOK("init")
	if _, err := os.Stat(filepath.Join(w.dir, "pplx2md.yaml")); err != nil {
		t.Fatalf("init did not create the config: %v", err)
	}

	output, code := w.pplx2mdErr("init")
	if code != 3 {
		t.Errorf("expected conflict exit code 3, got %d\noutput: %s", code, output)
	}
	if !strings.Contains(output, "already exists") {
		t.Errorf("expected overwrite refusal, got: %s", output)
	}

	w.pplx2mdOK("init", "--force")
}

// TestUserErrorExitCodes verifies user mistakes exit with code 1 and emit
// the JSON error shape.
func TestUserErrorExitCodes(t *testing.T) {
	w := newTestWorkspace(t)
	w.createFile("export.json", sampleExport)

	tests := []struct {
		name string
		args []string
	}{
		{"missing export", []string{"convert", "missing.json", "--json"}},
		{"invalid since", []string{"convert", "export.json", "--since", "not-a-time", "--json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, code := w.pplx2mdErr(tt.args...)
			if code != 1 {
				t.Errorf("expected exit code 1, got %d\noutput: %s", code, output)
			}

			var errResult struct {
				Error string `json:"error"`
				Code  int    `json:"code"`
			}
			if err := json.Unmarshal([]byte(output), &errResult); err != nil {
				t.Fatalf("expected JSON error output, got: %s", output)
			}
			if errResult.Code != 1 {
				t.Errorf("expected JSON code 1, got %d", errResult.Code)
			}
			if errResult.Error == "" {
				t.Error("expected non-empty error message")
			}
		})
	}
}

// TestCollectionsListing lists mapped and unmapped collections with counts.
func TestCollectionsListing(t *testing.T) {
	w := newTestWorkspace(t)
	w.createFile("export.json", sampleExport)
	w.createFile("pplx2md.yaml", sampleConfig)

	out := w.pplx2mdOK("collections", "export.json", "--json")
	var result struct {
		Collections []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			Conversations int    `json:"conversations"`
			Mapped        bool   `json:"mapped"`
		} `json:"collections"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("failed to parse collections JSON: %v\noutput: %s", err, out)
	}
	if len(result.Collections) != 2 {
		t.Fatalf("expected 2 collections, got %+v", result.Collections)
	}

	for _, c := range result.Collections {
		switch c.ID {
		case "col-hw":
			if !c.Mapped || c.Name != "Hardware" || c.Conversations != 2 {
				t.Errorf("col-hw = %+v, want mapped Hardware with 2 conversations", c)
			}
		case "":
			if c.Mapped || c.Name != "uncategorized" || c.Conversations != 2 {
				t.Errorf("unmapped row = %+v, want uncategorized with 2 conversations", c)
			}
		default:
			t.Errorf("unexpected collection %+v", c)
		}
	}
}
