package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pplx2md/pplx2md/internal/output"
)

const testExport = `{
  "conversations": [
    {
      "uuid": "cv-1",
      "context_title": "Is this DDR2 or DDR3 memory?",
      "collection_uuid": "col-hw",
      "created_at": "2026-01-31T14:25:58Z",
      "entries": [
        {
          "query": "Is this DDR3?",
          "answer": "Yes, the part number says DDR3.",
          "mode": "copilot",
          "created_at": "2026-01-31T14:25:58Z",
          "query_status": "COMPLETED"
        }
      ]
    },
    {
      "uuid": "cv-2",
      "context_title": "Stray thought",
      "created_at": "2026-02-01T09:00:00Z",
      "entries": []
    }
  ]
}`

// executeCommand runs the root command with args and returns the combined
// output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTestExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test export: %v", err)
	}
	return path
}

func writeTestConfig(t *testing.T) (configPath, outputDir string) {
	t.Helper()
	dir := t.TempDir()
	outputDir = filepath.Join(dir, "out")
	configPath = filepath.Join(dir, "pplx2md.yaml")

	content := fmt.Sprintf("output_dir: %q\ncollections:\n  col-hw: Hardware\n", outputDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	return configPath, outputDir
}

func TestRootCmd_ShowsHelpWithoutArgs(t *testing.T) {
	out, err := executeCommand(t)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Convert a Perplexity conversation export") {
		t.Errorf("help output missing description:\n%s", out)
	}
	if !strings.Contains(out, "Core Commands:") {
		t.Errorf("help output missing command groups:\n%s", out)
	}
}

func TestRootCmd_JSON_NoSubcommand(t *testing.T) {
	out, err := executeCommand(t, "--json")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	msg, _ := payload["error"].(string)
	if !strings.Contains(msg, "no command specified") {
		t.Errorf("error message = %q, want mention of missing command", msg)
	}
	if code, _ := payload["code"].(float64); int(code) != output.ExitUserError {
		t.Errorf("JSON code = %v, want %d", payload["code"], output.ExitUserError)
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := executeCommand(t, "definitely-not-a-command")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}

func TestBuildVersion(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() { version, commit, date = origVersion, origCommit, origDate }()

	version, commit, date = "dev", "none", "unknown"
	if got := buildVersion(); got != "dev" {
		t.Errorf("buildVersion() = %q, want %q", got, "dev")
	}

	version, commit, date = "1.2.0", "abcdef1234567890", "2026-08-01"
	want := "1.2.0 (abcdef1, 2026-08-01)"
	if got := buildVersion(); got != want {
		t.Errorf("buildVersion() = %q, want %q", got, want)
	}
}

func TestIsJSONMode(t *testing.T) {
	cmd := newRootCmd()
	if isJSONMode(cmd) {
		t.Error("json mode should default to false")
	}

	if err := cmd.PersistentFlags().Set("json", "true"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	if !isJSONMode(cmd) {
		t.Error("json mode should be true after setting the flag")
	}
}

func TestUseColor(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(new(bytes.Buffer))

	if useColor(cmd) {
		t.Error("auto mode on a buffer should disable color")
	}

	if err := cmd.PersistentFlags().Set("color", "always"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	if !useColor(cmd) {
		t.Error("always mode should enable color")
	}

	if err := cmd.PersistentFlags().Set("color", "never"); err != nil {
		t.Fatalf("setting flag: %v", err)
	}
	if useColor(cmd) {
		t.Error("never mode should disable color")
	}
}
