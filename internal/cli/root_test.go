package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// resetHelpFlags clears the help flag value cobra leaves set on the reused
// package-level command objects, so each executeCommand call behaves like a
// fresh invocation.
func resetHelpFlags(c *cobra.Command) {
	if f := c.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range c.Commands() {
		resetHelpFlags(sub)
	}
}

func executeCommand(args ...string) (string, error) {
	resetHelpFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores the package-level flag state between tests.
func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		projectDir = "."
		configFile = ""
	})
}

func TestVersionCommand(t *testing.T) {
	SetVersion("test-version")
	out, err := executeCommand("version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "buildfix version test-version") {
		t.Errorf("expected version output to contain 'test-version', got: %s", out)
	}
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedSubcommands := []string{
		"run", "doctor", "report", "history", "config", "version",
	}
	for _, sub := range expectedSubcommands {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing subcommand %q", sub)
		}
	}
}

func TestRunHelpListsFlags(t *testing.T) {
	out, err := executeCommand("run", "--help")
	if err != nil {
		t.Fatalf("run --help failed: %v", err)
	}
	for _, flag := range []string{"--skip-install", "--fix-only", "--verbose"} {
		if !strings.Contains(out, flag) {
			t.Errorf("run help missing flag %q", flag)
		}
	}
}

func TestConfigSubcommands(t *testing.T) {
	subcmds := []string{"show", "validate"}
	for _, sub := range subcmds {
		out, err := executeCommand("config", sub, "--help")
		if err != nil {
			t.Errorf("config %s --help failed: %v", sub, err)
		}
		if out == "" {
			t.Errorf("config %s --help produced no output", sub)
		}
	}
}

func TestConfigShowDefaults(t *testing.T) {
	resetFlags(t)
	out, err := executeCommand("config", "show", "--project", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Air Quality Monitoring App", "npm run build", "tsconfig.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q, got:\n%s", want, out)
		}
	}
}

func TestConfigValidateDefaults(t *testing.T) {
	resetFlags(t)
	out, err := executeCommand("config", "validate", "--project", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Configuration is valid.") {
		t.Errorf("expected valid config message, got: %s", out)
	}
}

func TestConfigValidateRejectsAbsolutePaths(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "buildfix.yaml")
	cfg := "frontend:\n  dir: /etc/frontend\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand("config", "validate", "--config", path)
	if err == nil {
		t.Fatal("expected validation failure, got nil")
	}
	if !strings.Contains(out, "frontend.dir") {
		t.Errorf("expected frontend.dir in validation output, got: %s", out)
	}
}

func TestHistoryEmpty(t *testing.T) {
	resetFlags(t)
	out, err := executeCommand("history", "--project", t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No runs found.") {
		t.Errorf("expected empty-state message, got: %s", out)
	}
}

func TestHistoryRejectsBadRunID(t *testing.T) {
	resetFlags(t)
	_, err := executeCommand("history", "abc", "--project", t.TempDir())
	if err == nil {
		t.Fatal("expected error for non-numeric run id")
	}
	if !strings.Contains(err.Error(), "invalid run id") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	_, err := executeCommand("nonexistent")
	if err == nil {
		t.Error("expected error for unknown command, got nil")
	}
}
