package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brief-cli/internal/config"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want string
	}{
		{name: "under max length", s: "hello", max: 10, want: "hello"},
		{name: "at max length", s: "hello", max: 5, want: "hello"},
		{name: "over max length", s: "hello world this is long", max: 10, want: "hello w..."},
		{name: "empty string", s: "", max: 10, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.s, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.max, got, tt.want)
			}
			if len(got) > tt.max {
				t.Errorf("truncate(%q, %d) returned string of len %d, exceeds max", tt.s, tt.max, len(got))
			}
		})
	}
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() { version, commit, date = origVersion, origCommit, origDate }()

	version, commit, date = "dev", "none", "unknown"
	if got := versionString(); got != "brief dev" {
		t.Errorf("dev build = %q, want %q", got, "brief dev")
	}

	version, commit, date = "v1.0.0", "abc123", "2026-01-01"
	got := versionString()
	lines := strings.Split(got, "\n")
	if lines[0] != "brief v1.0.0" {
		t.Errorf("first line = %q, want %q", lines[0], "brief v1.0.0")
	}
	if len(lines) != 3 {
		t.Errorf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if !strings.Contains(got, "abc123") || !strings.Contains(got, "2026-01-01") {
		t.Errorf("release build should show commit and date: %q", got)
	}
}

func TestIndent(t *testing.T) {
	if got := indent("a\nb", "  "); got != "  a\n  b" {
		t.Errorf("indent = %q", got)
	}
}

func TestReadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reply.txt")
	if err := os.WriteFile(path, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}
	got, err := readInput(path)
	if err != nil || got != "hello" {
		t.Errorf("readInput = %q, %v", got, err)
	}
	if _, err := readInput(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file should fail")
	}
}

// execute runs the root command with args against a temporary home.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvServer, "")
	t.Setenv(config.EnvToken, "")
	activeProfile, verbose = "", false
	exportFile, exportDir = "", ""
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	md := filepath.Join(dir, "brief.md")
	content := "## Campaign Brief\n\n### Objectives\n• Grow reach\n"
	if err := os.WriteFile(md, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")

	if err := execute(t, "export", "--file", md, "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(out, "brief-*.pdf"))
	if len(matches) != 1 {
		t.Fatalf("pdf files = %v, want one", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("output is not a PDF")
	}
}

func TestExportWithoutConversation(t *testing.T) {
	err := execute(t, "export")
	if err == nil || !strings.Contains(err.Error(), "no conversation") {
		t.Errorf("err = %v, want no conversation", err)
	}
}

func TestSetCommand(t *testing.T) {
	if err := execute(t, "set", "locale", "es"); err != nil {
		t.Fatalf("set: %v", err)
	}
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Locale != "es" {
		t.Errorf("locale = %q, want es", cfg.Locale)
	}
}

func TestSetCommandUnknownKey(t *testing.T) {
	if err := execute(t, "set", "colour", "blue"); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestAskRequiresLogin(t *testing.T) {
	err := execute(t, "ask", "hello")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("err = %v, want not logged in", err)
	}
}

func TestHistoryDeleteMissing(t *testing.T) {
	if err := execute(t, "history", "delete", "nope"); err == nil {
		t.Error("deleting a missing conversation should fail")
	}
}
