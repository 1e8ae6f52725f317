package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open log file: %v", err)
	}
	defer f.Close()

	var entries []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not valid JSON: %q", line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNew_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "painel.log")

	logger, err := New(path, LevelInfo, RotationConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("refresh complete", "rows", 42)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["msg"] != "refresh complete" {
		t.Errorf("msg = %v, want %q", entries[0]["msg"], "refresh complete")
	}
	if entries[0]["rows"] != float64(42) {
		t.Errorf("rows = %v, want 42", entries[0]["rows"])
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "painel.log")

	logger, err := New(path, LevelWarn, RotationConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")
	logger.Error("also kept")
	logger.Close()

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2", len(entries))
	}
}

func TestWithComponent_PropagatesAttr(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "painel.log")

	logger, err := New(path, LevelDebug, RotationConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	child := logger.WithComponent("source").With("attempt", 1)
	child.Info("fetching")
	logger.Close()

	entries := readEntries(t, path)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0]["component"] != "source" {
		t.Errorf("component = %v, want %q", entries[0]["component"], "source")
	}
	if entries[0]["attempt"] != float64(1) {
		t.Errorf("attempt = %v, want 1", entries[0]["attempt"])
	}
}

func TestWithSource_TagsKindAndLocation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "painel.log")

	logger, err := New(path, LevelDebug, RotationConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.WithSource("file", "jobs.xlsx").Info("loaded")
	logger.Close()

	entries := readEntries(t, path)
	if entries[0]["source"] != "file" {
		t.Errorf("source = %v, want %q", entries[0]["source"], "file")
	}
	if entries[0]["location"] != "jobs.xlsx" {
		t.Errorf("location = %v, want %q", entries[0]["location"], "jobs.xlsx")
	}
}

func TestNopLogger_DoesNotPanic(t *testing.T) {
	logger := NopLogger()
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
