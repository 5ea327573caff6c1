package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewLoggerTeesToFile(t *testing.T) {
	dir := t.TempDir()
	path := LogPath(dir, 1700000000)
	if filepath.Base(path) != "plassembler_1700000000.log" {
		t.Fatalf("unexpected log path %s", path)
	}

	var stderr bytes.Buffer
	logger, closeFn, err := NewLogger(&stderr, path, false)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	logger.Info("Counting contigs", zap.Int("contigs", 3))
	logger.Debug("hidden")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if !strings.Contains(stderr.String(), "Counting contigs") {
		t.Fatalf("stderr missing message: %q", stderr.String())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "INFO") || !strings.Contains(string(b), `"contigs": 3`) {
		t.Fatalf("log file missing fields: %q", string(b))
	}
	if strings.Contains(string(b), "hidden") {
		t.Fatalf("debug line leaked at info level")
	}
}

func TestNewLoggerVerbose(t *testing.T) {
	var stderr bytes.Buffer
	logger, closeFn, err := NewLogger(&stderr, "", true)
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("shown")
	_ = closeFn()
	if !strings.Contains(stderr.String(), "shown") {
		t.Fatalf("verbose logger dropped debug: %q", stderr.String())
	}
}
