package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ns3-trace-analyzer/internal/config"
	"ns3-trace-analyzer/internal/export"
	"ns3-trace-analyzer/internal/logging"
	"ns3-trace-analyzer/internal/trace"
)

func init() {
	logger = logging.Discard()
}

func TestNewWritersPrintOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Greptime.Endpoint = "db.local"
	w, cleanup, err := newWriters(cfg, "jsonl", "", true, "run")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*export.JSONStdoutWriter); !ok {
		t.Fatalf("expected *export.JSONStdoutWriter, got %T", w)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	cfg := config.Default()
	w, cleanup, err := newWriters(cfg, "text", "", false, "run")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	defer cleanup()
	if _, ok := w.(*export.TextWriter); !ok {
		t.Fatalf("expected *export.TextWriter, got %T", w)
	}
}

func TestNewWritersNone(t *testing.T) {
	w, cleanup, err := newWriters(config.Default(), "none", "", false, "run")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if w != nil {
		t.Fatalf("expected no writer, got %T", w)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
}

func TestNewWritersUnknownFormat(t *testing.T) {
	if _, _, err := newWriters(config.Default(), "xml", "", true, "run"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestNewWritersCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.csv")
	w, cleanup, err := newWriters(config.Default(), "csv", path, true, "run")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	e, err := trace.ParseLine("r 1.5 /NodeList/1/DeviceList/0/Rx")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if err := export.WriteAll(w, []trace.Entry{e}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "1.5,Receive,,N2,") {
		t.Fatalf("unexpected csv:\n%s", b)
	}
}
