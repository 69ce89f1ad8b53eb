package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithSink_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithSink(Config{Level: "info", Format: "json"}, zapcore.AddSync(&buf))

	log.Info("evaluated", zap.String("tier", "standard"))
	log.Debug("hidden")
	_ = log.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["msg"] != "evaluated" || entry["tier"] != "standard" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("timestamp key missing: %v", entry)
	}
}

func TestNewWithSink_UnknownLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithSink(Config{Level: "loud"}, zapcore.AddSync(&buf))

	log.Debug("nope")
	log.Info("yes")
	_ = log.Sync()

	if strings.Contains(buf.String(), "nope") || !strings.Contains(buf.String(), "yes") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(Config{Level: "debug", Format: "json", Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug("to file")
	_ = log.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Fatalf("log file missing entry: %q", b)
	}
}
