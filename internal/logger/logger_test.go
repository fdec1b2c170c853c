package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestSetup_OutputsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, "info")

	log.Info("test message", slog.String("key", "value"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output should be JSON: %v", err)
	}
	if entry["msg"] != "test message" {
		t.Errorf("msg = %v, want %q", entry["msg"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, "warn")

	log.Info("should be filtered")
	if buf.Len() != 0 {
		t.Errorf("info log should be filtered at warn level, got: %s", buf.String())
	}

	log.Warn("should appear")
	if buf.Len() == 0 {
		t.Error("warn log should appear at warn level")
	}
}

func TestParseLevel_UnknownFallsBackToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got != slog.LevelInfo {
		t.Errorf("parseLevel(verbose) = %v, want %v", got, slog.LevelInfo)
	}
	if got := parseLevel("DEBUG"); got != slog.LevelDebug {
		t.Errorf("parseLevel(DEBUG) = %v, want %v", got, slog.LevelDebug)
	}
}
