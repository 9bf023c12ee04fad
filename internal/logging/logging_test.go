package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONWithFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rigsmith.log")
	logger, err := New(Config{Level: "debug", Format: "json", OutputPath: path, Fields: map[string]string{"service": "rigsmith"}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("catalog enriched")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", data, err)
	}
	if entry["msg"] != "catalog enriched" || entry["service"] != "rigsmith" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(Config{Level: "loud", OutputPath: filepath.Join(t.TempDir(), "x.log")})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if logger.Core().Enabled(zapcore.DebugLevel) || !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected info level")
	}
}

func TestNewNop(t *testing.T) {
	if NewNop().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("nop logger should be disabled")
	}
}
