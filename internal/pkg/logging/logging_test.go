package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/myblog/core/internal/config"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Testing()
	cfg.Paths.Logs = dir
	cfg.Log.Level = "info"
	cfg.Log.ToFile = true

	log, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("hello from test")
	_ = log.Sync()

	data, err := os.ReadFile(filepath.Join(dir, cfg.Log.File))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Fatalf("log file = %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("DEBUG") != zapcore.DebugLevel {
		t.Fatal("DEBUG should parse")
	}
	if parseLevel("nonsense") != zapcore.InfoLevel {
		t.Fatal("unknown level should fall back to info")
	}
}
