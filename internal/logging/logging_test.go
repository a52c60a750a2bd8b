package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cqe.log")
	logger, err := New(Options{Level: "info", File: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hello", zap.String("project", "Alpha"))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"project":"Alpha"`) {
		t.Fatalf("expected structured field in log, got %s", b)
	}
}

func TestVerboseEnablesDebug(t *testing.T) {
	logger, err := New(Options{Level: "warn", Verbose: true, File: filepath.Join(t.TempDir(), "x.log")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected debug level when verbose")
	}
}

func TestInvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "chatty"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}
