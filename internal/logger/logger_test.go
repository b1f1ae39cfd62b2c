package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveLogFilePathCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path, err := resolveLogFilePath(Options{Dir: dir, Filename: "ledger.log"})
	if err != nil {
		t.Fatalf("resolve log path failed: %v", err)
	}
	if path != filepath.Join(dir, "ledger.log") {
		t.Fatalf("unexpected log path: %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file should exist: %v", err)
	}
}

func TestNewDebugLoggerNotNil(t *testing.T) {
	if New("debug", Options{}) == nil {
		t.Fatalf("debug logger should not be nil")
	}
	if positiveOr(0, 7) != 7 || positiveOr(3, 7) != 3 {
		t.Fatalf("positiveOr mismatch")
	}
}
