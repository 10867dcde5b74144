package boardlog

import (
	"io"
	"testing"

	"github.com/go-errors/errors"
	log "github.com/sirupsen/logrus"
)

func newLogger(hook log.Hook) *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.DebugLevel)
	logger.AddHook(hook)
	return logger
}

func TestBoardLog_Entries(t *testing.T) {
	boardLog := NewWithCapacity(3)
	logger := newLogger(boardLog)

	for _, msg := range []string{"one", "two", "three", "four"} {
		logger.WithField("system", "network").Info(msg)
	}

	entries := boardLog.Entries(0)
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	want := []string{"two", "three", "four"}
	for i, entry := range entries {
		if entry.Message != want[i] {
			t.Errorf("Expected message %q at %d, got %q", want[i], i, entry.Message)
		}
		if entry.System != "network" {
			t.Errorf("Expected system network, got %q", entry.System)
		}
		if entry.Level != "info" {
			t.Errorf("Expected level info, got %q", entry.Level)
		}
	}

	latest := boardLog.Entries(1)
	if len(latest) != 1 || latest[0].Message != "four" {
		t.Errorf("Expected only the latest entry, got %v", latest)
	}
}

func TestBoardLog_PartiallyFilled(t *testing.T) {
	boardLog := NewWithCapacity(10)
	logger := newLogger(boardLog)

	logger.Debug("first")
	logger.WithError(errors.New("boom")).Warn("second")

	entries := boardLog.Entries(5)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	if entries[0].Message != "first" || entries[1].Message != "second" {
		t.Errorf("Unexpected order %q, %q", entries[0].Message, entries[1].Message)
	}

	if entries[1].Fields[log.ErrorKey] != "boom" {
		t.Errorf("Expected error field boom, got %v", entries[1].Fields[log.ErrorKey])
	}
}
