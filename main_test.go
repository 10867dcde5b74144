package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/the-lightning-land/boardd/boardlog"
)

func TestApiPort(t *testing.T) {
	tests := []struct {
		listen string
		want   int
	}{
		{":9000", 9000},
		{"127.0.0.1:8080", 8080},
		{"", 0},
		{"localhost", 0},
		{":http", 0},
	}

	for _, tt := range tests {
		if got := apiPort(tt.listen); got != tt.want {
			t.Errorf("apiPort(%q) = %d, want %d", tt.listen, got, tt.want)
		}
	}
}

func TestCleanAndExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("No home directory: %v", err)
	}

	if got := cleanAndExpandPath("~/boardd"); got != filepath.Join(home, "boardd") {
		t.Errorf("Expected the home directory to be expanded, got %v", got)
	}

	if got := cleanAndExpandPath("/var/lib/../lib/boardd/"); got != "/var/lib/boardd" {
		t.Errorf("Expected a cleaned path, got %v", got)
	}

	if got := cleanAndExpandPath(""); got != "" {
		t.Errorf("Expected an empty path, got %v", got)
	}
}

func TestSubsystemLoggerUsesStandardLogger(t *testing.T) {
	std := log.StandardLogger()
	level := std.GetLevel()
	out := std.Out

	defer func() {
		std.SetLevel(level)
		std.SetOutput(out)
		std.ReplaceHooks(make(log.LevelHooks))
	}()

	boardLog := boardlog.New()

	log.SetOutput(io.Discard)
	log.SetLevel(log.DebugLevel)
	log.AddHook(boardLog)

	sub := subsystemLogger("network")
	sub.Infof("Connected to %v", "Home")
	sub.Debugf("Radio event %v", "WL_CONNECTED")

	entries := boardLog.Entries(10)
	if len(entries) != 2 {
		t.Fatalf("Expected 2 retained entries, got %d", len(entries))
	}

	if entries[0].System != "network" || entries[0].Level != "info" {
		t.Errorf("Expected an info entry from network, got %+v", entries[0])
	}

	if entries[1].System != "network" || entries[1].Level != "debug" || entries[1].Message != "Radio event WL_CONNECTED" {
		t.Errorf("Expected a debug radio event from network, got %+v", entries[1])
	}
}
