package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/envelope/internal/model"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("test message")

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		verbose    bool
		configured string
		want       log.Level
	}{
		{false, "info", log.InfoLevel},
		{false, "warn", log.WarnLevel},
		{false, "error", log.ErrorLevel},
		{false, "debug", log.DebugLevel},
		{false, "loud", log.InfoLevel},
		{false, "", log.InfoLevel},
		{true, "error", log.DebugLevel},
	}

	for _, tt := range tests {
		if got := resolveLevel(tt.verbose, tt.configured); got != tt.want {
			t.Errorf("resolveLevel(%v, %q) = %v, want %v", tt.verbose, tt.configured, got, tt.want)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	time.Sleep(10 * time.Millisecond)
	prog.done("test completed")

	if !bytes.Contains(buf.Bytes(), []byte("test completed")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)

	if loggerFromContext(ctx) != custom {
		t.Error("loggerFromContext should return the custom logger")
	}
}

func TestStateFromContext(t *testing.T) {
	s := stateFromContext(context.Background())
	if s.config != model.DefaultAppConfig() {
		t.Errorf("expected default config, got %+v", s.config)
	}
	if s.path != "" {
		t.Errorf("expected empty path, got %q", s.path)
	}

	cfg := model.DefaultAppConfig()
	cfg.ServerPort = 8080
	s = stateFromContext(withConfig(context.Background(), cfg, "/tmp/x/config.json"))
	if s.config.ServerPort != 8080 || s.path != "/tmp/x/config.json" {
		t.Errorf("unexpected state %+v", s)
	}
}
