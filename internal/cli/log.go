// Package cli implements the envelope command-line interface.
//
// Commands evaluate a buildable envelope from flags or scenario files, sweep
// one input across a range, compare scenarios, export reports and drawings,
// import batches and surveyed lots, and serve the HTTP API. The CLI is built
// using cobra and logs through charmbracelet/log.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging; otherwise the
// level comes from the config file. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/envelope/internal/model"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// resolveLevel picks debug when verbose is set, otherwise the configured
// level, falling back to info when it does not parse.
func resolveLevel(verbose bool, configured string) log.Level {
	if verbose {
		return log.DebugLevel
	}
	level, err := log.ParseLevel(configured)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

// appState is the loaded configuration and where it came from.
type appState struct {
	config model.AppConfig
	path   string
}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, cfg model.AppConfig, path string) context.Context {
	return context.WithValue(ctx, configKey, appState{config: cfg, path: path})
}

// stateFromContext returns the loaded config, or the defaults when none is
// attached.
func stateFromContext(ctx context.Context) appState {
	if s, ok := ctx.Value(configKey).(appState); ok {
		return s
	}
	return appState{config: model.DefaultAppConfig()}
}
