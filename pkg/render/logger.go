package render

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/taigrr/tinyrender/pkg/models"
)

// nopHandler silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr stores the active logger. Accessed atomically for thread safety.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// slogger returns the current package logger.
func slogger() *slog.Logger { return loggerPtr.Load() }

// SetLogger configures the logger for the render package and the mesh
// loaders in pkg/models. By default nothing is logged.
//
// Pass nil to disable logging.
//
// Log levels used:
//   - [slog.LevelDebug]: load summaries, per-pass statistics, band layout
//   - [slog.LevelWarn]: configuration values that were adjusted
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	models.SetLogger(l)
}

// Logger returns the current logger used by the render package.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
