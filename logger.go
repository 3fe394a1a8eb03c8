package inkview

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards every record. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. It is the only value in the package
// that may be touched from more than one goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger used by inkview. By default inkview
// produces no log output. Pass nil to restore the silent default.
//
// Log levels used:
//   - [slog.LevelDebug]: gesture transitions, surface allocation, view changes
//   - [slog.LevelWarn]: ink engine or clamp policy failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// logLevel is the level shared by every logger made with NewTextLogger.
var logLevel slog.LevelVar

// SetLogLevel changes the level of loggers made with NewTextLogger. Unknown
// names fall back to info.
func SetLogLevel(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	logLevel.Set(lvl)
}

// NewTextLogger returns a text logger writing to w at the given level name
// ("debug", "info", "warn", "error"). Unknown names fall back to info. The
// level is shared with SetLogLevel, so a reloaded config can change it.
func NewTextLogger(w io.Writer, level string) *slog.Logger {
	SetLogLevel(level)
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &logLevel}))
}
