package common

import (
	"context"
	"log/slog"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled reports false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// NopLogger returns a logger that discards all output.
// Engine components default to it until a logger is injected through their builder options.
//
// Returns:
//   - *slog.Logger: a logger backed by a handler that drops every record
func NopLogger() *slog.Logger {
	return slog.New(nopHandler{})
}

// LoggerOrNop returns l, or a NopLogger when l is nil.
//
// Parameters:
//   - l: the logger to use, may be nil
//
// Returns:
//   - *slog.Logger: l or a discarding logger
func LoggerOrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return NopLogger()
	}
	return l
}
