// Package logging builds the service logger: the log/slog API on top of a
// zerolog writer.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects level and output format.
type Config struct {
	Level     string // debug, info, warn, error
	Format    string // json or text
	Component string
}

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxRunIDKey     ctxKey = "run_id"
)

// WithRequestID stores the HTTP request id for log lines written with ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxRequestIDKey, id)
}

// WithRunID stores the search run id for log lines written with ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxRunIDKey, id)
}

// ParseLevel maps a config level onto zerolog, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Build creates the zerolog logger writing to out (stdout when nil).
func Build(cfg Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFieldName = "time"
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "msg"

	if cfg.Format == "text" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp()
	if cfg.Component != "" {
		ctx = ctx.Str("component", cfg.Component)
	}
	return ctx.Logger()
}

// New creates a slog logger backed by zerolog.
func New(cfg Config, out io.Writer) *slog.Logger {
	zl := Build(cfg, out)
	return NewSlog(&zl)
}

// NewSlog wraps an existing zerolog logger.
func NewSlog(zl *zerolog.Logger) *slog.Logger {
	return slog.New(&zlHandler{zl: zl})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	zl := zerolog.Nop()
	return NewSlog(&zl)
}
