// Package logger provides structured logging setup using Go's slog package
// and a zerolog-backed Logger for service bootstrap and access logs.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"ecommerce-mesh/pkg/correlation"

	"github.com/rs/zerolog"
)

// Options configures the logger setup.
type Options struct {
	Level   string // debug, info, warn, error
	Console bool   // pretty print for dev (LOG_FORMAT=console)
}

// Setup configures the global slog logger with correlation ID support.
func Setup(opts Options) {
	slog.SetDefault(slog.New(newHandler(os.Stdout, opts)))
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: true,
	}

	var handler slog.Handler
	if opts.Console {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}

	// Wrap with correlation handler to auto-inject correlationId from context
	return NewCorrelationHandler(handler)
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger is a printf-style logger used by service bootstrap code and the access log.
type Logger struct {
	logger *zerolog.Logger
}

// New creates a Logger writing JSON lines to stdout.
func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a Logger writing JSON lines to w.
func NewWithWriter(level string, w io.Writer) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	skipFrameCount := 3
	l := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		CallerWithSkipFrameCount(zerolog.CallerSkipFrameCount + skipFrameCount).
		Logger()

	return &Logger{logger: &l}
}

func (l *Logger) Debug(message interface{}, args ...interface{}) {
	l.msg(l.logger.Debug(), message, args...)
}

// DebugCtx is Debug with the correlation ID of ctx attached.
func (l *Logger) DebugCtx(ctx context.Context, message interface{}, args ...interface{}) {
	l.msg(withCorrelation(ctx, l.logger.Debug()), message, args...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.msg(l.logger.Info(), message, args...)
}

// InfoCtx is Info with the correlation ID of ctx attached.
func (l *Logger) InfoCtx(ctx context.Context, message string, args ...interface{}) {
	l.msg(withCorrelation(ctx, l.logger.Info()), message, args...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.msg(l.logger.Warn(), message, args...)
}

func (l *Logger) Error(message interface{}, args ...interface{}) {
	l.msg(l.logger.Error(), message, args...)
}

// ErrorCtx is Error with the correlation ID of ctx attached.
func (l *Logger) ErrorCtx(ctx context.Context, message interface{}, args ...interface{}) {
	l.msg(withCorrelation(ctx, l.logger.Error()), message, args...)
}

func (l *Logger) Fatal(message interface{}, args ...interface{}) {
	l.msg(l.logger.Error(), message, args...)
	os.Exit(1)
}

func (l *Logger) msg(e *zerolog.Event, message interface{}, args ...interface{}) {
	switch m := message.(type) {
	case error:
		e.Msg(m.Error())
	case string:
		if len(args) == 0 {
			e.Msg(m)
			return
		}
		e.Msgf(m, args...)
	default:
		e.Msg(fmt.Sprintf("%v", m))
	}
}

func withCorrelation(ctx context.Context, e *zerolog.Event) *zerolog.Event {
	if corrID := correlation.FromContext(ctx); corrID != "" {
		return e.Str(correlation.LogKey, corrID)
	}
	return e
}
