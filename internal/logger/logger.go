// Package logger prints run status lines to the console and mirrors them as
// structured zerolog events.
package logger

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// New writes status lines to console and structured events to events.
func New(console, events io.Writer, level zerolog.Level) *Logger {
	return &Logger{
		zlog:    zerolog.New(zerolog.ConsoleWriter{Out: events}).With().Timestamp().Logger().Level(level),
		console: console,
	}
}

func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop(), console: io.Discard}
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(name string, debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

type contextKey struct{}

// FromContext returns the logger stored by NewContext, or a no-op logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}

func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// Progress prints the per-file "Processing" line.
func (l *Logger) Progress(path string, index, total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pct := 0.0
	if total > 0 {
		pct = float64(index) / float64(total) * 100
	}
	fmt.Fprintf(l.console, "%s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprintf("Processing %s", path),
		color.New(color.Faint).Sprintf("%d/%d : %.1f%%", index, total, pct))

	l.zlog.Debug().
		Str("file", path).
		Int("index", index).
		Int("dir_total", total).
		Float64("percent", pct).
		Msg("processing")
}

// FileSucceeded, FileSkipped and FileFailed report the outcome for one source file.
func (l *Logger) FileSucceeded(src, dest string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "    %s %s\n", color.New(color.FgGreen).Sprint("✓"), dest)
	l.zlog.Info().Str("file", src).Str("dest", dest).Str("status", "succeeded").Msg("image colorized")
}

func (l *Logger) FileSkipped(src, dest string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "    %s %s %s\n",
		color.New(color.FgYellow).Sprint("↷"),
		dest,
		color.New(color.Faint).Sprint("already exists"))
	l.zlog.Info().Str("file", src).Str("dest", dest).Str("status", "skipped").Msg("output exists")
}

func (l *Logger) FileFailed(src string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "    %s %s: %v\n    %s\n",
		color.New(color.FgRed).Sprint("✗"),
		src,
		err,
		color.New(color.Faint).Sprint("Skipping file..."))
	l.zlog.Error().Err(err).Str("file", src).Str("status", "failed").Msg("image failed")
}

func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}
