// Package logging configures the process-wide slog logger.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/lmittmann/tint"
)

// Options selects the log level and outputs.
type Options struct {
	Debug bool
	// File also writes plain text logs under the XDG state directory.
	File bool
	// Console defaults to stderr.
	Console io.Writer
	// NoColor disables ANSI colors on the console.
	NoColor bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup installs the default logger and returns the closer of the log file,
// if one was opened.
func Setup(opts Options) (io.Closer, error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	handler := slog.Handler(tint.NewHandler(console, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    opts.NoColor,
	}))

	var closer io.Closer = nopCloser{}
	if opts.File {
		path, err := xdg.StateFile(filepath.Join("dockhud", "logs", fmt.Sprintf("dockhud_%s.log", time.Now().Format("2006-01-02"))))
		if err != nil {
			return nil, fmt.Errorf("resolve log path: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closer = f
		handler = fanout{handler, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})}
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}

// fanout sends every record to each handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}
