package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

type Logger = *slog.Logger

type Options struct {
	Level slog.Level
	// Sentry wraps the handler so error records are reported.
	Sentry bool
	Output io.Writer
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var h slog.Handler = tint.NewHandler(out, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.DateTime,
	})
	if opts.Sentry {
		h = NewSentryHandler(h)
	}
	return slog.New(h)
}
