package logger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/getsentry/sentry-go"
)

// tagKeys are record attributes copied to Sentry event tags.
var tagKeys = map[string]bool{
	"chat_id": true,
	"user_id": true,
	"command": true,
}

// SentryHandler forwards records to the wrapped handler and reports Error
// records carrying an "error" attribute to Sentry.
type SentryHandler struct {
	handler slog.Handler
	attrs   []slog.Attr
	capture func(err error, tags map[string]string)
}

func NewSentryHandler(handler slog.Handler) *SentryHandler {
	return &SentryHandler{handler: handler, capture: captureException}
}

func captureException(err error, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

func (h *SentryHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *SentryHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		var reported error
		tags := map[string]string{"message": r.Message}
		collect := func(a slog.Attr) bool {
			if a.Key == "error" {
				if err, ok := a.Value.Any().(error); ok {
					reported = err
				}
			} else if tagKeys[a.Key] {
				tags[a.Key] = fmt.Sprint(a.Value.Any())
			}
			return true
		}
		for _, a := range h.attrs {
			collect(a)
		}
		r.Attrs(collect)
		if reported != nil {
			h.capture(reported, tags)
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *SentryHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SentryHandler{
		handler: h.handler.WithAttrs(attrs),
		attrs:   append(append([]slog.Attr(nil), h.attrs...), attrs...),
		capture: h.capture,
	}
}

func (h *SentryHandler) WithGroup(name string) slog.Handler {
	return &SentryHandler{handler: h.handler.WithGroup(name), attrs: h.attrs, capture: h.capture}
}
