package logging

import (
	"context"
	"log/slog"
)

type (
	loggerKey struct{}
	idsKey    struct{}
)

// IDs correlate the log lines of one command run: one trace per command,
// one span per operation and one request id per HTTP call.
type IDs struct {
	Trace   string
	Span    string
	Parent  string
	Request string
}

// WithLogger returns ctx carrying logger. A nil logger leaves ctx as is.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger on ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, _ := ctx.Value(loggerKey{}).(*slog.Logger); logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// IDsFrom returns the identifiers recorded on ctx. Missing ones are empty.
func IDsFrom(ctx context.Context) IDs {
	if ctx == nil {
		return IDs{}
	}
	ids, _ := ctx.Value(idsKey{}).(IDs)
	return ids
}

func withIDs(ctx context.Context, ids IDs) context.Context {
	return context.WithValue(ctx, idsKey{}, ids)
}

// WithRequestID records the identifier sent to the API as X-Request-ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil || requestID == "" {
		return ctx
	}
	ids := IDsFrom(ctx)
	ids.Request = requestID
	return withIDs(ctx, ids)
}
