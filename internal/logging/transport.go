package logging

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-call identifier to the API.
const RequestIDHeader = "X-Request-ID"

// Transport decorates outgoing API requests with a request id and a
// structured completion log line.
type Transport struct {
	Base http.RoundTripper
}

// NewTransport wraps base, defaulting to http.DefaultTransport.
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	ctx := r.Context()

	requestID := IDsFrom(ctx).Request
	if requestID == "" {
		requestID = uuid.NewString()
	}

	reqLogger := FromContext(ctx).With(
		slog.String("request_id", requestID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	// RoundTrippers must not mutate the caller's request.
	out := r.Clone(WithRequestID(ctx, requestID))
	out.Header.Set(RequestIDHeader, requestID)

	resp, err := t.Base.RoundTrip(out)
	if err != nil {
		reqLogger.Warn("request failed",
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= http.StatusBadRequest {
		level = slog.LevelWarn
	}
	reqLogger.Log(ctx, level, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}
