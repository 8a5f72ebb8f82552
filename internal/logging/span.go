package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Span times one logical operation such as "videos.list" or a whole
// command.
type Span struct {
	logger *slog.Logger
	start  time.Time
}

// StartSpan opens a span below the one ctx carries. The outermost span
// also starts the trace.
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	if ctx == nil {
		ctx = context.Background()
	}

	parent := IDsFrom(ctx)
	ids := IDs{Trace: parent.Trace, Span: uuid.NewString(), Parent: parent.Span}

	attrs := []any{slog.String("span", name), slog.String("span_id", ids.Span)}
	if ids.Trace == "" {
		ids.Trace = uuid.NewString()
		attrs = append(attrs, slog.String("trace_id", ids.Trace))
	}
	if ids.Parent != "" {
		attrs = append(attrs, slog.String("parent_span_id", ids.Parent))
	}

	logger := FromContext(ctx).With(attrs...)
	ctx = withIDs(WithLogger(ctx, logger), ids)
	return ctx, &Span{logger: logger, start: time.Now()}
}

// End logs the outcome. Failures go out at warn: for a client an API error
// is an expected result.
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	took := slog.Duration("duration", time.Since(s.start))
	if err != nil {
		s.logger.Warn("span failed", took, slog.Any("error", err))
		return
	}
	s.logger.Debug("span done", took)
}
