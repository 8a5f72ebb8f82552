package logging

import (
	"context"
	"testing"
)

func TestStartSpanNestsUnderTrace(t *testing.T) {
	ctx, parent := StartSpan(context.Background(), "session.login")
	ids := IDsFrom(ctx)
	traceID, parentID := ids.Trace, ids.Span
	if traceID == "" || parentID == "" {
		t.Fatalf("expected trace and span ids, got %q %q", traceID, parentID)
	}

	child, span := StartSpan(ctx, "accounts.login")
	childIDs := IDsFrom(child)
	if childIDs.Trace != traceID {
		t.Fatal("child span must share the trace id")
	}
	if childIDs.Span == parentID || childIDs.Parent != parentID {
		t.Fatalf("unexpected child ids %+v", childIDs)
	}

	span.End(nil)
	parent.End(context.Canceled)

	var nilSpan *Span
	nilSpan.End(nil)
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG").String() != "DEBUG" {
		t.Fatal("expected debug")
	}
	if ParseLevel("bogus").String() != "WARN" {
		t.Fatal("expected warn fallback")
	}
}
