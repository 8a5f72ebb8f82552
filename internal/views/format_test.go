package views

import (
	"testing"
	"time"
)

func TestFormatViews(t *testing.T) {
	cases := map[int]string{
		-3:        "0",
		0:         "0",
		999:       "999",
		1000:      "1.0K",
		1500:      "1.5K",
		1_500_000: "1.5M",
		2_000_000: "2.0M",
	}
	for in, want := range cases {
		if got := FormatViews(in); got != want {
			t.Fatalf("FormatViews(%d) = %q want %q", in, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{65, "1:05"},
		{5, "0:05"},
		{600, "10:00"},
		{59.9, "0:59"},
		{3725.2, "62:05"},
		{-1, "0:00"},
	}
	for _, tc := range cases {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Fatalf("FormatDuration(%v) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsEdited(t *testing.T) {
	created := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	if IsEdited(created, created) {
		t.Fatal("identical timestamps are not an edit")
	}
	if !IsEdited(created, created.Add(time.Second)) {
		t.Fatal("expected edit")
	}
	if IsEdited(created, time.Time{}) {
		t.Fatal("missing updatedAt is not an edit")
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)
	if got := FormatAge(now.Add(-72*time.Hour), now); got != "3 days ago" {
		t.Fatalf("unexpected age %q", got)
	}
	if FormatAge(time.Time{}, now) != "" {
		t.Fatal("zero time renders empty")
	}
}
