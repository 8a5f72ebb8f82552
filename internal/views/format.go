package views

import (
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatViews abbreviates a view count: 999, 1.0K, 1.5M.
func FormatViews(views int) string {
	switch {
	case views <= 0:
		return "0"
	case views >= 1_000_000:
		return strconv.FormatFloat(float64(views)/1_000_000, 'f', 1, 64) + "M"
	case views >= 1_000:
		return strconv.FormatFloat(float64(views)/1_000, 'f', 1, 64) + "K"
	default:
		return strconv.Itoa(views)
	}
}

// FormatDuration renders seconds as m:ss with unpadded minutes.
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds))
	secs := total % 60
	out := strconv.FormatInt(total/60, 10) + ":"
	if secs < 10 {
		out += "0"
	}
	return out + strconv.FormatInt(secs, 10)
}

// IsEdited reports whether content changed after it was created.
func IsEdited(createdAt, updatedAt time.Time) bool {
	return !updatedAt.IsZero() && !createdAt.Equal(updatedAt)
}

// FormatAge renders t relative to now, e.g. "3 days ago".
func FormatAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
