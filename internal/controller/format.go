package controller

import (
	"fmt"
	"math"
	"time"

	"github.com/akyairhashvil/taskspill/internal/config"
)

// FormatElapsed renders a duration as a single rounded unit, e.g.
// "45 seconds", "25 minutes", "2 hours". Zero renders as the not-started label.
func FormatElapsed(d time.Duration) string {
	seconds := math.Floor(d.Seconds())
	if seconds <= 0 {
		return config.NotStartedLabel
	}
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	months := days / 30
	years := days / 365

	switch {
	case seconds < 60:
		return plural(int(seconds), "second")
	case minutes < 60:
		return plural(int(math.Round(minutes)), "minute")
	case hours < 24:
		return plural(int(math.Round(hours)), "hour")
	case days < 30:
		return plural(int(math.Round(days)), "day")
	case months < 12:
		return plural(int(math.Round(months)), "month")
	default:
		return plural(int(math.Round(years)), "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatCountdown renders remaining time as MM:SS.
func FormatCountdown(remaining time.Duration) string {
	if remaining <= 0 {
		return config.CountdownFallback
	}
	total := int(remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
