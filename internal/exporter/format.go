package exporter

import (
	"fmt"
	"strconv"
	"time"

	"bikeshare/pkg/contracts/domain"
)

// TimestampLayout is used for trip times in every export format.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatHMS renders a duration as "H hours, M minutes and S seconds".
func FormatHMS(h domain.HMS) string {
	return fmt.Sprintf("%d hours, %d minutes and %d seconds", h.Hours, h.Minutes, h.Seconds)
}

// formatFloat formats a float64 with the fewest digits that round-trip
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an integer value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// FormatSeconds renders a compute duration in seconds with microsecond precision.
func FormatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 6, 64)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(TimestampLayout)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatOptionalInt(i *int) string {
	if i == nil {
		return ""
	}
	return formatInt(*i)
}

func formatOptionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
