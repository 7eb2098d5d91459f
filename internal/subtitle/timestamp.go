package subtitle

import (
	"fmt"
	"time"
)

// FormatTimestamp converts a time.Duration to SRT timestamp format.
// Output format: 00:00:00,000
func FormatTimestamp(d time.Duration) string {
	return formatTimestamp(d, ',')
}

// FormatTimestampDot converts a time.Duration to WebVTT timestamp format.
// Output format: 00:00:00.000
func FormatTimestampDot(d time.Duration) string {
	return formatTimestamp(d, '.')
}

func formatTimestamp(d time.Duration, sep byte) string {
	if d < 0 {
		d = 0
	}
	// round to the millisecond instead of truncating 1.9999s to 1.999
	d = d.Round(time.Millisecond)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

// SecondsToDuration converts seconds as float64 to time.Duration.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
