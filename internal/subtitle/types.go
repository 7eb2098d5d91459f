// Package subtitle turns word timings into subtitle cues and writes them as
// SRT or WebVTT.
package subtitle

import (
	"strings"
	"time"
)

// Subtitle represents a single subtitle entry with timing and text.
type Subtitle struct {
	Index     int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// Duration returns the duration of this subtitle.
func (s Subtitle) Duration() time.Duration {
	return s.EndTime - s.StartTime
}

// IsEmpty returns true if the subtitle has no text.
func (s Subtitle) IsEmpty() bool {
	return strings.TrimSpace(s.Text) == ""
}

// List is a slice of subtitles with utility methods.
type List []Subtitle

// TotalDuration returns the end time of the last subtitle.
func (l List) TotalDuration() time.Duration {
	if len(l) == 0 {
		return 0
	}
	return l[len(l)-1].EndTime
}

// GetText returns all subtitle text concatenated with spaces.
func (l List) GetText() string {
	var text strings.Builder
	for _, sub := range l {
		if sub.Text != "" {
			text.WriteString(sub.Text)
			text.WriteString(" ")
		}
	}
	return strings.TrimSpace(text.String())
}
