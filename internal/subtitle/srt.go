package subtitle

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Format is an output subtitle format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// ParseFormat accepts "srt", "vtt" or "webvtt", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "srt":
		return FormatSRT, nil
	case "vtt", "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("unknown subtitle format %q (want srt or vtt)", s)
	}
}

// formatSRT formats a list of subtitles to SRT format.
func formatSRT(subs List) string {
	var builder strings.Builder
	for i, sub := range subs {
		// Index
		builder.WriteString(strconv.Itoa(sub.Index))
		builder.WriteString("\n")

		// Timestamps
		builder.WriteString(FormatTimestamp(sub.StartTime))
		builder.WriteString(" --> ")
		builder.WriteString(FormatTimestamp(sub.EndTime))
		builder.WriteString("\n")

		// Text
		builder.WriteString(sub.Text)
		builder.WriteString("\n")

		// Blank line between entries
		if i < len(subs)-1 {
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// formatVTT formats a list of subtitles as a WebVTT file. Cue identifiers
// are the subtitle indexes.
func formatVTT(subs List) string {
	var builder strings.Builder
	builder.WriteString("WEBVTT\n")
	for _, sub := range subs {
		builder.WriteString("\n")
		builder.WriteString(strconv.Itoa(sub.Index))
		builder.WriteString("\n")
		builder.WriteString(FormatTimestampDot(sub.StartTime))
		builder.WriteString(" --> ")
		builder.WriteString(FormatTimestampDot(sub.EndTime))
		builder.WriteString("\n")
		// a blank line would end the cue early
		builder.WriteString(strings.ReplaceAll(sub.Text, "\n\n", "\n"))
		builder.WriteString("\n")
	}
	return builder.String()
}

// Write writes subs to w in the given format.
func Write(w io.Writer, subs List, format Format) error {
	var content string
	switch format {
	case FormatVTT:
		content = formatVTT(subs)
	default:
		content = formatSRT(subs)
	}
	_, err := io.WriteString(w, content)
	return err
}
