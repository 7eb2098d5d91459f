package subtitle

import (
	"sort"
	"strings"
	"time"
	"unicode"
)

// Word is a timed word, in seconds.
type Word struct {
	Start float64
	End   float64
	Text  string
}

// GroupOptions bounds the cues FromWords builds.
type GroupOptions struct {
	MaxWords    int           // words per cue
	MaxDuration time.Duration // cue length
	MaxGap      time.Duration // silence that always starts a new cue
}

// DefaultGroupOptions returns limits suited to reading along.
func DefaultGroupOptions() GroupOptions {
	return GroupOptions{
		MaxWords:    7,
		MaxDuration: 4 * time.Second,
		MaxGap:      600 * time.Millisecond,
	}
}

// FromWords groups words, sorted by start, into numbered cues. A cue also
// ends after a word finishing a sentence. Words without text are dropped.
func FromWords(words []Word, opts GroupOptions) List {
	if opts.MaxWords <= 0 {
		opts.MaxWords = 1
	}
	sorted := make([]Word, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Text) != "" {
			sorted = append(sorted, w)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var (
		out   List
		cur   []Word
		start time.Duration
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		texts := make([]string, len(cur))
		for i, w := range cur {
			texts[i] = strings.TrimSpace(w.Text)
		}
		out = append(out, Subtitle{
			Index:     len(out) + 1,
			StartTime: start,
			EndTime:   SecondsToDuration(cur[len(cur)-1].End),
			Text:      strings.Join(texts, " "),
		})
		cur = cur[:0]
	}

	for _, w := range sorted {
		ws, we := SecondsToDuration(w.Start), SecondsToDuration(w.End)
		if len(cur) > 0 {
			prevEnd := SecondsToDuration(cur[len(cur)-1].End)
			switch {
			case len(cur) >= opts.MaxWords,
				opts.MaxGap > 0 && ws-prevEnd > opts.MaxGap,
				opts.MaxDuration > 0 && we-start > opts.MaxDuration:
				flush()
			}
		}
		if len(cur) == 0 {
			start = ws
		}
		cur = append(cur, w)
		if endsSentence(w.Text) {
			flush()
		}
	}
	flush()
	return out
}

func endsSentence(text string) bool {
	text = strings.TrimRightFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '"' || r == '\'' || r == '»' || r == '”' || r == ')'
	})
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?") || strings.HasSuffix(text, "…")
}
