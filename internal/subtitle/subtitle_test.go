package subtitle

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		d        time.Duration
		srt, vtt string
	}{
		{0, "00:00:00,000", "00:00:00.000"},
		{1500 * time.Millisecond, "00:00:01,500", "00:00:01.500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03,045", "01:02:03.045"},
		{SecondsToDuration(1.9999), "00:00:02,000", "00:00:02.000"},
		{-time.Second, "00:00:00,000", "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := FormatTimestamp(tt.d); got != tt.srt {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.d, got, tt.srt)
		}
		if got := FormatTimestampDot(tt.d); got != tt.vtt {
			t.Errorf("FormatTimestampDot(%v) = %q, want %q", tt.d, got, tt.vtt)
		}
	}
}

func TestFromWords(t *testing.T) {
	words := []Word{
		{Start: 2.0, End: 2.4, Text: "again."},
		{Start: 0.0, End: 0.4, Text: "Hello"},
		{Start: 0.5, End: 0.9, Text: "there"},
		{Start: 1.0, End: 1.2, Text: "  "},
		{Start: 1.0, End: 1.4, Text: "hello"},
		{Start: 5.0, End: 5.5, Text: "Later"},
	}
	subs := FromWords(words, DefaultGroupOptions())

	want := []string{"Hello there hello", "again.", "Later"}
	if len(subs) != len(want) {
		t.Fatalf("got %d cues %q, want %d", len(subs), subs.GetText(), len(want))
	}
	for i, text := range want {
		if subs[i].Text != text || subs[i].Index != i+1 {
			t.Errorf("cue %d = %d %q, want %d %q", i, subs[i].Index, subs[i].Text, i+1, text)
		}
	}
	if subs[0].StartTime != 0 || subs[0].EndTime != 1400*time.Millisecond {
		t.Errorf("cue 0 spans %v-%v", subs[0].StartTime, subs[0].EndTime)
	}
	if subs.TotalDuration() != 5500*time.Millisecond {
		t.Errorf("TotalDuration = %v", subs.TotalDuration())
	}
}

func TestFromWordsMaxWords(t *testing.T) {
	var words []Word
	for i := 0; i < 5; i++ {
		words = append(words, Word{Start: float64(i) * 0.3, End: float64(i)*0.3 + 0.25, Text: "w"})
	}
	subs := FromWords(words, GroupOptions{MaxWords: 2})
	if len(subs) != 3 {
		t.Errorf("cues = %d, want 3", len(subs))
	}
}

func TestWriteFormats(t *testing.T) {
	subs := List{
		{Index: 1, StartTime: 0, EndTime: time.Second, Text: "one"},
		{Index: 2, StartTime: time.Second, EndTime: 2 * time.Second, Text: "two"},
	}

	var srt strings.Builder
	if err := Write(&srt, subs, FormatSRT); err != nil {
		t.Fatal(err)
	}
	wantSRT := "1\n00:00:00,000 --> 00:00:01,000\none\n\n2\n00:00:01,000 --> 00:00:02,000\ntwo\n"
	if srt.String() != wantSRT {
		t.Errorf("SRT = %q, want %q", srt.String(), wantSRT)
	}

	var vtt strings.Builder
	if err := Write(&vtt, subs, FormatVTT); err != nil {
		t.Fatal(err)
	}
	wantVTT := "WEBVTT\n\n1\n00:00:00.000 --> 00:00:01.000\none\n\n2\n00:00:01.000 --> 00:00:02.000\ntwo\n"
	if vtt.String() != wantVTT {
		t.Errorf("VTT = %q, want %q", vtt.String(), wantVTT)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"srt": FormatSRT, "VTT": FormatVTT, "webvtt": FormatVTT} {
		if got, err := ParseFormat(in); err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("ass"); err == nil {
		t.Error("ParseFormat(ass) succeeded")
	}
}
