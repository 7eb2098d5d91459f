package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranscodeArgs(t *testing.T) {
	args := strings.Join(transcodeArgs("in.m4a", "out.wav"), " ")
	for _, want := range []string{"-i in.m4a", "-acodec pcm_s16le", "-ar 44100", "-f wav", "-y out.wav"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
}

func TestTranscodeCleansUpOnFailure(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	s := NewFFmpegServiceWithPath(filepath.Join(tmp, "no-such-ffmpeg"))
	if _, err := s.TranscodeToWAV(context.Background(), "book.m4a", []byte("not audio")); err == nil {
		t.Fatal("TranscodeToWAV succeeded without ffmpeg")
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("scratch files left behind: %v", entries)
	}
}

func TestTail(t *testing.T) {
	if got := tail("a\nb\nc\n", 2); got != "b\nc" {
		t.Errorf("tail = %q", got)
	}
}
