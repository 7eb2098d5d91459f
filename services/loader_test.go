package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vincent-petithory/dataurl"

	fetch "readalong-editor/internal/http"
	"readalong-editor/internal/readalong"
	"readalong-editor/internal/waveform"
	"readalong-editor/models"
)

type fakeTranscoder struct {
	calls int
	names []string
}

func (f *fakeTranscoder) TranscodeToWAV(_ context.Context, name string, _ []byte) ([]byte, error) {
	f.calls++
	f.names = append(f.names, name)
	return silentWAV(), nil
}

func TestLoadAudioFallsBackToFFmpeg(t *testing.T) {
	dir := writeFiles(t, map[string]string{"book.m4a": "....ftypM4A not really"})
	tc := &fakeTranscoder{}
	l := NewLoader(models.DefaultConfig(), fetch.NewFetcher(nil, 0), tc)

	track, err := l.LoadAudio(context.Background(), "", filepath.Join(dir, "book.m4a"))
	if err != nil {
		t.Fatalf("LoadAudio: %v", err)
	}
	if tc.calls != 1 || tc.names[0] != "book.m4a" {
		t.Errorf("transcoder calls = %d %v", tc.calls, tc.names)
	}
	if track.Name != "book.m4a" || track.Duration() != 1 {
		t.Errorf("track = %q %.3fs", track.Name, track.Duration())
	}
}

func TestLoadAudioWithoutFFmpeg(t *testing.T) {
	dir := writeFiles(t, map[string]string{"book.m4a": "....ftypM4A not really"})
	l := NewLoader(models.DefaultConfig(), fetch.NewFetcher(nil, 0), nil)
	if _, err := l.LoadAudio(context.Background(), "", filepath.Join(dir, "book.m4a")); !errors.Is(err, waveform.ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadDocumentFollowsDataLink(t *testing.T) {
	body := `<read-along audio="book.wav"><w id="x" time="0.1" dur="0.1">x</w></read-along>`
	outer := `<read-along href="` + dataurl.New([]byte(body), "text/html").String() + `"></read-along>`
	dir := writeFiles(t, map[string]string{"outer.html": outer, "book.wav": string(silentWAV())})

	l := NewLoader(models.DefaultConfig(), fetch.NewFetcher(nil, 0), nil)
	loaded, err := l.LoadDocument(context.Background(), filepath.Join(dir, "outer.html"))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if loaded.LinkErr != nil || loaded.AudioErr != nil {
		t.Fatalf("link=%v audio=%v", loaded.LinkErr, loaded.AudioErr)
	}
	if len(loaded.Words) != 1 || loaded.Words[0].ID != "x" {
		t.Errorf("words = %+v", loaded.Words)
	}
	// the body names the audio; it resolves against the outer document
	if loaded.Track == nil {
		t.Error("audio from the linked body not loaded")
	}
	if loaded.Document.Link() != readalong.LinkData {
		t.Errorf("Link = %v, want LinkData", loaded.Document.Link())
	}
}

func TestLoadDocumentPartsFailIndependently(t *testing.T) {
	doc := `<read-along audio="missing.wav" href="missing.html"></read-along>`
	dir := writeFiles(t, map[string]string{"book.html": doc})

	l := NewLoader(models.DefaultConfig(), fetch.NewFetcher(nil, 0), nil)
	loaded, err := l.LoadDocument(context.Background(), filepath.Join(dir, "book.html"))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if loaded.AudioErr == nil || loaded.LinkErr == nil {
		t.Errorf("audio=%v link=%v, want both set", loaded.AudioErr, loaded.LinkErr)
	}
	if loaded.Track != nil || loaded.Words != nil {
		t.Error("partial results from failed parts")
	}
}

func TestLoadDocumentWithoutReadAlong(t *testing.T) {
	dir := writeFiles(t, map[string]string{"plain.html": "<p>hi</p>"})
	l := NewLoader(models.DefaultConfig(), fetch.NewFetcher(nil, 0), nil)
	if _, err := l.LoadDocument(context.Background(), filepath.Join(dir, "plain.html")); !errors.Is(err, readalong.ErrNoReadAlong) {
		t.Errorf("err = %v, want ErrNoReadAlong", err)
	}
}
