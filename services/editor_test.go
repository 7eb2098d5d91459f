package services

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gopxl/beep"

	fetch "readalong-editor/internal/http"
	"readalong-editor/internal/readalong"
	"readalong-editor/internal/regions"
	"readalong-editor/internal/waveform"
	"readalong-editor/models"
)

// silentWAV is one second of 8 kHz mono silence.
func silentWAV() []byte {
	const rate, frames = 8000, 8000
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+frames*2))
	buf.WriteString("WAVEfmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(rate))
	binary.Write(&buf, binary.LittleEndian, uint32(rate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(frames*2))
	buf.Write(make([]byte, frames*2))
	return buf.Bytes()
}

const bookDoc = `<read-along audio="book.wav">
<p><w id="w1" time="0.100" dur="0.200">Hello</w> <w id="w2" time="0.300" dur="0.250">world</w></p>
</read-along>`

type fakeOutput struct {
	mu     sync.Mutex
	played int
}

func (o *fakeOutput) Init(rate beep.SampleRate) (beep.SampleRate, error) { return rate, nil }
func (o *fakeOutput) Clear()                                             {}

func (o *fakeOutput) Play(beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.played++
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestEditor(t *testing.T, f readalong.Fetcher) (*Editor, *fakeOutput) {
	t.Helper()
	cfg := models.DefaultConfig()
	if f == nil {
		f = fetch.NewFetcher(nil, 0)
	}
	out := &fakeOutput{}
	e := NewEditor(cfg, EditorOptions{
		Loader: NewLoader(cfg, f, nil),
		Player: waveform.NewPlayerWithOutput(out),
	})
	t.Cleanup(e.Close)
	return e, out
}

func openBook(t *testing.T, doc string) (*Editor, *fakeOutput, string) {
	t.Helper()
	dir := writeFiles(t, map[string]string{"book.html": doc, "book.wav": string(silentWAV())})
	e, out := newTestEditor(t, nil)
	<-e.OpenDocument(filepath.Join(dir, "book.html"))
	return e, out, dir
}

func TestOpenDocument(t *testing.T) {
	e, _, _ := openBook(t, bookDoc)

	if e.Session().Status != models.StatusReady {
		t.Fatalf("Status = %s (%v), want ready", e.Session().Status, e.Session().Error)
	}
	if e.Track() == nil || e.Session().AudioName != "book.wav" {
		t.Errorf("track not loaded: %v %q", e.Track(), e.Session().AudioName)
	}
	if e.Session().DocumentName != "book.html" {
		t.Errorf("DocumentName = %q", e.Session().DocumentName)
	}

	list := e.Regions().List()
	if len(list) != 2 {
		t.Fatalf("regions = %d, want 2", len(list))
	}
	if list[0].ID() != "w1" || list[0].Text() != "Hello" || list[0].Start() != 0.1 {
		t.Errorf("first region = %s", list[0])
	}
	if e.CanExport() {
		t.Error("saving enabled before any edit")
	}
}

func TestOpenDocumentSkipsUntimedWords(t *testing.T) {
	doc := `<read-along>
<w id="a" time="0.1" dur="0.2">one</w><w id="b" time="0.4">two</w><w id="c" time="0.5" dur="0">three</w><w id="d" time="-1" dur="1">four</w>
</read-along>`
	e, _, _ := openBook(t, doc)

	if _, ok := e.Regions().Get("b"); ok {
		t.Error("word without dur was imported")
	}
	if _, ok := e.Regions().Get("d"); ok {
		t.Error("word with a negative start was imported")
	}
	c, ok := e.Regions().Get("c")
	if !ok || c.Length() <= 0 {
		t.Errorf("zero-length word not widened: %v", c)
	}
	if e.Regions().Len() != 2 {
		t.Errorf("regions = %d, want 2", e.Regions().Len())
	}
}

func TestOpenWithoutReadAlong(t *testing.T) {
	e, _, _ := openBook(t, `<p>just text</p>`)
	if e.Regions().Len() != 0 || e.Document() != nil {
		t.Error("regions created for a document without read-along")
	}
	if e.Session().Status != models.StatusIdle {
		t.Errorf("Status = %s, want idle", e.Session().Status)
	}
}

func TestEditAndSave(t *testing.T) {
	e, _, dir := openBook(t, bookDoc)

	var statuses []models.SessionStatus
	e.On(EventSession, func(ev EditorEvent) { statuses = append(statuses, ev.Session.Status) })

	w1, _ := e.Regions().Get("w1")
	if err := w1.Update(regions.Patch{Start: regions.Float(0.15), End: regions.Float(0.35)}); err != nil {
		t.Fatal(err)
	}
	if !w1.BeginEdit() {
		t.Fatal("BeginEdit refused")
	}
	w1.CommitEdit("Hi")
	if !e.CanExport() {
		t.Fatal("saving disabled after an edit")
	}

	path, err := e.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "book.html") {
		t.Errorf("saved to %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`id="w1" time="0.150" dur="0.200">Hi<`, `id="w2" time="0.300" dur="0.250">world<`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("saved document missing %s:\n%s", want, data)
		}
	}
	if e.CanExport() || e.Session().Status != models.StatusReady {
		t.Errorf("after save: status=%s canExport=%v", e.Session().Status, e.CanExport())
	}
	if len(statuses) == 0 || statuses[0] != models.StatusDirty {
		t.Errorf("session events = %v, want dirty first", statuses)
	}
}

func TestSaveWithMissingSegment(t *testing.T) {
	e, _, dir := openBook(t, bookDoc)
	before, _ := os.ReadFile(filepath.Join(dir, "book.html"))

	w2, _ := e.Regions().Get("w2")
	w2.Remove()
	if !e.CanExport() {
		t.Fatal("removing a region did not mark the session dirty")
	}

	if _, err := e.Save(); !errors.Is(err, readalong.ErrMissingSegment) {
		t.Fatalf("Save err = %v, want ErrMissingSegment", err)
	}
	if !strings.Contains(e.Session().Error.Error(), "w2") {
		t.Errorf("error %q does not name w2", e.Session().Error)
	}
	if e.CanExport() {
		t.Error("saving still enabled after a missing segment")
	}
	after, _ := os.ReadFile(filepath.Join(dir, "book.html"))
	if !bytes.Equal(before, after) {
		t.Error("document written despite the failed export")
	}

	// the next edit re-enables saving
	w1, _ := e.Regions().Get("w1")
	w1.Update(regions.Patch{End: regions.Float(0.25)})
	if !e.CanExport() {
		t.Error("edit did not re-enable saving")
	}
}

func TestClickPlaysRegion(t *testing.T) {
	e, out, _ := openBook(t, bookDoc)
	w1, _ := e.Regions().Get("w1")
	w1.Click()
	if out.played != 1 || !e.Player().Playing() {
		t.Errorf("played = %d, playing = %v", out.played, e.Player().Playing())
	}
}

// gatedFetcher blocks fetches of one reference until their context ends.
type gatedFetcher struct {
	readalong.Fetcher
	block   string
	started chan struct{}
}

func (g *gatedFetcher) Fetch(ctx context.Context, base, ref string) (*fetch.Resource, error) {
	if strings.HasSuffix(ref, g.block) {
		close(g.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return g.Fetcher.Fetch(ctx, base, ref)
}

func TestNewLoadCancelsPrevious(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"slow.html": bookDoc,
		"fast.html": bookDoc,
		"book.wav":  string(silentWAV()),
	})
	f := &gatedFetcher{Fetcher: fetch.NewFetcher(nil, 0), block: "slow.html", started: make(chan struct{})}
	e, _ := newTestEditor(t, f)

	slow := e.OpenDocument(filepath.Join(dir, "slow.html"))
	<-f.started
	fast := e.OpenDocument(filepath.Join(dir, "fast.html"))
	<-slow
	<-fast

	if e.Session().DocumentName != "fast.html" {
		t.Errorf("DocumentName = %q, want fast.html", e.Session().DocumentName)
	}
	if e.Session().Status != models.StatusReady {
		t.Errorf("Status = %s, want ready", e.Session().Status)
	}
}

func TestOpenAudioKeepsRegions(t *testing.T) {
	e, _, dir := openBook(t, bookDoc)
	if err := os.WriteFile(filepath.Join(dir, "other.wav"), silentWAV(), 0644); err != nil {
		t.Fatal(err)
	}
	<-e.OpenAudio(filepath.Join(dir, "other.wav"))
	if e.Session().AudioName != "other.wav" || e.Regions().Len() != 2 {
		t.Errorf("audio=%q regions=%d", e.Session().AudioName, e.Regions().Len())
	}

	<-e.OpenAudio(filepath.Join(dir, "missing.wav"))
	if e.Session().Status != models.StatusReady || e.Session().Error != nil {
		t.Errorf("Status = %s (%v) after a missing file, want ready", e.Session().Status, e.Session().Error)
	}
	if e.Session().AudioName != "other.wav" || e.Regions().Len() != 2 {
		t.Errorf("failed load changed the session: audio=%q regions=%d", e.Session().AudioName, e.Regions().Len())
	}
}

func TestFailedAudioKeepsEditsSaveable(t *testing.T) {
	e, _, dir := openBook(t, bookDoc)
	w1, _ := e.Regions().Get("w1")
	w1.Update(regions.Patch{End: regions.Float(0.25)})
	if !e.CanExport() {
		t.Fatal("edit did not enable saving")
	}

	<-e.OpenAudio(filepath.Join(dir, "missing.wav"))
	if !e.CanExport() {
		t.Errorf("saving disabled after a failed audio load: status=%s", e.Session().Status)
	}
	if e.Session().Status != models.StatusDirty {
		t.Errorf("Status = %s, want dirty", e.Session().Status)
	}
}

func TestFailedDocumentLoadIsQuiet(t *testing.T) {
	e, _, dir := openBook(t, bookDoc)
	<-e.OpenDocument(filepath.Join(dir, "missing.html"))
	if e.Session().Status != models.StatusReady || e.Session().Error != nil {
		t.Errorf("Status = %s (%v), want ready", e.Session().Status, e.Session().Error)
	}
	if e.Document() == nil || e.Regions().Len() != 2 {
		t.Error("failed load dropped the open document")
	}
}

func TestBrokenLinkWithAudioClearsWords(t *testing.T) {
	e, _, dir := openBook(t, bookDoc)
	broken := `<read-along audio="book.wav" href="missing.html"></read-along>`
	if err := os.WriteFile(filepath.Join(dir, "broken.html"), []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	<-e.OpenDocument(filepath.Join(dir, "broken.html"))
	if e.Track() == nil {
		t.Fatal("audio of the broken document not applied")
	}
	if e.Regions().Len() != 0 || e.Document() != nil {
		t.Errorf("stale words kept: regions=%d doc=%v", e.Regions().Len(), e.Document() != nil)
	}
	if e.CanExport() || e.Session().Status != models.StatusIdle {
		t.Errorf("Status = %s canExport=%v, want idle and not saveable", e.Session().Status, e.CanExport())
	}
}

func TestBrokenLinkWithoutAudioKeepsDocument(t *testing.T) {
	e, _, dir := openBook(t, bookDoc)
	broken := `<read-along href="missing.html"></read-along>`
	if err := os.WriteFile(filepath.Join(dir, "broken.html"), []byte(broken), 0644); err != nil {
		t.Fatal(err)
	}

	<-e.OpenDocument(filepath.Join(dir, "broken.html"))
	if e.Regions().Len() != 2 || e.Session().DocumentName != "book.html" {
		t.Errorf("regions=%d doc=%q, want the previous document", e.Regions().Len(), e.Session().DocumentName)
	}
}

func TestZoom(t *testing.T) {
	e, _ := newTestEditor(t, nil)
	if e.Zoom() != 300 {
		t.Fatalf("Zoom = %v, want 300", e.Zoom())
	}
	if got := e.ZoomIn(); got != 375 {
		t.Errorf("ZoomIn = %v, want 375", got)
	}
	if got := e.ZoomOut(); got != 300 {
		t.Errorf("ZoomOut = %v, want 300", got)
	}
	if got := e.SetZoom(1e9); got != 5000 {
		t.Errorf("SetZoom clamps to %v, want 5000", got)
	}
}

func TestReconfigureRedirectsSaves(t *testing.T) {
	e, _, _ := openBook(t, bookDoc)

	cfg := models.DefaultConfig()
	cfg.OutputDirectory = t.TempDir()
	e.Reconfigure(cfg)
	if e.Config() != cfg {
		t.Fatal("config not switched")
	}

	w2, _ := e.Regions().Get("w2")
	if err := w2.Update(regions.Patch{End: regions.Float(0.6)}); err != nil {
		t.Fatal(err)
	}
	path, err := e.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(path) != cfg.OutputDirectory {
		t.Errorf("saved to %s, want a file in %s", path, cfg.OutputDirectory)
	}
}
