package services

import (
	"context"
	"errors"
	"math"
	"sync"

	"readalong-editor/internal/config"
	"readalong-editor/internal/logger"
	"readalong-editor/internal/notify"
	"readalong-editor/internal/readalong"
	"readalong-editor/internal/regions"
	"readalong-editor/internal/waveform"
	"readalong-editor/models"
)

// Topics published by the editor.
const (
	EventSession = "session" // status, names or export gate changed
	EventTrack   = "track"   // a new track was loaded
	EventZoom    = "zoom"    // px per second changed
)

// EditorEvent is the payload of editor notifications.
type EditorEvent struct {
	Session *models.Session
	Track   *waveform.Track
	Zoom    float64
}

// Dispatcher runs fn on the goroutine that owns the editor state.
type Dispatcher func(fn func())

// EditorOptions wires an editor's collaborators. Nil fields get defaults.
type EditorOptions struct {
	Loader   *Loader
	Exporter *Exporter
	Player   *waveform.Player
	Dispatch Dispatcher
}

// Editor is the application context: it owns the loaded document, the
// regions laid over the track and the session state. All methods except
// the Open calls must run on the dispatch goroutine.
type Editor struct {
	cfg      *models.Config
	loader   *Loader
	exporter *Exporter
	player   *waveform.Player
	dispatch Dispatcher

	plugin   *regions.Plugin
	viewport *regions.FixedViewport
	hub      *notify.Hub[EditorEvent]
	session  *models.Session
	doc      *readalong.Document
	track    *waveform.Track
	zoom     float64
	dirty    bool // edits since the last load or save
	applying bool

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	ctx    context.Context
	stop   context.CancelFunc

	log *logger.Logger
}

// RegionOptions maps the settings onto collection defaults.
func RegionOptions(cfg *models.Config) regions.Options {
	return regions.Options{
		ContentEditable:      cfg.ContentEditable,
		RemoveButton:         cfg.RemoveButton,
		MinLength:            cfg.RegionMinLength,
		EdgeScrollProportion: cfg.EdgeScrollProportion,
		ScrollSpeed:          cfg.ScrollSpeed,
		SnapToGridInterval:   cfg.SnapToGridInterval,
		SnapToGridOffset:     cfg.SnapToGridOffset,
		MaxRegions:           cfg.MaxRegions,
	}
}

func NewEditor(cfg *models.Config, opts EditorOptions) *Editor {
	if opts.Loader == nil {
		opts.Loader = NewDefaultLoader(cfg)
	}
	if opts.Exporter == nil {
		opts.Exporter = NewExporter(cfg.OutputDirectory)
	}
	if opts.Player == nil {
		opts.Player = waveform.NewPlayer()
	}
	if opts.Dispatch == nil {
		opts.Dispatch = func(fn func()) { fn() }
	}

	ctx, stop := context.WithCancel(context.Background())
	e := &Editor{
		cfg:      cfg,
		loader:   opts.Loader,
		exporter: opts.Exporter,
		player:   opts.Player,
		dispatch: opts.Dispatch,
		viewport: &regions.FixedViewport{},
		hub:      notify.NewHub[EditorEvent](),
		session:  models.NewSession(),
		zoom:     cfg.MinPxPerSec,
		ctx:      ctx,
		stop:     stop,
		log:      logger.Named("editor"),
	}

	ropts := RegionOptions(cfg)
	ropts.Player = e.player
	e.plugin = regions.New(ropts, e.viewport, nil)
	e.plugin.On(regions.EventRegionUpdated, func(regions.Event) { e.edited() })
	e.plugin.On(regions.EventRegionRemoved, func(regions.Event) { e.edited() })
	e.plugin.On(regions.EventRegionClick, func(ev regions.Event) { ev.Region.Play() })
	return e
}

// Regions returns the region collection.
func (e *Editor) Regions() *regions.Plugin { return e.plugin }

// Session returns the session state.
func (e *Editor) Session() *models.Session { return e.session }

// Document returns the loaded document, or nil.
func (e *Editor) Document() *readalong.Document { return e.doc }

// Track returns the loaded track, or nil.
func (e *Editor) Track() *waveform.Track { return e.track }

// Player returns the audio player.
func (e *Editor) Player() *waveform.Player { return e.player }

// Config returns the settings in effect.
func (e *Editor) Config() *models.Config { return e.cfg }

// On subscribes to an editor topic.
func (e *Editor) On(topic string, fn notify.Handler[EditorEvent]) func() {
	return e.hub.On(topic, fn)
}

// CanExport reports whether saving is allowed.
func (e *Editor) CanExport() bool {
	return e.doc != nil && e.session.CanExport()
}

func (e *Editor) edited() {
	if e.applying || e.doc == nil {
		return
	}
	e.dirty = true
	if e.session.CanExport() {
		return
	}
	e.session.MarkDirty()
	e.publishSession()
}

func (e *Editor) publishSession() {
	e.hub.Emit(EventSession, EditorEvent{Session: e.session})
}

// begin cancels any load in flight and starts a new generation.
func (e *Editor) begin() (context.Context, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(e.ctx)
	e.cancel = cancel
	e.gen++
	return ctx, e.gen
}

// current reports whether gen is still the latest load.
func (e *Editor) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.gen
}

func (e *Editor) finish(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen == e.gen && e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// OpenDocument loads a read-along document in the background. It returns a
// channel closed once the result has been applied or dropped because a
// newer load superseded it.
func (e *Editor) OpenDocument(ref string) <-chan struct{} {
	ctx, gen := e.begin()
	e.session.SetStatus(models.StatusLoading)
	e.publishSession()

	loader := e.loader
	done := make(chan struct{})
	go func() {
		loaded, err := loader.LoadDocument(ctx, ref)
		e.dispatch(func() {
			defer close(done)
			defer e.finish(gen)
			if !e.current(gen) {
				e.log.Debug("dropping superseded load of %s", ref)
				return
			}
			e.applyDocument(ref, loaded, err)
		})
	}()
	return done
}

// OpenAudio loads an audio file in the background, replacing the track but
// keeping the regions.
func (e *Editor) OpenAudio(ref string) <-chan struct{} {
	ctx, gen := e.begin()
	e.session.SetStatus(models.StatusLoading)
	e.publishSession()

	loader := e.loader
	done := make(chan struct{})
	go func() {
		track, err := loader.LoadAudio(ctx, "", ref)
		e.dispatch(func() {
			defer close(done)
			defer e.finish(gen)
			if !e.current(gen) {
				e.log.Debug("dropping superseded load of %s", ref)
				return
			}
			if errors.Is(err, context.Canceled) {
				return
			}
			if err != nil {
				// a failed fetch or decode aborts quietly
				e.log.Warn("audio %s not loaded: %v", ref, err)
				e.restoreStatus()
				return
			}
			e.setTrack(track)
			e.session.AudioName = track.Name
			e.restoreStatus()
		})
	}()
	return done
}

// restoreStatus leaves the loading state for whatever the document and
// its edits call for.
func (e *Editor) restoreStatus() {
	switch {
	case e.doc == nil:
		e.session.SetStatus(models.StatusIdle)
	case e.dirty:
		e.session.SetStatus(models.StatusDirty)
	default:
		e.session.SetStatus(models.StatusReady)
	}
	e.publishSession()
}

func (e *Editor) applyDocument(ref string, loaded *Loaded, err error) {
	if errors.Is(err, readalong.ErrNoReadAlong) {
		// not a read-along document: nothing to align
		e.log.Debug("%s has no read-along element", ref)
		e.restoreStatus()
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		e.log.Warn("document %s not loaded: %v", ref, err)
		e.restoreStatus()
		return
	}

	if loaded.Track != nil {
		e.setTrack(loaded.Track)
		e.session.AudioName = loaded.Track.Name
	}
	if loaded.LinkErr != nil {
		if loaded.Track != nil {
			// the old words do not belong to the new audio
			e.dropDocument()
		}
		e.restoreStatus()
		return
	}
	e.doc = loaded.Document
	e.session.DocumentName = loaded.Document.Name
	e.dirty = false
	e.importWords(loaded.Words)
	e.session.SetStatus(models.StatusReady)
	e.publishSession()
}

// dropDocument forgets the current document and its regions.
func (e *Editor) dropDocument() {
	e.applying = true
	defer func() { e.applying = false }()

	e.plugin.Clear()
	e.doc = nil
	e.dirty = false
	e.session.DocumentName = ""
}

// importWords replaces the regions with one per timed word.
func (e *Editor) importWords(words []readalong.Word) {
	e.applying = true
	defer func() { e.applying = false }()

	e.plugin.Clear()
	added := 0
	for _, w := range words {
		if !w.Timed {
			e.log.Debug("word %s has no numeric time and dur, skipped", w.ID)
			continue
		}
		if w.Start < 0 {
			e.log.Warn("word %s starts before zero (%g), skipped", w.ID, w.Start)
			continue
		}
		end := w.End()
		if w.Dur <= 0 {
			e.log.Debug("word %s has duration %g, widened", w.ID, w.Dur)
			end = w.Start + math.Max(regions.MinimumSpan, e.cfg.RegionMinLength)
		}
		_, err := e.plugin.Add(regions.Params{
			ID:    w.ID,
			Start: w.Start,
			End:   end,
			Data:  regions.Data{Text: w.Text},
		})
		if err != nil {
			e.log.Warn("word %s not imported: %v", w.ID, err)
			continue
		}
		added++
	}
	e.log.Info("imported %d of %d words", added, len(words))
}

func (e *Editor) setTrack(t *waveform.Track) {
	e.track = t
	e.player.SetTrack(t)
	e.viewport.Length = t.Duration()
	e.viewport.Width = t.Duration() * e.zoom
	e.viewport.Client = e.viewport.Width
	e.plugin.Refresh()
	e.hub.Emit(EventTrack, EditorEvent{Track: t})
}

// Export renders the document with the current region timings. A word
// without a region fails with readalong.ErrMissingSegment and disables
// saving until the next edit.
func (e *Editor) Export() (*readalong.Output, error) {
	if e.doc == nil {
		return nil, errors.New("no document loaded")
	}
	prev := e.session.Status
	e.session.SetStatus(models.StatusExporting)

	out, err := e.doc.Export(TimingsFromRegions(e.plugin.List()))
	if err != nil {
		e.session.ExportFailed(err, errors.Is(err, readalong.ErrMissingSegment))
		e.publishSession()
		return nil, err
	}
	e.session.Status = prev
	return out, nil
}

// Save exports the document and writes it to disk, returning the path.
func (e *Editor) Save() (string, error) {
	out, err := e.Export()
	if err != nil {
		return "", err
	}
	path, err := e.exporter.Write(e.doc, out)
	if err != nil {
		e.session.ExportFailed(err, false)
		e.publishSession()
		return "", err
	}
	e.dirty = false
	e.session.Saved()
	e.publishSession()
	return path, nil
}

// Zoom returns the current px per second.
func (e *Editor) Zoom() float64 { return e.zoom }

// ZoomIn multiplies the zoom by the configured factor.
func (e *Editor) ZoomIn() float64 { return e.SetZoom(e.zoom * e.cfg.ZoomFactor) }

// ZoomOut divides the zoom by the configured factor.
func (e *Editor) ZoomOut() float64 { return e.SetZoom(e.zoom / e.cfg.ZoomFactor) }

// SetZoom sets px per second, clamped to the supported range.
func (e *Editor) SetZoom(pxPerSec float64) float64 {
	pxPerSec = math.Max(config.MinPxPerSec, math.Min(config.MaxPxPerSec, pxPerSec))
	if pxPerSec == e.zoom {
		return e.zoom
	}
	e.zoom = pxPerSec
	e.viewport.Width = e.viewport.Length * pxPerSec
	e.viewport.Client = e.viewport.Width
	e.plugin.Refresh()
	e.hub.Emit(EventZoom, EditorEvent{Zoom: pxPerSec})
	return pxPerSec
}

// Reconfigure switches to cfg for later loads and saves. Regions already
// created keep the options they were made with.
func (e *Editor) Reconfigure(cfg *models.Config) {
	e.cfg = cfg
	e.loader = NewDefaultLoader(cfg)
	e.exporter = NewExporter(cfg.OutputDirectory)
}

// Close cancels any load, stops playback and tears the regions down.
func (e *Editor) Close() {
	e.stop()
	e.player.Stop()
	e.plugin.Destroy()
}
