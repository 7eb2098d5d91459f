package widgets

import (
	"context"
	"image"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"readalong-editor/internal/config"
	"readalong-editor/internal/logger"
	"readalong-editor/internal/regions"
	"readalong-editor/internal/waveform"
	appTheme "readalong-editor/ui/theme"
)

// WaveformView draws the loaded track and hosts the region elements laid
// over it. It is the regions.Viewport and regions.Overlay of the editor
// window; all methods must run on the fyne goroutine.
type WaveformView struct {
	widget.BaseWidget

	window   fyne.Window
	track    *waveform.Track
	peaks    []float64
	pxPerSec float64
	playhead float64
	active   *regions.Region

	wave     *canvas.Raster
	line     *canvas.Line
	content  *fyne.Container
	scroll   *container.Scroll
	elements map[*regions.Region]*RegionView

	cancelPeaks context.CancelFunc
	log         *logger.Logger
}

var (
	_ regions.Viewport = (*WaveformView)(nil)
	_ regions.Overlay  = (*WaveformView)(nil)
)

// NewWaveformView creates an empty view. Dialogs opened from region
// elements are shown on window.
func NewWaveformView(window fyne.Window, pxPerSec float64) *WaveformView {
	v := &WaveformView{
		window:   window,
		pxPerSec: pxPerSec,
		elements: make(map[*regions.Region]*RegionView),
		log:      logger.Named("waveform"),
	}

	v.wave = canvas.NewRaster(v.draw)
	v.line = canvas.NewLine(appTheme.ColorPlayhead)
	v.line.StrokeWidth = 1.5
	v.content = container.New(&overlayLayout{view: v}, v.line)
	v.scroll = container.NewHScroll(v.content)
	v.scroll.OnScrolled = func(fyne.Position) { v.wave.Refresh() }

	v.ExtendBaseWidget(v)
	return v
}

// Duration implements regions.Viewport.
func (v *WaveformView) Duration() float64 {
	if v.track == nil {
		return 0
	}
	return v.track.Duration()
}

// ScrollWidth implements regions.Viewport.
func (v *WaveformView) ScrollWidth() float64 {
	return v.Duration() * v.pxPerSec
}

// ClientWidth implements regions.Viewport.
func (v *WaveformView) ClientWidth() float64 {
	return float64(v.scroll.Size().Width)
}

// ScrollLeft implements regions.Viewport.
func (v *WaveformView) ScrollLeft() float64 {
	return float64(v.scroll.Offset.X)
}

// SetScrollLeft implements regions.Viewport.
func (v *WaveformView) SetScrollLeft(px float64) {
	limit := v.ScrollWidth() - v.ClientWidth()
	px = math.Max(0, math.Min(px, limit))
	v.scroll.Offset = fyne.NewPos(float32(px), v.scroll.Offset.Y)
	v.scroll.Refresh()
	v.wave.Refresh()
}

// Attach implements regions.Overlay.
func (v *WaveformView) Attach(r *regions.Region) regions.Element {
	e := newRegionView(v, r)
	v.elements[r] = e
	// keep the playhead on top
	v.content.Objects = append(v.content.Objects[:len(v.content.Objects)-1], e, v.line)
	v.content.Refresh()
	return e
}

func (v *WaveformView) detach(e *RegionView) {
	delete(v.elements, e.region)
	v.content.Remove(e)
}

// SetTrack shows t and starts folding its peaks in the background.
func (v *WaveformView) SetTrack(t *waveform.Track) {
	if v.cancelPeaks != nil {
		v.cancelPeaks()
	}
	v.track = t
	v.peaks = nil
	v.playhead = 0
	v.scroll.Offset = fyne.NewPos(0, 0)
	v.relayout()
	if t == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	v.cancelPeaks = cancel
	go func() {
		n := t.Frames() / config.PeakBucketFrames
		peaks, err := t.Peaks(ctx, n)
		if err != nil {
			if ctx.Err() == nil {
				v.log.Warn("peaks of %s: %v", t.Name, err)
			}
			return
		}
		fyne.Do(func() {
			if v.track != t {
				return
			}
			v.peaks = peaks
			v.wave.Refresh()
		})
	}()
}

// SetZoom changes px per second, keeping the time at the center of the
// visible area in place.
func (v *WaveformView) SetZoom(pxPerSec float64) {
	if pxPerSec <= 0 || pxPerSec == v.pxPerSec {
		return
	}
	half := v.ClientWidth() / 2
	center := (v.ScrollLeft() + half) / v.pxPerSec
	v.pxPerSec = pxPerSec
	v.relayout()
	v.SetScrollLeft(center*pxPerSec - half)
}

// SetPlayhead moves the playback cursor to t seconds.
func (v *WaveformView) SetPlayhead(t float64) {
	v.playhead = t
	v.placePlayhead()
	v.line.Refresh()
}

// SetActive highlights the region being played, or none for nil.
func (v *WaveformView) SetActive(r *regions.Region) {
	if v.active == r {
		return
	}
	prev := v.active
	v.active = r
	for _, x := range []*regions.Region{prev, r} {
		if e, ok := v.elements[x]; ok {
			e.Refresh()
		}
	}
}

func (v *WaveformView) relayout() {
	v.content.Refresh()
	v.scroll.Refresh()
	v.wave.Refresh()
}

func (v *WaveformView) placePlayhead() {
	x := float32(v.playhead * v.pxPerSec)
	h := float32(config.WaveformHeight)
	v.line.Position1 = fyne.NewPos(x, 0)
	v.line.Position2 = fyne.NewPos(x, h)
}

// draw renders the part of the waveform under the visible area.
func (v *WaveformView) draw(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	size := v.scroll.Size()
	if len(v.peaks) == 0 || size.Width <= 0 {
		return img
	}

	scale := float64(w) / float64(size.Width)
	cols := visiblePeaks(v.peaks, v.Duration(), v.ScrollLeft()*scale, v.pxPerSec*scale, w)
	fill := color.NRGBA(appTheme.ColorWave)
	mid := float64(h) / 2
	for x, p := range cols {
		half := int(math.Round(p * mid))
		for y := int(mid) - half; y <= int(mid)+half; y++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return img
}

// visiblePeaks folds peaks spread over duration seconds into cols pixel
// columns starting at left px, at pxPerSec.
func visiblePeaks(peaks []float64, duration, left, pxPerSec float64, cols int) []float64 {
	out := make([]float64, cols)
	if len(peaks) == 0 || duration <= 0 || pxPerSec <= 0 {
		return out
	}
	perSec := float64(len(peaks)) / duration
	for x := range out {
		from := int((left + float64(x)) * perSec / pxPerSec)
		to := int(math.Ceil((left + float64(x+1)) * perSec / pxPerSec))
		if from >= len(peaks) {
			break
		}
		to = min(max(to, from+1), len(peaks))
		for _, p := range peaks[from:to] {
			out[x] = math.Max(out[x], p)
		}
	}
	return out
}

// CreateRenderer implements fyne.Widget
func (v *WaveformView) CreateRenderer() fyne.WidgetRenderer {
	bg := NewThemedRectangle(appTheme.ColorNameSurface)
	return widget.NewSimpleRenderer(container.NewStack(bg, v.wave, v.scroll))
}

// MinSize keeps room for the waveform and the horizontal scroll bar.
func (v *WaveformView) MinSize() fyne.Size {
	return fyne.NewSize(200, config.WaveformHeight+12)
}

// overlayLayout sizes the scrolled content to the whole track and places
// every region element from its region's bounds.
type overlayLayout struct {
	view *WaveformView
}

func (l *overlayLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		if e, ok := o.(*RegionView); ok {
			e.place()
		}
	}
	l.view.placePlayhead()
}

func (l *overlayLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(float32(l.view.ScrollWidth()), config.WaveformHeight)
}
