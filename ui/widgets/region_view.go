package widgets

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"readalong-editor/internal/config"
	"readalong-editor/internal/regions"
	appTheme "readalong-editor/ui/theme"
)

// RegionView is the on-screen element of one region: a translucent box with
// resize handles, the word as its label and an optional remove button.
// Pointer input is translated into the region's gesture calls.
type RegionView struct {
	widget.BaseWidget

	view   *WaveformView
	region *regions.Region
	remove *IconButton

	hovered  bool
	onHandle bool
	target   regions.Target
	dragging bool
	stop     chan struct{} // closes the edge-scroll ticker
}

var _ regions.Element = (*RegionView)(nil)

func newRegionView(view *WaveformView, r *regions.Region) *RegionView {
	e := &RegionView{view: view, region: r}
	e.remove = NewIconButton(theme.CancelIcon(), r.Remove)
	e.remove.IconSize = 12
	e.remove.Padding = 2
	e.ExtendBaseWidget(e)
	return e
}

// Render implements regions.Element.
func (e *RegionView) Render(r *regions.Region) {
	e.place()
	e.Refresh()
}

// Detach implements regions.Element.
func (e *RegionView) Detach() {
	e.stopEdgeScroll()
	e.view.detach(e)
}

func (e *RegionView) place() {
	left, width := e.region.Bounds()
	e.Move(fyne.NewPos(float32(left), 0))
	e.Resize(fyne.NewSize(float32(max(width, 1)), config.WaveformHeight))
}

// pointerX converts an absolute position into an offset within the visible
// part of the waveform.
func (e *RegionView) pointerX(abs fyne.Position) float64 {
	origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(e.view.scroll)
	return float64(abs.X - origin.X)
}

// MouseDown picks the gesture target from where the press landed.
func (e *RegionView) MouseDown(ev *desktop.MouseEvent) {
	e.target = e.targetAt(ev.Position)
}

func (e *RegionView) targetAt(pos fyne.Position) regions.Target {
	switch {
	case pos.X <= config.HandleWidth:
		return regions.TargetStartHandle
	case pos.X >= e.Size().Width-config.HandleWidth:
		return regions.TargetEndHandle
	default:
		return regions.TargetBody
	}
}

func (e *RegionView) MouseUp(*desktop.MouseEvent) {}

// Dragged implements fyne.Draggable.
func (e *RegionView) Dragged(ev *fyne.DragEvent) {
	x := e.pointerX(ev.AbsolutePosition)
	if !e.dragging {
		// the first event arrives after the pointer already moved
		if !e.region.PointerDown(x-float64(ev.Dragged.DX), e.target) {
			return
		}
		e.dragging = true
	}
	e.region.PointerMove(x)
	if e.region.EdgeScrolling() {
		e.startEdgeScroll()
	}
}

// DragEnd implements fyne.Draggable.
func (e *RegionView) DragEnd() {
	e.stopEdgeScroll()
	if e.dragging {
		e.dragging = false
		e.region.PointerUp()
	}
}

func (e *RegionView) startEdgeScroll() {
	if e.stop != nil {
		return
	}
	stop := make(chan struct{})
	e.stop = stop
	go func() {
		ticker := time.NewTicker(config.EdgeScrollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fyne.Do(func() {
					if e.stop != stop {
						return
					}
					if !e.region.EdgeScrollStep() && !e.region.EdgeScrolling() {
						e.stopEdgeScroll()
					}
				})
			}
		}
	}()
}

func (e *RegionView) stopEdgeScroll() {
	if e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}

// Tapped implements fyne.Tappable.
func (e *RegionView) Tapped(*fyne.PointEvent) {
	e.region.Click()
}

// DoubleTapped opens the word editor when the region allows it.
func (e *RegionView) DoubleTapped(*fyne.PointEvent) {
	e.region.DoubleClick()
	if !e.region.BeginEdit() {
		return
	}

	entry := widget.NewEntry()
	entry.SetText(e.region.Text())
	items := []*widget.FormItem{widget.NewFormItem("Word", entry)}
	form := dialog.NewForm("Edit word", "Save", "Cancel", items, func(ok bool) {
		if ok {
			e.region.CommitEdit(entry.Text)
		} else {
			e.region.CancelEdit()
		}
	}, e.view.window)
	form.Show()
	e.view.window.Canvas().Focus(entry)
}

func (e *RegionView) MouseIn(*desktop.MouseEvent) {
	e.hovered = true
	e.Refresh()
}

func (e *RegionView) MouseMoved(ev *desktop.MouseEvent) {
	e.onHandle = e.targetAt(ev.Position) != regions.TargetBody
}

func (e *RegionView) MouseOut() {
	e.hovered = false
	e.Refresh()
}

// Cursor shows a resize cursor over the handles.
func (e *RegionView) Cursor() desktop.Cursor {
	if e.region.Resizable() && (e.onHandle || e.dragging && e.target != regions.TargetBody) {
		return desktop.HResizeCursor
	}
	return desktop.DefaultCursor
}

// CreateRenderer implements fyne.Widget
func (e *RegionView) CreateRenderer() fyne.WidgetRenderer {
	box := canvas.NewRectangle(appTheme.ColorRegion)
	box.StrokeColor = appTheme.ColorRegionBorder

	label := widget.NewLabel("")
	label.Truncation = fyne.TextTruncateEllipsis

	tooltip := canvas.NewText("", appTheme.ColorTextSecondary)
	tooltip.TextSize = 11

	r := &regionViewRenderer{
		box:     box,
		start:   canvas.NewRectangle(appTheme.ColorRegionBorder),
		end:     canvas.NewRectangle(appTheme.ColorRegionBorder),
		label:   label,
		tooltip: tooltip,
		widget:  e,
	}
	r.Refresh()
	return r
}

type regionViewRenderer struct {
	box        *canvas.Rectangle
	start, end *canvas.Rectangle
	label      *widget.Label
	tooltip    *canvas.Text
	widget     *RegionView
}

func (r *regionViewRenderer) Destroy() {}

func (r *regionViewRenderer) Layout(size fyne.Size) {
	r.box.Resize(size)

	handle := fyne.NewSize(fyne.Min(config.HandleWidth/2, size.Width/2), size.Height)
	r.start.Resize(handle)
	r.start.Move(fyne.NewPos(0, 0))
	r.end.Resize(handle)
	r.end.Move(fyne.NewPos(size.Width-handle.Width, 0))

	labelMin := r.label.MinSize()
	r.label.Resize(fyne.NewSize(size.Width, labelMin.Height))
	r.label.Move(fyne.NewPos(0, size.Height-labelMin.Height))

	r.tooltip.Move(fyne.NewPos(config.HandleWidth, 2))

	btn := r.widget.remove.MinSize()
	r.widget.remove.Resize(btn)
	r.widget.remove.Move(fyne.NewPos(size.Width-btn.Width-config.HandleWidth, 2))
}

func (r *regionViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(1, config.WaveformHeight)
}

func (r *regionViewRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.box, r.label}
	if r.widget.region.Resizable() {
		objs = append(objs, r.start, r.end)
	}
	if r.widget.hovered && r.widget.region.ShowTooltip() {
		objs = append(objs, r.tooltip)
	}
	if r.widget.region.RemoveButton() {
		objs = append(objs, r.widget.remove)
	}
	return objs
}

func (r *regionViewRenderer) Refresh() {
	reg := r.widget.region

	fill := color.Color(appTheme.ColorRegion)
	if c, ok := appTheme.ParseHex(reg.Color()); ok {
		fill = c
	}
	if r.widget.hovered || r.widget.dragging || r.widget.view.active == reg {
		fill = appTheme.ColorRegionActive
	}
	r.box.FillColor = fill
	r.box.StrokeWidth = 0
	if r.widget.view.active == reg {
		r.box.StrokeWidth = 1
	}

	r.label.SetText(reg.Text())
	r.tooltip.Text = reg.FormatTime()

	r.box.Refresh()
	r.start.Refresh()
	r.end.Refresh()
	r.tooltip.Refresh()
}
