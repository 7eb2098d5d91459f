package regions

import (
	"fmt"
	"math"
	"strings"

	"readalong-editor/internal/notify"
)

// State is the interaction state of a region.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateResizing
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Edge selects which end of a region a resize moves.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeStart
	EdgeEnd
)

// Target is the part of a region a pointer went down on.
type Target int

const (
	TargetBody Target = iota
	TargetStartHandle
	TargetEndHandle
)

// Region is one time interval laid over the waveform.
type Region struct {
	id    string
	start float64
	end   float64
	data  Data

	loop            bool
	color           string
	drag            bool
	resize          bool
	contentEditable bool
	removeButton    bool
	showTooltip     bool
	minLength       float64
	maxLength       float64
	edgeScrollWidth float64
	formatTime      FormatTimeFunc

	plugin  *Plugin
	hub     *notify.Hub[Event]
	element Element

	// gesture
	state     State
	edge      Edge
	grabTime  float64
	leftHalf  float64
	rightHalf float64
	updated   bool
	lastMove  UpdateParams
	scrollDir int
	lastX     float64
	editOld   string

	firedIn bool
}

func newRegion(p *Plugin, params Params) *Region {
	maxLength := params.MaxLength
	if maxLength <= 0 {
		maxLength = math.Inf(1)
	}
	return &Region{
		id:              params.ID,
		start:           params.Start,
		end:             params.End,
		data:            params.Data.clone(),
		loop:            params.Loop,
		color:           params.Color,
		drag:            boolOr(params.Drag, true),
		resize:          boolOr(params.Resize, true),
		contentEditable: boolOr(params.ContentEditable, false),
		removeButton:    boolOr(params.RemoveButton, false),
		showTooltip:     boolOr(params.ShowTooltip, true),
		minLength:       math.Max(params.MinLength, MinimumSpan),
		maxLength:       maxLength,
		edgeScrollWidth: params.EdgeScrollWidth,
		formatTime:      params.FormatTime,
		plugin:          p,
		hub:             notify.NewHub[Event](),
	}
}

func (r *Region) ID() string                     { return r.id }
func (r *Region) Start() float64                 { return r.start }
func (r *Region) End() float64                   { return r.end }
func (r *Region) Length() float64                { return r.end - r.start }
func (r *Region) Text() string                   { return r.data.Text }
func (r *Region) Data() Data                     { return r.data.clone() }
func (r *Region) Loop() bool                     { return r.loop }
func (r *Region) Color() string                  { return r.color }
func (r *Region) Draggable() bool                { return r.drag }
func (r *Region) Resizable() bool                { return r.resize }
func (r *Region) ContentEditable() bool          { return r.contentEditable }
func (r *Region) RemoveButton() bool             { return r.removeButton }
func (r *Region) ShowTooltip() bool              { return r.showTooltip }
func (r *Region) MinLength() float64             { return r.minLength }
func (r *Region) MaxLength() float64             { return r.maxLength }
func (r *Region) EdgeScrollWidth() float64       { return r.edgeScrollWidth }
func (r *Region) State() State                   { return r.state }
func (r *Region) ResizeEdge() Edge               { return r.edge }
func (r *Region) Removed() bool                  { return r.element == nil }
func (r *Region) Events() notify.Notifier[Event] { return r.hub }

// On subscribes to one of the region's own topics.
func (r *Region) On(topic string, fn notify.Handler[Event]) func() {
	return r.hub.On(topic, fn)
}

// FormatTime returns the tooltip text for the region.
func (r *Region) FormatTime() string {
	if r.formatTime == nil {
		return DefaultFormatTime(r.start, r.end)
	}
	return r.formatTime(r.start, r.end)
}

// Bounds returns the region's left offset and width in wrapper pixels.
func (r *Region) Bounds() (left, width float64) {
	vp := r.plugin.viewport
	d := vp.Duration()
	if d <= 0 {
		return 0, 0
	}
	scale := vp.ScrollWidth() / d
	return r.start * scale, (r.end - r.start) * scale
}

func (r *Region) String() string {
	return fmt.Sprintf("%s %q [%.3f, %.3f]", r.id, r.data.Text, r.start, r.end)
}

// Update applies a programmatic change and re-renders the region.
func (r *Region) Update(p Patch) error {
	return r.update(p, UpdateParams{Action: ActionUpdate})
}

func (r *Region) update(p Patch, ev UpdateParams) error {
	start, end := r.start, r.end
	if p.Start != nil {
		start = *p.Start
	}
	if p.End != nil {
		end = *p.End
	}
	if start < 0 || end <= start {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, start, end)
	}
	r.start, r.end = start, end

	if p.Data != nil {
		r.data = p.Data.clone()
	}
	if p.Loop != nil {
		r.loop = *p.Loop
	}
	if p.Color != nil {
		r.color = *p.Color
	}
	if p.Drag != nil {
		r.drag = *p.Drag
	}
	if p.Resize != nil {
		r.resize = *p.Resize
	}
	if p.MinLength != nil {
		r.minLength = math.Max(*p.MinLength, MinimumSpan)
	}
	if p.MaxLength != nil {
		if *p.MaxLength <= 0 {
			r.maxLength = math.Inf(1)
		} else {
			r.maxLength = *p.MaxLength
		}
	}

	r.render()
	r.hub.Emit(EventUpdate, Event{Region: r, Update: ev})
	r.plugin.hub.Emit(EventRegionUpdated, Event{Region: r, Update: ev})
	return nil
}

func (r *Region) render() {
	if r.element != nil {
		r.element.Render(r)
	}
}

// Remove detaches the region from the overlay and its collection.
// Calling it again is a no-op.
func (r *Region) Remove() {
	if r.element == nil {
		return
	}
	r.element.Detach()
	r.element = nil
	r.state = StateIdle
	r.scrollDir = 0
	r.hub.Emit(EventRemove, Event{Region: r})
	r.plugin.hub.Emit(EventRegionRemoved, Event{Region: r})
}

// Click reports a single click on the region body.
func (r *Region) Click() {
	r.hub.Emit(EventClick, Event{Region: r})
	r.plugin.hub.Emit(EventRegionClick, Event{Region: r})
}

// DoubleClick reports a double click on the region body.
func (r *Region) DoubleClick() {
	r.hub.Emit(EventDblClick, Event{Region: r})
	r.plugin.hub.Emit(EventRegionDblClick, Event{Region: r})
}

// Play asks the collection's player to play the region's span.
func (r *Region) Play() {
	if r.plugin.opts.Player != nil {
		r.plugin.opts.Player.PlayRange(r.start, r.end)
	}
	r.hub.Emit(EventPlay, Event{Region: r})
	r.plugin.hub.Emit(EventRegionPlay, Event{Region: r})
}

func (r *Region) duration() float64 {
	return r.plugin.viewport.Duration()
}

// maxTime is the latest time the region may reach.
func (r *Region) maxTime() float64 {
	if d := r.duration(); d > 0 {
		return d
	}
	return math.Inf(1)
}

// pointerTime converts an x offset within the visible container into
// seconds, snapped to the grid.
func (r *Region) pointerTime(x float64) float64 {
	vp := r.plugin.viewport
	width := vp.ScrollWidth()
	if width <= 0 {
		return 0
	}
	progress := (x + vp.ScrollLeft()) / width
	progress = math.Min(math.Max(progress, 0), 1)
	return r.plugin.opts.snap(progress * vp.Duration())
}

// PointerDown starts a drag (body) or resize (handle). It reports whether a
// gesture began.
func (r *Region) PointerDown(x float64, target Target) bool {
	if r.element == nil || r.state != StateIdle {
		return false
	}
	switch target {
	case TargetBody:
		if !r.drag {
			return false
		}
		r.state, r.edge = StateDragging, EdgeNone
	case TargetStartHandle, TargetEndHandle:
		if !r.resize {
			return false
		}
		r.state, r.edge = StateResizing, EdgeStart
		if target == TargetEndHandle {
			r.edge = EdgeEnd
		}
	default:
		return false
	}

	t := r.pointerTime(x)
	r.grabTime = t
	r.leftHalf = t - r.start
	r.rightHalf = r.end - t
	r.updated = false
	r.scrollDir = 0
	r.lastX = x
	return true
}

// PointerMove follows the pointer while dragging or resizing.
func (r *Region) PointerMove(x float64) {
	if !r.gesturing() {
		return
	}
	r.lastX = x
	t := r.clampGrab(r.pointerTime(x))
	delta := t - r.grabTime
	r.grabTime = t
	r.apply(delta)
	r.armEdgeScroll(x)
}

// PointerUp ends the current drag or resize.
func (r *Region) PointerUp() {
	if !r.gesturing() {
		return
	}
	r.state, r.edge = StateIdle, EdgeNone
	r.scrollDir = 0
	if r.updated {
		r.updated = false
		ev := Event{Region: r, Update: r.lastMove}
		r.hub.Emit(EventUpdateEnd, ev)
		r.plugin.hub.Emit(EventRegionUpdateEnd, ev)
	}
}

func (r *Region) gesturing() bool {
	return r.state == StateDragging || r.state == StateResizing
}

// clampGrab keeps the grabbed point inside what the gesture may reach.
func (r *Region) clampGrab(t float64) float64 {
	switch r.state {
	case StateDragging:
		if limit := r.maxTime() - r.rightHalf; t > limit {
			t = limit
		}
		if t-r.leftHalf < 0 {
			t = r.leftHalf
		}
	case StateResizing:
		if r.edge == EdgeStart {
			if t > r.end-r.minLength {
				t = r.end - r.minLength
			}
			if t < 0 {
				t = 0
			}
		} else {
			if t < r.start+r.minLength {
				t = r.start + r.minLength
			}
			if limit := r.maxTime(); t > limit {
				t = limit
			}
		}
	}
	return t
}

func (r *Region) apply(delta float64) {
	if delta == 0 {
		return
	}
	var moved bool
	if r.state == StateDragging {
		moved = r.onDrag(delta)
	} else {
		moved = r.onResize(delta, r.edge)
	}
	if moved {
		r.updated = true
	}
}

// move applies one gesture step. It reports false when the step was clamped
// away or refused, leaving the region as it was.
func (r *Region) move(start, end float64, ev UpdateParams) bool {
	if start == r.start && end == r.end {
		return false
	}
	if err := r.update(Patch{Start: Float(start), End: Float(end)}, ev); err != nil {
		return false
	}
	r.lastMove = ev
	return true
}

func (r *Region) onDrag(delta float64) bool {
	if limit := r.maxTime(); r.end+delta > limit {
		delta = limit - r.end
	}
	if r.start+delta < 0 {
		delta = -r.start
	}
	ev := UpdateParams{Action: ActionDrag, Direction: dragDirection(delta)}
	return r.move(r.start+delta, r.end+delta, ev)
}

func (r *Region) onResize(delta float64, edge Edge) bool {
	if edge == EdgeStart {
		ev := UpdateParams{Action: ActionResize, Direction: DirectionLeft}
		if delta > 0 && r.end-(r.start+delta) < r.minLength {
			delta = r.end - r.minLength - r.start
		}
		if delta < 0 && r.end-(r.start+delta) > r.maxLength {
			delta = r.end - r.start - r.maxLength
		}
		if delta < 0 && r.start+delta < 0 {
			delta = -r.start
		}
		s := r.start + delta
		return r.move(math.Min(s, r.end), math.Max(s, r.end), ev)
	}

	ev := UpdateParams{Action: ActionResize, Direction: DirectionRight}
	if delta < 0 && r.end+delta-r.start < r.minLength {
		delta = r.start + r.minLength - r.end
	}
	if delta > 0 && r.end+delta-r.start > r.maxLength {
		delta = r.maxLength - (r.end - r.start)
	}
	if limit := r.maxTime(); delta > 0 && r.end+delta > limit {
		delta = math.Max(limit-r.end, 0)
	}
	e := r.end + delta
	return r.move(math.Min(e, r.start), math.Max(e, r.start), ev)
}

func dragDirection(delta float64) Direction {
	switch {
	case delta < 0:
		return DirectionLeft
	case delta > 0:
		return DirectionRight
	default:
		return DirectionNone
	}
}

// armEdgeScroll sets the auto-scroll direction from the pointer's distance
// to the visible edges.
func (r *Region) armEdgeScroll(x float64) {
	vp := r.plugin.viewport
	client := vp.ClientWidth()
	if client >= vp.ScrollWidth() {
		r.scrollDir = 0
		return
	}
	switch {
	case x < r.edgeScrollWidth:
		r.scrollDir = -1
	case x > client-r.edgeScrollWidth:
		r.scrollDir = 1
	default:
		r.scrollDir = 0
	}
}

// EdgeScrolling reports whether the host should keep calling EdgeScrollStep.
func (r *Region) EdgeScrolling() bool {
	return r.gesturing() && r.scrollDir != 0
}

// EdgeScrollStep scrolls the viewport one step towards the armed edge and
// carries the dragged interval or edge along. It reports whether it scrolled.
func (r *Region) EdgeScrollStep() bool {
	if !r.EdgeScrolling() {
		return false
	}
	vp := r.plugin.viewport
	dur := vp.Duration()
	if dur <= 0 {
		return false
	}
	dir := float64(r.scrollDir)
	speed := r.plugin.opts.ScrollSpeed
	maxScroll := vp.ScrollWidth() - vp.ClientWidth()
	x := r.lastX

	var halfPx, dist, adjustment float64
	if r.state == StateDragging {
		pxPerSec := vp.ScrollWidth() / dur
		if r.scrollDir < 0 {
			halfPx = r.leftHalf * pxPerSec
			dist = x
		} else {
			halfPx = r.rightHalf * pxPerSec
			dist = vp.ClientWidth() - x
		}
	} else {
		t := r.pointerTime(x)
		if r.edge == EdgeStart && t > r.end-r.minLength {
			adjustment = speed * dir
		}
		if r.edge == EdgeEnd && t < r.start+r.minLength {
			adjustment = speed * dir
		}
	}

	left := vp.ScrollLeft()
	if r.scrollDir < 0 {
		if math.Round(left) == 0 || math.Round(left-halfPx+dist) <= 0 {
			return false
		}
	} else {
		if math.Round(left) >= math.Round(maxScroll) || math.Round(left+halfPx-dist) >= maxScroll {
			return false
		}
	}

	next := left - adjustment + speed*dir
	if r.scrollDir < 0 {
		next = math.Max(halfPx-dist, next)
	} else {
		next = math.Min(maxScroll-halfPx+dist, next)
	}
	next = math.Min(math.Max(next, 0), maxScroll)
	if next == left {
		return false
	}
	vp.SetScrollLeft(next)

	t := r.clampGrab(r.pointerTime(x))
	delta := t - r.grabTime
	r.grabTime = t
	r.apply(delta)
	return true
}

// BeginEdit enters content editing of the label.
func (r *Region) BeginEdit() bool {
	if !r.contentEditable || r.element == nil || r.state != StateIdle {
		return false
	}
	r.state = StateEditing
	r.editOld = r.data.Text
	return true
}

// CommitEdit leaves content editing, storing text if it changed.
func (r *Region) CommitEdit(text string) {
	if r.state != StateEditing {
		return
	}
	r.state = StateIdle
	text = strings.TrimSpace(text)
	if text == r.editOld {
		return
	}
	r.data.Text = text
	r.render()
	ev := Event{Region: r, Update: UpdateParams{Action: ActionContentEdited, OldText: r.editOld, Text: text}}
	r.hub.Emit(EventUpdate, ev)
	r.plugin.hub.Emit(EventRegionUpdated, ev)
	r.hub.Emit(EventUpdateEnd, ev)
	r.plugin.hub.Emit(EventRegionUpdateEnd, ev)
}

// CancelEdit leaves content editing without changes.
func (r *Region) CancelEdit() {
	if r.state == StateEditing {
		r.state = StateIdle
	}
}
