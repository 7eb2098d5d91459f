// Package regions keeps a collection of time intervals laid over a waveform
// and implements the pointer interactions that move and resize them.
package regions

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"readalong-editor/internal/notify"
)

// Plugin owns the regions of one waveform, indexed by ID.
type Plugin struct {
	opts     Options
	viewport Viewport
	overlay  Overlay
	hub      *notify.Hub[Event]
	list     map[string]*Region
}

// New creates an empty collection. A nil viewport or overlay is replaced
// with a headless stand-in until Mount is called.
func New(opts Options, vp Viewport, ov Overlay) *Plugin {
	if vp == nil {
		vp = &FixedViewport{}
	}
	if ov == nil {
		ov = NopOverlay{}
	}
	return &Plugin{
		opts:     opts.withDefaults(),
		viewport: vp,
		overlay:  ov,
		hub:      notify.NewHub[Event](),
		list:     make(map[string]*Region),
	}
}

// Options returns the collection defaults in effect.
func (p *Plugin) Options() Options { return p.opts }

// Viewport returns the waveform the regions are laid over.
func (p *Plugin) Viewport() Viewport { return p.viewport }

// Events exposes the host-facing notifications.
func (p *Plugin) Events() notify.Notifier[Event] { return p.hub }

// On subscribes to a host-facing topic such as EventRegionUpdated.
func (p *Plugin) On(topic string, fn notify.Handler[Event]) func() {
	return p.hub.On(topic, fn)
}

// SetPlayer sets the player used by Region.Play.
func (p *Plugin) SetPlayer(pl Player) { p.opts.Player = pl }

// Mount moves every region onto a new viewport and overlay.
func (p *Plugin) Mount(vp Viewport, ov Overlay) {
	for _, r := range p.List() {
		if r.element != nil {
			r.element.Detach()
		}
	}
	p.viewport = vp
	p.overlay = ov
	for _, r := range p.List() {
		r.element = ov.Attach(r)
		r.render()
	}
}

// Add creates a region from params merged with the collection defaults.
func (p *Plugin) Add(params Params) (*Region, error) {
	o := p.opts
	if params.ContentEditable == nil {
		params.ContentEditable = Bool(o.ContentEditable)
	}
	if params.RemoveButton == nil {
		params.RemoveButton = Bool(o.RemoveButton)
	}
	if params.FormatTime == nil {
		params.FormatTime = o.FormatTime
	}
	if params.MinLength == 0 {
		params.MinLength = o.MinLength
	}
	if params.EdgeScrollWidth == 0 {
		params.EdgeScrollWidth = o.EdgeScrollWidth
		if params.EdgeScrollWidth == 0 {
			params.EdgeScrollWidth = p.viewport.ClientWidth() * o.EdgeScrollProportion
		}
	}
	if params.ID == "" {
		params.ID = uuid.NewString()
	}

	if _, ok := p.list[params.ID]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, params.ID)
	}
	if o.MaxRegions > 0 && len(p.list) >= o.MaxRegions {
		return nil, fmt.Errorf("%w (%d)", ErrTooManyRegions, o.MaxRegions)
	}
	if params.Start < 0 || params.End <= params.Start {
		return nil, fmt.Errorf("%w: %s [%g, %g]", ErrInvalidRange, params.ID, params.Start, params.End)
	}

	r := newRegion(p, params)
	p.list[r.id] = r
	r.hub.On(EventRemove, func(Event) {
		if p.list[r.id] == r {
			delete(p.list, r.id)
		}
	})
	r.element = p.overlay.Attach(r)
	r.render()

	p.hub.Emit(EventRegionCreated, Event{Region: r})
	return r, nil
}

// Get returns the region with the given ID.
func (p *Plugin) Get(id string) (*Region, bool) {
	r, ok := p.list[id]
	return r, ok
}

// Len returns the number of regions.
func (p *Plugin) Len() int { return len(p.list) }

// List returns the regions ordered by start time, then ID.
func (p *Plugin) List() []*Region {
	out := make([]*Region, 0, len(p.list))
	for _, r := range p.list {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].start != out[j].start {
			return out[i].start < out[j].start
		}
		return out[i].id < out[j].id
	})
	return out
}

// Clear removes every region.
func (p *Plugin) Clear() {
	for _, r := range p.List() {
		r.Remove()
	}
}

// Destroy clears the collection without reporting the removals to the
// host, since teardown is not a user action.
func (p *Plugin) Destroy() {
	p.hub.SetDisabled(EventRegionRemoved)
	p.Clear()
	p.hub.SetDisabled()
}

// Refresh re-renders every region, e.g. after a zoom change.
func (p *Plugin) Refresh() {
	for _, r := range p.list {
		r.render()
	}
}

// GetCurrentRegion returns the shortest region containing t. Ties go to the
// first region in List order; nil when no region contains t.
func (p *Plugin) GetCurrentRegion(t float64) *Region {
	var best *Region
	for _, r := range p.List() {
		if r.start <= t && r.end >= t {
			if best == nil || r.end-r.start < best.end-best.start {
				best = r
			}
		}
	}
	return best
}

// SetTime reports the playback position so regions can fire in/out events.
// A looping region that is left past its end is played again.
func (p *Plugin) SetTime(t float64) {
	for _, r := range p.List() {
		inside := r.start <= t && r.end > t
		switch {
		case inside && !r.firedIn:
			r.firedIn = true
			r.hub.Emit(EventIn, Event{Region: r})
			p.hub.Emit(EventRegionIn, Event{Region: r})
		case !inside && r.firedIn:
			r.firedIn = false
			r.hub.Emit(EventOut, Event{Region: r})
			p.hub.Emit(EventRegionOut, Event{Region: r})
			if r.loop && t >= r.end {
				r.Play()
			}
		}
	}
}
