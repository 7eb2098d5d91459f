package regions

import (
	"errors"
	"fmt"
	"testing"
)

// countingOverlay tracks how many elements are attached at any time.
type countingOverlay struct {
	attached map[*countingElement]bool
	renders  int
}

type countingElement struct {
	o *countingOverlay
	r *Region
}

func newCountingOverlay() *countingOverlay {
	return &countingOverlay{attached: make(map[*countingElement]bool)}
}

func (o *countingOverlay) Attach(r *Region) Element {
	e := &countingElement{o: o, r: r}
	o.attached[e] = true
	return e
}

func (e *countingElement) Render(*Region) { e.o.renders++ }
func (e *countingElement) Detach()        { delete(e.o.attached, e) }

func newTestPlugin(opts Options) (*Plugin, *FixedViewport, *countingOverlay) {
	vp := &FixedViewport{Length: 100, Width: 10000, Client: 1000}
	ov := newCountingOverlay()
	return New(opts, vp, ov), vp, ov
}

func mustAdd(t *testing.T, p *Plugin, params Params) *Region {
	t.Helper()
	r, err := p.Add(params)
	if err != nil {
		t.Fatalf("Add(%+v): %v", params, err)
	}
	return r
}

func TestAddMergesDefaults(t *testing.T) {
	p, _, _ := newTestPlugin(Options{
		ContentEditable: true,
		RemoveButton:    true,
		MinLength:       0.2,
		FormatTime:      func(s, e float64) string { return fmt.Sprintf("%g-%g", s, e) },
	})

	r := mustAdd(t, p, Params{ID: "w1", Start: 1, End: 2})

	if !r.ContentEditable() || !r.RemoveButton() {
		t.Errorf("collection defaults not merged: editable=%v remove=%v", r.ContentEditable(), r.RemoveButton())
	}
	if r.MinLength() != 0.2 {
		t.Errorf("MinLength = %v, want 0.2", r.MinLength())
	}
	if got := r.FormatTime(); got != "1-2" {
		t.Errorf("FormatTime = %q, want 1-2", got)
	}
	// 5% of the 1000px client width
	if r.EdgeScrollWidth() != 50 {
		t.Errorf("EdgeScrollWidth = %v, want 50", r.EdgeScrollWidth())
	}
	if !r.Draggable() || !r.Resizable() {
		t.Error("drag and resize should default to true")
	}
}

func TestAddParamsOverrideDefaults(t *testing.T) {
	p, _, _ := newTestPlugin(Options{ContentEditable: true, MinLength: 0.2})
	r := mustAdd(t, p, Params{
		ID: "w1", Start: 1, End: 2,
		ContentEditable: Bool(false),
		Drag:            Bool(false),
		MinLength:       0.5,
		EdgeScrollWidth: 12,
	})
	if r.ContentEditable() || r.Draggable() {
		t.Error("explicit params should win over defaults")
	}
	if r.MinLength() != 0.5 || r.EdgeScrollWidth() != 12 {
		t.Errorf("MinLength=%v EdgeScrollWidth=%v", r.MinLength(), r.EdgeScrollWidth())
	}
}

func TestAddGeneratesUniqueIDs(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	a := mustAdd(t, p, Params{Start: 0, End: 1})
	b := mustAdd(t, p, Params{Start: 0, End: 1})
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids = %q, %q", a.ID(), b.ID())
	}
}

func TestAddRejects(t *testing.T) {
	tests := []struct {
		name   string
		opts   Options
		params []Params
		want   error
	}{
		{"duplicate id", Options{}, []Params{{ID: "a", Start: 0, End: 1}, {ID: "a", Start: 2, End: 3}}, ErrDuplicateID},
		{"empty range", Options{}, []Params{{ID: "a", Start: 1, End: 1}}, ErrInvalidRange},
		{"negative start", Options{}, []Params{{ID: "a", Start: -1, End: 1}}, ErrInvalidRange},
		{"max regions", Options{MaxRegions: 1}, []Params{{ID: "a", Start: 0, End: 1}, {ID: "b", Start: 0, End: 1}}, ErrTooManyRegions},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestPlugin(tt.opts)
			var err error
			for _, params := range tt.params {
				_, err = p.Add(params)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRemoveEvictsOnce(t *testing.T) {
	p, _, ov := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{ID: "a", Start: 0, End: 1})

	removed := 0
	p.On(EventRegionRemoved, func(ev Event) {
		if ev.Region != r {
			t.Errorf("removed event for %v", ev.Region)
		}
		removed++
	})

	r.Remove()
	r.Remove()

	if removed != 1 {
		t.Errorf("region-removed fired %d times, want 1", removed)
	}
	if _, ok := p.Get("a"); ok {
		t.Error("region still indexed after Remove")
	}
	if len(ov.attached) != 0 {
		t.Errorf("%d elements still attached", len(ov.attached))
	}
	if !r.Removed() {
		t.Error("Removed() = false after Remove")
	}
}

func TestRemovedIDCanBeReused(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	old := mustAdd(t, p, Params{ID: "a", Start: 0, End: 1})
	old.Remove()
	fresh := mustAdd(t, p, Params{ID: "a", Start: 2, End: 3})

	old.Remove()
	if got, ok := p.Get("a"); !ok || got != fresh {
		t.Error("stale removal evicted the new region")
	}
}

func TestClearThenAdd(t *testing.T) {
	p, _, ov := newTestPlugin(Options{})
	for i := 0; i < 5; i++ {
		mustAdd(t, p, Params{Start: float64(i), End: float64(i) + 0.5})
	}

	p.Clear()
	if p.Len() != 0 || len(ov.attached) != 0 {
		t.Fatalf("after Clear: Len=%d attached=%d", p.Len(), len(ov.attached))
	}

	const n = 7
	seen := make(map[string]bool)
	for i := 0; i < n; i++ {
		r := mustAdd(t, p, Params{Start: float64(i), End: float64(i) + 1})
		seen[r.ID()] = true
	}
	if p.Len() != n || len(seen) != n {
		t.Errorf("Len=%d unique=%d, want %d", p.Len(), len(seen), n)
	}
	if len(ov.attached) != n {
		t.Errorf("attached elements = %d, want %d", len(ov.attached), n)
	}
}

func TestDestroyIsSilent(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	mustAdd(t, p, Params{Start: 0, End: 1})
	mustAdd(t, p, Params{Start: 1, End: 2})

	p.On(EventRegionRemoved, func(Event) { t.Error("Destroy reported a removal") })
	p.Destroy()

	if p.Len() != 0 {
		t.Errorf("Len = %d after Destroy", p.Len())
	}
}

func TestGetCurrentRegion(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	a := mustAdd(t, p, Params{ID: "A", Start: 0, End: 10})
	b := mustAdd(t, p, Params{ID: "B", Start: 2, End: 4})
	c := mustAdd(t, p, Params{ID: "C", Start: 20, End: 22})
	d := mustAdd(t, p, Params{ID: "D", Start: 21, End: 23})

	tests := []struct {
		time float64
		want *Region
	}{
		{3, b},
		{1, a},
		{10, a},
		{2, b},
		{15, nil},
		{21.5, c}, // equal lengths: first in List order
		{22.5, d},
		{-1, nil},
	}
	for _, tt := range tests {
		if got := p.GetCurrentRegion(tt.time); got != tt.want {
			t.Errorf("GetCurrentRegion(%v) = %v, want %v", tt.time, got, tt.want)
		}
	}
}

func TestListOrder(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	mustAdd(t, p, Params{ID: "c", Start: 5, End: 6})
	mustAdd(t, p, Params{ID: "b", Start: 1, End: 2})
	mustAdd(t, p, Params{ID: "a", Start: 1, End: 3})

	var ids []string
	for _, r := range p.List() {
		ids = append(ids, r.ID())
	}
	if fmt.Sprint(ids) != "[a b c]" {
		t.Errorf("List order = %v, want [a b c]", ids)
	}
}

func TestMountReattaches(t *testing.T) {
	p := New(Options{}, nil, nil)
	mustAdd(t, p, Params{Start: 0, End: 1})
	mustAdd(t, p, Params{Start: 1, End: 2})

	ov := newCountingOverlay()
	p.Mount(&FixedViewport{Length: 10, Width: 1000, Client: 500}, ov)

	if len(ov.attached) != 2 {
		t.Errorf("attached = %d, want 2", len(ov.attached))
	}
	if ov.renders != 2 {
		t.Errorf("renders = %d, want 2", ov.renders)
	}
}

type recordingPlayer struct {
	ranges [][2]float64
}

func (p *recordingPlayer) PlayRange(start, end float64) {
	p.ranges = append(p.ranges, [2]float64{start, end})
}

func TestSetTimeFiresInOut(t *testing.T) {
	player := &recordingPlayer{}
	p, _, _ := newTestPlugin(Options{Player: player})
	r := mustAdd(t, p, Params{ID: "a", Start: 1, End: 2, Loop: true})

	var events []string
	p.On(EventRegionIn, func(Event) { events = append(events, "in") })
	p.On(EventRegionOut, func(Event) { events = append(events, "out") })

	for _, ts := range []float64{0.5, 1.0, 1.5, 2.0, 2.5} {
		p.SetTime(ts)
	}

	if fmt.Sprint(events) != "[in out]" {
		t.Errorf("events = %v, want [in out]", events)
	}
	if len(player.ranges) != 1 || player.ranges[0] != [2]float64{r.Start(), r.End()} {
		t.Errorf("loop replay = %v", player.ranges)
	}
}

func TestClickEmitsToHost(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 0, End: 1})

	var clicked, dbl *Region
	p.On(EventRegionClick, func(ev Event) { clicked = ev.Region })
	p.On(EventRegionDblClick, func(ev Event) { dbl = ev.Region })

	r.Click()
	r.DoubleClick()

	if clicked != r || dbl != r {
		t.Errorf("click=%v dblclick=%v", clicked, dbl)
	}
}
