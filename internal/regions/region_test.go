package regions

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// The test viewport shows 100 seconds at 100 px/s through a 1000 px window.

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDrag(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3})

	var ends []UpdateParams
	p.On(EventRegionUpdateEnd, func(ev Event) { ends = append(ends, ev.Update) })

	if !r.PointerDown(200, TargetBody) {
		t.Fatal("PointerDown on body did not start a drag")
	}
	if r.State() != StateDragging {
		t.Errorf("State = %v, want dragging", r.State())
	}
	r.PointerMove(500)
	if !approx(r.Start(), 4) || !approx(r.End(), 6) {
		t.Errorf("after move = [%v, %v], want [4, 6]", r.Start(), r.End())
	}
	if len(ends) != 0 {
		t.Error("update-end fired before pointer up")
	}
	r.PointerUp()

	if len(ends) != 1 {
		t.Fatalf("update-end fired %d times, want 1", len(ends))
	}
	if ends[0].Action != ActionDrag || ends[0].Direction != DirectionRight {
		t.Errorf("update-end params = %+v", ends[0])
	}
	if r.State() != StateIdle {
		t.Errorf("State = %v after PointerUp", r.State())
	}
}

func TestDragClampsToTimeline(t *testing.T) {
	tests := []struct {
		name      string
		to        float64
		wantStart float64
		wantEnd   float64
	}{
		{"before zero", 0, 0, 2},
		{"past duration", 9999, 98, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _, _ := newTestPlugin(Options{})
			r := mustAdd(t, p, Params{Start: 1, End: 3})
			r.PointerDown(200, TargetBody)
			r.PointerMove(tt.to)
			r.PointerUp()
			if !approx(r.Start(), tt.wantStart) || !approx(r.End(), tt.wantEnd) {
				t.Errorf("region = [%v, %v], want [%v, %v]", r.Start(), r.End(), tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestPointerUpWithoutMoveIsQuiet(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3})
	p.On(EventRegionUpdateEnd, func(Event) { t.Error("update-end without a change") })

	r.PointerDown(200, TargetBody)
	r.PointerMove(200)
	r.PointerUp()
}

func TestResizeRespectsMinLength(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3, MinLength: 0.5})

	r.PointerDown(300, TargetEndHandle)
	if r.ResizeEdge() != EdgeEnd {
		t.Errorf("ResizeEdge = %v, want EdgeEnd", r.ResizeEdge())
	}
	r.PointerMove(0)
	r.PointerUp()

	if r.Start() != 1 || !approx(r.End(), 1.5) {
		t.Errorf("region = [%v, %v], want [1, 1.5]", r.Start(), r.End())
	}
}

func TestClampedStepIsNotAnUpdate(t *testing.T) {
	p, vp, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3})

	// the audio was replaced by a shorter one, leaving the end past it
	vp.Length, vp.Width, vp.Client = 2, 200, 200

	updates := 0
	p.On(EventRegionUpdated, func(Event) { updates++ })
	p.On(EventRegionUpdateEnd, func(Event) { t.Error("update-end for a step that moved nothing") })

	r.PointerDown(190, TargetEndHandle)
	r.PointerMove(195)
	r.PointerUp()

	if updates != 0 {
		t.Errorf("updates = %d, want 0", updates)
	}
	if r.Start() != 1 || r.End() != 3 {
		t.Errorf("region = [%v, %v], want [1, 3]", r.Start(), r.End())
	}
}

func TestResizeStartPastEnd(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3})

	var last UpdateParams
	p.On(EventRegionUpdated, func(ev Event) { last = ev.Update })

	r.PointerDown(100, TargetStartHandle)
	r.PointerMove(500)
	r.PointerUp()

	if !(r.Start() < r.End()) {
		t.Errorf("start %v not below end %v", r.Start(), r.End())
	}
	if r.End() != 3 {
		t.Errorf("End = %v, want 3", r.End())
	}
	if last.Action != ActionResize || last.Direction != DirectionLeft {
		t.Errorf("last update = %+v", last)
	}
}

func TestResizeRespectsMaxLength(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3, MaxLength: 4})

	r.PointerDown(300, TargetEndHandle)
	r.PointerMove(900)
	r.PointerUp()

	if !approx(r.End(), 5) {
		t.Errorf("End = %v, want 5", r.End())
	}
}

func TestGesturesKeepRangeValid(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 10, End: 11})
	rng := rand.New(rand.NewSource(7))
	targets := []Target{TargetBody, TargetStartHandle, TargetEndHandle}

	for i := 0; i < 500; i++ {
		left, _ := r.Bounds()
		r.PointerDown(left+1, targets[rng.Intn(len(targets))])
		for j := 0; j < 5; j++ {
			r.PointerMove(rng.Float64()*12000 - 1000)
			if !(r.Start() >= 0 && r.Start() < r.End() && r.End() <= 100+1e-9) {
				t.Fatalf("step %d/%d: invalid range [%v, %v]", i, j, r.Start(), r.End())
			}
		}
		r.PointerUp()
	}
}

func TestPointerDownRefused(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	fixed := mustAdd(t, p, Params{Start: 1, End: 2, Drag: Bool(false), Resize: Bool(false)})
	if fixed.PointerDown(150, TargetBody) || fixed.PointerDown(100, TargetStartHandle) {
		t.Error("gesture started on a fixed region")
	}

	gone := mustAdd(t, p, Params{Start: 3, End: 4})
	gone.Remove()
	if gone.PointerDown(350, TargetBody) {
		t.Error("gesture started on a removed region")
	}
}

func TestSnapToGrid(t *testing.T) {
	p, _, _ := newTestPlugin(Options{SnapToGridInterval: 0.5})
	r := mustAdd(t, p, Params{Start: 2, End: 4})

	r.PointerDown(200, TargetBody)
	r.PointerMove(333)
	r.PointerUp()

	if r.Start() != 3.5 || r.End() != 5.5 {
		t.Errorf("region = [%v, %v], want [3.5, 5.5]", r.Start(), r.End())
	}
}

func TestEdgeScroll(t *testing.T) {
	p, vp, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3})

	r.PointerDown(200, TargetBody)
	r.PointerMove(990)
	if !r.EdgeScrolling() {
		t.Fatal("pointer inside the right edge zone did not arm scrolling")
	}

	before := r.Start()
	if !r.EdgeScrollStep() {
		t.Fatal("EdgeScrollStep did not scroll")
	}
	if vp.Left != 1 {
		t.Errorf("ScrollLeft = %v, want 1", vp.Left)
	}
	if !(r.Start() > before) {
		t.Errorf("region did not follow the scroll: %v -> %v", before, r.Start())
	}

	r.PointerMove(500)
	if r.EdgeScrolling() {
		t.Error("scrolling still armed after leaving the edge zone")
	}
	r.PointerUp()
	if r.EdgeScrollStep() {
		t.Error("scrolled after pointer up")
	}
}

func TestEdgeScrollStopsAtOrigin(t *testing.T) {
	p, vp, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 5, End: 7})

	r.PointerDown(600, TargetBody)
	r.PointerMove(10)
	if !r.EdgeScrolling() {
		t.Fatal("left edge zone did not arm scrolling")
	}
	if r.EdgeScrollStep() {
		t.Error("scrolled left of the origin")
	}
	if vp.Left != 0 {
		t.Errorf("ScrollLeft = %v, want 0", vp.Left)
	}
}

func TestUpdate(t *testing.T) {
	p, _, ov := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 2})
	renders := ov.renders

	var got UpdateParams
	p.On(EventRegionUpdated, func(ev Event) { got = ev.Update })

	if err := r.Update(Patch{End: Float(5), Data: &Data{Text: "five"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if r.End() != 5 || r.Text() != "five" {
		t.Errorf("region = %v", r)
	}
	if got.Action != ActionUpdate {
		t.Errorf("Action = %q, want update", got.Action)
	}
	if ov.renders != renders+1 {
		t.Errorf("renders = %d, want %d", ov.renders, renders+1)
	}

	err := r.Update(Patch{Start: Float(6)})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
	if r.Start() != 1 {
		t.Errorf("rejected update changed Start to %v", r.Start())
	}
}

func TestContentEdit(t *testing.T) {
	p, _, _ := newTestPlugin(Options{ContentEditable: true})
	r := mustAdd(t, p, Params{Start: 1, End: 2, Data: Data{Text: "helo"}})

	var updates, ends []UpdateParams
	p.On(EventRegionUpdated, func(ev Event) { updates = append(updates, ev.Update) })
	p.On(EventRegionUpdateEnd, func(ev Event) { ends = append(ends, ev.Update) })

	if !r.BeginEdit() {
		t.Fatal("BeginEdit refused on an editable region")
	}
	if r.PointerDown(150, TargetBody) {
		t.Error("drag started while editing")
	}
	r.CommitEdit("  hello \n")

	if r.Text() != "hello" {
		t.Errorf("Text = %q, want hello", r.Text())
	}
	want := UpdateParams{Action: ActionContentEdited, OldText: "helo", Text: "hello"}
	if len(updates) != 1 || updates[0] != want {
		t.Errorf("updates = %+v, want [%+v]", updates, want)
	}
	if len(ends) != 1 || ends[0] != want {
		t.Errorf("update-ends = %+v, want [%+v]", ends, want)
	}

	r.BeginEdit()
	r.CommitEdit("hello")
	if len(updates) != 1 {
		t.Error("unchanged text emitted an update")
	}

	r.BeginEdit()
	r.CancelEdit()
	if r.State() != StateIdle || r.Text() != "hello" {
		t.Errorf("after cancel: state=%v text=%q", r.State(), r.Text())
	}
}

func TestBeginEditRequiresEditable(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 2})
	if r.BeginEdit() {
		t.Error("BeginEdit on a read-only region")
	}
}

func TestBounds(t *testing.T) {
	p, _, _ := newTestPlugin(Options{})
	r := mustAdd(t, p, Params{Start: 1, End: 3})
	left, width := r.Bounds()
	if left != 100 || width != 200 {
		t.Errorf("Bounds = (%v, %v), want (100, 200)", left, width)
	}
	if got := r.FormatTime(); got != "1.00:3.00" {
		t.Errorf("FormatTime = %q", got)
	}
}

func TestNoDurationMeansUnbounded(t *testing.T) {
	p := New(Options{}, nil, nil)
	r, err := p.Add(Params{Start: 500, End: 501})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Update(Patch{End: Float(900)}); err != nil {
		t.Errorf("Update past an unknown duration: %v", err)
	}
	if left, width := r.Bounds(); left != 0 || width != 0 {
		t.Errorf("Bounds without audio = (%v, %v)", left, width)
	}
}
