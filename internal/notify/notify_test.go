package notify

import "testing"

func TestEmitCallsHandlersInOrder(t *testing.T) {
	h := NewHub[string]()
	var got []string
	h.On("x", func(s string) { got = append(got, "a:"+s) })
	h.On("x", func(s string) { got = append(got, "b:"+s) })
	h.On("y", func(s string) { got = append(got, "y:"+s) })

	h.Emit("x", "1")

	if len(got) != 2 || got[0] != "a:1" || got[1] != "b:1" {
		t.Errorf("got %v, want [a:1 b:1]", got)
	}
}

func TestCancelRemovesOnlyThatHandler(t *testing.T) {
	h := NewHub[int]()
	calls := 0
	cancel := h.On("x", func(int) { calls += 10 })
	h.On("x", func(int) { calls++ })

	cancel()
	h.Emit("x", 0)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if h.Count("x") != 1 {
		t.Errorf("Count = %d, want 1", h.Count("x"))
	}
}

func TestOnceFiresOnce(t *testing.T) {
	h := NewHub[int]()
	calls := 0
	h.Once("x", func(int) { calls++ })

	h.Emit("x", 1)
	h.Emit("x", 2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDisabledTopicsAreSilent(t *testing.T) {
	h := NewHub[int]()
	calls := 0
	h.On("x", func(int) { calls++ })

	h.SetDisabled("x")
	h.Emit("x", 1)
	if calls != 0 {
		t.Fatalf("disabled topic emitted %d times", calls)
	}

	h.SetDisabled()
	h.Emit("x", 1)
	if calls != 1 {
		t.Errorf("calls after re-enable = %d, want 1", calls)
	}
}

func TestHandlerMaySubscribeDuringEmit(t *testing.T) {
	var h Hub[int]
	inner := 0
	h.On("x", func(int) {
		h.On("x", func(int) { inner++ })
	})

	h.Emit("x", 0)
	if inner != 0 {
		t.Errorf("handler added during emit ran in the same emit")
	}
	h.Emit("x", 0)
	if inner != 1 {
		t.Errorf("inner = %d, want 1", inner)
	}
}

func TestUn(t *testing.T) {
	h := NewHub[int]()
	h.On("x", func(int) { t.Error("handler should be gone") })
	h.Un("x")
	h.Emit("x", 0)
}
