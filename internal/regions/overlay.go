package regions

// Viewport is the drawn waveform a collection of regions is laid over.
// Pixel values are measured in the scrollable wrapper's coordinate space.
type Viewport interface {
	// Duration of the loaded audio in seconds; zero when nothing is loaded.
	Duration() float64
	ScrollWidth() float64
	ClientWidth() float64
	ScrollLeft() float64
	SetScrollLeft(px float64)
}

// Overlay hosts the on-screen elements of regions.
type Overlay interface {
	Attach(r *Region) Element
}

// Element is the on-screen presence of one region.
type Element interface {
	Render(r *Region)
	Detach()
}

// Player plays back a time range of the loaded audio.
type Player interface {
	PlayRange(start, end float64)
}

// FixedViewport is a Viewport with plain fields, for headless use.
type FixedViewport struct {
	Length float64 // seconds
	Width  float64 // total scroll width, px
	Client float64 // visible width, px
	Left   float64 // scroll offset, px
}

func (v *FixedViewport) Duration() float64    { return v.Length }
func (v *FixedViewport) ScrollWidth() float64 { return v.Width }
func (v *FixedViewport) ClientWidth() float64 { return v.Client }
func (v *FixedViewport) ScrollLeft() float64  { return v.Left }

func (v *FixedViewport) SetScrollLeft(px float64) {
	limit := v.Width - v.Client
	if px > limit {
		px = limit
	}
	if px < 0 {
		px = 0
	}
	v.Left = px
}

// NopOverlay attaches elements that draw nothing.
type NopOverlay struct{}

func (NopOverlay) Attach(*Region) Element { return nopElement{} }

type nopElement struct{}

func (nopElement) Render(*Region) {}
func (nopElement) Detach()        {}
