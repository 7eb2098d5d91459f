package regions

import (
	"errors"
	"fmt"
	"math"
)

// MinimumSpan is the shortest interval a region may cover, in seconds.
// It keeps start strictly below end when no minimum length is configured.
const MinimumSpan = 0.001

// DefaultEdgeScrollProportion is the share of the visible width, measured
// from either edge, in which a drag starts auto-scrolling.
const DefaultEdgeScrollProportion = 0.05

// DefaultScrollSpeed is the number of pixels scrolled per edge-scroll step.
const DefaultScrollSpeed = 1.0

var (
	ErrDuplicateID    = errors.New("region id already in use")
	ErrInvalidRange   = errors.New("region start must be >= 0 and below end")
	ErrTooManyRegions = errors.New("maximum number of regions reached")
)

// FormatTimeFunc renders a region's tooltip text.
type FormatTimeFunc func(start, end float64) string

// DefaultFormatTime prints both ends with two decimals.
func DefaultFormatTime(start, end float64) string {
	return fmt.Sprintf("%.2f:%.2f", start, end)
}

// Data is the payload carried by a region.
type Data struct {
	Text  string
	Attrs map[string]string
}

func (d Data) clone() Data {
	out := Data{Text: d.Text}
	if d.Attrs != nil {
		out.Attrs = make(map[string]string, len(d.Attrs))
		for k, v := range d.Attrs {
			out.Attrs[k] = v
		}
	}
	return out
}

// Params describes a region to add. Nil pointers mean "use the default".
type Params struct {
	ID    string
	Start float64
	End   float64
	Data  Data

	Loop  bool
	Color string

	Drag            *bool // default true
	Resize          *bool // default true
	ContentEditable *bool
	RemoveButton    *bool
	ShowTooltip     *bool // default true

	MinLength       float64
	MaxLength       float64 // 0 means unbounded
	EdgeScrollWidth float64
	FormatTime      FormatTimeFunc
}

// Patch is a partial update applied by Region.Update.
type Patch struct {
	Start     *float64
	End       *float64
	Data      *Data
	Loop      *bool
	Color     *string
	Drag      *bool
	Resize    *bool
	MinLength *float64
	MaxLength *float64
}

// Options are the collection-wide defaults merged into every added region.
type Options struct {
	ContentEditable bool
	RemoveButton    bool
	FormatTime      FormatTimeFunc
	MinLength       float64

	// EdgeScrollWidth in px; when zero it is derived from the viewport's
	// client width and EdgeScrollProportion at Add time.
	EdgeScrollWidth      float64
	EdgeScrollProportion float64
	ScrollSpeed          float64

	SnapToGridInterval float64
	SnapToGridOffset   float64

	// MaxRegions caps the collection size; 0 disables the cap.
	MaxRegions int

	Player Player
}

func (o Options) withDefaults() Options {
	if o.EdgeScrollProportion <= 0 {
		o.EdgeScrollProportion = DefaultEdgeScrollProportion
	}
	if o.ScrollSpeed <= 0 {
		o.ScrollSpeed = DefaultScrollSpeed
	}
	if o.FormatTime == nil {
		o.FormatTime = DefaultFormatTime
	}
	return o
}

// snap rounds value onto the configured grid.
func (o Options) snap(value float64) float64 {
	if o.SnapToGridInterval <= 0 {
		return value
	}
	off := o.SnapToGridOffset
	return math.Round((value-off)/o.SnapToGridInterval)*o.SnapToGridInterval + off
}

// Bool returns a pointer to v, for Params and Patch fields.
func Bool(v bool) *bool { return &v }

// Float returns a pointer to v, for Patch fields.
func Float(v float64) *float64 { return &v }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
