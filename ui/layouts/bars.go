package layouts

import (
	"fyne.io/fyne/v2"
)

// ToolbarLayout lays out a toolbar row: left and right groups at their
// minimum width, the middle taking what is left. Every object is centered
// vertically.
type ToolbarLayout struct {
	Padding float32
}

// NewToolbarLayout creates a new three-group toolbar layout
func NewToolbarLayout(padding float32) *ToolbarLayout {
	return &ToolbarLayout{Padding: padding}
}

// Layout arranges the objects: [0] = left, [1] = middle, [2] = right
func (l *ToolbarLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}

	left := objects[0]
	middle := objects[1]
	right := objects[2]

	leftMin := left.MinSize()
	rightMin := right.MinSize()

	// Middle gets the remainder, never negative
	middleWidth := size.Width - leftMin.Width - rightMin.Width - (l.Padding * 4)
	if middleWidth < 0 {
		middleWidth = 0
	}

	place := func(o fyne.CanvasObject, x, width float32) {
		h := fyne.Min(o.MinSize().Height, size.Height)
		o.Resize(fyne.NewSize(width, h))
		o.Move(fyne.NewPos(x, (size.Height-h)/2))
	}
	place(left, l.Padding, leftMin.Width)
	place(middle, leftMin.Width+l.Padding*2, middleWidth)
	place(right, size.Width-rightMin.Width-l.Padding, rightMin.Width)
}

// MinSize returns the minimum size needed for the layout
func (l *ToolbarLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, 0)
	}

	leftMin := objects[0].MinSize()
	middleMin := objects[1].MinSize()
	rightMin := objects[2].MinSize()

	minHeight := fyne.Max(leftMin.Height, fyne.Max(middleMin.Height, rightMin.Height))
	minWidth := leftMin.Width + middleMin.Width + rightMin.Width + (l.Padding * 4)

	return fyne.NewSize(minWidth, minHeight)
}

// BarsLayout stacks a fixed-height top bar, a flexible content area and a
// fixed-height bottom bar
type BarsLayout struct {
	TopHeight    float32
	BottomHeight float32
}

// NewBarsLayout creates a layout with a top bar, content and a bottom bar
func NewBarsLayout(topHeight, bottomHeight float32) *BarsLayout {
	return &BarsLayout{
		TopHeight:    topHeight,
		BottomHeight: bottomHeight,
	}
}

// Layout arranges: [0] = top bar, [1] = content, [2] = bottom bar
func (l *BarsLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 3 {
		return
	}

	top := objects[0]
	content := objects[1]
	bottom := objects[2]

	contentHeight := size.Height - l.TopHeight - l.BottomHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	top.Resize(fyne.NewSize(size.Width, l.TopHeight))
	top.Move(fyne.NewPos(0, 0))

	// Content fills the space between the bars
	content.Resize(fyne.NewSize(size.Width, contentHeight))
	content.Move(fyne.NewPos(0, l.TopHeight))

	bottom.Resize(fyne.NewSize(size.Width, l.BottomHeight))
	bottom.Move(fyne.NewPos(0, l.TopHeight+contentHeight))
}

// MinSize returns the minimum size
func (l *BarsLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 3 {
		return fyne.NewSize(0, l.TopHeight+l.BottomHeight)
	}

	topMin := objects[0].MinSize()
	contentMin := objects[1].MinSize()
	bottomMin := objects[2].MinSize()

	return fyne.NewSize(
		fyne.Max(contentMin.Width, fyne.Max(topMin.Width, bottomMin.Width)),
		l.TopHeight+contentMin.Height+l.BottomHeight,
	)
}
