package layouts

import (
	"fyne.io/fyne/v2"
)

// SidebarLayout places a fixed-width sidebar on the right of a flexible
// content area. The sidebar is hidden when the content would get narrower
// than MinContentWidth.
type SidebarLayout struct {
	SidebarWidth    float32
	MinContentWidth float32
}

// NewSidebarLayout creates a new sidebar layout with the specified sidebar width
func NewSidebarLayout(sidebarWidth, minContentWidth float32) *SidebarLayout {
	return &SidebarLayout{
		SidebarWidth:    sidebarWidth,
		MinContentWidth: minContentWidth,
	}
}

// Layout arranges the objects: [0] = content, [1] = sidebar
func (l *SidebarLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 2 {
		return
	}

	content := objects[0]
	sidebar := objects[1]

	if size.Width-l.SidebarWidth < l.MinContentWidth {
		sidebar.Hide()
		content.Resize(size)
		content.Move(fyne.NewPos(0, 0))
		return
	}
	sidebar.Show()

	// Content fills the remaining space
	contentWidth := size.Width - l.SidebarWidth
	content.Resize(fyne.NewSize(contentWidth, size.Height))
	content.Move(fyne.NewPos(0, 0))

	sidebar.Resize(fyne.NewSize(l.SidebarWidth, size.Height))
	sidebar.Move(fyne.NewPos(contentWidth, 0))
}

// MinSize returns the minimum size needed for the layout
func (l *SidebarLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 2 {
		return fyne.NewSize(0, 0)
	}

	contentMin := objects[0].MinSize()
	sidebarMin := objects[1].MinSize()

	// the sidebar collapses, so it does not add to the minimum width
	return fyne.NewSize(
		contentMin.Width,
		fyne.Max(sidebarMin.Height, contentMin.Height),
	)
}
