package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// ThemedRectangle is a rectangle filled with a named theme color, so it
// follows theme changes without being rebuilt
type ThemedRectangle struct {
	widget.BaseWidget

	ColorName    fyne.ThemeColorName
	CornerRadius float32
	MinWidth     float32
	MinHeight    float32
}

// NewThemedRectangle creates a new themed rectangle
func NewThemedRectangle(colorName fyne.ThemeColorName) *ThemedRectangle {
	r := &ThemedRectangle{ColorName: colorName}
	r.ExtendBaseWidget(r)
	return r
}

// SetColorName switches the fill color
func (r *ThemedRectangle) SetColorName(name fyne.ThemeColorName) {
	if r.ColorName == name {
		return
	}
	r.ColorName = name
	r.Refresh()
}

// SetMinSize sets the minimum size for the rectangle
func (r *ThemedRectangle) SetMinSize(size fyne.Size) {
	r.MinWidth = size.Width
	r.MinHeight = size.Height
	r.Refresh()
}

// CreateRenderer implements fyne.Widget
func (r *ThemedRectangle) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(themeColor(r.ColorName))
	rect.CornerRadius = r.CornerRadius
	return &themedRectangleRenderer{rect: rect, widget: r}
}

type themedRectangleRenderer struct {
	rect   *canvas.Rectangle
	widget *ThemedRectangle
}

func (r *themedRectangleRenderer) Destroy()              {}
func (r *themedRectangleRenderer) Layout(size fyne.Size) { r.rect.Resize(size) }

func (r *themedRectangleRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.widget.MinWidth, r.widget.MinHeight)
}

func (r *themedRectangleRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.rect}
}

func (r *themedRectangleRenderer) Refresh() {
	r.rect.FillColor = themeColor(r.widget.ColorName)
	r.rect.CornerRadius = r.widget.CornerRadius
	r.rect.Refresh()
}

// Panel is a container with a themed background
type Panel struct {
	widget.BaseWidget

	Content   fyne.CanvasObject
	ColorName fyne.ThemeColorName
	Padding   float32
}

// NewPanel creates a new panel with themed background
func NewPanel(colorName fyne.ThemeColorName, content fyne.CanvasObject) *Panel {
	p := &Panel{
		Content:   content,
		ColorName: colorName,
		Padding:   0,
	}
	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	return &panelRenderer{
		bg:     canvas.NewRectangle(themeColor(p.ColorName)),
		widget: p,
	}
}

type panelRenderer struct {
	bg     *canvas.Rectangle
	widget *Panel
}

func (r *panelRenderer) Destroy() {}

func (r *panelRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	padding := r.widget.Padding
	r.widget.Content.Resize(fyne.NewSize(size.Width-padding*2, size.Height-padding*2))
	r.widget.Content.Move(fyne.NewPos(padding, padding))
}

func (r *panelRenderer) MinSize() fyne.Size {
	contentMin := r.widget.Content.MinSize()
	padding := r.widget.Padding * 2
	return fyne.NewSize(contentMin.Width+padding, contentMin.Height+padding)
}

func (r *panelRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.widget.Content}
}

func (r *panelRenderer) Refresh() {
	r.bg.FillColor = themeColor(r.widget.ColorName)
	r.bg.Refresh()
	r.widget.Content.Refresh()
}

func themeColor(name fyne.ThemeColorName) color.Color {
	return fyne.CurrentApp().Settings().Theme().Color(name, fyne.CurrentApp().Settings().ThemeVariant())
}
