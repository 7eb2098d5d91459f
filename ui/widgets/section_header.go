package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// SectionHeader is a styled title above a panel, with an optional counter
// line below it
type SectionHeader struct {
	widget.BaseWidget

	Title       string
	Subtitle    string
	ShowDivider bool
}

// NewSectionHeader creates a new section header
func NewSectionHeader(title string) *SectionHeader {
	h := &SectionHeader{
		Title:       title,
		ShowDivider: true,
	}
	h.ExtendBaseWidget(h)
	return h
}

// SetSubtitle updates the subtitle
func (h *SectionHeader) SetSubtitle(subtitle string) {
	if h.Subtitle == subtitle {
		return
	}
	h.Subtitle = subtitle
	h.Refresh()
}

// CreateRenderer implements fyne.Widget
func (h *SectionHeader) CreateRenderer() fyne.WidgetRenderer {
	title := canvas.NewText(h.Title, color.White)
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.TextSize = 16

	subtitle := canvas.NewText(h.Subtitle, color.Gray{Y: 150})
	subtitle.TextSize = 12

	divider := canvas.NewRectangle(color.Transparent)

	return &sectionHeaderRenderer{
		title:    title,
		subtitle: subtitle,
		divider:  divider,
		widget:   h,
	}
}

type sectionHeaderRenderer struct {
	title    *canvas.Text
	subtitle *canvas.Text
	divider  *canvas.Rectangle
	widget   *SectionHeader
}

const headerPadding = float32(10)

func (r *sectionHeaderRenderer) Destroy() {}

func (r *sectionHeaderRenderer) Layout(size fyne.Size) {
	y := headerPadding

	r.title.Move(fyne.NewPos(headerPadding, y))
	y += r.title.MinSize().Height

	if r.widget.Subtitle != "" {
		y += 2
		r.subtitle.Move(fyne.NewPos(headerPadding, y))
		y += r.subtitle.MinSize().Height
	}

	if r.widget.ShowDivider {
		y += headerPadding
		r.divider.Resize(fyne.NewSize(size.Width-headerPadding*2, 1))
		r.divider.Move(fyne.NewPos(headerPadding, y))
	}
}

func (r *sectionHeaderRenderer) MinSize() fyne.Size {
	height := headerPadding + r.title.MinSize().Height
	if r.widget.Subtitle != "" {
		height += 2 + r.subtitle.MinSize().Height
	}
	if r.widget.ShowDivider {
		height += headerPadding + 1
	}
	height += headerPadding

	return fyne.NewSize(fyne.Max(150, r.title.MinSize().Width+headerPadding*2), height)
}

func (r *sectionHeaderRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.title}
	if r.widget.Subtitle != "" {
		objs = append(objs, r.subtitle)
	}
	if r.widget.ShowDivider {
		objs = append(objs, r.divider)
	}
	return objs
}

func (r *sectionHeaderRenderer) Refresh() {
	th := fyne.CurrentApp().Settings().Theme()
	variant := fyne.CurrentApp().Settings().ThemeVariant()

	r.title.Text = r.widget.Title
	r.title.Color = th.Color(theme.ColorNameForeground, variant)
	r.title.Refresh()

	r.subtitle.Text = r.widget.Subtitle
	r.subtitle.Color = th.Color(theme.ColorNamePlaceHolder, variant)
	r.subtitle.Refresh()

	r.divider.FillColor = th.Color(theme.ColorNameSeparator, variant)
	r.divider.Refresh()
}
