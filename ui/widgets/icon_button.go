package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// pointerState is the hover and press state shared by the toolbar buttons
type pointerState struct {
	hovered  bool
	pressed  bool
	disabled bool
}

func (s *pointerState) background(th fyne.Theme, variant fyne.ThemeVariant, idle color.Color) color.Color {
	switch {
	case s.disabled:
		return th.Color(theme.ColorNameDisabledButton, variant)
	case s.pressed:
		return th.Color(theme.ColorNamePressed, variant)
	case s.hovered:
		return th.Color(theme.ColorNameHover, variant)
	default:
		return idle
	}
}

// IconButton is a toolbar button that displays only an icon
type IconButton struct {
	widget.BaseWidget
	pointerState

	Icon     fyne.Resource
	OnTapped func()
	IconSize float32
	Padding  float32
}

// NewIconButton creates a new icon button
func NewIconButton(icon fyne.Resource, onTapped func()) *IconButton {
	b := &IconButton{
		Icon:     icon,
		OnTapped: onTapped,
		IconSize: 20,
		Padding:  8,
	}
	b.ExtendBaseWidget(b)
	return b
}

// SetDisabled sets the disabled state
func (b *IconButton) SetDisabled(disabled bool) {
	if b.disabled == disabled {
		return
	}
	b.disabled = disabled
	b.Refresh()
}

// Disabled reports whether taps are ignored
func (b *IconButton) Disabled() bool { return b.disabled }

// Tapped handles tap events
func (b *IconButton) Tapped(_ *fyne.PointEvent) {
	if b.disabled || b.OnTapped == nil {
		return
	}
	b.OnTapped()
}

func (b *IconButton) MouseIn(_ *desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

func (b *IconButton) MouseOut() {
	b.hovered = false
	b.pressed = false
	b.Refresh()
}

func (b *IconButton) MouseMoved(_ *desktop.MouseEvent) {}

func (b *IconButton) MouseDown(_ *desktop.MouseEvent) {
	b.pressed = true
	b.Refresh()
}

func (b *IconButton) MouseUp(_ *desktop.MouseEvent) {
	b.pressed = false
	b.Refresh()
}

// CreateRenderer implements fyne.Widget
func (b *IconButton) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Transparent)
	bg.CornerRadius = 6

	icon := canvas.NewImageFromResource(b.Icon)
	icon.FillMode = canvas.ImageFillContain

	return &iconButtonRenderer{
		bg:     bg,
		icon:   icon,
		widget: b,
	}
}

type iconButtonRenderer struct {
	bg     *canvas.Rectangle
	icon   *canvas.Image
	widget *IconButton
}

func (r *iconButtonRenderer) Destroy() {}

func (r *iconButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	iconSize := r.widget.IconSize
	r.icon.Resize(fyne.NewSize(iconSize, iconSize))
	r.icon.Move(fyne.NewPos((size.Width-iconSize)/2, (size.Height-iconSize)/2))
}

func (r *iconButtonRenderer) MinSize() fyne.Size {
	size := r.widget.IconSize + r.widget.Padding*2
	return fyne.NewSize(size, size)
}

func (r *iconButtonRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.icon}
}

func (r *iconButtonRenderer) Refresh() {
	th := fyne.CurrentApp().Settings().Theme()
	variant := fyne.CurrentApp().Settings().ThemeVariant()

	r.bg.FillColor = r.widget.background(th, variant, color.Transparent)

	// Disabled icons are drawn with the theme's disabled color
	icon := r.widget.Icon
	if icon != nil && r.widget.disabled {
		icon = theme.NewDisabledResource(icon)
	}
	r.icon.Resource = icon

	r.bg.Refresh()
	r.icon.Refresh()
}

// PrimaryButton is a prominent action button with primary color
type PrimaryButton struct {
	widget.BaseWidget
	pointerState

	Text     string
	Icon     fyne.Resource
	OnTapped func()
}

// NewPrimaryButton creates a new primary action button
func NewPrimaryButton(text string, icon fyne.Resource, onTapped func()) *PrimaryButton {
	b := &PrimaryButton{
		Text:     text,
		Icon:     icon,
		OnTapped: onTapped,
	}
	b.ExtendBaseWidget(b)
	return b
}

// SetDisabled sets the disabled state
func (b *PrimaryButton) SetDisabled(disabled bool) {
	if b.disabled == disabled {
		return
	}
	b.disabled = disabled
	b.Refresh()
}

// Disabled reports whether taps are ignored
func (b *PrimaryButton) Disabled() bool { return b.disabled }

// SetText changes the label
func (b *PrimaryButton) SetText(text string) {
	b.Text = text
	b.Refresh()
}

// Tapped handles tap events
func (b *PrimaryButton) Tapped(_ *fyne.PointEvent) {
	if b.disabled || b.OnTapped == nil {
		return
	}
	b.OnTapped()
}

func (b *PrimaryButton) MouseIn(_ *desktop.MouseEvent) {
	b.hovered = true
	b.Refresh()
}

func (b *PrimaryButton) MouseOut() {
	b.hovered = false
	b.pressed = false
	b.Refresh()
}

func (b *PrimaryButton) MouseMoved(_ *desktop.MouseEvent) {}

func (b *PrimaryButton) MouseDown(_ *desktop.MouseEvent) {
	b.pressed = true
	b.Refresh()
}

func (b *PrimaryButton) MouseUp(_ *desktop.MouseEvent) {
	b.pressed = false
	b.Refresh()
}

// CreateRenderer implements fyne.Widget
func (b *PrimaryButton) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Transparent)
	bg.CornerRadius = 8

	label := canvas.NewText(b.Text, color.White)
	label.TextStyle = fyne.TextStyle{Bold: true}
	label.Alignment = fyne.TextAlignCenter

	var icon *canvas.Image
	if b.Icon != nil {
		icon = canvas.NewImageFromResource(b.Icon)
		icon.FillMode = canvas.ImageFillContain
	}

	return &primaryButtonRenderer{
		bg:     bg,
		label:  label,
		icon:   icon,
		widget: b,
	}
}

type primaryButtonRenderer struct {
	bg     *canvas.Rectangle
	label  *canvas.Text
	icon   *canvas.Image
	widget *PrimaryButton
}

func (r *primaryButtonRenderer) Destroy() {}

func (r *primaryButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	const iconSize, gap = float32(18), float32(8)
	labelMin := r.label.MinSize()
	total := labelMin.Width
	if r.icon != nil {
		total += iconSize + gap
	}
	x := (size.Width - total) / 2

	if r.icon != nil {
		r.icon.Resize(fyne.NewSize(iconSize, iconSize))
		r.icon.Move(fyne.NewPos(x, (size.Height-iconSize)/2))
		x += iconSize + gap
	}
	r.label.Resize(labelMin)
	r.label.Move(fyne.NewPos(x, (size.Height-labelMin.Height)/2))
}

func (r *primaryButtonRenderer) MinSize() fyne.Size {
	textMin := r.label.MinSize()
	width := textMin.Width + 32
	if r.icon != nil {
		width += 26 // icon + gap
	}
	return fyne.NewSize(width, fyne.Max(textMin.Height+16, 36))
}

func (r *primaryButtonRenderer) Objects() []fyne.CanvasObject {
	objs := []fyne.CanvasObject{r.bg, r.label}
	if r.icon != nil {
		objs = append(objs, r.icon)
	}
	return objs
}

func (r *primaryButtonRenderer) Refresh() {
	th := fyne.CurrentApp().Settings().Theme()
	variant := fyne.CurrentApp().Settings().ThemeVariant()

	r.bg.FillColor = r.widget.background(th, variant, th.Color(theme.ColorNamePrimary, variant))
	if r.widget.disabled {
		r.label.Color = th.Color(theme.ColorNameDisabled, variant)
	} else {
		r.label.Color = th.Color(theme.ColorNameForeground, variant)
	}

	r.label.Text = r.widget.Text
	r.bg.Refresh()
	r.label.Refresh()
	if r.icon != nil {
		if r.widget.disabled {
			r.icon.Resource = theme.NewDisabledResource(r.widget.Icon)
		} else {
			r.icon.Resource = r.widget.Icon
		}
		r.icon.Refresh()
	}
}
