package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"readalong-editor/models"
	appTheme "readalong-editor/ui/theme"
)

// StatusBadge displays the session status with a colored indicator
type StatusBadge struct {
	widget.BaseWidget

	Status    models.SessionStatus
	Detail    string // shown after the status, e.g. the file name
	ShowLabel bool
}

// NewStatusBadge creates a new status badge
func NewStatusBadge(status models.SessionStatus) *StatusBadge {
	b := &StatusBadge{
		Status:    status,
		ShowLabel: true,
	}
	b.ExtendBaseWidget(b)
	return b
}

// SetStatus updates the status and its detail text
func (b *StatusBadge) SetStatus(status models.SessionStatus, detail string) {
	b.Status = status
	b.Detail = detail
	b.Refresh()
}

// CreateRenderer implements fyne.Widget
func (b *StatusBadge) CreateRenderer() fyne.WidgetRenderer {
	dot := canvas.NewCircle(color.Transparent)
	label := canvas.NewText("", color.White)
	label.TextSize = 12

	return &statusBadgeRenderer{
		dot:    dot,
		label:  label,
		widget: b,
	}
}

type statusBadgeRenderer struct {
	dot    *canvas.Circle
	label  *canvas.Text
	widget *StatusBadge
}

func (r *statusBadgeRenderer) Destroy() {}

func (r *statusBadgeRenderer) Layout(size fyne.Size) {
	dotSize := float32(8)
	r.dot.Resize(fyne.NewSize(dotSize, dotSize))
	r.dot.Move(fyne.NewPos(4, (size.Height-dotSize)/2))

	if r.widget.ShowLabel {
		r.label.Move(fyne.NewPos(dotSize+10, (size.Height-r.label.MinSize().Height)/2))
	}
}

func (r *statusBadgeRenderer) MinSize() fyne.Size {
	if r.widget.ShowLabel {
		labelSize := r.label.MinSize()
		return fyne.NewSize(8+10+labelSize.Width+4, fyne.Max(16, labelSize.Height))
	}
	return fyne.NewSize(16, 16)
}

func (r *statusBadgeRenderer) Objects() []fyne.CanvasObject {
	if r.widget.ShowLabel {
		return []fyne.CanvasObject{r.dot, r.label}
	}
	return []fyne.CanvasObject{r.dot}
}

func (r *statusBadgeRenderer) Refresh() {
	th := fyne.CurrentApp().Settings().Theme()
	variant := fyne.CurrentApp().Settings().ThemeVariant()

	text := StatusText(r.widget.Status)
	if r.widget.Detail != "" {
		text += " · " + r.widget.Detail
	}

	r.dot.FillColor = th.Color(StatusColor(r.widget.Status), variant)
	r.dot.Refresh()

	r.label.Text = text
	r.label.Color = th.Color(theme.ColorNameForeground, variant)
	r.label.Refresh()
}

// StatusText returns the label shown for a session status
func StatusText(status models.SessionStatus) string {
	switch status {
	case models.StatusIdle:
		return "No document"
	case models.StatusLoading:
		return "Loading..."
	case models.StatusReady:
		return "Saved"
	case models.StatusDirty:
		return "Unsaved changes"
	case models.StatusExporting:
		return "Saving..."
	case models.StatusFailed:
		return "Failed"
	default:
		return string(status)
	}
}

// StatusColor returns the indicator color for a session status
func StatusColor(status models.SessionStatus) fyne.ThemeColorName {
	switch status {
	case models.StatusLoading, models.StatusExporting:
		return appTheme.ColorNameStatusBusy
	case models.StatusReady:
		return appTheme.ColorNameStatusReady
	case models.StatusDirty:
		return appTheme.ColorNameStatusDirty
	case models.StatusFailed:
		return appTheme.ColorNameStatusFailed
	default:
		return appTheme.ColorNameStatusIdle
	}
}
