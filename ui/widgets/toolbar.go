package widgets

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"readalong-editor/models"
	"readalong-editor/ui/layouts"
	appTheme "readalong-editor/ui/theme"
)

// Toolbar is the fixed top bar with the file, zoom and save controls
type Toolbar struct {
	widget.BaseWidget

	OnOpenDocument func()
	OnOpenAudio    func()
	OnZoomIn       func()
	OnZoomOut      func()
	OnSave         func()
	OnSettings     func()

	status  *StatusBadge
	zoom    *widget.Label
	saveBtn *PrimaryButton
}

// NewToolbar creates the toolbar
func NewToolbar() *Toolbar {
	t := &Toolbar{
		status:  NewStatusBadge(models.StatusIdle),
		zoom:    widget.NewLabel(""),
		saveBtn: NewPrimaryButton("Save", theme.DocumentSaveIcon(), nil),
	}
	t.saveBtn.OnTapped = func() { call(t.OnSave) }
	t.saveBtn.SetDisabled(true)
	t.ExtendBaseWidget(t)
	return t
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}

// SetSession shows the session status and enables saving when allowed
func (t *Toolbar) SetSession(s *models.Session, canExport bool) {
	detail := s.DocumentName
	if s.Status == models.StatusFailed && s.Error != nil {
		detail = s.Error.Error()
	}
	t.status.SetStatus(s.Status, detail)
	t.saveBtn.SetDisabled(!canExport)
}

// SetZoom shows the zoom level
func (t *Toolbar) SetZoom(pxPerSec float64) {
	t.zoom.SetText(fmt.Sprintf("%.0f px/s", pxPerSec))
}

// Build creates the toolbar UI
func (t *Toolbar) Build() fyne.CanvasObject {
	// === FILES ===
	openDoc := widget.NewButtonWithIcon("Open read-along", theme.FolderOpenIcon(), func() { call(t.OnOpenDocument) })
	openAudio := widget.NewButtonWithIcon("Open audio", theme.MediaMusicIcon(), func() { call(t.OnOpenAudio) })
	files := container.NewHBox(openDoc, openAudio)

	// === ZOOM AND ACTIONS ===
	zoomOut := NewIconButton(theme.ZoomOutIcon(), func() { call(t.OnZoomOut) })
	zoomIn := NewIconButton(theme.ZoomInIcon(), func() { call(t.OnZoomIn) })
	settings := NewIconButton(theme.SettingsIcon(), func() { call(t.OnSettings) })
	actions := container.NewHBox(zoomOut, t.zoom, zoomIn, t.saveBtn, settings)

	bar := container.New(layouts.NewToolbarLayout(8), files, t.status, actions)

	return container.NewStack(
		NewThemedRectangle(appTheme.ColorNameBottomPanel),
		bar,
	)
}

// CreateRenderer implements fyne.Widget
func (t *Toolbar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(t.Build())
}
