package ui

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"readalong-editor/internal/logger"
	"readalong-editor/internal/regions"
	"readalong-editor/models"
	"readalong-editor/services"
	"readalong-editor/ui/dialogs"
	"readalong-editor/ui/layouts"
	appTheme "readalong-editor/ui/theme"
	"readalong-editor/ui/widgets"
)

// playheadInterval is how often the cursor follows playback
const playheadInterval = 40 * time.Millisecond

var (
	documentExts = []string{".html", ".htm", ".xhtml", ".xml", ".readalong"}
	audioExts    = []string{".wav", ".mp3", ".flac", ".ogg", ".m4a", ".aac", ".opus", ".webm"}
)

// MainUI is the editor window
type MainUI struct {
	window fyne.Window
	editor *services.Editor

	// UI Components
	toolbar  *widgets.Toolbar
	view     *widgets.WaveformView
	words    *WordList
	position *widget.Label

	stopPlayhead chan struct{}
	log          *logger.Logger
}

// NewMainUI creates the editor UI around editor. The editor must dispatch
// onto the fyne goroutine.
func NewMainUI(w fyne.Window, editor *services.Editor) *MainUI {
	return &MainUI{
		window: w,
		editor: editor,
		log:    logger.Named("ui"),
	}
}

// Build creates the complete UI layout
func (ui *MainUI) Build() fyne.CanvasObject {
	plugin := ui.editor.Regions()

	ui.toolbar = widgets.NewToolbar()
	ui.toolbar.OnOpenDocument = ui.openDocument
	ui.toolbar.OnOpenAudio = ui.openAudio
	ui.toolbar.OnZoomIn = func() { ui.editor.ZoomIn() }
	ui.toolbar.OnZoomOut = func() { ui.editor.ZoomOut() }
	ui.toolbar.OnSave = ui.save
	ui.toolbar.OnSettings = ui.showSettings
	ui.toolbar.SetZoom(ui.editor.Zoom())

	ui.view = widgets.NewWaveformView(ui.window, ui.editor.Zoom())
	plugin.Mount(ui.view, ui.view)

	ui.words = NewWordList(plugin, ui.playRegion)
	ui.position = widget.NewLabel("0.000 s")
	ui.position.TextStyle = fyne.TextStyle{Monospace: true}

	ui.subscribe()
	ui.addShortcuts()

	// Waveform on top, gesture help below it
	help := widget.NewLabel("Drag a word to move it, drag its edges to resize it. " +
		"Click to play, double-click to edit.")
	help.Wrapping = fyne.TextWrapWord
	waveformArea := container.NewBorder(ui.view, nil, nil, nil, container.NewVBox(help, emptyHint()))

	content := container.New(
		layouts.NewSidebarLayout(appTheme.SidebarWidth, 320),
		waveformArea,
		widgets.NewPanel(appTheme.ColorNameSidebar, ui.words.Build()),
	)

	return container.New(
		layouts.NewBarsLayout(appTheme.ToolbarHeight, 44),
		ui.toolbar,
		content,
		ui.buildPlaybackBar(),
	)
}

func (ui *MainUI) buildPlaybackBar() fyne.CanvasObject {
	player := ui.editor.Player()
	play := widgets.NewIconButton(theme.MediaPlayIcon(), func() {
		player.PlayRange(player.Position(), 0)
		ui.followPlayback()
	})
	stop := widgets.NewIconButton(theme.MediaStopIcon(), player.Stop)
	rewind := widgets.NewIconButton(theme.MediaSkipPreviousIcon(), func() {
		player.Rewind()
		ui.showPosition(0)
		ui.editor.Regions().SetTime(0)
	})

	bar := container.NewHBox(rewind, play, stop, ui.position)
	return container.NewStack(
		widgets.NewThemedRectangle(appTheme.ColorNameBottomPanel),
		container.NewPadded(bar),
	)
}

// subscribe keeps the widgets in step with the editor and its regions.
func (ui *MainUI) subscribe() {
	plugin := ui.editor.Regions()

	// save reports export failures itself
	ui.editor.On(services.EventSession, func(ev services.EditorEvent) {
		ui.toolbar.SetSession(ev.Session, ui.editor.CanExport())
	})
	ui.editor.On(services.EventTrack, func(ev services.EditorEvent) {
		ui.view.SetTrack(ev.Track)
		plugin.Refresh()
		ui.showPosition(0)
	})
	ui.editor.On(services.EventZoom, func(ev services.EditorEvent) {
		ui.view.SetZoom(ev.Zoom)
		ui.toolbar.SetZoom(ev.Zoom)
		plugin.Refresh()
	})

	reload := func(regions.Event) { ui.words.Reload() }
	plugin.On(regions.EventRegionCreated, reload)
	plugin.On(regions.EventRegionRemoved, reload)
	plugin.On(regions.EventRegionUpdateEnd, reload)

	plugin.On(regions.EventRegionPlay, func(regions.Event) { ui.followPlayback() })
	plugin.On(regions.EventRegionIn, func(ev regions.Event) {
		ui.view.SetActive(ev.Region)
		ui.words.Reveal(ev.Region)
	})
	plugin.On(regions.EventRegionOut, func(ev regions.Event) {
		if plugin.GetCurrentRegion(ui.editor.Player().Position()) == nil {
			ui.view.SetActive(nil)
		}
	})
}

func (ui *MainUI) addShortcuts() {
	canvas := ui.window.Canvas()
	mod := fyne.KeyModifierShortcutDefault
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: mod}, func(fyne.Shortcut) {
		if ui.editor.CanExport() {
			ui.save()
		}
	})
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: mod}, func(fyne.Shortcut) { ui.openDocument() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyEqual, Modifier: mod}, func(fyne.Shortcut) { ui.editor.ZoomIn() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyMinus, Modifier: mod}, func(fyne.Shortcut) { ui.editor.ZoomOut() })
}

func (ui *MainUI) playRegion(r *regions.Region) {
	ui.view.SetScrollLeft(r.Start()*ui.editor.Zoom() - ui.view.ClientWidth()/3)
	r.Play()
}

// followPlayback moves the playhead while the player runs and reports the
// position to the regions so they fire in and out.
func (ui *MainUI) followPlayback() {
	if ui.stopPlayhead != nil {
		return
	}
	stop := make(chan struct{})
	ui.stopPlayhead = stop
	player := ui.editor.Player()

	go func() {
		ticker := time.NewTicker(playheadInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t := player.Position()
				playing := player.Playing()
				fyne.Do(func() {
					if ui.stopPlayhead != stop {
						return
					}
					ui.showPosition(t)
					ui.editor.Regions().SetTime(t)
					if !playing {
						close(stop)
						ui.stopPlayhead = nil
					}
				})
			}
		}
	}()
}

func (ui *MainUI) showPosition(t float64) {
	ui.view.SetPlayhead(t)
	ui.position.SetText(fmt.Sprintf("%.3f s", t))
}

func (ui *MainUI) openDocument() {
	ui.showOpenDialog("Open read-along", documentExts, func(ref string) {
		ui.editor.OpenDocument(ref)
	})
}

func (ui *MainUI) openAudio() {
	ui.showOpenDialog("Open audio", audioExts, func(ref string) {
		ui.editor.OpenAudio(ref)
	})
}

// showOpenDialog asks for a path or URL, with a file browser to fill it in.
func (ui *MainUI) showOpenDialog(title string, exts []string, open func(ref string)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("File path, http(s) URL or data: URI")

	browse := widget.NewButton("Browse...", func() {
		fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			defer reader.Close()
			entry.SetText(reader.URI().Path())
		}, ui.window)
		fd.SetFilter(storage.NewExtensionFileFilter(exts))
		fd.Show()
	})

	items := []*widget.FormItem{
		widget.NewFormItem("Location", container.NewBorder(nil, nil, nil, browse, entry)),
	}
	form := dialog.NewForm(title, "Open", "Cancel", items, func(ok bool) {
		if ok && entry.Text != "" {
			open(entry.Text)
		}
	}, ui.window)
	form.Resize(fyne.NewSize(560, 160))
	form.Show()
}

func (ui *MainUI) save() {
	path, err := ui.editor.Save()
	if err != nil {
		dialog.ShowError(err, ui.window)
		return
	}
	ui.log.Info("saved %s", path)
	dialog.ShowInformation("Saved", "Alignment written to "+path, ui.window)
}

func (ui *MainUI) showSettings() {
	settingsDialog := dialogs.NewSettingsDialog(ui.window, ui.editor.Config())
	settingsDialog.OnSave = func(config *models.Config) {
		logger.SetLevel(config.Level())
		ui.editor.Reconfigure(config)
		dialogs.ShowDependencyCheck(ui.window, services.DependencyOrder, services.CheckDependencies(config))
	}
	settingsDialog.Show()
}

// Close stops the playhead and releases the editor.
func (ui *MainUI) Close() {
	if ui.stopPlayhead != nil {
		close(ui.stopPlayhead)
		ui.stopPlayhead = nil
	}
	ui.editor.Close()
}
