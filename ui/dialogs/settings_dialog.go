package dialogs

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"readalong-editor/models"
)

// SettingsDialog displays and manages application settings
type SettingsDialog struct {
	window fyne.Window
	config *models.Config

	// UI elements
	outputDirEntry    *widget.Entry
	ffmpegPathEntry   *widget.Entry
	logLevelSelect    *widget.Select
	precisionSelect   *widget.Select
	zoomEntry         *widget.Entry
	minLengthEntry    *widget.Entry
	snapEntry         *widget.Entry
	maxRegionsEntry   *widget.Entry
	linkDepthEntry    *widget.Entry
	timeoutEntry      *widget.Entry
	editableCheck     *widget.Check
	removeButtonCheck *widget.Check

	OnSave func(config *models.Config)
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(window fyne.Window, config *models.Config) *SettingsDialog {
	return &SettingsDialog{
		window: window,
		config: config,
	}
}

// Show displays the settings dialog
func (d *SettingsDialog) Show() {
	content := d.build()

	// Make dialog scrollable
	scrollContent := container.NewVScroll(content)
	scrollContent.SetMinSize(fyne.NewSize(460, 480))

	dialog.ShowCustomConfirm("Settings", "Save", "Cancel", scrollContent, func(save bool) {
		if !save {
			return
		}
		if err := d.saveSettings(); err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if d.OnSave != nil {
			d.OnSave(d.config)
		}
	}, d.window)
}

func (d *SettingsDialog) build() fyne.CanvasObject {
	// Output directory
	d.outputDirEntry = widget.NewEntry()
	d.outputDirEntry.SetPlaceHolder("Next to the opened document")
	d.outputDirEntry.SetText(d.config.OutputDirectory)

	browseBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			d.outputDirEntry.SetText(uri.Path())
		}, d.window)
	})
	outputRow := container.NewBorder(nil, nil, nil, browseBtn, d.outputDirEntry)

	// FFmpeg
	d.ffmpegPathEntry = widget.NewEntry()
	d.ffmpegPathEntry.SetPlaceHolder("Auto-detect")
	d.ffmpegPathEntry.SetText(d.config.FFmpegPath)

	ffmpegBrowseBtn := widget.NewButton("Browse...", func() {
		dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
			if err != nil || reader == nil {
				return
			}
			d.ffmpegPathEntry.SetText(reader.URI().Path())
			reader.Close()
		}, d.window)
	})
	ffmpegRow := container.NewBorder(nil, nil, nil, ffmpegBrowseBtn, d.ffmpegPathEntry)

	d.logLevelSelect = widget.NewSelect([]string{"debug", "info", "warn", "error"}, nil)
	d.logLevelSelect.SetSelected(getOrDefault(d.config.LogLevel, "info"))

	// Regions
	d.editableCheck = widget.NewCheck("Edit words with a double click", nil)
	d.editableCheck.SetChecked(d.config.ContentEditable)
	d.removeButtonCheck = widget.NewCheck("Show remove buttons", nil)
	d.removeButtonCheck.SetChecked(d.config.RemoveButton)

	d.zoomEntry = numberEntry(formatFloat(d.config.MinPxPerSec))
	d.minLengthEntry = numberEntry(formatFloat(d.config.RegionMinLength))
	d.snapEntry = numberEntry(formatFloat(d.config.SnapToGridInterval))
	d.snapEntry.SetPlaceHolder("0 disables snapping")
	d.maxRegionsEntry = numberEntry(strconv.Itoa(d.config.MaxRegions))
	d.maxRegionsEntry.SetPlaceHolder("0 means unlimited")

	// Documents
	d.precisionSelect = widget.NewSelect([]string{"1", "2", "3", "4", "5", "6"}, nil)
	d.precisionSelect.SetSelected(strconv.Itoa(d.config.TimePrecision))
	d.linkDepthEntry = numberEntry(strconv.Itoa(d.config.MaxLinkDepth))
	d.timeoutEntry = numberEntry(strconv.Itoa(d.config.FetchTimeoutSeconds))

	generalForm := widget.NewForm(
		widget.NewFormItem("Output Directory", outputRow),
		widget.NewFormItem("FFmpeg", ffmpegRow),
		widget.NewFormItem("Log Level", d.logLevelSelect),
	)

	regionsForm := widget.NewForm(
		widget.NewFormItem("Initial zoom (px/s)", d.zoomEntry),
		widget.NewFormItem("Minimum length (s)", d.minLengthEntry),
		widget.NewFormItem("Snap interval (s)", d.snapEntry),
		widget.NewFormItem("Maximum regions", d.maxRegionsEntry),
	)

	documentsForm := widget.NewForm(
		widget.NewFormItem("Decimals written", d.precisionSelect),
		widget.NewFormItem("Link depth", d.linkDepthEntry),
		widget.NewFormItem("Fetch timeout (s)", d.timeoutEntry),
	)

	return container.NewVBox(
		widget.NewLabel("General"),
		generalForm,
		widget.NewSeparator(),
		widget.NewLabel("Regions"),
		d.editableCheck,
		d.removeButtonCheck,
		regionsForm,
		widget.NewSeparator(),
		widget.NewLabel("Documents"),
		documentsForm,
	)
}

func numberEntry(text string) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(text)
	return e
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// saveSettings copies the form into the config and writes it. Values the
// config rejects fall back to their defaults.
func (d *SettingsDialog) saveSettings() error {
	zoom, err := parseFloat("Initial zoom", d.zoomEntry.Text)
	if err != nil {
		return err
	}
	minLength, err := parseFloat("Minimum length", d.minLengthEntry.Text)
	if err != nil {
		return err
	}
	snap, err := parseFloat("Snap interval", d.snapEntry.Text)
	if err != nil {
		return err
	}
	maxRegions, err := parseInt("Maximum regions", d.maxRegionsEntry.Text)
	if err != nil {
		return err
	}
	linkDepth, err := parseInt("Link depth", d.linkDepthEntry.Text)
	if err != nil {
		return err
	}
	timeout, err := parseInt("Fetch timeout", d.timeoutEntry.Text)
	if err != nil {
		return err
	}
	precision, _ := strconv.Atoi(d.precisionSelect.Selected)

	d.config.OutputDirectory = d.outputDirEntry.Text
	d.config.FFmpegPath = d.ffmpegPathEntry.Text
	d.config.LogLevel = d.logLevelSelect.Selected
	d.config.ContentEditable = d.editableCheck.Checked
	d.config.RemoveButton = d.removeButtonCheck.Checked
	d.config.MinPxPerSec = zoom
	d.config.RegionMinLength = minLength
	d.config.SnapToGridInterval = snap
	d.config.MaxRegions = maxRegions
	d.config.TimePrecision = precision
	d.config.MaxLinkDepth = linkDepth
	d.config.FetchTimeoutSeconds = timeout
	d.config.Normalize()

	return d.config.Save()
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", field, s)
	}
	return v, nil
}

func parseInt(field, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a whole number", field, s)
	}
	return v, nil
}

func getOrDefault(value, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

// ShowDependencyCheck shows the dependency check dialog
func ShowDependencyCheck(window fyne.Window, order []string, results map[string]error) {
	var status string
	allGood := true

	for _, name := range order {
		if err, ok := results[name]; ok {
			if err != nil {
				status += "  " + name + ": " + err.Error() + "\n"
				allGood = false
			} else {
				status += "  " + name + ": OK\n"
			}
		}
	}

	if allGood {
		status += "\nEverything is in place."
	} else {
		status += "\nWithout ffmpeg only WAV, MP3, FLAC and Ogg Vorbis audio can be opened."
	}

	dialog.ShowInformation("Dependency Check", status, window)
}
