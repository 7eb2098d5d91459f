package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"readalong-editor/internal/logger"
	"readalong-editor/models"
	"readalong-editor/services"
	"readalong-editor/ui"
	appTheme "readalong-editor/ui/theme"
)

func main() {
	config, err := models.LoadConfig()
	if err != nil {
		logger.Warn("settings not loaded, using defaults: %v", err)
		config = models.DefaultConfig()
	}
	logger.SetLevel(config.Level())

	a := app.NewWithID("org.readalong.editor")
	a.Settings().SetTheme(&appTheme.EditorTheme{})

	w := a.NewWindow("Read-Along Editor")
	w.Resize(fyne.NewSize(1100, 640))

	editor := services.NewEditor(config, services.EditorOptions{Dispatch: fyne.Do})
	mainUI := ui.NewMainUI(w, editor)
	w.SetContent(mainUI.Build())
	w.SetOnClosed(mainUI.Close)

	w.ShowAndRun()
}
