package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"readalong-editor/internal/regions"
	"readalong-editor/ui/widgets"
)

// WordList lists the regions in time order. Selecting a word plays it.
type WordList struct {
	plugin  *regions.Plugin
	regions []*regions.Region
	list    *widget.List
	header  *widgets.SectionHeader

	onSelected func(r *regions.Region)
}

func NewWordList(plugin *regions.Plugin, onSelected func(*regions.Region)) *WordList {
	wl := &WordList{
		plugin:     plugin,
		header:     widgets.NewSectionHeader("Words"),
		onSelected: onSelected,
	}

	wl.list = widget.NewList(
		func() int { return len(wl.regions) },
		func() fyne.CanvasObject {
			word := widget.NewLabel("word")
			word.Truncation = fyne.TextTruncateEllipsis
			span := widget.NewLabel("0.000 - 0.000")
			span.TextStyle = fyne.TextStyle{Monospace: true}
			return container.NewBorder(nil, nil, nil, span, word)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			word := row.Objects[0].(*widget.Label)
			span := row.Objects[1].(*widget.Label)

			r := wl.regions[id]
			word.SetText(r.Text())
			span.SetText(fmt.Sprintf("%.3f - %.3f", r.Start(), r.End()))
		},
	)

	wl.list.OnSelected = func(id widget.ListItemID) {
		if int(id) < len(wl.regions) && wl.onSelected != nil {
			wl.onSelected(wl.regions[id])
		}
		// selection is a one-shot action
		wl.list.UnselectAll()
	}

	return wl
}

func (wl *WordList) Build() fyne.CanvasObject {
	return container.NewBorder(wl.header, nil, nil, nil, wl.list)
}

// Reload re-reads the regions from the collection.
func (wl *WordList) Reload() {
	wl.regions = wl.plugin.List()
	wl.header.SetSubtitle(fmt.Sprintf("%d aligned", len(wl.regions)))
	wl.list.Refresh()
}

// Reveal scrolls r into view.
func (wl *WordList) Reveal(r *regions.Region) {
	for i, x := range wl.regions {
		if x == r {
			wl.list.ScrollTo(widget.ListItemID(i))
			return
		}
	}
}

// emptyHint is shown in place of the waveform before anything is loaded.
func emptyHint() fyne.CanvasObject {
	hint := widget.NewLabel("Open a read-along document to start aligning.")
	hint.Alignment = fyne.TextAlignCenter
	return container.NewVBox(layout.NewSpacer(), hint, layout.NewSpacer())
}
