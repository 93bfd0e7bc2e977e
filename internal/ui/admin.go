package ui

import (
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GridCut/internal/model"
	"github.com/piwi3910/GridCut/internal/project"
)

// ─── Saved layouts ─────────────────────────────────────────

func (a *App) saveLayouts() {
	if err := project.SaveTemplates(a.layoutsPath, a.layouts); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save layouts: %w", err), a.window)
	}
}

// showSaveLayoutDialog stores the current selection, grid and border
// option under a name.
func (a *App) showSaveLayoutDialog() {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("e.g. Contact sheet 4x5")
	descEntry := widget.NewEntry()

	form := dialog.NewForm("Save Layout", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			name := strings.TrimSpace(nameEntry.Text)
			if name == "" {
				dialog.ShowError(fmt.Errorf("layout name must not be empty"), a.window)
				return
			}
			a.layouts.Add(model.NewLayoutTemplate(name, descEntry.Text,
				a.session.SelectionNormalized(), a.grid(), a.config.CutBorder))
			a.saveLayouts()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 200))
	form.Show()
}

// showLayoutsDialog lists saved layouts for applying or deleting.
func (a *App) showLayoutsDialog() {
	if len(a.layouts.Templates) == 0 {
		dialog.ShowInformation("No saved layouts", "Use Layouts > Save Current Layout first.", a.window)
		return
	}

	details := widget.NewLabel("")
	layoutSelect := widget.NewSelect(a.layouts.Names(), func(name string) {
		if t := a.layouts.FindByName(name); t != nil {
			details.SetText(fmt.Sprintf("%s\ngrid %d×%d, selection %.0f%%×%.0f%% at (%.0f%%, %.0f%%), cut border: %v",
				t.Description, t.Grid.Rows, t.Grid.Cols,
				t.Selection.Width*100, t.Selection.Height*100, t.Selection.X*100, t.Selection.Y*100, t.CutBorder))
		}
	})
	layoutSelect.SetSelected(a.layouts.Templates[0].Name)

	var d dialog.Dialog
	applyBtn := widget.NewButton("Apply", func() {
		if t := a.layouts.FindByName(layoutSelect.Selected); t != nil {
			a.applyTemplate(*t)
			d.Hide()
		}
	})
	deleteBtn := widget.NewButton("Delete", func() {
		t := a.layouts.FindByName(layoutSelect.Selected)
		if t == nil {
			return
		}
		a.layouts.Remove(t.ID)
		a.saveLayouts()
		d.Hide()
	})

	content := container.NewVBox(layoutSelect, details, container.NewHBox(applyBtn, deleteBtn))
	d = dialog.NewCustom("Saved Layouts", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 220))
	d.Show()
}

// applyTemplate applies a saved layout as one undoable step.
func (a *App) applyTemplate(t model.LayoutTemplate) {
	a.history.Push(a.current("Apply " + t.Name))
	cfg := a.config
	t.ApplyTo(&cfg)
	a.applyConfig(cfg)
}

// applyConfig replaces the preferences and pushes them into the widgets.
func (a *App) applyConfig(cfg model.AppConfig) {
	a.config = cfg
	a.session.SetSelectionNormalized(cfg.Selection())
	a.last = a.session.SelectionNormalized()
	a.rowsEntry.SetText(fmt.Sprint(cfg.GridRows))
	a.colsEntry.SetText(fmt.Sprint(cfg.GridCols))
	a.cutBorder.SetChecked(cfg.CutBorder)
	a.previewCheck.SetChecked(cfg.PreviewMode)
	a.presetSelect.SetSelected(cfg.PDFPreset)
	a.refreshView()
}

// ─── Backup ────────────────────────────────────────────────

// showImportExportDialog moves preferences and saved layouts to or from a
// backup file.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export Settings...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.layouts); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Settings and %d layouts exported to:\n%s", len(a.layouts.Templates), path), a.window)
			}
		}, a.window)
		d.SetFileName("gridcut-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import Settings...", func() {
		dialog.ShowConfirm("Import Settings",
			"Importing replaces your current settings and saved layouts.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.history.Push(a.current("Import settings"))
					a.applyConfig(backup.Config)
					a.layouts = backup.Layouts
					a.saveLayouts()
					a.saveConfig()
					log.Printf("imported settings from backup created at %s", backup.CreatedAt)
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Settings imported from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences and saved layouts to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Settings", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}
