package ui

import (
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/export"
	"github.com/piwi3910/GridCut/internal/importer"
	"github.com/piwi3910/GridCut/internal/model"
)

// ─── Export ────────────────────────────────────────────────

func (a *App) requireImage() bool {
	if a.session.HasImage() {
		return true
	}
	dialog.ShowInformation("No image", "Open an image first.", a.window)
	return false
}

// blocks cuts the selection into cell images. An empty result is reported
// to the user and returns nil.
func (a *App) blocks() []model.CellBlock {
	blocks, err := a.session.ExportCells(a.grid(), a.config.CutBorder)
	if err != nil {
		dialog.ShowError(err, a.window)
		return nil
	}
	if len(blocks) == 0 {
		dialog.ShowInformation("Nothing to export", "The selection does not overlap the image.", a.window)
		return nil
	}
	return blocks
}

func (a *App) exportCells() {
	if !a.requireImage() {
		return
	}
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		blocks := a.blocks()
		if blocks == nil {
			return
		}
		base := export.OutputBase(a.source)
		rows, saveErr := export.SaveCells(dir.Path(), base, blocks)
		if len(rows) > 0 {
			manifest := filepath.Join(dir.Path(), export.ManifestFileName(base, ".csv"))
			if err := export.ExportManifestCSV(manifest, rows); err != nil {
				log.Printf("manifest: %v", err)
			}
		}
		if saveErr != nil {
			dialog.ShowError(saveErr, a.window)
		}
		dialog.ShowInformation("Split Complete",
			fmt.Sprintf("Saved %d of %d images to %s", len(rows), len(blocks), dir.Path()), a.window)
	}, a.window)
}

func (a *App) exportPDF() {
	if !a.requireImage() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		blocks := a.blocks()
		if blocks == nil {
			return
		}
		w, h := a.config.PageSizeCM()
		pages, err := engine.ComposePages(engine.BlockImages(blocks), w, h)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		opts := export.PDFOptions{Title: export.OutputBase(a.source), Creator: "GridCut"}
		if err := export.WritePDF(writer, pages, opts); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("%d pages saved to %s", len(pages), writer.URI().Path()), a.window)
	}, a.window)
	d.SetFileName(export.PDFFileName(export.OutputBase(a.source)))
	d.Show()
}

func (a *App) exportPagePNGs() {
	if !a.requireImage() {
		return
	}
	dialog.ShowFolderOpen(func(dir fyne.ListableURI, err error) {
		if err != nil || dir == nil {
			return
		}
		blocks := a.blocks()
		if blocks == nil {
			return
		}
		w, h := a.config.PageSizeCM()
		pages, err := engine.ComposePages(engine.BlockImages(blocks), w, h)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		names, saveErr := export.SavePages(dir.Path(), export.OutputBase(a.source), pages, export.DefaultPageDPI)
		if saveErr != nil {
			dialog.ShowError(saveErr, a.window)
		}
		dialog.ShowInformation("Export Complete",
			fmt.Sprintf("Saved %d of %d pages to %s", len(names), len(pages), dir.Path()), a.window)
	}, a.window)
}

// manifestRows describes the cells as SaveCells would name them, without
// writing any image.
func (a *App) manifestRows(blocks []model.CellBlock) []model.ManifestRow {
	base := export.OutputBase(a.source)
	rows := make([]model.ManifestRow, len(blocks))
	for i, b := range blocks {
		rows[i] = model.NewManifestRow(b, export.CellFileName(base, b.Cell))
	}
	return rows
}

func (a *App) exportIndexSheet() {
	if !a.requireImage() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		blocks := a.blocks()
		if blocks == nil {
			return
		}
		path := writer.URI().Path()
		if err := export.ExportIndexSheet(path, a.source, a.manifestRows(blocks)); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", "Index sheet saved to "+path, a.window)
	}, a.window)
	d.SetFileName(export.IndexSheetFileName(export.OutputBase(a.source)))
	d.Show()
}

func (a *App) exportManifest() {
	if !a.requireImage() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		blocks := a.blocks()
		if blocks == nil {
			return
		}
		path := writer.URI().Path()
		rows := a.manifestRows(blocks)
		if strings.EqualFold(filepath.Ext(path), ".xlsx") {
			err = export.ExportManifestXLSX(path, rows)
		} else {
			err = export.WriteManifestCSV(writer, rows)
		}
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", "Manifest saved to "+path, a.window)
	}, a.window)
	d.SetFileName(export.ManifestFileName(export.OutputBase(a.source), ".csv"))
	d.Show()
}

func (a *App) exportDXF() {
	if !a.requireImage() {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		size := a.session.ImageSize()
		sel := model.RectFromImage(engine.PixelBounds(a.session.Rect(), size))
		path := writer.URI().Path()
		if err := export.ExportGridDXF(path, sel, a.grid(), float64(size.Height)); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		dialog.ShowInformation("Export Complete", "Grid outline saved to "+path, a.window)
	}, a.window)
	d.SetFileName(export.GridDXFFileName(export.OutputBase(a.source)))
	d.Show()
}

// ─── Layout import ─────────────────────────────────────────

func (a *App) importManifestLayout() {
	if !a.requireImage() {
		return
	}
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.applyLayout(importer.ImportManifest(reader.URI().Path()))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".tsv", ".txt", ".xlsx", ".xls"}))
	d.Show()
}

func (a *App) importDXFLayout() {
	if !a.requireImage() {
		return
	}
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		height := float64(a.session.ImageSize().Height)
		a.applyLayout(importer.ImportGridDXF(reader.URI().Path(), height))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".dxf"}))
	d.Show()
}

// applyLayout moves the selection and grid to an imported layout.
func (a *App) applyLayout(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	if len(result.Warnings) > 0 {
		log.Printf("layout import warnings: %v", result.Warnings)
	}
	layout := result.Layout
	if layout.Grid.Count() == 0 {
		return
	}

	normalized, err := engine.Normalize(model.RectFromImage(layout.Selection), a.session.ImageSize())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.history.Push(a.current("Apply layout"))
	a.config.GridRows = layout.Grid.Rows
	a.config.GridCols = layout.Grid.Cols
	a.rowsEntry.SetText(strconv.Itoa(layout.Grid.Rows))
	a.colsEntry.SetText(strconv.Itoa(layout.Grid.Cols))
	a.session.SetSelectionNormalized(normalized)
	a.last = a.session.SelectionNormalized()
	a.config.SetSelection(a.last)
	a.refreshView()

	dialog.ShowInformation("Layout Applied",
		fmt.Sprintf("Selection %dx%d at (%d,%d), grid %d×%d",
			layout.Selection.Dx(), layout.Selection.Dy(), layout.Selection.Min.X, layout.Selection.Min.Y,
			layout.Grid.Rows, layout.Grid.Cols), a.window)
}
