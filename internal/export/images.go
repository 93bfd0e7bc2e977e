package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/model"
)

// DefaultPageDPI is the resolution SavePages renders at when none is given.
const DefaultPageDPI = 150

// ClipboardBase is the output base name used when the image has no file.
const ClipboardBase = "clipboard_image"

// OutputBase returns the base name for files derived from source: the file
// name without its extension, or ClipboardBase for an empty source.
func OutputBase(source string) string {
	if source == "" {
		return ClipboardBase
	}
	name := filepath.Base(source)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// CellFileName returns "<base>_r<row>c<col>.png" for a cell.
func CellFileName(base string, c model.Cell) string {
	return fmt.Sprintf("%s_%s.png", base, c.Name())
}

// PDFFileName returns "<base>.pdf".
func PDFFileName(base string) string {
	return base + ".pdf"
}

// PageFileName returns "<base>_page<NN>.png" for the i-th composed page.
func PageFileName(base string, i int) string {
	return fmt.Sprintf("%s_page%02d.png", base, i+1)
}

// ManifestFileName returns "<base>_manifest<ext>", ext including the dot.
func ManifestFileName(base, ext string) string {
	return base + "_manifest" + ext
}

// IndexSheetFileName returns "<base>_index.pdf".
func IndexSheetFileName(base string) string {
	return base + "_index.pdf"
}

// GridDXFFileName returns "<base>_grid.dxf".
func GridDXFFileName(base string) string {
	return base + "_grid.dxf"
}

// SaveCells writes every block as a PNG file in dir and returns a manifest
// row for each file written. A failed block does not stop the others; all failures
// are joined into the returned error.
func SaveCells(dir, base string, blocks []model.CellBlock) ([]model.ManifestRow, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var rows []model.ManifestRow
	var errs []error
	for _, b := range blocks {
		name := CellFileName(base, b.Cell)
		if b.Image == nil || b.Image.Bounds().Empty() {
			errs = append(errs, fmt.Errorf("%s: %w", name, model.ErrEmptyBlock))
			continue
		}
		if err := imaging.Save(b.Image, filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("failed to save %s: %w", name, err))
			continue
		}
		rows = append(rows, model.NewManifestRow(b, name))
	}
	return rows, errors.Join(errs...)
}

// SavePages renders composed pages at dpi and writes each one as a PNG in
// dir. Page sizes are in centimetres. It returns the names of the files
// written; failures are joined like in SaveCells.
func SavePages(dir, base string, pages []model.Page, dpi float64) ([]string, error) {
	if dpi <= 0 {
		dpi = DefaultPageDPI
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var names []string
	var errs []error
	for i, p := range pages {
		name := PageFileName(base, i)
		if err := imaging.Save(engine.RasterizePage(p, dpi/2.54), filepath.Join(dir, name)); err != nil {
			errs = append(errs, fmt.Errorf("failed to save %s: %w", name, err))
			continue
		}
		names = append(names, name)
	}
	return names, errors.Join(errs...)
}
