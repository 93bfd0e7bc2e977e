package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/GridCut/internal/model"
)

// WriteManifestCSV writes a header line and one record per row.
func WriteManifestCSV(w io.Writer, rows []model.ManifestRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.ManifestHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportManifestCSV writes the manifest to a CSV file.
func ExportManifestCSV(path string, rows []model.ManifestRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	if err := WriteManifestCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return f.Close()
}

// ExportManifestXLSX writes the manifest to the first sheet of a new Excel
// workbook. Numeric columns are stored as numbers.
func ExportManifestXLSX(path string, rows []model.ManifestRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range model.ManifestHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range rows {
		values := []interface{}{
			r.Row, r.Col, r.X, r.Y, r.Width, r.Height,
			r.Trim.Top, r.Trim.Bottom, r.Trim.Left, r.Trim.Right, r.File,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save manifest: %w", err)
	}
	return nil
}
