package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/GridCut/internal/model"
)

// LabelInfo holds the data encoded into each cell label's QR code.
type LabelInfo struct {
	Source  string `json:"source"`
	Cell    string `json:"cell"`
	File    string `json:"file"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Trimmed bool   `json:"trimmed"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos builds one label per manifest row.
func CollectLabelInfos(source string, rows []model.ManifestRow) []LabelInfo {
	labels := make([]LabelInfo, 0, len(rows))
	for _, r := range rows {
		labels = append(labels, LabelInfo{
			Source:  source,
			Cell:    fmt.Sprintf("r%dc%d", r.Row, r.Col),
			File:    r.File,
			X:       r.X,
			Y:       r.Y,
			Width:   r.Width,
			Height:  r.Height,
			Trimmed: !r.Trim.IsIdentity(r.Width, r.Height),
		})
	}
	return labels
}

// ExportIndexSheet generates a PDF of QR-coded labels, one per exported
// cell, laid out on a standard label sheet (Avery 5160 / 3 columns x 10
// rows on US Letter). Each QR code encodes the cell metadata as JSON so a
// printed cell can be traced back to its file and source region.
func ExportIndexSheet(path, source string, rows []model.ManifestRow) error {
	labels := CollectLabelInfos(source, rows)
	if len(labels) == 0 {
		return fmt.Errorf("no cells to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, i, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Cell, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, idx int, info LabelInfo) error {
	// Light border as a cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%s", idx, info.Cell)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, info.Cell, "", 1, "L", false, 0, "")

	// File name, truncated to fit
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	file := info.File
	if pdf.GetStringWidth(file) > textW {
		for len(file) > 0 && pdf.GetStringWidth(file+"...") > textW {
			file = file[:len(file)-1]
		}
		file += "..."
	}
	pdf.CellFormat(textW, 3.5, file, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	bounds := fmt.Sprintf("%d x %d px @ (%d, %d)", info.Width, info.Height, info.X, info.Y)
	pdf.CellFormat(textW, 3, bounds, "", 1, "L", false, 0, "")

	if info.Trimmed {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Border trimmed", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return pdf.Error()
}
