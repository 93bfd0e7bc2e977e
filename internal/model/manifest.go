package model

import (
	"fmt"
	"image"
)

// ManifestHeader is the column order of exported manifests.
var ManifestHeader = []string{
	"row", "col", "x", "y", "width", "height",
	"trim_top", "trim_bottom", "trim_left", "trim_right", "file",
}

// ManifestRow describes one exported cell: where it was cut from the source
// image (pixel space), the border trim applied and the file written for it.
// Row and Col are 1-based, matching the output file names.
type ManifestRow struct {
	Row    int        `json:"row"`
	Col    int        `json:"col"`
	X      int        `json:"x"`
	Y      int        `json:"y"`
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Trim   BorderTrim `json:"trim"`
	File   string     `json:"file"`
}

// NewManifestRow builds the manifest entry for an exported block.
func NewManifestRow(b CellBlock, file string) ManifestRow {
	return ManifestRow{
		Row:    b.Row + 1,
		Col:    b.Col + 1,
		X:      b.Bounds.Min.X,
		Y:      b.Bounds.Min.Y,
		Width:  b.Bounds.Dx(),
		Height: b.Bounds.Dy(),
		Trim:   b.Trim,
		File:   file,
	}
}

// Bounds returns the cell's rectangle in the source image.
func (r ManifestRow) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Record formats the row as strings in ManifestHeader order.
func (r ManifestRow) Record() []string {
	return []string{
		fmt.Sprint(r.Row), fmt.Sprint(r.Col),
		fmt.Sprint(r.X), fmt.Sprint(r.Y), fmt.Sprint(r.Width), fmt.Sprint(r.Height),
		fmt.Sprint(r.Trim.Top), fmt.Sprint(r.Trim.Bottom), fmt.Sprint(r.Trim.Left), fmt.Sprint(r.Trim.Right),
		r.File,
	}
}

// GridLayout is a selection and grid recovered from a previous export, used
// to cut a new image the same way.
type GridLayout struct {
	Selection image.Rectangle `json:"selection"`
	Grid      GridSpec        `json:"grid"`
}

// LayoutFromManifest recovers the selection (union of all cell bounds) and
// grid size from manifest rows.
func LayoutFromManifest(rows []ManifestRow) (GridLayout, error) {
	if len(rows) == 0 {
		return GridLayout{}, fmt.Errorf("manifest has no rows: %w", ErrInvalidGrid)
	}
	var layout GridLayout
	for i, r := range rows {
		if i == 0 {
			layout.Selection = r.Bounds()
		} else {
			layout.Selection = layout.Selection.Union(r.Bounds())
		}
		layout.Grid.Rows = max(layout.Grid.Rows, r.Row)
		layout.Grid.Cols = max(layout.Grid.Cols, r.Col)
	}
	if err := layout.Grid.Validate(); err != nil {
		return GridLayout{}, err
	}
	return layout, nil
}
