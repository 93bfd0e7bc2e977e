package engine

import (
	"image"
	"image/color"

	"github.com/piwi3910/GridCut/internal/model"
)

// Partition splits a pixel-space selection into rows×cols cells in
// row-major order. Cell sizes are floored; the last row and column absorb
// the remainder so the cells tile the selection exactly.
func Partition(sel image.Rectangle, grid model.GridSpec) ([]model.Cell, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	cellW := sel.Dx() / grid.Cols
	cellH := sel.Dy() / grid.Rows

	cells := make([]model.Cell, 0, grid.Count())
	for row := 0; row < grid.Rows; row++ {
		y := sel.Min.Y + row*cellH
		h := cellH
		if row == grid.Rows-1 {
			h = sel.Max.Y - y
		}
		for col := 0; col < grid.Cols; col++ {
			x := sel.Min.X + col*cellW
			w := cellW
			if col == grid.Cols-1 {
				w = sel.Max.X - x
			}
			cells = append(cells, model.Cell{
				Row:    row,
				Col:    col,
				Bounds: image.Rect(x, y, x+w, y+h),
			})
		}
	}
	return cells, nil
}

// PartitionDisplay is the floating-point partition used for on-screen
// overlays. No flooring is applied; the last row and column still end
// exactly on the selection's far edges.
func PartitionDisplay(r model.Rect, grid model.GridSpec) ([]model.Rect, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	cellW := r.Width / float64(grid.Cols)
	cellH := r.Height / float64(grid.Rows)

	rects := make([]model.Rect, 0, grid.Count())
	for row := 0; row < grid.Rows; row++ {
		y := r.Y + float64(row)*cellH
		h := cellH
		if row == grid.Rows-1 {
			h = r.Bottom() - y
		}
		for col := 0; col < grid.Cols; col++ {
			x := r.X + float64(col)*cellW
			w := cellW
			if col == grid.Cols-1 {
				w = r.Right() - x
			}
			rects = append(rects, model.Rect{X: x, Y: y, Width: w, Height: h})
		}
	}
	return rects, nil
}

// GridLines returns the interior dividing lines of the grid drawn over r:
// vertical lines first, then horizontal. A 1×1 grid has none.
func GridLines(r model.Rect, grid model.GridSpec) []model.Segment {
	if grid.Rows < 1 || grid.Cols < 1 {
		return nil
	}
	var lines []model.Segment
	cellW := r.Width / float64(grid.Cols)
	for i := 1; i < grid.Cols; i++ {
		x := r.X + float64(i)*cellW
		lines = append(lines, model.Segment{
			From: model.Point{X: x, Y: r.Y},
			To:   model.Point{X: x, Y: r.Bottom()},
		})
	}
	cellH := r.Height / float64(grid.Rows)
	for i := 1; i < grid.Rows; i++ {
		y := r.Y + float64(i)*cellH
		lines = append(lines, model.Segment{
			From: model.Point{X: r.X, Y: y},
			To:   model.Point{X: r.Right(), Y: y},
		})
	}
	return lines
}

// Preview overlay colors, alternated in a checkerboard.
var (
	previewEven = color.NRGBA{R: 255, G: 0, B: 0, A: 180}
	previewOdd  = color.NRGBA{R: 0, G: 255, B: 0, A: 180}
)

// PreviewColor returns the overlay color for the i-th preview rectangle.
func PreviewColor(i, cols int) color.NRGBA {
	if cols < 1 {
		cols = 1
	}
	if (i/cols+i%cols)%2 == 0 {
		return previewEven
	}
	return previewOdd
}
