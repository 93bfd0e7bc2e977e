package importer

import (
	"fmt"
	"image"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/GridCut/internal/model"
)

// lineTolerance is the distance, in pixels, below which DXF coordinates are
// treated as equal.
const lineTolerance = 0.01

// ImportGridDXF recovers a selection and grid size from a DXF outline
// written by the grid exporter. The bounding box of all LINE entities is the
// selection; interior vertical and horizontal lines give the column and row
// dividers. imageHeight undoes the y flip applied on export.
func ImportGridDXF(path string, imageHeight float64) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	var lines []model.Segment
	for _, ent := range drawing.Entities() {
		switch e := ent.(type) {
		case *entity.Line:
			lines = append(lines, model.Segment{
				From: model.Point{X: e.Start[0], Y: imageHeight - e.Start[1]},
				To:   model.Point{X: e.End[0], Y: imageHeight - e.End[1]},
			})
		default:
			// Only LINE entities carry grid geometry
		}
	}
	if len(lines) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no lines")
		return result
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, l := range lines {
		for _, p := range []model.Point{l.From, l.To} {
			minX = math.Min(minX, p.X)
			minY = math.Min(minY, p.Y)
			maxX = math.Max(maxX, p.X)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if maxX-minX < lineTolerance || maxY-minY < lineTolerance {
		result.Errors = append(result.Errors, "DXF outline is degenerate")
		return result
	}

	// Interior dividers are counted by distinct position.
	cols := map[int]bool{}
	rows := map[int]bool{}
	for _, l := range lines {
		switch {
		case near(l.From.X, l.To.X):
			if !near(l.From.X, minX) && !near(l.From.X, maxX) {
				cols[int(math.Round(l.From.X))] = true
			}
		case near(l.From.Y, l.To.Y):
			if !near(l.From.Y, minY) && !near(l.From.Y, maxY) {
				rows[int(math.Round(l.From.Y))] = true
			}
		default:
			result.Warnings = append(result.Warnings, "Skipped diagonal line")
		}
	}

	result.Layout = model.GridLayout{
		Selection: image.Rect(
			int(math.Round(minX)), int(math.Round(minY)),
			int(math.Round(maxX)), int(math.Round(maxY)),
		),
		Grid: model.GridSpec{Rows: len(rows) + 1, Cols: len(cols) + 1},
	}
	return result
}

func near(a, b float64) bool {
	return math.Abs(a-b) < lineTolerance
}
