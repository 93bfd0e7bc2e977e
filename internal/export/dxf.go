package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/model"
)

// DXF layer names.
const (
	LayerSelection = "SELECTION"
	LayerGrid      = "GRID"
)

// ExportGridDXF writes the selection outline and interior grid lines as DXF
// LINE entities in pixel units. DXF's y axis points up, so y is flipped
// against the image height.
func ExportGridDXF(path string, sel model.Rect, grid model.GridSpec, imageHeight float64) error {
	if err := grid.Validate(); err != nil {
		return err
	}
	flip := func(p model.Point) model.Point {
		return model.Point{X: p.X, Y: imageHeight - p.Y}
	}

	d := dxf.NewDrawing()
	if _, err := d.AddLayer(LayerSelection, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	corners := []model.Point{sel.TopLeft(), sel.TopRight(), sel.BottomRight(), sel.BottomLeft()}
	for i := range corners {
		a := flip(corners[i])
		b := flip(corners[(i+1)%len(corners)])
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return fmt.Errorf("failed to add outline: %w", err)
		}
	}

	if _, err := d.AddLayer(LayerGrid, color.Green, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add layer: %w", err)
	}
	for _, seg := range engine.GridLines(sel, grid) {
		a := flip(seg.From)
		b := flip(seg.To)
		if _, err := d.Line(a.X, a.Y, 0, b.X, b.Y, 0); err != nil {
			return fmt.Errorf("failed to add grid line: %w", err)
		}
	}

	return d.SaveAs(path)
}
