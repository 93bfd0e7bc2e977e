package model

import (
	"fmt"
	"image"
)

// GridSpec is the number of rows and columns the selection is split into.
type GridSpec struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Validate checks that both counts are at least one.
func (g GridSpec) Validate() error {
	if g.Rows < 1 || g.Cols < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, g.Rows, g.Cols)
	}
	return nil
}

// Count returns the number of cells in the grid.
func (g GridSpec) Count() int {
	return g.Rows * g.Cols
}

// Cell is one partition of the selection in image-pixel space.
type Cell struct {
	Row    int             `json:"row"`
	Col    int             `json:"col"`
	Bounds image.Rectangle `json:"bounds"`
}

// Name returns the 1-based "r<row>c<col>" label used in output file names.
func (c Cell) Name() string {
	return fmt.Sprintf("r%dc%d", c.Row+1, c.Col+1)
}

// BorderTrim holds crop offsets into a cell block. Top/Left are inclusive
// start indices; Bottom/Right are exclusive end indices.
type BorderTrim struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// IdentityTrim returns margins that keep the whole w×h block.
func IdentityTrim(w, h int) BorderTrim {
	return BorderTrim{Top: 0, Bottom: h, Left: 0, Right: w}
}

// Rect returns the kept region relative to the block's origin.
func (t BorderTrim) Rect() image.Rectangle {
	return image.Rect(t.Left, t.Top, t.Right, t.Bottom)
}

// IsIdentity reports whether the trim keeps the whole w×h block.
func (t BorderTrim) IsIdentity(w, h int) bool {
	return t == IdentityTrim(w, h)
}

// CellBlock is an exported cell: its grid position, where it came from in
// the source image, the trim applied to it and the resulting pixels.
type CellBlock struct {
	Cell
	Trim  BorderTrim  `json:"trim"`
	Image image.Image `json:"-"`
}

// Size returns the pixel size of the (trimmed) block.
func (b CellBlock) Size() ImageSize {
	if b.Image == nil {
		return ImageSize{}
	}
	return SizeOf(b.Image)
}
