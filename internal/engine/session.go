package engine

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/piwi3910/GridCut/internal/model"
)

// Session ties a loaded image to the selection state machine and runs the
// preview and export pipelines against it.
type Session struct {
	img *image.NRGBA
	sel *Selection
}

// NewSession returns an empty session with the default selection.
func NewSession() *Session {
	return &Session{
		sel: NewSelection(),
	}
}

// SetImage loads a new image, fits it into the viewport and restores the
// stored normalized selection against it. The image is copied so its bounds
// start at the origin.
func (s *Session) SetImage(img image.Image, viewport model.ImageSize) error {
	if img == nil || img.Bounds().Empty() {
		return model.ErrInvalidImageSize
	}
	s.img = imaging.Clone(img)
	s.sel.SetImage(model.SizeOf(s.img), viewport)
	return nil
}

// Image returns the loaded image, or nil.
func (s *Session) Image() image.Image {
	if s.img == nil {
		return nil
	}
	return s.img
}

// HasImage reports whether an image is loaded.
func (s *Session) HasImage() bool { return s.img != nil }

// ImageSize returns the loaded image's pixel size.
func (s *Session) ImageSize() model.ImageSize {
	if s.img == nil {
		return model.ImageSize{}
	}
	return model.SizeOf(s.img)
}

func (s *Session) SetViewport(viewport model.ImageSize) { s.sel.SetViewport(viewport) }
func (s *Session) ResetView()                           { s.sel.ResetView() }
func (s *Session) SetZoom(zoom float64)                 { s.sel.SetZoom(zoom) }
func (s *Session) Zoom() float64                        { return s.sel.Zoom() }
func (s *Session) View() model.ViewTransform            { return s.sel.View() }
func (s *Session) Mode() model.DragMode                 { return s.sel.Mode() }

// Rect returns the selection in image-pixel space.
func (s *Session) Rect() model.Rect { return s.sel.Rect() }

// DisplayRect returns the selection in display space.
func (s *Session) DisplayRect() model.Rect {
	return RectToDisplay(s.sel.Rect(), s.sel.View())
}

func (s *Session) OnPointerDown(p model.Point) model.DragMode { return s.sel.PointerDown(p) }
func (s *Session) OnPointerMove(p model.Point) bool           { return s.sel.PointerMove(p) }
func (s *Session) OnPointerUp(p model.Point) bool             { return s.sel.PointerUp(p) }
func (s *Session) Cancel() bool                               { return s.sel.Cancel() }
func (s *Session) HoverHandle(p model.Point) model.Handle     { return s.sel.HoverHandle(p) }

// OnWheel forwards a wheel step. It returns false when the event was not
// consumed and should scroll instead.
func (s *Session) OnWheel(delta float64, p model.Point, mods model.Modifiers) bool {
	return s.sel.Wheel(delta, p, mods)
}

// SelectionNormalized returns the selection as fractions of the image.
func (s *Session) SelectionNormalized() model.Rect { return s.sel.Normalized() }

// SetSelectionNormalized replaces the selection, e.g. from saved config or
// an undo step.
func (s *Session) SetSelectionNormalized(r model.Rect) { s.sel.SetNormalized(r) }

// SetOnCommit registers the callback run after every move or resize.
func (s *Session) SetOnCommit(fn func(normalized model.Rect)) { s.sel.OnCommit = fn }

// Cells partitions the current selection, clipped to the image, into the
// given grid. A selection that lies entirely outside the image yields no
// cells.
func (s *Session) Cells(grid model.GridSpec) ([]model.Cell, error) {
	if s.img == nil {
		return nil, model.ErrNoImageLoaded
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	bounds := PixelBounds(s.sel.Rect(), s.ImageSize())
	if bounds.Empty() {
		return nil, nil
	}
	return Partition(bounds, grid)
}

// PreviewCells returns the display-space rectangles of the cells that an
// export would produce. The grid is split in display space without
// flooring; with cutBorder each rectangle is shrunk by the border detected
// on the matching pixel cell.
func (s *Session) PreviewCells(grid model.GridSpec, cutBorder bool) ([]model.Rect, error) {
	cells, err := s.Cells(grid)
	if err != nil || len(cells) == 0 {
		return nil, err
	}
	rects, err := PartitionDisplay(s.DisplayRect(), grid)
	if err != nil {
		return nil, err
	}
	if !cutBorder {
		return rects, nil
	}
	scale := s.sel.View().Scale()
	for i, c := range cells {
		trim, _ := trimCell(imaging.Crop(s.img, c.Bounds), c)
		w, h := c.Bounds.Dx(), c.Bounds.Dy()
		rects[i] = model.Rect{
			X:      rects[i].X + float64(trim.Left)*scale,
			Y:      rects[i].Y + float64(trim.Top)*scale,
			Width:  rects[i].Width - float64(w-trim.Right+trim.Left)*scale,
			Height: rects[i].Height - float64(h-trim.Bottom+trim.Top)*scale,
		}
	}
	return rects, nil
}

// trimCell detects and removes the border of one cropped cell. The whole
// cell is kept when the detected trim cannot be applied.
func trimCell(block image.Image, c model.Cell) (model.BorderTrim, image.Image) {
	trim := TrimOrIdentity(block)
	trimmed, err := ApplyTrim(block, trim)
	if err != nil {
		logger.Printf("cell %s: %v", c.Name(), err)
		b := block.Bounds()
		return model.IdentityTrim(b.Dx(), b.Dy()), block
	}
	return trim, trimmed
}

// ExportCells crops every cell out of the loaded image in row-major order,
// optionally trimming a detected uniform border from each one.
func (s *Session) ExportCells(grid model.GridSpec, cutBorder bool) ([]model.CellBlock, error) {
	cells, err := s.Cells(grid)
	if err != nil {
		return nil, err
	}
	blocks := make([]model.CellBlock, 0, len(cells))
	for _, c := range cells {
		var block image.Image = imaging.Crop(s.img, c.Bounds)
		b := block.Bounds()
		trim := model.IdentityTrim(b.Dx(), b.Dy())
		if cutBorder {
			trim, block = trimCell(block, c)
		}
		blocks = append(blocks, model.CellBlock{Cell: c, Trim: trim, Image: block})
	}
	return blocks, nil
}

// Info summarizes the session for a status bar. source is the image path;
// an empty source means the image came from the clipboard.
func (s *Session) Info(grid model.GridSpec, source string) string {
	if s.img == nil {
		return "no image loaded"
	}
	name := filepath.Base(source)
	if source == "" {
		size := s.ImageSize()
		name = fmt.Sprintf("clipboard image (%d×%d)", size.Width, size.Height)
	}
	return fmt.Sprintf("%s | grid: %d×%d = %d images", name, grid.Rows, grid.Cols, grid.Count())
}
