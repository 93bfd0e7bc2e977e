package engine

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/piwi3910/GridCut/internal/model"
)

// BackgroundColor estimates a block's background as the per-channel median
// of its four edge lines (top row, bottom row, left column, right column;
// corners are counted once per line). An empty block yields opaque black.
func BackgroundColor(img image.Image) color.NRGBA {
	if img == nil || img.Bounds().Empty() {
		return color.NRGBA{A: 255}
	}
	b := img.Bounds()

	var rs, gs, bs []float64
	add := func(x, y int) {
		c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
		rs = append(rs, float64(c.R))
		gs = append(gs, float64(c.G))
		bs = append(bs, float64(c.B))
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		add(x, b.Min.Y)
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		add(x, b.Max.Y-1)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		add(b.Min.X, y)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		add(b.Max.X-1, y)
	}

	return color.NRGBA{
		R: uint8(median(rs)),
		G: uint8(median(gs)),
		B: uint8(median(bs)),
		A: 255,
	}
}

// median returns the middle value, or the mean of the two middle values for
// an even count. It sorts v in place.
func median(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sort.Float64s(v)
	n := len(v)
	if n%2 == 1 {
		return v[n/2]
	}
	return (v[n/2-1] + v[n/2]) / 2
}

// ContainFit scales a w×h image uniformly to the largest size that fits
// inside a boxW×boxH box and centers it. It returns the placement in box
// units and the scale (box units per pixel).
func ContainFit(w, h, boxW, boxH float64) (model.Rect, float64) {
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return model.Rect{}, 0
	}
	scale := math.Min(boxW/w, boxH/h)
	fw := w * scale
	fh := h * scale
	return model.Rect{X: (boxW - fw) / 2, Y: (boxH - fh) / 2, Width: fw, Height: fh}, scale
}

// ComposePage lays one cell block out on a pageW×pageH page: a full-page
// background fill in the block's edge color, then the block contain-fitted
// and centered. An empty block gets a background-only page.
func ComposePage(img image.Image, pageW, pageH float64) (model.Page, error) {
	if pageW <= 0 || pageH <= 0 {
		return model.Page{}, model.ErrInvalidPageSize
	}
	page := model.Page{
		Width:      pageW,
		Height:     pageH,
		Background: BackgroundColor(img),
		ImageRef:   "cell-" + uuid.New().String(),
	}
	if img == nil || img.Bounds().Empty() {
		return page, nil
	}
	size := model.SizeOf(img)
	page.Placement, page.Scale = ContainFit(float64(size.Width), float64(size.Height), pageW, pageH)
	page.Image = img
	return page, nil
}

// ComposePages composes one page per block, preserving order.
func ComposePages(blocks []image.Image, pageW, pageH float64) ([]model.Page, error) {
	pages := make([]model.Page, 0, len(blocks))
	for _, img := range blocks {
		p, err := ComposePage(img, pageW, pageH)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// BlockImages extracts the pixel data of exported cells in order.
func BlockImages(blocks []model.CellBlock) []image.Image {
	imgs := make([]image.Image, len(blocks))
	for i, b := range blocks {
		imgs[i] = b.Image
	}
	return imgs
}

// RasterizePage renders a composed page at pxPerUnit pixels per page unit.
func RasterizePage(p model.Page, pxPerUnit float64) *image.NRGBA {
	w := max(1, int(math.Round(p.Width*pxPerUnit)))
	h := max(1, int(math.Round(p.Height*pxPerUnit)))
	dst := imaging.New(w, h, p.Background)
	if !p.HasImage() {
		return dst
	}
	dw := int(math.Round(p.Placement.Width * pxPerUnit))
	dh := int(math.Round(p.Placement.Height * pxPerUnit))
	if dw <= 0 || dh <= 0 {
		return dst
	}
	scaled := imaging.Resize(p.Image, dw, dh, imaging.Lanczos)
	pos := image.Pt(int(math.Round(p.Placement.X*pxPerUnit)), int(math.Round(p.Placement.Y*pxPerUnit)))
	return imaging.Paste(dst, scaled, pos)
}
