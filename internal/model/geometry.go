package model

import (
	"image"
	"math"
)

// MinSelectionSize is the smallest width or height, in pixels, a selection
// may have. Candidates below it are discarded.
const MinSelectionSize = 10.0

// Point is a 2D coordinate. The space it lives in (normalized, display or
// pixel) is implied by the function that produced it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns the vector from o to p.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale multiplies both components by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Segment is a straight line between two points.
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromEdges builds a Rect from its four edge coordinates. The result may
// have a negative size if the edges are crossed.
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{X: left, Y: top, Width: right - left, Height: bottom - top}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) TopLeft() Point     { return Point{X: r.X, Y: r.Y} }
func (r Rect) TopRight() Point    { return Point{X: r.Right(), Y: r.Y} }
func (r Rect) BottomLeft() Point  { return Point{X: r.X, Y: r.Bottom()} }
func (r Rect) BottomRight() Point { return Point{X: r.Right(), Y: r.Bottom()} }

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Valid reports whether both sides are at least minSize.
func (r Rect) Valid(minSize float64) bool {
	return r.Width >= minSize && r.Height >= minSize
}

// ContainsStrict reports whether p lies strictly inside the rectangle.
func (r Rect) ContainsStrict(p Point) bool {
	return p.X > r.X && p.X < r.Right() && p.Y > r.Y && p.Y < r.Bottom()
}

// Translate returns the rectangle moved by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{X: r.X + d.X, Y: r.Y + d.Y, Width: r.Width, Height: r.Height}
}

// Intersect returns the overlap of r and o. Disjoint rectangles yield a
// zero-size rect.
func (r Rect) Intersect(o Rect) Rect {
	left := math.Max(r.X, o.X)
	top := math.Max(r.Y, o.Y)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	if right <= left || bottom <= top {
		return Rect{}
	}
	return RectFromEdges(left, top, right, bottom)
}

// Round snaps the rectangle to whole pixels. Position and size are rounded
// independently.
func (r Rect) Round() image.Rectangle {
	x := int(math.Round(r.X))
	y := int(math.Round(r.Y))
	return image.Rect(x, y, x+int(math.Round(r.Width)), y+int(math.Round(r.Height)))
}

// RectFromImage converts an integer rectangle to a Rect.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}

// ImageSize is the pixel size of a loaded image, or of the viewport.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether either dimension is not positive.
func (s ImageSize) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Bounds returns the size as a Rect anchored at the origin.
func (s ImageSize) Bounds() Rect {
	return Rect{Width: float64(s.Width), Height: float64(s.Height)}
}

// SizeOf returns the size of an image's bounds.
func SizeOf(img image.Image) ImageSize {
	b := img.Bounds()
	return ImageSize{Width: b.Dx(), Height: b.Dy()}
}

// DefaultSelection is the centered selection covering 80% of the image,
// used when a restored selection is too small.
func DefaultSelection(size ImageSize) Rect {
	w := float64(size.Width)
	h := float64(size.Height)
	return Rect{X: w * 0.1, Y: h * 0.1, Width: w * 0.8, Height: h * 0.8}
}

// DefaultNormalizedSelection is DefaultSelection in normalized units.
func DefaultNormalizedSelection() Rect {
	return Rect{X: 0.1, Y: 0.1, Width: 0.8, Height: 0.8}
}
