package engine

import (
	"fmt"
	"image"
	"math"

	"github.com/piwi3910/GridCut/internal/model"
)

// ToDisplay maps an image-pixel point into display space.
func ToDisplay(p model.Point, view model.ViewTransform) model.Point {
	return p.Scale(view.Scale()).Add(view.Pan())
}

// ToPixel maps a display point back into image-pixel space.
func ToPixel(p model.Point, view model.ViewTransform) (model.Point, error) {
	s := view.Scale()
	if s == 0 {
		return model.Point{}, model.ErrDivisionByZero
	}
	return p.Sub(view.Pan()).Scale(1 / s), nil
}

// RectToDisplay maps a pixel-space rectangle into display space.
func RectToDisplay(r model.Rect, view model.ViewTransform) model.Rect {
	tl := ToDisplay(r.TopLeft(), view)
	s := view.Scale()
	return model.Rect{X: tl.X, Y: tl.Y, Width: r.Width * s, Height: r.Height * s}
}

// Normalize expresses a pixel rectangle as fractions of the image size.
func Normalize(r model.Rect, size model.ImageSize) (model.Rect, error) {
	if size.Empty() {
		return model.Rect{}, fmt.Errorf("normalize %dx%d: %w", size.Width, size.Height, model.ErrInvalidImageSize)
	}
	w := float64(size.Width)
	h := float64(size.Height)
	return model.Rect{X: r.X / w, Y: r.Y / h, Width: r.Width / w, Height: r.Height / h}, nil
}

// Denormalize expands a normalized rectangle against an image size and
// clips it to the image bounds.
func Denormalize(r model.Rect, size model.ImageSize) model.Rect {
	w := float64(size.Width)
	h := float64(size.Height)
	px := model.Rect{X: r.X * w, Y: r.Y * h, Width: r.Width * w, Height: r.Height * h}
	return px.Intersect(size.Bounds())
}

// FitView returns the transform that shows the whole image centered in the
// viewport at zoom 1.
func FitView(img, viewport model.ImageSize) model.ViewTransform {
	if img.Empty() || viewport.Empty() {
		return model.IdentityView()
	}
	iw, ih := float64(img.Width), float64(img.Height)
	vw, vh := float64(viewport.Width), float64(viewport.Height)
	fit := math.Min(vw/iw, vh/ih)
	return model.ViewTransform{
		Fit:  fit,
		Zoom: 1,
		PanX: (vw - iw*fit) / 2,
		PanY: (vh - ih*fit) / 2,
	}
}

// PixelBounds rounds a pixel-space selection to whole pixels and clips it to
// the image.
func PixelBounds(r model.Rect, size model.ImageSize) image.Rectangle {
	return r.Round().Intersect(image.Rect(0, 0, size.Width, size.Height))
}
