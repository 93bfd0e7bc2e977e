package engine

import (
	"math"

	"github.com/piwi3910/GridCut/internal/model"
)

// HandleRadius is the hit tolerance around handles and edges, in display
// units. It is divided by the view scale so handles keep a constant size on
// screen.
const HandleRadius = 8.0

// dragState exists only between pointer-down and pointer-up.
type dragState struct {
	mode   model.DragMode
	handle model.Handle
	// anchor is the pointer position at drag start: pixel space for
	// Moving/Resizing, display space for Panning (reset on every pan step).
	anchor     model.Point
	anchorRect model.Rect
}

// Selection owns the selection rectangle (image-pixel space) and the view
// transform, and advances them on pointer and wheel events. It is not safe
// for concurrent use; events must be fed in arrival order.
type Selection struct {
	rect       model.Rect
	normalized model.Rect
	view       model.ViewTransform
	image      model.ImageSize
	viewport   model.ImageSize
	drag       dragState

	// pendingZoom is a zoom requested before the viewport had a size.
	pendingZoom float64

	MinSize      float64
	HandleRadius float64

	// OnCommit is called with the normalized selection whenever a move or
	// resize gesture ends.
	OnCommit func(normalized model.Rect)
}

// NewSelection creates a Selection with the default centered selection and
// no image.
func NewSelection() *Selection {
	return &Selection{
		normalized:   model.DefaultNormalizedSelection(),
		view:         model.IdentityView(),
		MinSize:      model.MinSelectionSize,
		HandleRadius: HandleRadius,
	}
}

// HasImage reports whether an image size has been set.
func (s *Selection) HasImage() bool {
	return !s.image.Empty()
}

// Rect returns the current selection in image-pixel space.
func (s *Selection) Rect() model.Rect { return s.rect }

// View returns the current view transform.
func (s *Selection) View() model.ViewTransform { return s.view }

// Mode returns the current drag mode.
func (s *Selection) Mode() model.DragMode { return s.drag.mode }

// ActiveHandle returns the handle being dragged, or HandleNone.
func (s *Selection) ActiveHandle() model.Handle { return s.drag.handle }

// Normalized returns the selection as fractions of the image size.
func (s *Selection) Normalized() model.Rect { return s.normalized }

// SetImage resets the view to fit the viewport and re-derives the pixel
// selection from the stored normalized one.
func (s *Selection) SetImage(size, viewport model.ImageSize) {
	s.drag = dragState{}
	s.pendingZoom = 0
	s.image = size
	s.viewport = viewport
	s.view = FitView(size, viewport)
	s.restore()
}

// SetViewport refits the view after the viewport changed size. The pixel
// selection is kept.
func (s *Selection) SetViewport(viewport model.ImageSize) {
	s.Cancel()
	s.viewport = viewport
	s.view = FitView(s.image, viewport)
	if s.pendingZoom != 0 && !viewport.Empty() && s.HasImage() {
		zoom := s.pendingZoom
		s.pendingZoom = 0
		s.SetZoom(zoom)
	}
}

// ResetView restores zoom 1 and the fit-to-view pan.
func (s *Selection) ResetView() {
	s.pendingZoom = 0
	s.SetViewport(s.viewport)
}

// Zoom returns the zoom relative to fit, including one still waiting for
// the viewport to get a size.
func (s *Selection) Zoom() float64 {
	if s.pendingZoom != 0 {
		return s.pendingZoom
	}
	return s.view.Zoom
}

// SetZoom sets the zoom relative to fit, anchored at the viewport center.
// Before the viewport has a size the zoom is kept and applied by the first
// SetViewport.
func (s *Selection) SetZoom(zoom float64) {
	if s.viewport.Empty() || !s.HasImage() {
		s.pendingZoom = zoom
		return
	}
	if s.view.Zoom == 0 {
		return
	}
	center := model.Point{X: float64(s.viewport.Width) / 2, Y: float64(s.viewport.Height) / 2}
	s.zoomAt(center, zoom/s.view.Zoom)
}

// SetNormalized replaces the stored normalized selection. With an image
// loaded, the pixel selection is re-derived under the reload rule.
func (s *Selection) SetNormalized(r model.Rect) {
	s.normalized = r
	if s.HasImage() {
		s.drag = dragState{}
		s.restore()
	}
}

// restore expands the normalized selection against the image, clipped to
// its bounds, and falls back to the default 80% selection when too small.
func (s *Selection) restore() {
	r := Denormalize(s.normalized, s.image)
	if !r.Valid(s.MinSize) {
		r = model.DefaultSelection(s.image)
	}
	s.rect = r
	if n, err := Normalize(r, s.image); err == nil {
		s.normalized = n
	}
}

// Classify hit-tests a pixel-space point against the selection. Corners win
// over edges, edges over the interior.
func (s *Selection) Classify(p model.Point) model.Handle {
	r := s.rect
	if r.Empty() {
		return model.HandleNone
	}
	tol := s.HandleRadius
	if scale := s.view.Scale(); scale != 0 {
		tol /= scale
	}

	corners := []struct {
		pt model.Point
		h  model.Handle
	}{
		{r.TopLeft(), model.HandleTopLeft},
		{r.TopRight(), model.HandleTopRight},
		{r.BottomLeft(), model.HandleBottomLeft},
		{r.BottomRight(), model.HandleBottomRight},
	}
	for _, c := range corners {
		if p.Distance(c.pt) < tol {
			return c.h
		}
	}

	withinX := p.X >= r.X && p.X <= r.Right()
	withinY := p.Y >= r.Y && p.Y <= r.Bottom()
	switch {
	case withinX && math.Abs(p.Y-r.Y) <= tol:
		return model.HandleTop
	case withinX && math.Abs(p.Y-r.Bottom()) <= tol:
		return model.HandleBottom
	case withinY && math.Abs(p.X-r.X) <= tol:
		return model.HandleLeft
	case withinY && math.Abs(p.X-r.Right()) <= tol:
		return model.HandleRight
	}

	if r.ContainsStrict(p) {
		return model.HandleMove
	}
	return model.HandleNone
}

// HoverHandle classifies a display-space pointer position, for cursor
// feedback while no button is held.
func (s *Selection) HoverHandle(p model.Point) model.Handle {
	if !s.HasImage() {
		return model.HandleNone
	}
	px, err := ToPixel(p, s.view)
	if err != nil {
		return model.HandleNone
	}
	return s.Classify(px)
}

// PointerDown starts a gesture at display point p. A hit on the selection
// starts a move or resize; anything else starts a pan.
func (s *Selection) PointerDown(p model.Point) model.DragMode {
	if !s.HasImage() {
		return model.DragIdle
	}
	if s.drag.mode != model.DragIdle {
		s.finish()
	}
	px, err := ToPixel(p, s.view)
	if err != nil {
		return model.DragIdle
	}

	switch h := s.Classify(px); {
	case h == model.HandleMove:
		s.drag = dragState{mode: model.DragMoving, handle: h, anchor: px, anchorRect: s.rect}
	case h.IsResize():
		s.drag = dragState{mode: model.DragResizing, handle: h, anchor: px, anchorRect: s.rect}
	default:
		s.drag = dragState{mode: model.DragPanning, anchor: p}
	}
	return s.drag.mode
}

// PointerMove advances the active gesture. It returns true if the
// selection or the view changed.
func (s *Selection) PointerMove(p model.Point) bool {
	switch s.drag.mode {
	case model.DragPanning:
		d := p.Sub(s.drag.anchor)
		s.view.PanX += d.X
		s.view.PanY += d.Y
		s.drag.anchor = p
		return d != model.Point{}

	case model.DragMoving, model.DragResizing:
		px, err := ToPixel(p, s.view)
		if err != nil {
			return false
		}
		candidate := s.candidate(px.Sub(s.drag.anchor))
		if !candidate.Valid(s.MinSize) || candidate == s.rect {
			return false
		}
		s.rect = candidate
		return true
	}
	return false
}

// candidate applies a pixel-space drag delta to the anchor rect according to
// the active gesture.
func (s *Selection) candidate(delta model.Point) model.Rect {
	a := s.drag.anchorRect
	if s.drag.mode == model.DragMoving {
		return a.Translate(delta)
	}
	left, top, right, bottom := a.X, a.Y, a.Right(), a.Bottom()
	moveL, moveT, moveR, moveB := s.drag.handle.Edges()
	if moveL {
		left += delta.X
	}
	if moveT {
		top += delta.Y
	}
	if moveR {
		right += delta.X
	}
	if moveB {
		bottom += delta.Y
	}
	return model.RectFromEdges(left, top, right, bottom)
}

// PointerUp ends the gesture at display point p. It returns true if a
// selection was committed.
func (s *Selection) PointerUp(p model.Point) bool {
	s.PointerMove(p)
	return s.finish()
}

// Cancel resolves any active gesture to Idle, committing the last valid
// candidate. Use it when the pointer is released outside the view or focus
// is lost mid-drag.
func (s *Selection) Cancel() bool {
	return s.finish()
}

func (s *Selection) finish() bool {
	mode := s.drag.mode
	s.drag = dragState{}
	if mode != model.DragMoving && mode != model.DragResizing {
		return false
	}
	if n, err := Normalize(s.rect, s.image); err == nil {
		s.normalized = n
	}
	if s.OnCommit != nil {
		s.OnCommit(s.normalized)
	}
	return true
}

// Wheel handles a wheel step at display point p. Only Ctrl+wheel zooms; the
// return value is false when the event should pass through to the default
// scroll handling.
func (s *Selection) Wheel(delta float64, p model.Point, mods model.Modifiers) bool {
	if !mods.Has(model.ModCtrl) {
		return false
	}
	if delta == 0 {
		return true
	}
	factor := model.ZoomFactor
	if delta < 0 {
		factor = 1 / model.ZoomFactor
	}
	s.zoomAt(p, factor)
	return true
}

// zoomAt rescales the view by factor (after clamping) while keeping the
// pixel under display point p fixed.
func (s *Selection) zoomAt(p model.Point, factor float64) {
	oldScale := s.view.Scale()
	s.view.Zoom = math.Max(model.MinZoom, math.Min(model.MaxZoom, s.view.Zoom*factor))
	newScale := s.view.Scale()
	if oldScale == 0 {
		return
	}
	ratio := newScale / oldScale
	s.view.PanX = p.X - (p.X-s.view.PanX)*ratio
	s.view.PanY = p.Y - (p.Y-s.view.PanY)*ratio
}
