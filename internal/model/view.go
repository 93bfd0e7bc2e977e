package model

// Zoom limits, relative to the fit-to-view baseline.
const (
	MinZoom    = 0.1
	MaxZoom    = 10.0
	ZoomFactor = 1.1
)

// ViewTransform maps image-pixel coordinates to display coordinates:
//
//	display = pixel*Scale() + Pan
//
// Scale is split into the fit-to-view baseline and a zoom relative to it so
// that the zoom clamp is exact regardless of the baseline.
type ViewTransform struct {
	Fit  float64 `json:"fit"`  // scale at which the whole image fits the viewport
	Zoom float64 `json:"zoom"` // user zoom relative to Fit, in [MinZoom, MaxZoom]
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}

// IdentityView is the transform with scale 1 and no pan.
func IdentityView() ViewTransform {
	return ViewTransform{Fit: 1, Zoom: 1}
}

// Scale returns the effective pixel-to-display scale.
func (v ViewTransform) Scale() float64 {
	return v.Fit * v.Zoom
}

// Pan returns the pan offset as a point.
func (v ViewTransform) Pan() Point {
	return Point{X: v.PanX, Y: v.PanY}
}

// Handle identifies the part of the selection a pointer is over.
type Handle int

const (
	HandleNone Handle = iota
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
	HandleTop
	HandleBottom
	HandleLeft
	HandleRight
	HandleMove
)

func (h Handle) String() string {
	switch h {
	case HandleTopLeft:
		return "TopLeft"
	case HandleTopRight:
		return "TopRight"
	case HandleBottomLeft:
		return "BottomLeft"
	case HandleBottomRight:
		return "BottomRight"
	case HandleTop:
		return "Top"
	case HandleBottom:
		return "Bottom"
	case HandleLeft:
		return "Left"
	case HandleRight:
		return "Right"
	case HandleMove:
		return "Move"
	default:
		return "None"
	}
}

// IsResize reports whether the handle resizes the selection.
func (h Handle) IsResize() bool {
	return h >= HandleTopLeft && h <= HandleRight
}

// Edges reports which edges the handle controls.
func (h Handle) Edges() (left, top, right, bottom bool) {
	switch h {
	case HandleTopLeft:
		return true, true, false, false
	case HandleTopRight:
		return false, true, true, false
	case HandleBottomLeft:
		return true, false, false, true
	case HandleBottomRight:
		return false, false, true, true
	case HandleTop:
		return false, true, false, false
	case HandleBottom:
		return false, false, false, true
	case HandleLeft:
		return true, false, false, false
	case HandleRight:
		return false, false, true, false
	}
	return false, false, false, false
}

// DragMode is the state of the selection state machine.
type DragMode int

const (
	DragIdle DragMode = iota
	DragMoving
	DragResizing
	DragPanning
)

func (m DragMode) String() string {
	switch m {
	case DragMoving:
		return "Moving"
	case DragResizing:
		return "Resizing"
	case DragPanning:
		return "Panning"
	default:
		return "Idle"
	}
}

// Modifiers is the set of keyboard modifiers held during a pointer event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// Has reports whether all bits of m2 are set.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}
