package widgets

import (
	"image/color"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/model"
)

var (
	selectionStroke = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	gridStroke      = color.NRGBA{R: 0, G: 0, B: 255, A: 255}
	handleFill      = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	viewBackground  = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
)

const handleSize = 8

// SelectionView shows the loaded image with the selection rectangle, its
// grid lines and (in preview mode) the cells an export would produce. It
// turns mouse, drag and scroll events into session pointer events.
type SelectionView struct {
	widget.BaseWidget

	session   *engine.Session
	grid      model.GridSpec
	preview   bool
	cutBorder bool
	hover     model.Handle
	lastSize  fyne.Size

	// previewRects holds the last trimmed preview. It is reused while a
	// move or resize is in progress and rebuilt once the gesture ends.
	previewRects []model.Rect
	previewValid bool

	// OnChanged is called after the selection or view changed.
	OnChanged func()
}

// NewSelectionView creates a view bound to a session.
func NewSelectionView(session *engine.Session) *SelectionView {
	v := &SelectionView{
		session: session,
		grid:    model.GridSpec{Rows: 3, Cols: 3},
	}
	v.ExtendBaseWidget(v)
	return v
}

// SetGrid changes the grid drawn over the selection.
func (v *SelectionView) SetGrid(grid model.GridSpec) {
	v.grid = grid
	v.previewValid = false
	v.Refresh()
}

// SetPreview toggles the export preview overlay.
func (v *SelectionView) SetPreview(preview, cutBorder bool) {
	v.preview = preview
	v.cutBorder = cutBorder
	v.previewValid = false
	v.Refresh()
}

// Viewport returns the current widget size in whole pixels.
func (v *SelectionView) Viewport() model.ImageSize {
	s := v.Size()
	return model.ImageSize{Width: int(s.Width), Height: int(s.Height)}
}

func (v *SelectionView) changed() {
	v.Refresh()
	if v.OnChanged != nil {
		v.OnChanged()
	}
}

func toPoint(p fyne.Position) model.Point {
	return model.Point{X: float64(p.X), Y: float64(p.Y)}
}

// MouseDown starts a gesture.
func (v *SelectionView) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	v.session.OnPointerDown(toPoint(ev.Position))
}

// MouseUp ends a gesture.
func (v *SelectionView) MouseUp(ev *desktop.MouseEvent) {
	v.session.OnPointerUp(toPoint(ev.Position))
	v.previewValid = false
	v.changed()
}

// Dragged advances the active gesture.
func (v *SelectionView) Dragged(ev *fyne.DragEvent) {
	if v.session.OnPointerMove(toPoint(ev.Position)) {
		v.changed()
	}
}

// DragEnd resolves the gesture if the release happened outside the widget.
func (v *SelectionView) DragEnd() {
	if v.session.Cancel() {
		v.previewValid = false
		v.changed()
	}
}

// MouseIn is part of desktop.Hoverable.
func (v *SelectionView) MouseIn(ev *desktop.MouseEvent) {
	v.hover = v.session.HoverHandle(toPoint(ev.Position))
}

// MouseMoved updates the hover handle for cursor feedback.
func (v *SelectionView) MouseMoved(ev *desktop.MouseEvent) {
	v.hover = v.session.HoverHandle(toPoint(ev.Position))
}

// MouseOut is part of desktop.Hoverable.
func (v *SelectionView) MouseOut() {
	v.hover = model.HandleNone
}

// Scrolled zooms on Ctrl+wheel around the pointer.
func (v *SelectionView) Scrolled(ev *fyne.ScrollEvent) {
	if v.session.OnWheel(float64(ev.Scrolled.DY), toPoint(ev.Position), currentModifiers()) {
		v.previewValid = false
		v.changed()
	}
}

// Cursor reflects the handle under the pointer.
func (v *SelectionView) Cursor() desktop.Cursor {
	switch v.hover {
	case model.HandleLeft, model.HandleRight:
		return desktop.HResizeCursor
	case model.HandleTop, model.HandleBottom:
		return desktop.VResizeCursor
	case model.HandleTopLeft, model.HandleTopRight, model.HandleBottomLeft, model.HandleBottomRight:
		return desktop.CrosshairCursor
	case model.HandleMove:
		return desktop.PointerCursor
	}
	return desktop.DefaultCursor
}

func currentModifiers() model.Modifiers {
	app := fyne.CurrentApp()
	if app == nil {
		return 0
	}
	drv, ok := app.Driver().(desktop.Driver)
	if !ok {
		return 0
	}
	km := drv.CurrentKeyModifiers()
	var mods model.Modifiers
	if km&fyne.KeyModifierShift != 0 {
		mods |= model.ModShift
	}
	if km&fyne.KeyModifierControl != 0 {
		mods |= model.ModCtrl
	}
	if km&fyne.KeyModifierAlt != 0 {
		mods |= model.ModAlt
	}
	if km&fyne.KeyModifierSuper != 0 {
		mods |= model.ModSuper
	}
	return mods
}

// previewCells returns the preview rectangles. Trimmed previews re-run
// border detection on every cell, so they are only recomputed when no move
// or resize is in progress.
func (v *SelectionView) previewCells() []model.Rect {
	mode := v.session.Mode()
	dragging := mode == model.DragMoving || mode == model.DragResizing
	if v.cutBorder && dragging && v.previewValid {
		return v.previewRects
	}
	cells, err := v.session.PreviewCells(v.grid, v.cutBorder)
	if err != nil {
		log.Printf("preview: %v", err)
	}
	v.previewRects = cells
	v.previewValid = err == nil
	return cells
}

// CreateRenderer is part of fyne.Widget.
func (v *SelectionView) CreateRenderer() fyne.WidgetRenderer {
	r := &selectionViewRenderer{
		view: v,
		bg:   canvas.NewRectangle(viewBackground),
	}
	r.rebuild()
	return r
}

type selectionViewRenderer struct {
	view    *SelectionView
	bg      *canvas.Rectangle
	img     *canvas.Image
	objects []fyne.CanvasObject
}

func (r *selectionViewRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	if size != r.view.lastSize {
		r.view.lastSize = size
		r.view.session.SetViewport(model.ImageSize{Width: int(size.Width), Height: int(size.Height)})
		r.rebuild()
	}
}

func (r *selectionViewRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 150)
}

func (r *selectionViewRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.view)
}

func (r *selectionViewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *selectionViewRenderer) Destroy() {}

func rectObject(rc model.Rect, fill, stroke color.Color, width float32) *canvas.Rectangle {
	obj := canvas.NewRectangle(fill)
	obj.StrokeColor = stroke
	obj.StrokeWidth = width
	obj.Move(fyne.NewPos(float32(rc.X), float32(rc.Y)))
	obj.Resize(fyne.NewSize(float32(rc.Width), float32(rc.Height)))
	return obj
}

func (r *selectionViewRenderer) rebuild() {
	s := r.view.session
	r.objects = []fyne.CanvasObject{r.bg}
	if !s.HasImage() {
		return
	}

	if r.img == nil || r.img.Image != s.Image() {
		r.img = canvas.NewImageFromImage(s.Image())
		r.img.FillMode = canvas.ImageFillStretch
		r.img.ScaleMode = canvas.ImageScaleFastest
	}
	size := s.ImageSize()
	imgRect := engine.RectToDisplay(size.Bounds(), s.View())
	r.img.Move(fyne.NewPos(float32(imgRect.X), float32(imgRect.Y)))
	r.img.Resize(fyne.NewSize(float32(imgRect.Width), float32(imgRect.Height)))
	r.objects = append(r.objects, r.img)

	sel := s.DisplayRect()

	if r.view.preview {
		for i, c := range r.view.previewCells() {
			r.objects = append(r.objects, rectObject(c, color.Transparent, engine.PreviewColor(i, r.view.grid.Cols), 2))
		}
	}

	r.objects = append(r.objects, rectObject(sel, color.Transparent, selectionStroke, 2))
	if !r.view.preview {
		for _, l := range engine.GridLines(sel, r.view.grid) {
			line := canvas.NewLine(gridStroke)
			line.StrokeWidth = 1
			line.Position1 = fyne.NewPos(float32(l.From.X), float32(l.From.Y))
			line.Position2 = fyne.NewPos(float32(l.To.X), float32(l.To.Y))
			r.objects = append(r.objects, line)
		}
	}

	half := float64(handleSize) / 2
	handles := []model.Point{
		sel.TopLeft(), sel.TopRight(), sel.BottomLeft(), sel.BottomRight(),
		{X: sel.Center().X, Y: sel.Y}, {X: sel.Center().X, Y: sel.Bottom()},
		{X: sel.X, Y: sel.Center().Y}, {X: sel.Right(), Y: sel.Center().Y},
	}
	for _, h := range handles {
		hr := model.Rect{X: h.X - half, Y: h.Y - half, Width: handleSize, Height: handleSize}
		r.objects = append(r.objects, rectObject(hr, handleFill, color.Transparent, 0))
	}
}
