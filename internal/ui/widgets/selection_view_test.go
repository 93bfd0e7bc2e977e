package widgets

import (
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/model"
)

// newTestView shows a 100x100 image in a 100x100 view, so display and
// pixel coordinates coincide and the selection is (10,10,80,80).
func newTestView(t *testing.T) (*SelectionView, *engine.Session, fyne.WidgetRenderer) {
	t.Helper()
	test.NewTempApp(t)

	s := engine.NewSession()
	v := NewSelectionView(s)
	r := test.WidgetRenderer(v)
	v.Resize(fyne.NewSize(100, 100))

	require.NoError(t, s.SetImage(image.NewNRGBA(image.Rect(0, 0, 100, 100)), v.Viewport()))
	v.Refresh()
	return v, s, r
}

func mouse(x, y float32, button desktop.MouseButton) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestSelectionView_EmptyShowsBackgroundOnly(t *testing.T) {
	test.NewTempApp(t)
	v := NewSelectionView(engine.NewSession())
	r := test.WidgetRenderer(v)
	assert.Len(t, r.Objects(), 1)
}

func TestSelectionView_Objects(t *testing.T) {
	v, s, r := newTestView(t)
	assert.Equal(t, model.Rect{X: 10, Y: 10, Width: 80, Height: 80}, s.Rect())

	// background, image, outline, 4 grid lines, 8 handles
	assert.Len(t, r.Objects(), 15)

	v.SetGrid(model.GridSpec{Rows: 1, Cols: 2})
	assert.Len(t, r.Objects(), 12)

	v.SetPreview(true, false)
	// background, image, one outline per cell, selection, 8 handles
	assert.Len(t, r.Objects(), 13)
}

func TestSelectionView_PreviewCellsAreOutlines(t *testing.T) {
	v, _, r := newTestView(t)
	v.SetGrid(model.GridSpec{Rows: 1, Cols: 2})
	v.SetPreview(true, false)

	cell, ok := r.Objects()[2].(*canvas.Rectangle)
	require.True(t, ok)
	assert.Equal(t, color.Color(color.Transparent), cell.FillColor)
	assert.Equal(t, color.Color(engine.PreviewColor(0, 2)), cell.StrokeColor)
	assert.Equal(t, fyne.NewSize(40, 80), cell.Size())

	sel, ok := r.Objects()[4].(*canvas.Rectangle)
	require.True(t, ok)
	assert.Equal(t, color.Color(selectionStroke), sel.StrokeColor)
	assert.Equal(t, fyne.NewPos(10, 10), sel.Position())
}

func TestSelectionView_TrimmedPreviewUpdatesOnRelease(t *testing.T) {
	v, s, r := newTestView(t)
	v.SetGrid(model.GridSpec{Rows: 1, Cols: 1})
	v.SetPreview(true, true)
	assert.Equal(t, fyne.NewPos(10, 10), r.Objects()[2].Position())

	v.MouseDown(mouse(50, 50, desktop.MouseButtonPrimary))
	v.Dragged(drag(60, 55))
	assert.Equal(t, model.DragMoving, s.Mode())
	assert.Equal(t, fyne.NewPos(10, 10), r.Objects()[2].Position(), "trimmed preview is kept during the drag")
	assert.Equal(t, fyne.NewPos(20, 15), r.Objects()[3].Position(), "selection follows the pointer")

	v.MouseUp(mouse(60, 55, desktop.MouseButtonPrimary))
	assert.Equal(t, fyne.NewPos(20, 15), r.Objects()[2].Position())
}

func TestSelectionView_MoveCommits(t *testing.T) {
	v, s, _ := newTestView(t)

	var committed model.Rect
	s.SetOnCommit(func(n model.Rect) { committed = n })
	changes := 0
	v.OnChanged = func() { changes++ }

	v.MouseDown(mouse(50, 50, desktop.MouseButtonPrimary))
	assert.Equal(t, model.DragMoving, s.Mode())
	v.Dragged(drag(60, 55))
	v.MouseUp(mouse(60, 55, desktop.MouseButtonPrimary))

	assert.Equal(t, model.Rect{X: 20, Y: 15, Width: 80, Height: 80}, s.Rect())
	assert.InDelta(t, 0.2, committed.X, 1e-9)
	assert.InDelta(t, 0.15, committed.Y, 1e-9)
	assert.Equal(t, model.DragIdle, s.Mode())
	assert.GreaterOrEqual(t, changes, 2)
}

func TestSelectionView_SecondaryButtonIgnored(t *testing.T) {
	v, s, _ := newTestView(t)
	v.MouseDown(mouse(50, 50, desktop.MouseButtonSecondary))
	assert.Equal(t, model.DragIdle, s.Mode())
}

func TestSelectionView_DragEndCancels(t *testing.T) {
	v, s, _ := newTestView(t)
	v.MouseDown(mouse(90, 50, desktop.MouseButtonPrimary))
	assert.Equal(t, model.DragResizing, s.Mode())
	v.Dragged(drag(95, 50))
	v.DragEnd()

	assert.Equal(t, model.DragIdle, s.Mode())
	assert.Equal(t, 85.0, s.Rect().Width)
}

func TestSelectionView_Cursor(t *testing.T) {
	v, _, _ := newTestView(t)

	tests := []struct {
		x, y float32
		want desktop.Cursor
	}{
		{10, 10, desktop.CrosshairCursor},
		{50, 10, desktop.VResizeCursor},
		{90, 50, desktop.HResizeCursor},
		{50, 50, desktop.PointerCursor},
		{0, 50, desktop.DefaultCursor},
	}
	for _, tt := range tests {
		v.MouseMoved(mouse(tt.x, tt.y, 0))
		assert.Equal(t, tt.want, v.Cursor(), "at (%v,%v)", tt.x, tt.y)
	}

	v.MouseOut()
	assert.Equal(t, desktop.DefaultCursor, v.Cursor())
}
