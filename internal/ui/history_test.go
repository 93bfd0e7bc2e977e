package ui

import (
	"testing"

	"github.com/piwi3910/GridCut/internal/model"
)

var grid3x3 = model.GridSpec{Rows: 3, Cols: 3}

func sel(x float64) model.Rect {
	return model.Rect{X: x, Y: 0.1, Width: 0.5, Height: 0.5}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestPushAndUndo(t *testing.T) {
	h := NewHistory()

	// Push state before moving the selection
	h.Push(MakeSnapshot(sel(0.1), grid3x3, "initial"))

	if !h.CanUndo() {
		t.Fatal("should be able to undo after push")
	}

	restored, ok := h.Undo(MakeSnapshot(sel(0.3), grid3x3, "current"))
	if !ok {
		t.Fatal("undo should succeed")
	}
	if restored.Selection != sel(0.1) {
		t.Errorf("expected initial selection after undo, got %+v", restored.Selection)
	}
	if restored.Label != "initial" {
		t.Errorf("expected label 'initial', got %q", restored.Label)
	}
}

func TestUndoRedoGridChange(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(sel(0.1), grid3x3, "3x3"))

	current := MakeSnapshot(sel(0.1), model.GridSpec{Rows: 2, Cols: 4}, "2x4")
	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if restored.Grid != grid3x3 {
		t.Errorf("expected 3x3 grid, got %+v", restored.Grid)
	}

	if !h.CanRedo() {
		t.Fatal("should be able to redo")
	}
	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if redone.Grid != current.Grid {
		t.Errorf("expected 2x4 grid after redo, got %+v", redone.Grid)
	}
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(sel(0.1), grid3x3, "a"))

	if _, ok := h.Undo(MakeSnapshot(sel(0.2), grid3x3, "b")); !ok {
		t.Fatal("undo should succeed")
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	h.Push(MakeSnapshot(sel(0.1), grid3x3, "new action"))
	if h.CanRedo() {
		t.Error("redo stack should be cleared after push")
	}
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}

	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(sel(float64(i)/10), grid3x3, ""))
	}

	if len(h.undoStack) != 3 {
		t.Errorf("expected undo stack length 3, got %d", len(h.undoStack))
	}
	if h.undoStack[0].Selection != sel(0.2) {
		t.Errorf("oldest snapshots should be dropped first, got %+v", h.undoStack[0].Selection)
	}
}

func TestUndoRedoEmpty(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(sel(0.1), grid3x3, "current")
	if _, ok := h.Undo(current); ok {
		t.Error("undo on empty history should return false")
	}
	if _, ok := h.Redo(current); ok {
		t.Error("redo on empty history should return false")
	}
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(sel(0.1), grid3x3, "a"))
	h.Push(MakeSnapshot(sel(0.2), grid3x3, "b"))
	h.Undo(MakeSnapshot(sel(0.3), grid3x3, "current"))

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("after clear, should not be able to undo or redo")
	}
}

func TestMultipleUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(sel(0.0), grid3x3, "0"))
	h.Push(MakeSnapshot(sel(0.1), grid3x3, "1"))
	h.Push(MakeSnapshot(sel(0.2), grid3x3, "2"))
	s := MakeSnapshot(sel(0.3), grid3x3, "3")

	for _, want := range []string{"2", "1", "0"} {
		var ok bool
		s, ok = h.Undo(s)
		if !ok || s.Label != want {
			t.Fatalf("undo: expected %q, got %q (ok=%v)", want, s.Label, ok)
		}
	}
	if h.CanUndo() {
		t.Error("should not be able to undo further")
	}

	for _, want := range []string{"1", "2", "3"} {
		var ok bool
		s, ok = h.Redo(s)
		if !ok || s.Label != want {
			t.Fatalf("redo: expected %q, got %q (ok=%v)", want, s.Label, ok)
		}
	}
	if h.CanRedo() {
		t.Error("should not be able to redo further")
	}
}
