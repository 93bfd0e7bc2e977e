package model

import (
	"errors"
	"image"
	"testing"
)

func TestNewManifestRow(t *testing.T) {
	b := CellBlock{
		Cell: Cell{Row: 1, Col: 2, Bounds: image.Rect(66, 50, 100, 100)},
		Trim: BorderTrim{Top: 1, Bottom: 49, Left: 2, Right: 30},
	}
	r := NewManifestRow(b, "scan_r2c3.png")

	if r.Row != 2 || r.Col != 3 {
		t.Errorf("expected 1-based position 2/3, got %d/%d", r.Row, r.Col)
	}
	if r.Bounds() != b.Bounds {
		t.Errorf("expected bounds %v, got %v", b.Bounds, r.Bounds())
	}

	want := []string{"2", "3", "66", "50", "34", "50", "1", "49", "2", "30", "scan_r2c3.png"}
	got := r.Record()
	if len(got) != len(ManifestHeader) {
		t.Fatalf("record has %d fields, header has %d", len(got), len(ManifestHeader))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %s: expected %q, got %q", ManifestHeader[i], want[i], got[i])
		}
	}
}

func TestLayoutFromManifest(t *testing.T) {
	// 2x3 partition of (10,20)-(110,120), listed out of order
	rows := []ManifestRow{
		{Row: 2, Col: 3, X: 76, Y: 70, Width: 34, Height: 50},
		{Row: 1, Col: 1, X: 10, Y: 20, Width: 33, Height: 50},
		{Row: 1, Col: 2, X: 43, Y: 20, Width: 33, Height: 50},
	}
	layout, err := LayoutFromManifest(rows)
	if err != nil {
		t.Fatalf("LayoutFromManifest error: %v", err)
	}
	if layout.Selection != image.Rect(10, 20, 110, 120) {
		t.Errorf("expected union (10,20)-(110,120), got %v", layout.Selection)
	}
	if layout.Grid != (GridSpec{Rows: 2, Cols: 3}) {
		t.Errorf("expected 2x3 grid, got %+v", layout.Grid)
	}
}

func TestLayoutFromManifest_Invalid(t *testing.T) {
	if _, err := LayoutFromManifest(nil); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for no rows, got %v", err)
	}
	if _, err := LayoutFromManifest([]ManifestRow{{Row: 0, Col: 1, Width: 5, Height: 5}}); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid for row 0, got %v", err)
	}
}
