package model

import "testing"

func TestDefaultAppConfig(t *testing.T) {
	cfg := DefaultAppConfig()

	if cfg.Selection() != DefaultNormalizedSelection() {
		t.Errorf("unexpected default selection %+v", cfg.Selection())
	}
	if cfg.Grid() != (GridSpec{Rows: 3, Cols: 3}) {
		t.Errorf("unexpected default grid %+v", cfg.Grid())
	}
	if w, h := cfg.PageSizeCM(); w != 21.0 || h != 29.7 {
		t.Errorf("expected A4, got %.2fx%.2f", w, h)
	}
	if cfg.RecentImages == nil {
		t.Error("RecentImages should not be nil")
	}
}

func TestPageSizeCM(t *testing.T) {
	cfg := DefaultAppConfig()

	cfg.PDFPreset = "16:9"
	cfg.PDFWidthCM = 1
	if w, h := cfg.PageSizeCM(); w != 33.867 || h != 19.05 {
		t.Errorf("preset should win over stored size, got %.3fx%.3f", w, h)
	}

	cfg.PDFPreset = PresetCustom
	cfg.PDFWidthCM = 1
	cfg.PDFHeightCM = 40
	if w, h := cfg.PageSizeCM(); w != MinPageCM || h != 40 {
		t.Errorf("custom size should be clamped, got %.2fx%.2f", w, h)
	}
}

func TestNormalize(t *testing.T) {
	cfg := AppConfig{GridRows: 0, GridCols: -2, ImageScale: 50, PDFPreset: "Tabloid"}
	cfg.Normalize()

	if cfg.GridRows != 1 || cfg.GridCols != 1 {
		t.Errorf("expected 1x1 grid, got %dx%d", cfg.GridRows, cfg.GridCols)
	}
	if cfg.ImageScale != MaxZoom {
		t.Errorf("expected image scale clamped to %f, got %f", MaxZoom, cfg.ImageScale)
	}
	if cfg.PDFPreset != PresetCustom {
		t.Errorf("unknown preset should become Custom, got %s", cfg.PDFPreset)
	}
	if cfg.PDFWidthCM != MinPageCM {
		t.Errorf("expected width clamped to %f, got %f", MinPageCM, cfg.PDFWidthCM)
	}
	if cfg.RecentImages == nil {
		t.Error("RecentImages should not be nil after Normalize")
	}
}

func TestAddRecentImage(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < 12; i++ {
		cfg.AddRecentImage(string(rune('a' + i)))
	}
	if len(cfg.RecentImages) != maxRecentImages {
		t.Fatalf("expected %d recent images, got %d", maxRecentImages, len(cfg.RecentImages))
	}
	if cfg.RecentImages[0] != "l" {
		t.Errorf("expected most recent first, got %s", cfg.RecentImages[0])
	}

	cfg.AddRecentImage("e")
	if cfg.RecentImages[0] != "e" || len(cfg.RecentImages) != maxRecentImages {
		t.Errorf("re-adding should move to front without duplicating: %v", cfg.RecentImages)
	}
}
