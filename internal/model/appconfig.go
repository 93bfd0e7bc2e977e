package model

import "math"

// AppConfig holds application-wide preferences and the last session state.
// The selection is stored normalized so it survives image reloads.
type AppConfig struct {
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`

	// Selection as fractions of image width/height
	SelectionX float64 `json:"selection_x_normalized"`
	SelectionY float64 `json:"selection_y_normalized"`
	SelectionW float64 `json:"selection_w_normalized"`
	SelectionH float64 `json:"selection_h_normalized"`

	ImageScale float64 `json:"image_scale"` // zoom relative to fit-to-view

	GridRows    int  `json:"grid_rows"`
	GridCols    int  `json:"grid_cols"`
	CutBorder   bool `json:"cut_border"`
	PreviewMode bool `json:"preview_mode"`

	// PDF page size
	PDFPreset   string  `json:"pdf_preset"`
	PDFWidthCM  float64 `json:"pdf_width_spin"`
	PDFHeightCM float64 `json:"pdf_height_spin"`

	RecentImages []string `json:"recent_images"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	sel := DefaultNormalizedSelection()
	return AppConfig{
		WindowWidth:  1000,
		WindowHeight: 700,
		SelectionX:   sel.X,
		SelectionY:   sel.Y,
		SelectionW:   sel.Width,
		SelectionH:   sel.Height,
		ImageScale:   1.0,
		GridRows:     3,
		GridCols:     3,
		PDFPreset:    "A4",
		PDFWidthCM:   21.0,
		PDFHeightCM:  29.7,
		RecentImages: []string{},
	}
}

// Selection returns the stored normalized selection.
func (c AppConfig) Selection() Rect {
	return Rect{X: c.SelectionX, Y: c.SelectionY, Width: c.SelectionW, Height: c.SelectionH}
}

// SetSelection stores a normalized selection.
func (c *AppConfig) SetSelection(r Rect) {
	c.SelectionX = r.X
	c.SelectionY = r.Y
	c.SelectionW = r.Width
	c.SelectionH = r.Height
}

// Grid returns the stored grid spec.
func (c AppConfig) Grid() GridSpec {
	return GridSpec{Rows: c.GridRows, Cols: c.GridCols}
}

// PageSizeCM returns the page size for PDF export. Named presets win over
// the stored width/height; Custom uses the stored values clamped to range.
func (c AppConfig) PageSizeCM() (width, height float64) {
	if p, ok := PagePresetByName(c.PDFPreset); ok && p.Name != PresetCustom {
		return p.WidthCM, p.HeightCM
	}
	return ClampPageCM(c.PDFWidthCM), ClampPageCM(c.PDFHeightCM)
}

// Normalize repairs out-of-range values in place, e.g. after loading a
// hand-edited config file.
func (c *AppConfig) Normalize() {
	if c.GridRows < 1 {
		c.GridRows = 1
	}
	if c.GridCols < 1 {
		c.GridCols = 1
	}
	if c.ImageScale <= 0 || math.IsNaN(c.ImageScale) {
		c.ImageScale = 1.0
	}
	c.ImageScale = math.Max(MinZoom, math.Min(MaxZoom, c.ImageScale))
	if _, ok := PagePresetByName(c.PDFPreset); !ok {
		c.PDFPreset = PresetCustom
	}
	c.PDFWidthCM = ClampPageCM(c.PDFWidthCM)
	c.PDFHeightCM = ClampPageCM(c.PDFHeightCM)
	if c.RecentImages == nil {
		c.RecentImages = []string{}
	}
}

// maxRecentImages bounds the recent-images list.
const maxRecentImages = 10

// AddRecentImage moves path to the front of the recent list.
func (c *AppConfig) AddRecentImage(path string) {
	list := []string{path}
	for _, p := range c.RecentImages {
		if p != path {
			list = append(list, p)
		}
	}
	if len(list) > maxRecentImages {
		list = list[:maxRecentImages]
	}
	c.RecentImages = list
}
