package model

import (
	"image"
	"image/color"
	"math"
)

// Page is one composed output page: a background fill covering the whole
// page and a cell image placed inside it. All lengths are in page units.
type Page struct {
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Background color.NRGBA `json:"background"`
	Placement  Rect        `json:"placement"`
	Scale      float64     `json:"scale"`     // page units per image pixel
	ImageRef   string      `json:"image_ref"` // unique name for the page writer
	Image      image.Image `json:"-"`
}

// HasImage reports whether the page carries a drawable image.
func (p Page) HasImage() bool {
	return p.Image != nil && !p.Placement.Empty()
}

// PresetCustom is the name of the user-defined page size.
const PresetCustom = "Custom"

// Limits for custom page sizes, in centimetres.
const (
	MinPageCM = 5.0
	MaxPageCM = 100.0
)

// PagePreset is a named physical page size in centimetres.
type PagePreset struct {
	Name     string  `json:"name"`
	WidthCM  float64 `json:"width_cm"`
	HeightCM float64 `json:"height_cm"`
}

// PagePresets lists the built-in sizes in menu order. Custom has no fixed
// size of its own.
var PagePresets = []PagePreset{
	{Name: "A4", WidthCM: 21.0, HeightCM: 29.7},
	{Name: "Letter", WidthCM: 21.59, HeightCM: 27.94},
	{Name: "16:9", WidthCM: 33.867, HeightCM: 19.05},
	{Name: "4:3", WidthCM: 25.4, HeightCM: 19.05},
	{Name: PresetCustom},
}

// PagePresetByName looks up a preset. The second return is false for
// unknown names.
func PagePresetByName(name string) (PagePreset, bool) {
	for _, p := range PagePresets {
		if p.Name == name {
			return p, true
		}
	}
	return PagePreset{}, false
}

// PagePresetNames returns preset names for UI dropdowns.
func PagePresetNames() []string {
	names := make([]string, len(PagePresets))
	for i, p := range PagePresets {
		names[i] = p.Name
	}
	return names
}

// ClampPageCM limits a custom page dimension to the supported range.
func ClampPageCM(v float64) float64 {
	return math.Max(MinPageCM, math.Min(MaxPageCM, v))
}
