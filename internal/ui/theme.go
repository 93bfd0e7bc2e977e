// Package ui provides the GridCut application window: toolbar, menus,
// the selection view and the export dialogs.
package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GridCutTheme is the default Fyne theme with a compact toolbar and a
// neutral canvas colour, so the image is not tinted by the background.
type GridCutTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewGridCutTheme creates a theme that follows the system variant.
func NewGridCutTheme() *GridCutTheme {
	return &GridCutTheme{base: theme.DefaultTheme(), variant: 0}
}

// NewGridCutThemeWithVariant forces a light or dark variant.
func NewGridCutThemeWithVariant(variant fyne.ThemeVariant) *GridCutTheme {
	return &GridCutTheme{base: theme.DefaultTheme(), variant: variant}
}

// Color overrides the background and keeps everything else from the base.
func (t *GridCutTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground && t.variant == theme.VariantDark {
		return color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
	}
	return t.base.Color(name, t.variant)
}

func (t *GridCutTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *GridCutTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size shrinks text and padding for a single-row toolbar.
func (t *GridCutTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 18
	default:
		return t.base.Size(name)
	}
}
