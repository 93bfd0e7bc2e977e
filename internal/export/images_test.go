package export

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GridCut/internal/engine"
	"github.com/piwi3910/GridCut/internal/model"
)

func TestOutputBase(t *testing.T) {
	assert.Equal(t, "holiday", OutputBase("/photos/holiday.jpeg"))
	assert.Equal(t, "archive.tar", OutputBase("archive.tar.png"))
	assert.Equal(t, ClipboardBase, OutputBase(""))
}

func TestFileNames(t *testing.T) {
	c := model.Cell{Row: 1, Col: 2}
	assert.Equal(t, "scan_r2c3.png", CellFileName("scan", c))
	assert.Equal(t, "scan.pdf", PDFFileName("scan"))
	assert.Equal(t, "scan_manifest.csv", ManifestFileName("scan", ".csv"))
	assert.Equal(t, "scan_index.pdf", IndexSheetFileName("scan"))
	assert.Equal(t, "scan_grid.dxf", GridDXFFileName("scan"))
	assert.Equal(t, "scan_page03.png", PageFileName("scan", 2))
}

func TestSavePages(t *testing.T) {
	dir := t.TempDir()
	blocks := []image.Image{imaging.New(20, 10, color.Black), imaging.New(10, 20, color.White)}
	pages, err := engine.ComposePages(blocks, 5.08, 2.54)
	require.NoError(t, err)

	names, err := SavePages(dir, "scan", pages, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"scan_page01.png", "scan_page02.png"}, names)

	img, err := imaging.Open(filepath.Join(dir, "scan_page02.png"))
	require.NoError(t, err)
	// 2 x 1 inch at 100 dpi
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())
}

func TestSaveCells(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	blocks := []model.CellBlock{
		{
			Cell:  model.Cell{Row: 0, Col: 0, Bounds: image.Rect(0, 0, 8, 6)},
			Trim:  model.IdentityTrim(8, 6),
			Image: imaging.New(8, 6, color.Black),
		},
		{
			Cell:  model.Cell{Row: 0, Col: 1, Bounds: image.Rect(8, 0, 16, 6)},
			Trim:  model.BorderTrim{Top: 1, Bottom: 5, Left: 1, Right: 7},
			Image: imaging.New(6, 4, color.White),
		},
	}

	rows, err := SaveCells(dir, "scan", blocks)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "scan_r1c2.png", rows[1].File)
	assert.Equal(t, 8, rows[1].X)

	img, err := imaging.Open(filepath.Join(dir, "scan_r1c2.png"))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())
}

func TestSaveCells_ContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	blocks := []model.CellBlock{
		{Cell: model.Cell{Row: 0, Col: 0}, Image: nil},
		{Cell: model.Cell{Row: 0, Col: 1, Bounds: image.Rect(0, 0, 4, 4)}, Image: imaging.New(4, 4, color.Black)},
	}

	rows, err := SaveCells(dir, "x", blocks)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptyBlock)
	assert.Len(t, rows, 1)

	_, statErr := os.Stat(filepath.Join(dir, "x_r1c2.png"))
	assert.NoError(t, statErr)
}
