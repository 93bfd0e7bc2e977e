package engine

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GridCut/internal/model"
)

func TestContainFit(t *testing.T) {
	placement, scale := ContainFit(200, 100, 100, 100)
	assert.Equal(t, 0.5, scale)
	assert.Equal(t, model.Rect{X: 0, Y: 25, Width: 100, Height: 50}, placement)

	placement, scale = ContainFit(10, 20, 100, 100)
	assert.Equal(t, 5.0, scale, "small blocks are scaled up")
	assert.Equal(t, model.Rect{X: 25, Y: 0, Width: 50, Height: 100}, placement)

	_, scale = ContainFit(0, 10, 100, 100)
	assert.Equal(t, 0.0, scale)
}

func TestBackgroundColor_Median(t *testing.T) {
	bg := color.NRGBA{R: 200, G: 100, B: 50, A: 255}
	block := framedBlock(9, 9, 1, bg, color.Black)
	// A single odd pixel on the edge does not move the median.
	block.Set(0, 4, color.White)

	assert.Equal(t, bg, BackgroundColor(block))
}

func TestBackgroundColor_EvenCountAveragesMiddle(t *testing.T) {
	// 2×1 block: edge lines are [a b], [a b], [a], [b] so the median of
	// {a,a,a,b,b,b} is (a+b)/2, truncated.
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 10, G: 0, B: 255, A: 255})
	img.Set(1, 0, color.NRGBA{R: 21, G: 0, B: 0, A: 255})

	assert.Equal(t, color.NRGBA{R: 15, G: 0, B: 127, A: 255}, BackgroundColor(img))
}

func TestBackgroundColor_Empty(t *testing.T) {
	assert.Equal(t, color.NRGBA{A: 255}, BackgroundColor(image.NewNRGBA(image.Rect(0, 0, 0, 0))))
	assert.Equal(t, color.NRGBA{A: 255}, BackgroundColor(nil))
}

func TestComposePage(t *testing.T) {
	block := imaging.New(200, 100, color.White)

	page, err := ComposePage(block, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.5, page.Scale)
	assert.Equal(t, model.Rect{X: 0, Y: 25, Width: 100, Height: 50}, page.Placement)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, page.Background)
	assert.True(t, strings.HasPrefix(page.ImageRef, "cell-"))
	assert.True(t, page.HasImage())

	_, err = ComposePage(block, 0, 100)
	assert.ErrorIs(t, err, model.ErrInvalidPageSize)
}

func TestComposePage_EmptyBlockIsBackgroundOnly(t *testing.T) {
	page, err := ComposePage(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 21, 29.7)
	require.NoError(t, err)
	assert.False(t, page.HasImage())
	assert.Equal(t, color.NRGBA{A: 255}, page.Background)
}

func TestComposePages_UniqueRefs(t *testing.T) {
	blocks := []image.Image{
		imaging.New(10, 10, color.Black),
		imaging.New(10, 20, color.White),
	}
	pages, err := ComposePages(blocks, 21, 29.7)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.NotEqual(t, pages[0].ImageRef, pages[1].ImageRef)
}

func TestRasterizePage(t *testing.T) {
	block := imaging.New(20, 10, color.NRGBA{R: 255, A: 255})
	page, err := ComposePage(block, 10, 10)
	require.NoError(t, err)
	page.Background = color.NRGBA{B: 255, A: 255}

	out := RasterizePage(page, 10)
	assert.Equal(t, image.Rect(0, 0, 100, 100), out.Bounds())
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, out.NRGBAAt(50, 5), "margin shows background")
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, out.NRGBAAt(50, 50), "center shows the block")
}
