package engine

import (
	"bytes"
	"image"
	"image/color"
	"log"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/GridCut/internal/model"
)

// framedBlock returns a w×h block filled with inner and a border of the
// given thickness in outer.
func framedBlock(w, h, border int, outer, inner color.Color) *image.NRGBA {
	img := imaging.New(w, h, outer)
	for y := border; y < h-border; y++ {
		for x := border; x < w-border; x++ {
			img.Set(x, y, inner)
		}
	}
	return img
}

func TestOtsuThreshold(t *testing.T) {
	gray := []uint8{10, 10, 10, 200, 200, 200}
	th := OtsuThreshold(gray)
	assert.GreaterOrEqual(t, th, uint8(10))
	assert.Less(t, th, uint8(200))

	assert.Equal(t, uint8(0), OtsuThreshold([]uint8{128, 128, 128}))
	assert.Equal(t, uint8(0), OtsuThreshold(nil))
}

func TestBinarize(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 255}, Binarize([]uint8{5, 10, 11}, 10))
}

func TestDetectBorder_BlackFrame(t *testing.T) {
	block := framedBlock(10, 10, 2, color.Black, color.White)

	trim, err := DetectBorder(block)
	require.NoError(t, err)
	assert.Equal(t, model.BorderTrim{Top: 2, Bottom: 8, Left: 2, Right: 8}, trim)
}

func TestDetectBorder_WhiteFrameOnDarkContent(t *testing.T) {
	block := framedBlock(30, 20, 4, color.White, color.NRGBA{R: 20, G: 30, B: 40, A: 255})

	trim, err := DetectBorder(block)
	require.NoError(t, err)
	assert.Equal(t, model.BorderTrim{Top: 4, Bottom: 16, Left: 4, Right: 26}, trim)
}

func TestDetectBorder_UniformBlockIsIdentity(t *testing.T) {
	block := imaging.New(12, 7, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	trim, err := DetectBorder(block)
	require.NoError(t, err)
	assert.True(t, trim.IsIdentity(12, 7))
}

func TestDetectBorder_Idempotent(t *testing.T) {
	block := framedBlock(10, 10, 2, color.Black, color.White)
	trim, err := DetectBorder(block)
	require.NoError(t, err)

	trimmed, err := ApplyTrim(block, trim)
	require.NoError(t, err)
	size := model.SizeOf(trimmed)
	assert.Equal(t, model.ImageSize{Width: 6, Height: 6}, size)

	again, err := DetectBorder(trimmed)
	require.NoError(t, err)
	assert.True(t, again.IsIdentity(size.Width, size.Height))
}

func TestDetectBorder_EmptyBlock(t *testing.T) {
	_, err := DetectBorder(image.NewNRGBA(image.Rect(0, 0, 0, 0)))
	assert.ErrorIs(t, err, model.ErrEmptyBlock)
}

func TestTrimOrIdentity_LogsAndFallsBack(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	t.Cleanup(func() { SetLogger(log.Default()) })

	empty := image.NewNRGBA(image.Rect(0, 0, 0, 5))
	assert.Equal(t, model.IdentityTrim(0, 5), TrimOrIdentity(empty))
	assert.Contains(t, buf.String(), "border detection")

	block := framedBlock(10, 10, 2, color.Black, color.White)
	assert.Equal(t, model.BorderTrim{Top: 2, Bottom: 8, Left: 2, Right: 8}, TrimOrIdentity(block))
}

func TestApplyTrim_OffsetBounds(t *testing.T) {
	src := framedBlock(20, 20, 0, color.White, color.White)
	sub := src.SubImage(image.Rect(5, 5, 15, 15))

	out, err := ApplyTrim(sub, model.BorderTrim{Top: 1, Bottom: 9, Left: 2, Right: 8})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 8), out.Bounds())

	_, err = ApplyTrim(sub, model.BorderTrim{Top: 0, Bottom: 20, Left: 0, Right: 10})
	assert.Error(t, err)
}
