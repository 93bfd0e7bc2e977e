package importer

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedImage(t *testing.T) {
	for _, p := range []string{"a.png", "b.JPG", "c.jpeg", "d.bmp", "e.gif", "f.tiff", "g.TIF", "h.webp"} {
		assert.True(t, IsSupportedImage(p), p)
	}
	for _, p := range []string{"a.pdf", "b", "c.png.txt"} {
		assert.False(t, IsSupportedImage(p), p)
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	src := imaging.New(12, 7, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	for _, name := range []string{"img.png", "img.jpg", "img.bmp", "img.tif", "img.gif"} {
		path := filepath.Join(dir, name)
		require.NoError(t, imaging.Save(src, path), name)

		img, err := LoadImage(path)
		require.NoError(t, err, name)
		assert.Equal(t, image.Rect(0, 0, 12, 7), img.Bounds(), name)
	}
}

func TestLoadImage_Errors(t *testing.T) {
	_, err := LoadImage("notes.txt")
	assert.Error(t, err)

	_, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0644))
	_, err = LoadImage(path)
	assert.Error(t, err)
}

func TestDecodeImageBytes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, imaging.New(3, 4, color.White), imaging.PNG))

	img, err := DecodeImageBytes(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	_, err = DecodeImageBytes([]byte{0x00, 0x01})
	assert.Error(t, err)
}
