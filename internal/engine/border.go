package engine

import (
	"fmt"
	"image"
	"log"

	"github.com/disintegration/imaging"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/GridCut/internal/model"
)

// logger reports graceful-degradation events. Tests may silence it.
var logger = log.Default()

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Luminance converts an image to a row-major slice of 8-bit luma values.
func Luminance(img image.Image) (gray []uint8, w, h int) {
	g := imaging.Grayscale(img)
	b := g.Bounds()
	w, h = b.Dx(), b.Dy()
	gray = make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := g.Pix[y*g.Stride:]
		for x := 0; x < w; x++ {
			gray[y*w+x] = row[x*4]
		}
	}
	return gray, w, h
}

// OtsuThreshold picks the luma threshold that maximizes the between-class
// variance of the histogram. Pixels strictly above the threshold belong to
// the bright class. A single-valued histogram yields 0.
func OtsuThreshold(gray []uint8) uint8 {
	var hist [256]int
	for _, v := range gray {
		hist[v]++
	}
	total := len(gray)

	var sum float64
	for i := 0; i < 256; i++ {
		sum += float64(i) * float64(hist[i])
	}

	var sumB float64
	var wB, wF int
	var maxVar float64
	var thresh uint8
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF = total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		variance := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if variance > maxVar {
			maxVar = variance
			thresh = uint8(t)
		}
	}
	return thresh
}

// Binarize maps each luma value to 255 above the threshold and 0 otherwise.
func Binarize(gray []uint8, thresh uint8) []float64 {
	mask := make([]float64, len(gray))
	for i, v := range gray {
		if v > thresh {
			mask[i] = 255
		}
	}
	return mask
}

// DetectBorder finds the margins of a uniform border around a cell block.
//
// The block is thresholded with Otsu's method. The top-left mask value is
// the reference for the top and left scans, the bottom-right value for the
// bottom and right scans. Each scan stops at the first row (column) whose
// mean mask value differs from its reference. A block with no differing
// row or column, or whose scans cross, is left untrimmed.
func DetectBorder(img image.Image) (model.BorderTrim, error) {
	gray, w, h := Luminance(img)
	if w == 0 || h == 0 {
		return model.BorderTrim{}, model.ErrEmptyBlock
	}
	mask := Binarize(gray, OtsuThreshold(gray))

	topRef := mask[0]
	bottomRef := mask[(h-1)*w+(w-1)]

	rowMean := func(y int) float64 {
		return stat.Mean(mask[y*w:(y+1)*w], nil)
	}
	col := make([]float64, h)
	colMean := func(x int) float64 {
		for y := 0; y < h; y++ {
			col[y] = mask[y*w+x]
		}
		return stat.Mean(col, nil)
	}

	trim := model.IdentityTrim(w, h)
	for y := 0; y < h; y++ {
		if rowMean(y) != topRef {
			trim.Top = y
			break
		}
	}
	for y := h - 1; y >= 0; y-- {
		if rowMean(y) != bottomRef {
			trim.Bottom = y + 1
			break
		}
	}
	for x := 0; x < w; x++ {
		if colMean(x) != topRef {
			trim.Left = x
			break
		}
	}
	for x := w - 1; x >= 0; x-- {
		if colMean(x) != bottomRef {
			trim.Right = x + 1
			break
		}
	}

	if trim.Bottom <= trim.Top || trim.Right <= trim.Left {
		return model.IdentityTrim(w, h), nil
	}
	return trim, nil
}

// TrimOrIdentity runs DetectBorder and turns any failure, including a
// panic, into identity margins so one bad cell never aborts an export.
func TrimOrIdentity(img image.Image) (trim model.BorderTrim) {
	if img == nil {
		return model.BorderTrim{}
	}
	b := img.Bounds()
	identity := model.IdentityTrim(b.Dx(), b.Dy())
	defer func() {
		if r := recover(); r != nil {
			logger.Printf("border detection failed, keeping full cell: %v", r)
			trim = identity
		}
	}()

	t, err := DetectBorder(img)
	if err != nil {
		logger.Printf("border detection skipped: %v", err)
		return identity
	}
	return t
}

// ApplyTrim crops a block by the given margins. The result is a new image
// anchored at the origin; the input is not modified.
func ApplyTrim(img image.Image, trim model.BorderTrim) (image.Image, error) {
	b := img.Bounds()
	if trim.IsIdentity(b.Dx(), b.Dy()) {
		return img, nil
	}
	r := trim.Rect().Add(b.Min)
	if r.Empty() || !r.In(b) {
		return nil, fmt.Errorf("trim %v outside block %v", trim.Rect(), b)
	}
	return imaging.Crop(img, r), nil
}
