// Package contour traces the silhouette of a black-shape-on-white image and
// exports it as a closed SVG outline for milling or engraving.
package contour

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
)

// LoadImage reads a PNG, JPEG or SVG file. SVG input is rasterised at its
// view-box size onto a white background.
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return rasterizeSVG(data)
	case ".png":
		return png.Decode(bytes.NewReader(data))
	case ".jpg", ".jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	}
	return nil, errors.New("unsupported image format: " + filepath.Ext(path))
}

func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, errors.New("svg has an empty view box")
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	return img, nil
}

// Downscale shrinks the image so its longest side is at most maxDim pixels,
// preserving aspect ratio. Images already small enough pass through.
func Downscale(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	if w >= h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, b, xdraw.Over, nil)
	return out
}

// Grayscale converts to 8-bit luminance.
func Grayscale(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// OtsuThreshold picks the binarisation threshold that maximises the
// between-class variance of the luminance histogram.
func OtsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	total := 0
	b := g.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[g.GrayAt(x, y).Y]++
			total++
		}
	}

	sum := 0.0
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	sumB := 0.0
	wB := 0
	best := 0
	bestVar := -1.0

	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * float64(hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		v := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if v > bestVar {
			bestVar = v
			best = t
		}
	}

	return uint8(best)
}

// Binarize returns the silhouette mask: true where the pixel is darker than
// or equal to the threshold.
func Binarize(g *image.Gray, threshold uint8) [][]bool {
	b := g.Bounds()
	mask := make([][]bool, b.Dy())
	for y := range mask {
		row := make([]bool, b.Dx())
		for x := range row {
			row[x] = g.GrayAt(b.Min.X+x, b.Min.Y+y).Y <= threshold
		}
		mask[y] = row
	}
	return mask
}
