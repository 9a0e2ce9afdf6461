package wsi

import (
	"fmt"
	"image"
	"image/color"
	"os"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Mask is a binary tissue mask. Any non-zero grayscale value in the source
// image counts as tissue. Immutable once loaded; safe for concurrent reads.
type Mask struct {
	W, H   int
	tissue []bool
	pixels []image.Point // every tissue pixel, row-major
}

// LoadMask reads a mask image (PNG, TIFF or JPEG) from disk.
func LoadMask(path string) (*Mask, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode mask %s: %w", path, err)
	}
	return NewMaskFromImage(img), nil
}

// NewMaskFromImage converts an image to a binary mask via grayscale
// thresholding at zero.
func NewMaskFromImage(img image.Image) *Mask {
	b := img.Bounds()
	m := &Mask{W: b.Dx(), H: b.Dy(), tissue: make([]bool, b.Dx()*b.Dy())}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y > 0 {
				m.tissue[y*m.W+x] = true
				m.pixels = append(m.pixels, image.Point{X: x, Y: y})
			}
		}
	}
	return m
}

// NewMask builds a mask directly from a bitmap; bitmap[y*w+x] true = tissue.
func NewMask(w, h int, bitmap []bool) (*Mask, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: mask %dx%d", ErrInvalidDimensions, w, h)
	}
	if len(bitmap) != w*h {
		return nil, fmt.Errorf("mask bitmap has %d entries, want %d", len(bitmap), w*h)
	}
	m := &Mask{W: w, H: h, tissue: bitmap}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bitmap[y*w+x] {
				m.pixels = append(m.pixels, image.Point{X: x, Y: y})
			}
		}
	}
	return m, nil
}

// At reports whether the mask pixel at (x, y) is tissue. Out-of-bounds
// coordinates are background.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.tissue[y*m.W+x]
}

// TissuePixels returns all tissue pixels in row-major order. The slice is
// shared; callers must not modify it.
func (m *Mask) TissuePixels() []image.Point {
	return m.pixels
}

// RectCoverage counts tissue pixels inside the half-open mask-space
// rectangle [x0, x1) x [y0, y1). Returns (tissue, examined).
func (m *Mask) RectCoverage(x0, y0, x1, y1 int) (int, int) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > m.W {
		x1 = m.W
	}
	if y1 > m.H {
		y1 = m.H
	}
	if x1 <= x0 || y1 <= y0 {
		return 0, 0
	}
	tissue := 0
	for y := y0; y < y1; y++ {
		row := m.tissue[y*m.W : y*m.W+m.W]
		for x := x0; x < x1; x++ {
			if row[x] {
				tissue++
			}
		}
	}
	return tissue, (x1 - x0) * (y1 - y0)
}
