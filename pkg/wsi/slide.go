package wsi

import (
	"fmt"
	"image"
	"image/draw"
	"os"
)

// Slide is a read-only pixel source for a whole-slide image. ReadRegion
// must be safe for concurrent use.
type Slide interface {
	// Dimensions returns the slide size in pixels at level 0.
	Dimensions() (int, int)
	// ReadRegion returns an RGB (8-bit per channel) pixel block for the
	// given rectangle at the given resolution level.
	ReadRegion(x, y, w, h, level int) (*image.RGBA, error)
	Close() error
}

// ImageSlide serves regions out of a single decoded image. It stands in
// for a pyramidal slide reader and only supports level 0.
type ImageSlide struct {
	img *image.RGBA
}

// OpenImageSlide decodes an image file (PNG, TIFF or JPEG) into memory.
func OpenImageSlide(path string) (*ImageSlide, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open slide: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode slide %s: %w", path, err)
	}
	return NewImageSlide(img), nil
}

// NewImageSlide wraps an in-memory image as a Slide.
func NewImageSlide(img image.Image) *ImageSlide {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &ImageSlide{img: rgba}
}

func (s *ImageSlide) Dimensions() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *ImageSlide) ReadRegion(x, y, w, h, level int) (*image.RGBA, error) {
	if level != 0 {
		return nil, fmt.Errorf("image slide: level %d not available", level)
	}
	sw, sh := s.Dimensions()
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > sw || y+h > sh {
		return nil, fmt.Errorf("%w: region %d,%d %dx%d outside slide %dx%d",
			ErrInvalidDimensions, x, y, w, h, sw, sh)
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), s.img, image.Point{X: x, Y: y}, draw.Src)
	return out, nil
}

func (s *ImageSlide) Close() error { return nil }
