package wsi

import (
	"fmt"
	"math"
)

// ErrInvalidDimensions is returned when mask or slide geometry is malformed.
// Geometry errors are fatal to a sampling run.
var ErrInvalidDimensions = fmt.Errorf("invalid mask/slide dimensions")

// Mapper converts between mask pixel space and slide pixel space using
// independent x/y scale factors (slide pixels per mask pixel).
type Mapper struct {
	ScaleX float64
	ScaleY float64
}

// NewMapper builds a Mapper from mask and slide dimensions at the working
// resolution level. All dimensions must be positive.
func NewMapper(maskW, maskH, slideW, slideH int) (*Mapper, error) {
	if maskW <= 0 || maskH <= 0 {
		return nil, fmt.Errorf("%w: mask %dx%d", ErrInvalidDimensions, maskW, maskH)
	}
	if slideW <= 0 || slideH <= 0 {
		return nil, fmt.Errorf("%w: slide %dx%d", ErrInvalidDimensions, slideW, slideH)
	}
	return &Mapper{
		ScaleX: float64(slideW) / float64(maskW),
		ScaleY: float64(slideH) / float64(maskH),
	}, nil
}

// MaskToSlide maps a mask pixel to the nearest slide pixel.
func (m *Mapper) MaskToSlide(mx, my int) (int, int) {
	return int(math.Round(float64(mx) * m.ScaleX)), int(math.Round(float64(my) * m.ScaleY))
}

// SlideToMask maps a slide pixel to the nearest mask pixel.
// SlideToMask(MaskToSlide(p)) recovers p within one pixel.
func (m *Mapper) SlideToMask(sx, sy int) (int, int) {
	return int(math.Round(float64(sx) / m.ScaleX)), int(math.Round(float64(sy) / m.ScaleY))
}

// SlideRectToMask maps a slide-space rectangle to the smallest covering
// mask-space rectangle, clamped to the mask bounds. Returned coordinates
// are half-open: [mx0, mx1) x [my0, my1).
func (m *Mapper) SlideRectToMask(x, y, w, h, maskW, maskH int) (mx0, my0, mx1, my1 int) {
	mx0 = int(math.Floor(float64(x) / m.ScaleX))
	my0 = int(math.Floor(float64(y) / m.ScaleY))
	mx1 = int(math.Ceil(float64(x+w) / m.ScaleX))
	my1 = int(math.Ceil(float64(y+h) / m.ScaleY))
	if mx0 < 0 {
		mx0 = 0
	}
	if my0 < 0 {
		my0 = 0
	}
	if mx1 > maskW {
		mx1 = maskW
	}
	if my1 > maskH {
		my1 = maskH
	}
	return mx0, my0, mx1, my1
}
