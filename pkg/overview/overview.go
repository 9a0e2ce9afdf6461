// Package overview renders a scaled slide thumbnail with the sampled tile
// placements outlined, for eyeballing a sampling run.
package overview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/palette-research/wsibench/pkg/wsi"
)

var outline = color.RGBA{G: 255, A: 255}

const outlineWidth = 2

// Render reads the slide at level 0, scales it to maxWidth and draws each
// tile's rectangle on top.
func Render(slide wsi.Slide, tiles []wsi.Tile, maxWidth int) (*image.RGBA, error) {
	sw, sh := slide.Dimensions()
	if maxWidth <= 0 || sw <= 0 || sh <= 0 {
		return nil, fmt.Errorf("overview: bad dimensions slide %dx%d max width %d", sw, sh, maxWidth)
	}
	full, err := slide.ReadRegion(0, 0, sw, sh, 0)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	scale := float64(maxWidth) / float64(sw)
	if scale > 1 {
		scale = 1
	}
	tw := int(math.Round(float64(sw) * scale))
	th := int(math.Round(float64(sh) * scale))
	thumb := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), full, full.Bounds(), draw.Src, nil)

	for _, t := range tiles {
		x0 := int(math.Round(float64(t.X) * scale))
		y0 := int(math.Round(float64(t.Y) * scale))
		x1 := int(math.Round(float64(t.X+t.W) * scale))
		y1 := int(math.Round(float64(t.Y+t.H) * scale))
		drawRect(thumb, x0, y0, x1, y1)
	}
	return thumb, nil
}

// Save writes the overview as a PNG.
func Save(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("overview: %w", err)
	}
	defer f.Close()
	return png.Encode(f, img)
}

func drawRect(img *image.RGBA, x0, y0, x1, y1 int) {
	for k := 0; k < outlineWidth; k++ {
		for x := x0 - k; x <= x1+k; x++ {
			set(img, x, y0-k)
			set(img, x, y1+k)
		}
		for y := y0 - k; y <= y1+k; y++ {
			set(img, x0-k, y)
			set(img, x1+k, y)
		}
	}
}

func set(img *image.RGBA, x, y int) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, outline)
	}
}
