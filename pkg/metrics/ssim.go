// Package metrics provides the perceptual and size metrics used to compare
// a reconstructed tile against its original.
package metrics

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/stat"
)

// SSIM windowing: a 7x7 uniform sliding window with stride 1, computed per
// channel over 8-bit RGB data (dynamic range 255), averaged over window
// positions and then over the three channels. Window statistics are sample
// statistics (Bessel corrected). Images smaller than the window fall back
// to a single whole-image window.
const (
	ssimWindow = 7
	ssimL      = 255.0
	ssimK1     = 0.01
	ssimK2     = 0.03
)

// SSIM returns the structural similarity in [0, 1] between two RGB images
// of identical dimensions.
func SSIM(a, b *image.RGBA) (float64, error) {
	aw, ah := a.Bounds().Dx(), a.Bounds().Dy()
	bw, bh := b.Bounds().Dx(), b.Bounds().Dy()
	if aw != bw || ah != bh {
		return 0, fmt.Errorf("ssim: dimension mismatch %dx%d vs %dx%d", aw, ah, bw, bh)
	}
	if aw == 0 || ah == 0 {
		return 0, fmt.Errorf("ssim: empty image")
	}

	var sum float64
	for ch := 0; ch < 3; ch++ {
		pa := channelPlane(a, ch)
		pb := channelPlane(b, ch)
		sum += planeSSIM(pa, pb, aw, ah)
	}
	return sum / 3, nil
}

// channelPlane extracts one RGB channel as float64 values in [0, 255].
func channelPlane(img *image.RGBA, ch int) []float64 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	plane := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride:]
		for x := 0; x < w; x++ {
			plane[y*w+x] = float64(row[(x+b.Min.X-img.Rect.Min.X)*4+ch])
		}
	}
	return plane
}

func planeSSIM(a, b []float64, w, h int) float64 {
	win := ssimWindow
	if w < win || h < win {
		return windowSSIM(a, b)
	}

	wa := make([]float64, win*win)
	wb := make([]float64, win*win)
	var total float64
	n := 0
	for y := 0; y+win <= h; y++ {
		for x := 0; x+win <= w; x++ {
			for wy := 0; wy < win; wy++ {
				copy(wa[wy*win:wy*win+win], a[(y+wy)*w+x:(y+wy)*w+x+win])
				copy(wb[wy*win:wy*win+win], b[(y+wy)*w+x:(y+wy)*w+x+win])
			}
			total += windowSSIM(wa, wb)
			n++
		}
	}
	return total / float64(n)
}

func windowSSIM(a, b []float64) float64 {
	c1 := (ssimK1 * ssimL) * (ssimK1 * ssimL)
	c2 := (ssimK2 * ssimL) * (ssimK2 * ssimL)

	muA := stat.Mean(a, nil)
	muB := stat.Mean(b, nil)
	varA := stat.Variance(a, nil)
	varB := stat.Variance(b, nil)
	cov := stat.Covariance(a, b, nil)

	num := (2*muA*muB + c1) * (2*cov + c2)
	den := (muA*muA + muB*muB + c1) * (varA + varB + c2)
	if den == 0 {
		return 0
	}
	return num / den
}
