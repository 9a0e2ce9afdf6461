package metrics

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x * 3),
				G: uint8(y * 5),
				B: uint8((x + y) * 2),
				A: 255,
			})
		}
	}
	return img
}

func TestSSIM_Identical(t *testing.T) {
	img := testImage(32, 32)
	s, err := SSIM(img, img)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-9)
}

func TestSSIM_DegradesWithNoise(t *testing.T) {
	img := testImage(32, 32)

	rng := rand.New(rand.NewSource(1))
	mild := addNoise(img, rng, 8)
	heavy := addNoise(img, rng, 64)

	sMild, err := SSIM(img, mild)
	require.NoError(t, err)
	sHeavy, err := SSIM(img, heavy)
	require.NoError(t, err)

	assert.Less(t, sMild, 1.0)
	assert.Less(t, sHeavy, sMild, "heavier distortion must score lower")
	assert.GreaterOrEqual(t, sHeavy, 0.0)
}

func addNoise(img *image.RGBA, rng *rand.Rand, amp int) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	copy(out.Pix, img.Pix)
	for i := 0; i < len(out.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := int(out.Pix[i+c]) + rng.Intn(2*amp+1) - amp
			if v < 0 {
				v = 0
			}
			if v > 255 {
				v = 255
			}
			out.Pix[i+c] = uint8(v)
		}
	}
	return out
}

func TestSSIM_DimensionMismatch(t *testing.T) {
	_, err := SSIM(testImage(16, 16), testImage(16, 17))
	assert.Error(t, err)
}

func TestSSIM_SmallerThanWindow(t *testing.T) {
	img := testImage(4, 4)
	s, err := SSIM(img, img)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, s, 1e-9)
}

func TestRawBytes(t *testing.T) {
	// 256x256 RGB at 8 bits per channel.
	assert.Equal(t, 196_608, RawBytes(256, 256))
}

func TestCompressionRatio(t *testing.T) {
	assert.InDelta(t, 3.0, CompressionRatio(RawBytes(256, 256), 65_536), 1e-12)
	assert.Equal(t, 196_608.0, CompressionRatio(196_608, 0), "encoded size floored at one byte")
}
