package match

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palette-research/wsibench/pkg/codec"
)

func tileImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(200 - x%32*4),
				G: uint8(120 + y%16*3),
				B: uint8(180 - (x+y)%24*2),
				A: 255,
			})
		}
	}
	return img
}

func TestCodecEvaluator_JPEGRoundTrip(t *testing.T) {
	img := tileImage(64, 64)
	ev := NewCodecEvaluator(img, codec.JPEG)

	s, err := ev.Evaluate(80, 0)
	require.NoError(t, err)
	assert.Equal(t, 80.0, s.Param)
	assert.Greater(t, s.SSIM, 0.5)
	assert.LessOrEqual(t, s.SSIM, 1.0)
	assert.Greater(t, s.Size, 0)
	t.Logf("jpeg q80: ssim=%.4f size=%d", s.SSIM, s.Size)
}

func TestAnchorSSIM(t *testing.T) {
	img := tileImage(64, 64)

	high, err := AnchorSSIM(img, codec.JPEG, 95, 0)
	require.NoError(t, err)
	low, err := AnchorSSIM(img, codec.JPEG, 10, 0)
	require.NoError(t, err)

	assert.Greater(t, high.SSIM, low.SSIM, "higher anchor quality must score higher")
	assert.GreaterOrEqual(t, low.SSIM, 0.0)
	assert.LessOrEqual(t, high.SSIM, 1.0)
}

func TestAnchorSSIM_FailureAbortsTile(t *testing.T) {
	img := tileImage(8, 8)
	_, err := AnchorSSIM(img, codec.JPEG, 0, 0) // quality out of range
	require.Error(t, err)
	var failure *codec.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, codec.StageEncode, failure.Stage)
}
