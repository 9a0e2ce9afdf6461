package codec

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	require.NotNil(t, ByName("jpeg"))
	require.NotNil(t, ByName("jxl"))
	require.NotNil(t, ByName("jpeg2000"))
	assert.Nil(t, ByName("webp"))

	assert.Equal(t, ByName("jxl"), ByName("jpeg-xl"))
	assert.Equal(t, ByName("jpeg2000"), ByName("j2k"))
	assert.Equal(t, "jxl", JXL.Name())
	assert.Equal(t, "jpeg2000", JPEG2000.Name())
}

func TestJPEG_RoundTripPreservesDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 48, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 48; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 7), B: 90, A: 255})
		}
	}

	data, err := JPEG.Encode(img, 80, 0)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	recon, err := JPEG.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 48, recon.Bounds().Dx())
	assert.Equal(t, 32, recon.Bounds().Dy())
}

func TestJPEG_InvalidQuality(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for _, q := range []float64{0, -1, 101} {
		_, err := JPEG.Encode(img, q, 0)
		require.Error(t, err, "quality %v", q)
		var failure *Failure
		require.ErrorAs(t, err, &failure)
		assert.Equal(t, "jpeg", failure.Codec)
		assert.Equal(t, StageEncode, failure.Stage)
	}
}

func TestFailure_Error(t *testing.T) {
	f := &Failure{Codec: "jxl", Stage: StageDecode, Err: assert.AnError}
	assert.Contains(t, f.Error(), "jxl")
	assert.Contains(t, f.Error(), "decode")
	assert.ErrorIs(t, f, assert.AnError)
}

func TestSearchBounds(t *testing.T) {
	b := JXL.Search()
	assert.Equal(t, 0.0, b.Lo)
	assert.Equal(t, 3.0, b.Hi)
	assert.Equal(t, 6.0, b.Max)

	b = JPEG2000.Search()
	assert.Equal(t, 1.0, b.Lo)
	assert.Equal(t, 600.0, b.Hi)
	assert.Equal(t, 1200.0, b.Max)
}

func TestEnsureTools_Missing(t *testing.T) {
	err := EnsureTools("definitely-not-a-real-tool-xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-tool-xyz")
}
