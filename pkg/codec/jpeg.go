package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
)

// jpegCodec is the in-process anchor codec. Its control parameter is the
// libjpeg quality setting (1..100), so unlike the matched codecs a higher
// parameter means higher quality. The default pipeline only ever encodes
// it at a fixed quality to establish the target SSIM and never bisects it.
type jpegCodec struct{}

func (c *jpegCodec) Encode(img *image.RGBA, param float64, effort int) ([]byte, error) {
	q := int(param)
	if q < 1 || q > 100 {
		return nil, encodeFailure(c.Name(), fmt.Errorf("quality %d out of range 1..100", q))
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return nil, encodeFailure(c.Name(), err)
	}
	return buf.Bytes(), nil
}

func (c *jpegCodec) Decode(data []byte) (*image.RGBA, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, decodeFailure(c.Name(), err)
	}
	return toRGBA(img), nil
}

func (c *jpegCodec) Name() string { return "jpeg" }

func (c *jpegCodec) Search() SearchBounds {
	// Anchor only. Bounds are the full quality range; note the inverted
	// parameter direction before bisecting this codec.
	return SearchBounds{Lo: 1, Hi: 100, Max: 100}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
