package codec

import (
	"fmt"
	"image"
	"strconv"
)

// jxlCodec shells out to the libjxl reference tools (cjxl/djxl) through
// temporary PNG files. Its control parameter is the Butteraugli distance:
// 0 is mathematically lossless and larger distances lower quality, so the
// matcher's monotonicity assumption holds.
type jxlCodec struct{}

func (c *jxlCodec) Encode(img *image.RGBA, param float64, effort int) ([]byte, error) {
	if param < 0 {
		return nil, encodeFailure(c.Name(), fmt.Errorf("distance %g is negative", param))
	}
	if effort < 1 || effort > 9 {
		effort = 7
	}
	data, err := encodeViaCLI(img, "cjxl", ".jxl", func(in, out string) []string {
		return []string{
			in, out,
			"--distance", strconv.FormatFloat(param, 'f', -1, 64),
			"-e", strconv.Itoa(effort),
			"--quiet",
		}
	})
	if err != nil {
		return nil, encodeFailure(c.Name(), err)
	}
	return data, nil
}

func (c *jxlCodec) Decode(data []byte) (*image.RGBA, error) {
	img, err := decodeViaCLI(data, "djxl", ".jxl", func(in, out string) []string {
		return []string{in, out, "--quiet"}
	})
	if err != nil {
		return nil, decodeFailure(c.Name(), err)
	}
	return img, nil
}

func (c *jxlCodec) Name() string { return "jxl" }

func (c *jxlCodec) Search() SearchBounds {
	return SearchBounds{Lo: 0.0, Hi: 3.0, Max: 6.0}
}
