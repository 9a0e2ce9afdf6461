package codec

import (
	"fmt"
	"image"
	"strconv"
)

// jp2Codec shells out to the OpenJPEG tools (opj_compress/opj_decompress)
// through temporary PNG files. Its control parameter is the target
// compression rate passed to -r: a rate of 20 means roughly 20:1, so a
// larger rate lowers quality. Encoding uses the default irreversible 9-7
// wavelet, single layer. Effort is ignored; OpenJPEG has no such knob.
type jp2Codec struct{}

func (c *jp2Codec) Encode(img *image.RGBA, param float64, effort int) ([]byte, error) {
	if param < 1 {
		return nil, encodeFailure(c.Name(), fmt.Errorf("rate %g below 1", param))
	}
	data, err := encodeViaCLI(img, "opj_compress", ".jp2", func(in, out string) []string {
		return []string{
			"-i", in,
			"-o", out,
			"-r", strconv.FormatFloat(param, 'f', -1, 64),
			"-quiet",
		}
	})
	if err != nil {
		return nil, encodeFailure(c.Name(), err)
	}
	return data, nil
}

func (c *jp2Codec) Decode(data []byte) (*image.RGBA, error) {
	img, err := decodeViaCLI(data, "opj_decompress", ".jp2", func(in, out string) []string {
		return []string{"-i", in, "-o", out, "-quiet"}
	})
	if err != nil {
		return nil, decodeFailure(c.Name(), err)
	}
	return img, nil
}

func (c *jp2Codec) Name() string { return "jpeg2000" }

func (c *jp2Codec) Search() SearchBounds {
	return SearchBounds{Lo: 1.0, Hi: 600.0, Max: 1200.0}
}
