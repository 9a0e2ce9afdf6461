// Package codec defines the encode/decode capability the benchmark drives
// and the concrete codecs under test. The control parameter's meaning is
// codec specific; for every codec except the JPEG anchor, increasing the
// parameter lowers quality, which is the direction the bisection matcher
// assumes.
package codec

import "image"

// Codec compresses and decompresses RGB tiles.
type Codec interface {
	// Encode compresses img at the given control parameter. Effort trades
	// encoder time for density where the codec supports it (1..9); codecs
	// without an effort knob ignore it.
	Encode(img *image.RGBA, param float64, effort int) ([]byte, error)
	// Decode decompresses data back to pixels.
	Decode(data []byte) (*image.RGBA, error)
	// Name returns the codec identifier (e.g. "jxl").
	Name() string
	// Search returns the default control-parameter bounds for quality
	// matching: initial low and high ends and the expansion cap.
	Search() SearchBounds
}

// SearchBounds are default bisection bounds for a codec's control
// parameter.
type SearchBounds struct {
	Lo  float64
	Hi  float64
	Max float64
}

// codecsByName maps codec names to implementations
var codecsByName = map[string]Codec{
	"jpeg":      &jpegCodec{},
	"jxl":       &jxlCodec{},
	"jpeg-xl":   &jxlCodec{}, // alias
	"jpeg2000":  &jp2Codec{},
	"jpeg-2000": &jp2Codec{}, // alias
	"j2k":       &jp2Codec{}, // alias
}

// Predefined codec instances for convenience
var (
	JPEG     Codec = codecsByName["jpeg"]
	JXL      Codec = codecsByName["jxl"]
	JPEG2000 Codec = codecsByName["jpeg2000"]
)

// ByName returns a codec by name, or nil if not found
func ByName(name string) Codec {
	return codecsByName[name]
}
