// Package match finds, per tile and codec, the control parameter that
// reproduces a target SSIM established by the anchor codec.
package match

import (
	"image"
	"time"

	"github.com/palette-research/wsibench/pkg/codec"
	"github.com/palette-research/wsibench/pkg/metrics"
)

// Sample is one evaluated point on a codec's quality curve: the control
// parameter tried, the SSIM achieved against the reference tile, and the
// encode metrics observed while trying it.
type Sample struct {
	Param      float64
	SSIM       float64
	Size       int
	EncodeTime time.Duration
	DecodeTime time.Duration
}

// Evaluator probes one (tile, codec) pair at a control parameter. The
// matcher is generic over this seam so its search behavior can be tested
// against a synthetic quality curve.
type Evaluator interface {
	Evaluate(param float64, effort int) (Sample, error)
}

type codecEvaluator struct {
	img *image.RGBA
	c   codec.Codec
}

// NewCodecEvaluator wraps a codec and a reference tile: each Evaluate
// encodes, decodes and scores the reconstruction with SSIM.
func NewCodecEvaluator(img *image.RGBA, c codec.Codec) Evaluator {
	return &codecEvaluator{img: img, c: c}
}

func (e *codecEvaluator) Evaluate(param float64, effort int) (Sample, error) {
	t0 := time.Now()
	data, err := e.c.Encode(e.img, param, effort)
	encT := time.Since(t0)
	if err != nil {
		return Sample{}, err
	}

	t1 := time.Now()
	recon, err := e.c.Decode(data)
	decT := time.Since(t1)
	if err != nil {
		return Sample{}, err
	}

	s, err := metrics.SSIM(e.img, recon)
	if err != nil {
		return Sample{}, err
	}
	return Sample{
		Param:      param,
		SSIM:       s,
		Size:       len(data),
		EncodeTime: encT,
		DecodeTime: decT,
	}, nil
}

// AnchorSSIM encodes and decodes the tile with the anchor codec at a fixed
// parameter and returns the achieved SSIM alongside the anchor's encode
// metrics. The SSIM becomes the matching target for every other codec on
// the same tile; a failure here aborts the tile, since no valid target
// exists.
func AnchorSSIM(img *image.RGBA, anchor codec.Codec, param float64, effort int) (Sample, error) {
	return NewCodecEvaluator(img, anchor).Evaluate(param, effort)
}
