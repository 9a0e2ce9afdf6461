package match

import (
	"math"

	"github.com/palette-research/wsibench/pkg/codec"
)

// Status tags how a matching search terminated.
type Status string

const (
	// StatusConverged: a parameter within tolerance of the target was found.
	StatusConverged Status = "converged"
	// StatusMaxIters: the iteration budget ran out; the closest candidate
	// seen is reported.
	StatusMaxIters Status = "max-iters"
	// StatusBoundary: the target SSIM stayed out of reach even after the
	// upper bound was expanded to its cap; the best available bound is
	// reported.
	StatusBoundary Status = "boundary"
)

// Options controls one matching search.
type Options struct {
	// Bounds are the control-parameter search bounds.
	Bounds codec.SearchBounds
	// Tol is the SSIM tolerance for convergence.
	Tol float64
	// MaxIters bounds the bisection loop.
	MaxIters int
	// SearchEffort is the encoder effort used while probing.
	SearchEffort int
	// FinalEffort is the effort for the final reported encode.
	FinalEffort int
}

// Result is the outcome of matching one (tile, codec) pair. Sample holds
// the metrics of the final encode at the selected parameter.
type Result struct {
	Sample
	Iterations int
	Converged  bool
	Status     Status
}

// intervalEps stops the bisection once the bracket has collapsed; further
// probes would re-encode at indistinguishable parameters.
const intervalEps = 1e-6

// Match searches a codec's control parameter for the value whose SSIM is
// within Tol of target. It assumes an increasing parameter lowers SSIM;
// that assumption is a precondition, not an enforced invariant — when it
// fails, best-candidate tracking still returns the closest parameter seen
// and the iteration cap guarantees termination. Any encode/decode failure
// aborts this match only.
func Match(ev Evaluator, target float64, opts Options) (Result, error) {
	b := opts.Bounds
	lo, hi := b.Lo, b.Hi

	loS, err := ev.Evaluate(lo, opts.SearchEffort)
	if err != nil {
		return Result{}, err
	}
	hiS, err := ev.Evaluate(hi, opts.SearchEffort)
	if err != nil {
		return Result{}, err
	}

	// If the low-quality end is still above target, push it out until it
	// crosses or the expansion cap is reached.
	for hi < b.Max && hiS.SSIM > target+opts.Tol {
		hi = hi * 1.6
		if hi < 0.5 {
			hi = 0.5
		}
		if hi > b.Max {
			hi = b.Max
		}
		if hiS, err = ev.Evaluate(hi, opts.SearchEffort); err != nil {
			return Result{}, err
		}
	}

	best := loS
	if math.Abs(hiS.SSIM-target) < math.Abs(best.SSIM-target) {
		best = hiS
	}

	if math.Abs(loS.SSIM-target) <= opts.Tol {
		return finalize(ev, loS.Param, 0, StatusConverged, opts)
	}
	if math.Abs(hiS.SSIM-target) <= opts.Tol {
		return finalize(ev, hiS.Param, 0, StatusConverged, opts)
	}

	// Target unreachable within the cap: report the best available bound
	// as a flagged best-effort result instead of bisecting a bracket that
	// cannot contain it.
	if hiS.SSIM > target+opts.Tol {
		return finalize(ev, best.Param, 0, StatusBoundary, opts)
	}

	// Keep lo as the high-SSIM end.
	if loS.SSIM < hiS.SSIM {
		lo, hi = hi, lo
		loS, hiS = hiS, loS
	}

	iters := 0
	for iters < opts.MaxIters {
		iters++
		mid := 0.5 * (lo + hi)
		midS, err := ev.Evaluate(mid, opts.SearchEffort)
		if err != nil {
			return Result{}, err
		}

		if math.Abs(midS.SSIM-target) < math.Abs(best.SSIM-target) {
			best = midS
		}
		if math.Abs(midS.SSIM-target) <= opts.Tol {
			return finalize(ev, midS.Param, iters, StatusConverged, opts)
		}

		if midS.SSIM >= target {
			// Quality still too high; need a larger parameter.
			lo, loS = mid, midS
		} else {
			hi, hiS = mid, midS
		}
		if math.Abs(hi-lo) < intervalEps {
			break
		}
	}

	return finalize(ev, best.Param, iters, StatusMaxIters, opts)
}

// finalize re-encodes at the selected parameter with the final effort so
// the reported metrics reflect a production encode rather than a search
// probe.
func finalize(ev Evaluator, param float64, iters int, status Status, opts Options) (Result, error) {
	s, err := ev.Evaluate(param, opts.FinalEffort)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Sample:     s,
		Iterations: iters,
		Converged:  status == StatusConverged,
		Status:     status,
	}, nil
}
