// Package bench wires sampler output into per-codec quality matchers and
// collects the per-(tile, codec) result records.
package bench

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/palette-research/wsibench/pkg/codec"
	"github.com/palette-research/wsibench/pkg/match"
	"github.com/palette-research/wsibench/pkg/metrics"
	"github.com/palette-research/wsibench/pkg/util"
	"github.com/palette-research/wsibench/pkg/wsi"
)

// Runner executes the benchmark over sampled tiles. Each tile is anchored
// with the anchor codec at a fixed parameter, then every codec under test
// is bisected to that tile's anchor SSIM. Tiles are independent; the
// runner fans them out over a bounded worker pool because the encode and
// decode calls may shell out to external processes.
type Runner struct {
	Slide       wsi.Slide
	Anchor      codec.Codec
	AnchorParam float64
	Codecs      []codec.Codec
	// Bounds yields the search bounds per codec; nil means use each
	// codec's defaults.
	Bounds func(codec.Codec) codec.SearchBounds

	Tol          float64
	MaxIters     int
	SearchEffort int
	FinalEffort  int
	Level        int
	Workers      int

	runID string
}

// NewRunner assigns the run a fresh ID and returns it ready to Run.
func NewRunner(r Runner) *Runner {
	r.runID = uuid.NewString()
	if r.Workers < 1 {
		r.Workers = 1
	}
	if r.Bounds == nil {
		r.Bounds = func(c codec.Codec) codec.SearchBounds { return c.Search() }
	}
	return &r
}

// Run benchmarks every (tile, codec) unit and returns the result rows
// ordered by tile then codec. Unit failures are recorded as failed rows;
// an anchor failure drops the tile's match rows since no target exists.
// Only context cancellation returns an error.
func (r *Runner) Run(ctx context.Context, tiles []wsi.Tile) ([]Result, error) {
	tasks := make(chan wsi.Tile)
	rows := make(chan []Result)

	var wg sync.WaitGroup
	for i := 0; i < r.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				rows <- r.runTile(ctx, t)
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, t := range tiles {
			select {
			case tasks <- t:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(rows)
	}()

	var results []Result
	for rr := range rows {
		results = append(results, rr...)
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TileID != results[j].TileID {
			return results[i].TileID < results[j].TileID
		}
		return results[i].Codec < results[j].Codec
	})
	return results, nil
}

func (r *Runner) runTile(ctx context.Context, t wsi.Tile) []Result {
	img, err := r.Slide.ReadRegion(t.X, t.Y, t.W, t.H, r.Level)
	if err != nil {
		slog.WarnContext(ctx, "tile read failed", "tile", t.ID, "error", err)
		return []Result{r.failed(t, "slide", err)}
	}

	anchor, err := match.AnchorSSIM(img, r.Anchor, r.AnchorParam, r.FinalEffort)
	if err != nil {
		// No valid target: the whole tile is dropped for all codecs.
		slog.WarnContext(ctx, "anchor failed", "tile", t.ID, "codec", r.Anchor.Name(), "error", err)
		return []Result{r.failed(t, r.Anchor.Name(), err)}
	}

	out := []Result{r.row(t, r.Anchor.Name(), match.Result{
		Sample:    anchor,
		Converged: true,
		Status:    "anchor",
	})}

	for _, c := range r.Codecs {
		if ctx.Err() != nil {
			return out
		}
		res, err := match.Match(match.NewCodecEvaluator(img, c), anchor.SSIM, match.Options{
			Bounds:       r.Bounds(c),
			Tol:          r.Tol,
			MaxIters:     r.MaxIters,
			SearchEffort: r.SearchEffort,
			FinalEffort:  r.FinalEffort,
		})
		if err != nil {
			slog.WarnContext(ctx, "match failed", "tile", t.ID, "codec", c.Name(), "error", err)
			out = append(out, r.failed(t, c.Name(), err))
			continue
		}
		out = append(out, r.row(t, c.Name(), res))
		slog.DebugContext(ctx, "matched", "tile", t.ID, "codec", c.Name(),
			"param", res.Param, "ssim", res.SSIM, "status", res.Status)
	}
	return out
}

func (r *Runner) row(t wsi.Tile, name string, res match.Result) Result {
	raw := metrics.RawBytes(t.W, t.H)
	status := string(res.Status)
	if status == "" {
		status = "anchor"
	}
	return Result{
		ID:           r.resultID(t.ID, name),
		TileID:       t.ID,
		X:            t.X,
		Y:            t.Y,
		W:            t.W,
		H:            t.H,
		Codec:        name,
		RawBytes:     raw,
		EncodedBytes: res.Size,
		CR:           metrics.CompressionRatio(raw, res.Size),
		EncMS:        float64(res.EncodeTime.Microseconds()) / 1000.0,
		DecMS:        float64(res.DecodeTime.Microseconds()) / 1000.0,
		SSIM:         res.SSIM,
		Param:        res.Param,
		Iterations:   res.Iterations,
		Converged:    res.Converged,
		Status:       status,
	}
}

func (r *Runner) failed(t wsi.Tile, name string, err error) Result {
	return Result{
		ID:       r.resultID(t.ID, name),
		TileID:   t.ID,
		X:        t.X,
		Y:        t.Y,
		W:        t.W,
		H:        t.H,
		Codec:    name,
		RawBytes: metrics.RawBytes(t.W, t.H),
		Status:   "failed",
		Err:      err.Error(),
	}
}

func (r *Runner) resultID(tileID int, codecName string) string {
	return util.HashUUID(struct {
		Run   string
		Tile  int
		Codec string
	}{r.runID, tileID, codecName})
}
