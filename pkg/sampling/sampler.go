// Package sampling draws tissue-covered, non-overlapping tiles from a
// whole-slide image using a binary tissue mask.
package sampling

import (
	"fmt"
	"math/rand"

	"github.com/palette-research/wsibench/pkg/wsi"
)

// Params controls one sampling run. Every field is explicit; there is no
// process-wide state.
type Params struct {
	// Count is the target number of tiles.
	Count int
	// TileSize is the square tile edge length in slide pixels.
	TileSize int
	// MinTissueFrac is the minimum mask-space tissue coverage per tile
	// (1.0 = the tile must be fully covered).
	MinTissueFrac float64
	// MaxIoU bounds the pairwise overlap between accepted tiles
	// (0.0 = no overlap, 1.0 = no restriction).
	MaxIoU float64
	// MaxAttempts bounds the total number of placement attempts.
	MaxAttempts int
	// Seed seeds the placement RNG; the same seed reproduces the same
	// accepted sequence for the same mask and parameters.
	Seed int64
}

// Stats reports how a sampling run terminated.
type Stats struct {
	Attempts int
	// Exhausted is set when the attempt budget ran out before Count tiles
	// were accepted. The short result is still returned; the caller
	// decides whether to fail or proceed.
	Exhausted bool
}

// Sample draws up to p.Count accepted tiles in slide pixel space. Each
// attempt picks a uniformly random tissue pixel, maps it to slide space,
// jitters a tile placement around it, and accepts the tile if it lies
// inside the slide, meets the coverage floor and does not overlap any
// previously accepted tile beyond MaxIoU. A mask without tissue yields an
// empty result. Only malformed geometry is an error.
func Sample(mask *wsi.Mask, slideW, slideH int, p Params) ([]wsi.Tile, Stats, error) {
	if p.TileSize <= 0 {
		return nil, Stats{}, fmt.Errorf("%w: tile size %d", wsi.ErrInvalidDimensions, p.TileSize)
	}
	if p.TileSize > slideW || p.TileSize > slideH {
		return nil, Stats{}, fmt.Errorf("%w: tile size %d exceeds slide %dx%d",
			wsi.ErrInvalidDimensions, p.TileSize, slideW, slideH)
	}
	mapper, err := wsi.NewMapper(mask.W, mask.H, slideW, slideH)
	if err != nil {
		return nil, Stats{}, err
	}

	tissue := mask.TissuePixels()
	if len(tissue) == 0 {
		return nil, Stats{}, nil
	}

	rng := rand.New(rand.NewSource(p.Seed))
	var chosen []wsi.Tile
	seen := make(map[[2]int]struct{})

	stats := Stats{}
	for len(chosen) < p.Count && stats.Attempts < p.MaxAttempts {
		stats.Attempts++

		// Random tissue pixel, mapped into slide space.
		pt := tissue[rng.Intn(len(tissue))]
		px, py := mapper.MaskToSlide(pt.X, pt.Y)

		// Random top-left so the mapped pixel lies inside the tile.
		x0 := px - rng.Intn(p.TileSize)
		y0 := py - rng.Intn(p.TileSize)
		if x0 < 0 || y0 < 0 || x0+p.TileSize > slideW || y0+p.TileSize > slideH {
			continue
		}

		key := [2]int{x0, y0}
		if _, dup := seen[key]; dup {
			continue
		}

		mx0, my0, mx1, my1 := mapper.SlideRectToMask(x0, y0, p.TileSize, p.TileSize, mask.W, mask.H)
		count, examined := mask.RectCoverage(mx0, my0, mx1, my1)
		if examined == 0 {
			continue
		}
		coverage := float64(count) / float64(examined)
		if coverage < p.MinTissueFrac {
			continue
		}

		cand := wsi.Tile{ID: len(chosen), X: x0, Y: y0, W: p.TileSize, H: p.TileSize, Coverage: coverage}
		overlap := false
		for _, t := range chosen {
			if cand.IoU(t) > p.MaxIoU {
				overlap = true
				break
			}
		}
		if overlap {
			continue
		}

		seen[key] = struct{}{}
		chosen = append(chosen, cand)
	}

	stats.Exhausted = len(chosen) < p.Count
	return chosen, stats, nil
}
