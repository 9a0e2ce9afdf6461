package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/palette-research/wsibench/pkg/bench"
	"github.com/palette-research/wsibench/pkg/config"
	"github.com/palette-research/wsibench/pkg/overview"
	"github.com/palette-research/wsibench/pkg/sampling"
	"github.com/palette-research/wsibench/pkg/wsi"
)

// NewSampleCmd samples tissue tiles from a slide and writes their
// coordinates, optionally rendering an overview image of the placements.
func NewSampleCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "sample tissue tiles from a slide",
		Long:  "draws seeded, non-overlapping, tissue-covered tiles from a slide using its mask and writes the accepted coordinates to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			slidePath, _ := cmd.Flags().GetString("slide")
			maskPath, _ := cmd.Flags().GetString("mask")
			outPath, _ := cmd.Flags().GetString("out")
			overviewPath, _ := cmd.Flags().GetString("overview")
			configPath, _ := cmd.Flags().GetString("config")

			if slidePath == "" || maskPath == "" {
				return fmt.Errorf("--slide and --mask are required")
			}
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if outPath == "" {
				outPath = slidePath + ".tile_coords.csv"
			}

			tiles, slide, err := sampleTiles(ctx, cfg, slidePath, maskPath, overviewPath)
			if err != nil {
				return err
			}
			defer slide.Close()
			if err := bench.WriteTilesCSV(outPath, tiles); err != nil {
				return err
			}
			slog.InfoContext(ctx, "tile coordinates written", "path", outPath, "tiles", len(tiles))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("slide", "s", "", "slide image path")
	pf.StringP("mask", "m", "", "tissue mask image path")
	pf.StringP("out", "o", "", "output CSV path (default <slide>.tile_coords.csv)")
	pf.String("overview", "", "optional overview PNG of the sampled placements")
	return cmd
}

// sampleTiles runs the sampler against a slide/mask pair and optionally
// renders the placement overview. Shared by the sample and bench commands.
func sampleTiles(ctx context.Context, cfg *config.Config, slidePath, maskPath, overviewPath string) ([]wsi.Tile, wsi.Slide, error) {
	slide, err := wsi.OpenImageSlide(slidePath)
	if err != nil {
		return nil, nil, err
	}
	mask, err := wsi.LoadMask(maskPath)
	if err != nil {
		slide.Close()
		return nil, nil, err
	}

	sw, sh := slide.Dimensions()
	tiles, stats, err := sampling.Sample(mask, sw, sh, sampling.Params{
		Count:         cfg.Sampling.NumTiles,
		TileSize:      cfg.Sampling.TileSize,
		MinTissueFrac: cfg.Sampling.MinTissueFrac,
		MaxIoU:        cfg.Sampling.MaxIoU,
		MaxAttempts:   cfg.Sampling.MaxAttempts,
		Seed:          cfg.Sampling.Seed,
	})
	if err != nil {
		slide.Close()
		return nil, nil, err
	}
	if stats.Exhausted {
		slog.WarnContext(ctx, "attempt budget exhausted before target tile count",
			"accepted", len(tiles), "target", cfg.Sampling.NumTiles, "attempts", stats.Attempts)
	} else {
		slog.InfoContext(ctx, "sampling complete", "tiles", len(tiles), "attempts", stats.Attempts)
	}

	if overviewPath != "" {
		img, err := overview.Render(slide, tiles, 2048)
		if err != nil {
			slog.WarnContext(ctx, "overview render failed", "error", err)
		} else if err := overview.Save(overviewPath, img); err != nil {
			slog.WarnContext(ctx, "overview save failed", "error", err)
		} else {
			slog.InfoContext(ctx, "overview written", "path", overviewPath)
		}
	}
	return tiles, slide, nil
}
