package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/palette-research/wsibench/pkg/bench"
	"github.com/palette-research/wsibench/pkg/codec"
	"github.com/palette-research/wsibench/pkg/config"
)

// NewBenchCmd runs the full pipeline: sample tiles, anchor each tile with
// the anchor codec, quality-match every codec under test, write results.
func NewBenchCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "run the codec benchmark on a slide",
		Long:  "samples tiles, establishes a JPEG anchor SSIM per tile, bisects each codec's control parameter to match it and writes per-(tile, codec) result rows to CSV",
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

			anchor := codec.ByName(cfg.Anchor.Codec)
			if anchor == nil {
				return fmt.Errorf("unknown anchor codec %q", cfg.Anchor.Codec)
			}
			var codecs []codec.Codec
			for _, name := range cfg.Codecs.Names {
				c := codec.ByName(name)
				if c == nil {
					return fmt.Errorf("unknown codec %q", name)
				}
				codecs = append(codecs, c)
			}
			// CLI-backed codecs shell out per probe; fail fast on missing tools.
			for _, c := range codecs {
				switch c.Name() {
				case "jxl":
					if err := codec.EnsureTools("cjxl", "djxl"); err != nil {
						return err
					}
				case "jpeg2000":
					if err := codec.EnsureTools("opj_compress", "opj_decompress"); err != nil {
						return err
					}
				}
			}

			tiles, slide, err := sampleTiles(ctx, cfg, slidePath, maskPath, overviewPath)
			if err != nil {
				return err
			}
			defer slide.Close()

			runner := bench.NewRunner(bench.Runner{
				Slide:        slide,
				Anchor:       anchor,
				AnchorParam:  cfg.Anchor.Quality,
				Codecs:       codecs,
				Bounds:       cfg.SearchBounds,
				Tol:          cfg.Match.SSIMTol,
				MaxIters:     cfg.Match.MaxIters,
				SearchEffort: cfg.Match.SearchEffort,
				FinalEffort:  cfg.Match.FinalEffort,
				Level:        cfg.Sampling.Level,
				Workers:      cfg.Run.Workers,
			})
			results, err := runner.Run(ctx, tiles)
			if err != nil {
				return err
			}
			if err := bench.WriteResultsCSV(outPath, results); err != nil {
				return err
			}
			slog.InfoContext(ctx, "benchmark complete", "path", outPath, "rows", len(results))
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringP("slide", "s", "", "slide image path")
	pf.StringP("mask", "m", "", "tissue mask image path")
	pf.StringP("out", "o", "results.csv", "output CSV path")
	pf.String("overview", "", "optional overview PNG of the sampled placements")
	return cmd
}
