package bench

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/palette-research/wsibench/pkg/wsi"
)

// Result is the record emitted per (tile, codec) unit; one row per anchor
// encode and per quality match. Downstream statistical analysis consumes
// these rows.
type Result struct {
	ID           string
	TileID       int
	X, Y, W, H   int
	Codec        string
	RawBytes     int
	EncodedBytes int
	CR           float64
	EncMS        float64
	DecMS        float64
	SSIM         float64
	Param        float64
	Iterations   int
	Converged    bool
	// Status distinguishes anchor rows and every non-fatal failure mode:
	// anchor, converged, max-iters, boundary, failed.
	Status string
	// Err carries the failure detail for failed units.
	Err string
}

var resultHeader = []string{
	"result_id", "tile_id", "x", "y", "w", "h", "codec",
	"raw_bytes", "encoded_bytes", "cr", "enc_ms", "dec_ms",
	"ssim", "param", "iters", "converged", "status", "error",
}

// WriteResultsCSV writes result rows to path.
func WriteResultsCSV(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create results csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(resultHeader); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			r.ID,
			strconv.Itoa(r.TileID),
			strconv.Itoa(r.X), strconv.Itoa(r.Y), strconv.Itoa(r.W), strconv.Itoa(r.H),
			r.Codec,
			strconv.Itoa(r.RawBytes),
			strconv.Itoa(r.EncodedBytes),
			strconv.FormatFloat(r.CR, 'f', 4, 64),
			strconv.FormatFloat(r.EncMS, 'f', 3, 64),
			strconv.FormatFloat(r.DecMS, 'f', 3, 64),
			strconv.FormatFloat(r.SSIM, 'f', 6, 64),
			strconv.FormatFloat(r.Param, 'f', 6, 64),
			strconv.Itoa(r.Iterations),
			strconv.FormatBool(r.Converged),
			r.Status,
			r.Err,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteTilesCSV writes the sampled tile coordinates to path.
func WriteTilesCSV(path string, tiles []wsi.Tile) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create tiles csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "x", "y", "w", "h", "coverage"}); err != nil {
		return err
	}
	for _, t := range tiles {
		row := []string{
			strconv.Itoa(t.ID),
			strconv.Itoa(t.X), strconv.Itoa(t.Y),
			strconv.Itoa(t.W), strconv.Itoa(t.H),
			strconv.FormatFloat(t.Coverage, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
