package bench

import (
	"context"
	"encoding/csv"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palette-research/wsibench/pkg/codec"
	"github.com/palette-research/wsibench/pkg/wsi"
)

// stubCodec is an in-process stand-in for a CLI codec: its control
// parameter maps inversely onto JPEG quality, so a larger parameter
// lowers quality as the matcher expects.
type stubCodec struct{}

func (c *stubCodec) Encode(img *image.RGBA, param float64, effort int) ([]byte, error) {
	q := 100 - param
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return codec.JPEG.Encode(img, q, effort)
}

func (c *stubCodec) Decode(data []byte) (*image.RGBA, error) {
	return codec.JPEG.Decode(data)
}

func (c *stubCodec) Name() string { return "stub" }

func (c *stubCodec) Search() codec.SearchBounds {
	return codec.SearchBounds{Lo: 0, Hi: 60, Max: 95}
}

func benchSlide() wsi.Slide {
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(180 - x%48*3),
				G: uint8(100 + y%32*4),
				B: uint8(60 + (x*y)%64),
				A: 255,
			})
		}
	}
	return wsi.NewImageSlide(img)
}

func benchTiles() []wsi.Tile {
	return []wsi.Tile{
		{ID: 0, X: 0, Y: 0, W: 32, H: 32, Coverage: 1},
		{ID: 1, X: 64, Y: 64, W: 32, H: 32, Coverage: 1},
	}
}

func newTestRunner(slide wsi.Slide) *Runner {
	return NewRunner(Runner{
		Slide:        slide,
		Anchor:       codec.JPEG,
		AnchorParam:  80,
		Codecs:       []codec.Codec{&stubCodec{}},
		Tol:          1e-3,
		MaxIters:     8,
		SearchEffort: 5,
		FinalEffort:  7,
		Workers:      2,
	})
}

func TestRunner_Run(t *testing.T) {
	slide := benchSlide()
	defer slide.Close()
	tiles := benchTiles()

	results, err := newTestRunner(slide).Run(context.Background(), tiles)
	require.NoError(t, err)
	// One anchor row plus one match row per tile.
	require.Len(t, results, 4)

	byTile := map[int][]Result{}
	for _, r := range results {
		byTile[r.TileID] = append(byTile[r.TileID], r)
		assert.NotEmpty(t, r.ID)
		assert.Equal(t, 3*32*32, r.RawBytes)
		assert.NotEmpty(t, r.Status)
	}
	for id, rows := range byTile {
		require.Len(t, rows, 2, "tile %d", id)
		// Sorted by tile then codec name: "jpeg" < "stub".
		assert.Equal(t, "jpeg", rows[0].Codec)
		assert.Equal(t, "anchor", rows[0].Status)
		assert.True(t, rows[0].Converged)
		assert.Greater(t, rows[0].SSIM, 0.0)

		match := rows[1]
		assert.Equal(t, "stub", match.Codec)
		assert.Contains(t, []string{"converged", "max-iters", "boundary"}, match.Status)
		assert.GreaterOrEqual(t, match.Param, 0.0)
		assert.LessOrEqual(t, match.Param, 95.0)
		assert.LessOrEqual(t, match.Iterations, 8)
		assert.Greater(t, match.EncodedBytes, 0)
		assert.Greater(t, match.CR, 0.0)
	}
}

func TestRunner_AnchorFailureDropsTile(t *testing.T) {
	slide := benchSlide()
	defer slide.Close()

	runner := NewRunner(Runner{
		Slide:       slide,
		Anchor:      codec.JPEG,
		AnchorParam: 0, // invalid quality: every anchor encode fails
		Codecs:      []codec.Codec{&stubCodec{}},
		MaxIters:    4,
		Workers:     1,
	})
	results, err := runner.Run(context.Background(), benchTiles())
	require.NoError(t, err, "unit failures never abort the run")
	require.Len(t, results, 2, "one failed row per tile, no match rows")
	for _, r := range results {
		assert.Equal(t, "failed", r.Status)
		assert.NotEmpty(t, r.Err)
		assert.False(t, r.Converged)
	}
}

func TestRunner_ReadFailureIsRecorded(t *testing.T) {
	slide := benchSlide()
	defer slide.Close()

	tiles := []wsi.Tile{{ID: 0, X: 120, Y: 120, W: 32, H: 32}} // out of bounds
	results, err := newTestRunner(slide).Run(context.Background(), tiles)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "failed", results[0].Status)
	assert.Equal(t, "slide", results[0].Codec)
}

func TestWriteCSVs(t *testing.T) {
	slide := benchSlide()
	defer slide.Close()
	tiles := benchTiles()

	results, err := newTestRunner(slide).Run(context.Background(), tiles)
	require.NoError(t, err)

	dir := t.TempDir()
	resPath := filepath.Join(dir, "results.csv")
	require.NoError(t, WriteResultsCSV(resPath, results))
	tilePath := filepath.Join(dir, "tiles.csv")
	require.NoError(t, WriteTilesCSV(tilePath, tiles))

	f, err := os.Open(resPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(results)+1)
	assert.Equal(t, resultHeader, rows[0])

	g, err := os.Open(tilePath)
	require.NoError(t, err)
	defer g.Close()
	tileRows, err := csv.NewReader(g).ReadAll()
	require.NoError(t, err)
	require.Len(t, tileRows, len(tiles)+1)
}
