package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palette-research/wsibench/pkg/codec"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1000, cfg.Sampling.NumTiles)
	assert.Equal(t, 256, cfg.Sampling.TileSize)
	assert.Equal(t, int64(42), cfg.Sampling.Seed)
	assert.Equal(t, 1.0, cfg.Sampling.MinTissueFrac)
	assert.Equal(t, 1_000_000, cfg.Sampling.MaxAttempts)
	assert.Equal(t, "jpeg", cfg.Anchor.Codec)
	assert.Equal(t, 80.0, cfg.Anchor.Quality)
	assert.Equal(t, 1e-3, cfg.Match.SSIMTol)
	assert.Equal(t, 12, cfg.Match.MaxIters)
	assert.Equal(t, []string{"jxl", "jpeg2000"}, cfg.Codecs.Names)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Sampling, cfg.Sampling)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
sampling:
  numTiles: 50
  tileSize: 128
match:
  maxIters: 20
codecs:
  jxl:
    distMax: 9.0
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Sampling.NumTiles)
	assert.Equal(t, 128, cfg.Sampling.TileSize)
	assert.Equal(t, 20, cfg.Match.MaxIters)
	assert.Equal(t, 9.0, cfg.Codecs.JXL.DistMax)
	// Untouched fields keep their defaults.
	assert.Equal(t, int64(42), cfg.Sampling.Seed)
	assert.Equal(t, 3.0, cfg.Codecs.JXL.DistHi)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Sampling.NumTiles = 7
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSearchBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Codecs.JXL.DistHi = 4.5

	b := cfg.SearchBounds(codec.JXL)
	assert.Equal(t, 4.5, b.Hi)
	assert.Equal(t, 6.0, b.Max)

	b = cfg.SearchBounds(codec.JPEG2000)
	assert.Equal(t, 600.0, b.Hi)

	// Codecs without explicit config fall back to their own defaults.
	b = cfg.SearchBounds(codec.JPEG)
	assert.Equal(t, codec.JPEG.Search(), b)
}
