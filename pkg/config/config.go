// Package config loads the experiment configuration from YAML and
// provides the defaults of the reference experiment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/palette-research/wsibench/pkg/codec"
)

// Config is the centralized experiment parameter set. It is passed into
// each operation explicitly; nothing reads it as process-wide state.
type Config struct {
	// Sampling parameters
	Sampling struct {
		// NumTiles is the target number of sampled tiles per slide.
		NumTiles int `yaml:"numTiles"`

		// TileSize is the square tile edge length in slide pixels.
		TileSize int `yaml:"tileSize"`

		// Level is the slide resolution level to read tiles from.
		Level int `yaml:"level"`

		// MinTissueFrac is the minimum tissue coverage per tile
		// (1.0 = fully covered).
		MinTissueFrac float64 `yaml:"minTissueFrac"`

		// MaxIoU bounds pairwise tile overlap (0.0 = none allowed).
		MaxIoU float64 `yaml:"maxIoU"`

		// MaxAttempts bounds the total placement attempts.
		MaxAttempts int `yaml:"maxAttempts"`

		// Seed seeds the placement RNG.
		Seed int64 `yaml:"seed"`
	} `yaml:"sampling"`

	// Anchor codec establishing the target SSIM per tile
	Anchor struct {
		// Codec is the anchor codec name.
		Codec string `yaml:"codec"`

		// Quality is the fixed anchor control parameter (JPEG quality).
		Quality float64 `yaml:"quality"`
	} `yaml:"anchor"`

	// Quality matching parameters
	Match struct {
		// SSIMTol is the convergence tolerance on SSIM.
		SSIMTol float64 `yaml:"ssimTol"`

		// MaxIters bounds the bisection loop.
		MaxIters int `yaml:"maxIters"`

		// SearchEffort is the encoder effort used while probing.
		SearchEffort int `yaml:"searchEffort"`

		// FinalEffort is the encoder effort for the reported final encode.
		FinalEffort int `yaml:"finalEffort"`
	} `yaml:"match"`

	// Codecs under test and their parameter bounds
	Codecs struct {
		// Names lists the codecs to quality-match against the anchor.
		Names []string `yaml:"names"`

		// JXL distance search bounds.
		JXL struct {
			DistLo  float64 `yaml:"distLo"`
			DistHi  float64 `yaml:"distHi"`
			DistMax float64 `yaml:"distMax"`
		} `yaml:"jxl"`

		// JPEG2000 rate search bounds.
		JPEG2000 struct {
			RateLo  float64 `yaml:"rateLo"`
			RateHi  float64 `yaml:"rateHi"`
			RateMax float64 `yaml:"rateMax"`
		} `yaml:"jpeg2000"`
	} `yaml:"codecs"`

	// Run parameters
	Run struct {
		// Workers bounds concurrent (tile, codec) matches; the external
		// encoder processes are the real resource constraint.
		Workers int `yaml:"workers"`
	} `yaml:"run"`
}

// DefaultConfig returns the reference experiment parameters.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Sampling.NumTiles = 1000
	cfg.Sampling.TileSize = 256
	cfg.Sampling.Level = 0
	cfg.Sampling.MinTissueFrac = 1.0
	cfg.Sampling.MaxIoU = 1.0
	cfg.Sampling.MaxAttempts = 1_000_000
	cfg.Sampling.Seed = 42

	cfg.Anchor.Codec = "jpeg"
	cfg.Anchor.Quality = 80

	cfg.Match.SSIMTol = 1e-3
	cfg.Match.MaxIters = 12
	cfg.Match.SearchEffort = 5
	cfg.Match.FinalEffort = 7

	cfg.Codecs.Names = []string{"jxl", "jpeg2000"}
	cfg.Codecs.JXL.DistLo = 0.0
	cfg.Codecs.JXL.DistHi = 3.0
	cfg.Codecs.JXL.DistMax = 6.0
	cfg.Codecs.JPEG2000.RateLo = 1.0
	cfg.Codecs.JPEG2000.RateHi = 600.0
	cfg.Codecs.JPEG2000.RateMax = 1200.0

	cfg.Run.Workers = runtime.NumCPU()

	return cfg
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// SearchBounds returns the configured control-parameter bounds for a
// codec, falling back to the codec's own defaults.
func (c *Config) SearchBounds(cd codec.Codec) codec.SearchBounds {
	switch cd.Name() {
	case "jxl":
		return codec.SearchBounds{
			Lo:  c.Codecs.JXL.DistLo,
			Hi:  c.Codecs.JXL.DistHi,
			Max: c.Codecs.JXL.DistMax,
		}
	case "jpeg2000":
		return codec.SearchBounds{
			Lo:  c.Codecs.JPEG2000.RateLo,
			Hi:  c.Codecs.JPEG2000.RateHi,
			Max: c.Codecs.JPEG2000.RateMax,
		}
	default:
		return cd.Search()
	}
}
