package feature

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/RyanBlaney/sonido-viz/waveform"
)

// Config holds the analysis geometry and tuned constants for feature
// extraction. The smoothing window and percentile floor are calibration
// values the visual layer depends on; change them only deliberately.
type Config struct {
	// Spectral analysis
	WindowSize int `json:"window_size" yaml:"window_size"`
	HopSize    int `json:"hop_size" yaml:"hop_size"`
	FFTSize    int `json:"fft_size" yaml:"fft_size"`

	// Mel / cepstral
	NumMels int `json:"num_mels" yaml:"num_mels"`
	NumMFCC int `json:"num_mfcc" yaml:"num_mfcc"`

	// Tempo search range
	MinBPM float64 `json:"min_bpm" yaml:"min_bpm"`
	MaxBPM float64 `json:"max_bpm" yaml:"max_bpm"`

	// Beat-strength shaping
	BeatSmoothingWindow int     `json:"beat_smoothing_window" yaml:"beat_smoothing_window"`
	BeatFloorPercentile float64 `json:"beat_floor_percentile" yaml:"beat_floor_percentile"`

	// Decoding targets
	Loader waveform.LoaderConfig `json:"loader" yaml:"loader"`
}

// DefaultConfig returns the canonical analysis configuration
func DefaultConfig() *Config {
	return &Config{
		WindowSize:          2048,
		HopSize:             512,
		FFTSize:             2048,
		NumMels:             128,
		NumMFCC:             13,
		MinBPM:              60,
		MaxBPM:              200,
		BeatSmoothingWindow: 20,
		BeatFloorPercentile: 0.30,
		Loader:              waveform.DefaultLoaderConfig(),
	}
}

// LoadConfig reads a YAML configuration file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if c.WindowSize <= 0 {
		return fmt.Errorf("window size must be positive, got %d", c.WindowSize)
	}
	if c.HopSize <= 0 {
		return fmt.Errorf("hop size must be positive, got %d", c.HopSize)
	}
	if c.FFTSize <= 0 {
		return fmt.Errorf("fft size must be positive, got %d", c.FFTSize)
	}
	if c.NumMels <= 0 {
		return fmt.Errorf("mel band count must be positive, got %d", c.NumMels)
	}
	if c.NumMFCC <= 0 {
		return fmt.Errorf("mfcc coefficient count must be positive, got %d", c.NumMFCC)
	}
	if c.MinBPM <= 0 || c.MaxBPM <= c.MinBPM {
		return fmt.Errorf("invalid BPM range [%v, %v]", c.MinBPM, c.MaxBPM)
	}
	if c.BeatFloorPercentile < 0 || c.BeatFloorPercentile > 1 {
		return fmt.Errorf("beat floor percentile must be in [0,1], got %v", c.BeatFloorPercentile)
	}
	return nil
}
