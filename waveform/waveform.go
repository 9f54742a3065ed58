// Package waveform decodes audio files into the canonical sample
// representation consumed by the feature extractors: mono (or interleaved
// stereo) float64 samples plus sample rate and duration.
package waveform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/sonido-viz/logging"
)

// Load failures are fatal to the requested operation but never to the process.
var (
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrDecodeFailed      = errors.New("audio decode failed")
	ErrEmptyAudio        = errors.New("audio contains no samples")
)

// WaveformData represents decoded audio. Immutable once loaded; owned
// exclusively by the extraction stage.
type WaveformData struct {
	Samples    []float64 `json:"-"`
	SampleRate int       `json:"sample_rate"`
	Duration   float64   `json:"duration"` // seconds
	Channels   int       `json:"channels"`
}

// LoaderConfig holds decoding parameters. Decoding targets are part of
// the extraction configuration, not negotiated at runtime.
type LoaderConfig struct {
	TargetSampleRate int  `json:"target_sample_rate" yaml:"target_sample_rate"`
	Mono             bool `json:"mono" yaml:"mono"`
}

// DefaultLoaderConfig returns the canonical decode target: 22050 Hz mono
func DefaultLoaderConfig() LoaderConfig {
	return LoaderConfig{
		TargetSampleRate: 22050,
		Mono:             true,
	}
}

// Loader decodes audio files based on their extension
type Loader struct {
	config LoaderConfig
	logger logging.Logger
}

// NewLoader creates a new waveform loader
func NewLoader(config LoaderConfig) *Loader {
	if config.TargetSampleRate <= 0 {
		config.TargetSampleRate = 22050
	}
	return &Loader{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "waveform_loader",
		}),
	}
}

// Load decodes the file at path into WaveformData, applying the
// configured mono mixdown and resampling.
func (l *Loader) Load(path string) (*WaveformData, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var samples []float64
	var sampleRate, channels int

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		samples, sampleRate, channels, err = decodeWAV(f)
	case ".mp3":
		samples, sampleRate, channels, err = decodeMP3(f)
	case ".ogg", ".oga":
		samples, sampleRate, channels, err = decodeVorbis(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	if len(samples) == 0 {
		return nil, ErrEmptyAudio
	}

	if l.config.Mono && channels > 1 {
		samples = mixToMono(samples, channels)
		channels = 1
	}

	if sampleRate != l.config.TargetSampleRate {
		samples = resampleLinear(samples, channels, sampleRate, l.config.TargetSampleRate)
		sampleRate = l.config.TargetSampleRate
	}

	framesPerChannel := len(samples) / channels
	data := &WaveformData{
		Samples:    samples,
		SampleRate: sampleRate,
		Duration:   float64(framesPerChannel) / float64(sampleRate),
		Channels:   channels,
	}

	l.logger.Info("Loaded audio file", logging.Fields{
		"path":        path,
		"sample_rate": sampleRate,
		"channels":    channels,
		"duration":    data.Duration,
		"decode_time": time.Since(start).String(),
	})

	return data, nil
}
