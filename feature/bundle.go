// Package feature turns decoded waveforms into the typed feature bundle
// consumed by the realtime layer, the style classifier, and anything else
// that wants per-frame analysis of a track.
package feature

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category names used for extractor registration and selection
const (
	CategoryTemporal  = "temporal"
	CategoryFrequency = "frequency"
	CategoryRhythm    = "rhythm"
	CategoryTimbre    = "timbre"
)

// TemporalFeatures holds amplitude-domain features. Amplitude is
// per sample; Loudness and ZeroCrossingRate are per frame.
type TemporalFeatures struct {
	Amplitude        []float64 `json:"amplitude"`
	Loudness         []float64 `json:"loudness"`
	ZeroCrossingRate []float64 `json:"zero_crossing_rate"`
}

// FrequencyFeatures holds spectral features, bin-major: [bins][frames]
// so a single time column slices as arr[i][frame].
type FrequencyFeatures struct {
	Spectrum          [][]float64 `json:"spectrum"`
	MelSpectrogram    [][]float64 `json:"mel_spectrogram"`
	LogMelSpectrogram [][]float64 `json:"log_mel_spectrogram"`
}

// RhythmFeatures holds tempo, beat positions and the onset-derived
// envelopes. BeatStrength is the smoothed, floored signal visuals
// consume; OnsetEnvelope is the raw flux.
type RhythmFeatures struct {
	Tempo         float64   `json:"tempo"`
	BeatFrames    []int     `json:"beat_frames"`
	BeatTimes     []float64 `json:"beat_times"`
	OnsetEnvelope []float64 `json:"onset_envelope"`
	BeatStrength  []float64 `json:"beat_strength"`
}

// TimbreFeatures holds cepstral and spectral-shape features. MFCC is
// bin-major: [coefficient][frames].
type TimbreFeatures struct {
	MFCC              [][]float64 `json:"mfcc"`
	SpectralCentroid  []float64   `json:"spectral_centroid"`
	SpectralBandwidth []float64   `json:"spectral_bandwidth"`
	SpectralRolloff   []float64   `json:"spectral_rolloff"`
}

// FeatureBundle is the complete offline analysis of one track. All
// per-frame arrays share the same length, TotalFrames; all 2-D arrays
// have TotalFrames columns. Categories that were not extracted are nil.
type FeatureBundle struct {
	Temporal  *TemporalFeatures  `json:"temporal,omitempty"`
	Frequency *FrequencyFeatures `json:"frequency,omitempty"`
	Rhythm    *RhythmFeatures    `json:"rhythm,omitempty"`
	Timbre    *TimbreFeatures    `json:"timbre,omitempty"`

	TotalFrames int     `json:"total_frames"`
	SampleRate  int     `json:"sample_rate"`
	HopSize     int     `json:"hop_size"`
	Duration    float64 `json:"duration"` // seconds
}

// FrameTime converts a frame index to seconds
func (b *FeatureBundle) FrameTime(frame int) float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(frame*b.HopSize) / float64(b.SampleRate)
}

// FrameAt converts a playback time in seconds to a frame index, clamped
// to the valid range.
func (b *FeatureBundle) FrameAt(seconds float64) int {
	if b.SampleRate <= 0 || b.HopSize <= 0 {
		return 0
	}
	frame := int(seconds * float64(b.SampleRate) / float64(b.HopSize))
	if frame < 0 {
		frame = 0
	}
	if frame >= b.TotalFrames {
		frame = b.TotalFrames - 1
	}
	return frame
}

// SaveJSON writes the bundle to path as JSON so repeated runs can skip
// re-analysis.
func (b *FeatureBundle) SaveJSON(path string) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal feature bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write feature bundle: %w", err)
	}
	return nil
}

// LoadBundle reads a bundle previously written with SaveJSON
func LoadBundle(path string) (*FeatureBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature bundle: %w", err)
	}
	var bundle FeatureBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, fmt.Errorf("failed to parse feature bundle: %w", err)
	}
	return &bundle, nil
}
