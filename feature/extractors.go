package feature

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-viz/algorithms/spectral"
	"github.com/RyanBlaney/sonido-viz/algorithms/temporal"
	"github.com/RyanBlaney/sonido-viz/waveform"
)

// Analysis carries shared intermediate state for one extraction run.
// The manager computes the STFT once; extractors read it instead of
// re-windowing the signal.
type Analysis struct {
	Config *Config
	STFT   *spectral.STFTResult
}

// Extractor computes one feature category into the bundle. Extractors
// are registered with an ExtractionManager by name and must be safe to
// reuse across tracks.
type Extractor interface {
	Name() string
	Extract(data *waveform.WaveformData, an *Analysis, bundle *FeatureBundle) error
}

// TemporalExtractor computes amplitude, loudness and zero-crossing rate
type TemporalExtractor struct {
	envelope *temporal.Envelope
	zcr      *spectral.ZeroCrossingRate
}

// NewTemporalExtractor creates the amplitude-domain extractor
func NewTemporalExtractor() *TemporalExtractor {
	return &TemporalExtractor{
		envelope: temporal.NewEnvelope(),
		zcr:      spectral.NewZeroCrossingRate(),
	}
}

func (e *TemporalExtractor) Name() string { return CategoryTemporal }

func (e *TemporalExtractor) Extract(data *waveform.WaveformData, an *Analysis, bundle *FeatureBundle) error {
	if len(data.Samples) == 0 {
		return fmt.Errorf("no samples to extract from")
	}

	amplitude := make([]float64, len(data.Samples))
	for i, s := range data.Samples {
		amplitude[i] = math.Abs(s)
	}

	cfg := an.Config
	bundle.Temporal = &TemporalFeatures{
		Amplitude:        amplitude,
		Loudness:         e.envelope.ComputeRMS(data.Samples, cfg.WindowSize, cfg.HopSize),
		ZeroCrossingRate: e.zcr.ComputeFrames(data.Samples, cfg.WindowSize, cfg.HopSize),
	}
	return nil
}

// FrequencyExtractor computes the linear spectrum and the mel / log-mel
// spectrograms.
type FrequencyExtractor struct{}

// NewFrequencyExtractor creates the spectral extractor
func NewFrequencyExtractor() *FrequencyExtractor {
	return &FrequencyExtractor{}
}

func (e *FrequencyExtractor) Name() string { return CategoryFrequency }

func (e *FrequencyExtractor) Extract(data *waveform.WaveformData, an *Analysis, bundle *FeatureBundle) error {
	if an.STFT == nil {
		return fmt.Errorf("no spectrogram available")
	}

	mel := spectral.NewMelSpectrogram(data.SampleRate, an.Config.NumMels)
	melSpec, err := mel.ComputeFrames(an.STFT.Magnitude)
	if err != nil {
		return fmt.Errorf("failed to compute mel spectrogram: %w", err)
	}

	bundle.Frequency = &FrequencyFeatures{
		Spectrum:          transpose(an.STFT.Magnitude),
		MelSpectrogram:    melSpec,
		LogMelSpectrogram: spectral.PowerToDB(melSpec, 80.0),
	}
	return nil
}

// RhythmExtractor computes tempo, beat positions, the onset envelope
// and the smoothed beat-strength signal.
type RhythmExtractor struct {
	onset *temporal.OnsetStrength
}

// NewRhythmExtractor creates the rhythm extractor
func NewRhythmExtractor() *RhythmExtractor {
	return &RhythmExtractor{
		onset: temporal.NewOnsetStrength(),
	}
}

func (e *RhythmExtractor) Name() string { return CategoryRhythm }

func (e *RhythmExtractor) Extract(data *waveform.WaveformData, an *Analysis, bundle *FeatureBundle) error {
	if an.STFT == nil {
		return fmt.Errorf("no spectrogram available")
	}
	cfg := an.Config

	onsetEnv := e.onset.Compute(an.STFT.Magnitude)

	tracker := temporal.NewBeatTracker(data.SampleRate, cfg.HopSize)
	beats := tracker.Track(onsetEnv, cfg.MinBPM, cfg.MaxBPM)

	bundle.Rhythm = &RhythmFeatures{
		Tempo:         beats.Tempo,
		BeatFrames:    beats.BeatFrames,
		BeatTimes:     beats.BeatTimes,
		OnsetEnvelope: onsetEnv,
		BeatStrength:  temporal.SmoothBeatStrength(onsetEnv, cfg.BeatSmoothingWindow, cfg.BeatFloorPercentile),
	}
	return nil
}

// TimbreExtractor computes MFCCs and the spectral-shape descriptors
type TimbreExtractor struct{}

// NewTimbreExtractor creates the timbre extractor
func NewTimbreExtractor() *TimbreExtractor {
	return &TimbreExtractor{}
}

func (e *TimbreExtractor) Name() string { return CategoryTimbre }

func (e *TimbreExtractor) Extract(data *waveform.WaveformData, an *Analysis, bundle *FeatureBundle) error {
	if an.STFT == nil {
		return fmt.Errorf("no spectrogram available")
	}
	cfg := an.Config

	mfcc := spectral.NewMFCC(data.SampleRate, cfg.NumMFCC, 0)
	coeffs, err := mfcc.ComputeFrames(an.STFT.Magnitude)
	if err != nil {
		return fmt.Errorf("failed to compute MFCCs: %w", err)
	}

	bundle.Timbre = &TimbreFeatures{
		MFCC:              coeffs,
		SpectralCentroid:  spectral.NewSpectralCentroid(data.SampleRate).ComputeFrames(an.STFT.Magnitude),
		SpectralBandwidth: spectral.NewSpectralBandwidth(data.SampleRate).ComputeFrames(an.STFT.Magnitude),
		SpectralRolloff:   spectral.NewSpectralRolloff(data.SampleRate, 0.85).ComputeFrames(an.STFT.Magnitude),
	}
	return nil
}

// transpose converts a time-major matrix [frames][bins] to bin-major
// [bins][frames].
func transpose(timeMajor [][]float64) [][]float64 {
	if len(timeMajor) == 0 || len(timeMajor[0]) == 0 {
		return nil
	}
	numFrames := len(timeMajor)
	numBins := len(timeMajor[0])

	out := make([][]float64, numBins)
	for i := range out {
		out[i] = make([]float64, numFrames)
		for t := range numFrames {
			out[i][t] = timeMajor[t][i]
		}
	}
	return out
}
