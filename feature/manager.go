package feature

import (
	"fmt"
	"time"

	"github.com/RyanBlaney/sonido-viz/algorithms/common"
	"github.com/RyanBlaney/sonido-viz/algorithms/spectral"
	"github.com/RyanBlaney/sonido-viz/algorithms/windowing"
	"github.com/RyanBlaney/sonido-viz/logging"
	"github.com/RyanBlaney/sonido-viz/waveform"
)

// ExtractionManager runs registered extractors over a track and
// normalizes the result into a consistent bundle. Categories marked
// required abort the extraction when they fail; optional categories are
// zero-filled so downstream length invariants still hold.
type ExtractionManager struct {
	config     *Config
	extractors []Extractor
	byName     map[string]Extractor
	required   map[string]bool
	loader     *waveform.Loader
	stft       *spectral.STFT
	logger     logging.Logger
}

// NewExtractionManager creates a manager with the four standard
// extractors registered, all required. A nil config uses defaults.
func NewExtractionManager(config *Config) *ExtractionManager {
	if config == nil {
		config = DefaultConfig()
	}

	m := &ExtractionManager{
		config:   config,
		byName:   make(map[string]Extractor),
		required: make(map[string]bool),
		loader:   waveform.NewLoader(config.Loader),
		stft:     spectral.NewSTFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "extraction_manager",
		}),
	}

	m.Register(NewTemporalExtractor(), true)
	m.Register(NewFrequencyExtractor(), true)
	m.Register(NewRhythmExtractor(), true)
	m.Register(NewTimbreExtractor(), true)

	return m
}

// Register adds an extractor to the registry. Registering a name twice
// replaces the previous extractor but keeps its position in the run
// order.
func (m *ExtractionManager) Register(e Extractor, required bool) {
	name := e.Name()
	if _, exists := m.byName[name]; !exists {
		m.extractors = append(m.extractors, e)
	} else {
		for i, prev := range m.extractors {
			if prev.Name() == name {
				m.extractors[i] = e
				break
			}
		}
	}
	m.byName[name] = e
	m.required[name] = required
}

// Categories returns the registered category names in run order
func (m *ExtractionManager) Categories() []string {
	names := make([]string, len(m.extractors))
	for i, e := range m.extractors {
		names[i] = e.Name()
	}
	return names
}

// ExtractFile decodes the audio file at path and extracts all
// registered categories.
func (m *ExtractionManager) ExtractFile(path string) (*FeatureBundle, error) {
	data, err := m.loader.Load(path)
	if err != nil {
		return nil, err
	}
	return m.ExtractAll(data)
}

// ExtractAll runs every registered extractor over the waveform
func (m *ExtractionManager) ExtractAll(data *waveform.WaveformData) (*FeatureBundle, error) {
	return m.ExtractSelected(data, m.Categories())
}

// ExtractSelected runs the named extractors over the waveform. A name
// with no registered extractor is an error when that category is
// required, otherwise it is skipped with a warning.
func (m *ExtractionManager) ExtractSelected(data *waveform.WaveformData, categories []string) (*FeatureBundle, error) {
	if data == nil || len(data.Samples) == 0 {
		return nil, fmt.Errorf("no audio data to extract from")
	}
	start := time.Now()
	cfg := m.config

	window := windowing.NewHann(cfg.WindowSize, false)
	stftResult, err := m.stft.ComputeCentered(data.Samples, cfg.WindowSize, cfg.HopSize, data.SampleRate, window)
	if err != nil {
		return nil, fmt.Errorf("spectrogram computation failed: %w", err)
	}

	analysis := &Analysis{
		Config: cfg,
		STFT:   stftResult,
	}

	bundle := &FeatureBundle{
		TotalFrames: stftResult.TimeFrames,
		SampleRate:  data.SampleRate,
		HopSize:     cfg.HopSize,
		Duration:    data.Duration,
	}

	for _, name := range categories {
		extractor, ok := m.byName[name]
		if !ok {
			if m.required[name] {
				return nil, fmt.Errorf("no extractor registered for required category %q", name)
			}
			m.logger.Warn("Skipping unknown category", logging.Fields{"category": name})
			continue
		}

		if err := extractor.Extract(data, analysis, bundle); err != nil {
			if m.required[name] {
				return nil, fmt.Errorf("extraction failed for required category %q: %w", name, err)
			}
			m.logger.Warn("Extractor failed, substituting zeros", logging.Fields{
				"category": name,
				"error":    err.Error(),
			})
			m.zeroFill(bundle, name)
		}
	}

	m.normalize(bundle)

	m.logger.Info("Feature extraction complete", logging.Fields{
		"total_frames": bundle.TotalFrames,
		"duration":     bundle.Duration,
		"categories":   len(categories),
		"elapsed":      time.Since(start).String(),
	})

	return bundle, nil
}

// zeroFill populates a category with correctly shaped zero arrays after
// a recoverable extractor failure.
func (m *ExtractionManager) zeroFill(bundle *FeatureBundle, category string) {
	n := bundle.TotalFrames
	switch category {
	case CategoryTemporal:
		bundle.Temporal = &TemporalFeatures{
			Amplitude:        make([]float64, 0),
			Loudness:         make([]float64, n),
			ZeroCrossingRate: make([]float64, n),
		}
	case CategoryFrequency:
		bundle.Frequency = &FrequencyFeatures{
			Spectrum:          zeroMatrix(m.config.FFTSize/2+1, n),
			MelSpectrogram:    zeroMatrix(m.config.NumMels, n),
			LogMelSpectrogram: zeroMatrix(m.config.NumMels, n),
		}
	case CategoryRhythm:
		bundle.Rhythm = &RhythmFeatures{
			Tempo:         m.config.MinBPM,
			BeatFrames:    []int{},
			BeatTimes:     []float64{},
			OnsetEnvelope: make([]float64, n),
			BeatStrength:  make([]float64, n),
		}
	case CategoryTimbre:
		bundle.Timbre = &TimbreFeatures{
			MFCC:              zeroMatrix(m.config.NumMFCC, n),
			SpectralCentroid:  make([]float64, n),
			SpectralBandwidth: make([]float64, n),
			SpectralRolloff:   make([]float64, n),
		}
	}
}

// normalize pads or truncates every per-frame array to TotalFrames so
// slice assembly can index any category at any frame.
func (m *ExtractionManager) normalize(bundle *FeatureBundle) {
	n := bundle.TotalFrames

	if t := bundle.Temporal; t != nil {
		t.Loudness = common.PadOrTruncate(t.Loudness, n)
		t.ZeroCrossingRate = common.PadOrTruncate(t.ZeroCrossingRate, n)
	}
	if f := bundle.Frequency; f != nil {
		normalizeMatrix(f.Spectrum, n)
		normalizeMatrix(f.MelSpectrogram, n)
		normalizeMatrix(f.LogMelSpectrogram, n)
	}
	if r := bundle.Rhythm; r != nil {
		r.OnsetEnvelope = common.PadOrTruncate(r.OnsetEnvelope, n)
		r.BeatStrength = common.PadOrTruncate(r.BeatStrength, n)
	}
	if tb := bundle.Timbre; tb != nil {
		normalizeMatrix(tb.MFCC, n)
		tb.SpectralCentroid = common.PadOrTruncate(tb.SpectralCentroid, n)
		tb.SpectralBandwidth = common.PadOrTruncate(tb.SpectralBandwidth, n)
		tb.SpectralRolloff = common.PadOrTruncate(tb.SpectralRolloff, n)
	}
}

func normalizeMatrix(matrix [][]float64, targetFrames int) {
	for i, row := range matrix {
		matrix[i] = common.PadOrTruncate(row, targetFrames)
	}
}

func zeroMatrix(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
	}
	return out
}
