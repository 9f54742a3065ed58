package spectral

import (
	"math"
)

// SpectralBandwidth computes the magnitude-weighted spread of a spectrum
// around its centroid.
type SpectralBandwidth struct {
	centroid *SpectralCentroid
}

// NewSpectralBandwidth creates a new spectral bandwidth calculator
func NewSpectralBandwidth(sampleRate int) *SpectralBandwidth {
	return &SpectralBandwidth{
		centroid: NewSpectralCentroid(sampleRate),
	}
}

// Compute calculates the spectral bandwidth in Hz for a single magnitude spectrum
func (sb *SpectralBandwidth) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	centroid := sb.centroid.Compute(spectrum)
	freqBins := sb.centroid.FrequencyBins()
	if freqBins == nil {
		return 0.0
	}

	numerator := 0.0
	denominator := 0.0

	for i := range len(spectrum) {
		diff := freqBins[i] - centroid
		numerator += spectrum[i] * diff * diff
		denominator += spectrum[i]
	}

	if denominator == 0 {
		return 0.0
	}

	return math.Sqrt(numerator / denominator)
}

// ComputeFrames processes multiple frames efficiently
func (sb *SpectralBandwidth) ComputeFrames(spectrogram [][]float64) []float64 {
	if len(spectrogram) == 0 {
		return []float64{}
	}

	bandwidths := make([]float64, len(spectrogram))

	for t, spectrum := range spectrogram {
		bandwidths[t] = sb.Compute(spectrum)
	}

	return bandwidths
}
