package spectral

import (
	"math"
)

// SpectralFlux computes spectral flux (measure of spectral change),
// the detection function behind the onset envelope.
type SpectralFlux struct{}

// NewSpectralFlux creates a new spectral flux calculator
func NewSpectralFlux() *SpectralFlux {
	return &SpectralFlux{}
}

// Compute calculates half-wave rectified spectral flux for a time-major
// spectrogram. Output has one value per frame; the first frame is 0 so
// the result aligns with the spectrogram length.
func (sf *SpectralFlux) Compute(spectrogram [][]float64) []float64 {
	if len(spectrogram) == 0 {
		return []float64{}
	}

	flux := make([]float64, len(spectrogram))

	for t := 1; t < len(spectrogram); t++ {
		sum := 0.0
		for f := 0; f < len(spectrogram[t]) && f < len(spectrogram[t-1]); f++ {
			diff := spectrogram[t][f] - spectrogram[t-1][f]
			if diff > 0 { // Only energy increases
				sum += diff * diff
			}
		}
		flux[t] = math.Sqrt(sum)
	}

	return flux
}
