package temporal

import (
	"github.com/RyanBlaney/sonido-viz/algorithms/spectral"
)

// OnsetStrength computes a per-frame onset envelope whose peaks line up
// with perceptually significant attacks.
type OnsetStrength struct {
	flux *spectral.SpectralFlux
}

// NewOnsetStrength creates a new onset envelope extractor
func NewOnsetStrength() *OnsetStrength {
	return &OnsetStrength{
		flux: spectral.NewSpectralFlux(),
	}
}

// Compute derives the onset envelope from time-major STFT magnitude
// frames using half-wave rectified spectral flux. Output length equals
// the frame count.
func (o *OnsetStrength) Compute(magnitude [][]float64) []float64 {
	return o.flux.Compute(magnitude)
}

// PickPeaks returns frame indices of local maxima in the envelope that
// exceed threshold and are at least minGapFrames apart.
func (o *OnsetStrength) PickPeaks(envelope []float64, threshold float64, minGapFrames int) []int {
	if len(envelope) < 3 {
		return []int{}
	}
	if minGapFrames < 1 {
		minGapFrames = 1
	}

	var peaks []int
	lastPeak := -minGapFrames

	for i := 1; i < len(envelope)-1; i++ {
		if envelope[i] > envelope[i-1] &&
			envelope[i] > envelope[i+1] &&
			envelope[i] >= threshold &&
			i-lastPeak >= minGapFrames {
			peaks = append(peaks, i)
			lastPeak = i
		}
	}

	return peaks
}
