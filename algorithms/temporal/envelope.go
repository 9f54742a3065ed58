package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-viz/algorithms/spectral"
)

// Envelope extracts amplitude envelopes from audio signals
type Envelope struct{}

// NewEnvelope creates a new envelope extractor
func NewEnvelope() *Envelope {
	return &Envelope{}
}

// ComputeRMS computes a per-frame RMS energy envelope over centered
// frames. Frame t covers samples around t*hopSize, zero-padded at the
// track edges, so the output length matches the spectrogram frame count.
func (e *Envelope) ComputeRMS(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) == 0 || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	numFrames := spectral.NumFrames(len(signal), hopSize)
	envelope := make([]float64, numFrames)
	half := frameSize / 2

	for t := range numFrames {
		center := t * hopSize
		sumSquares := 0.0
		for i := range frameSize {
			idx := center - half + i
			if idx >= 0 && idx < len(signal) {
				sumSquares += signal[idx] * signal[idx]
			}
		}
		envelope[t] = math.Sqrt(sumSquares / float64(frameSize))
	}

	return envelope
}

// ComputePeak computes a per-frame peak amplitude envelope with the same
// centered framing as ComputeRMS.
func (e *Envelope) ComputePeak(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) == 0 || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	numFrames := spectral.NumFrames(len(signal), hopSize)
	envelope := make([]float64, numFrames)
	half := frameSize / 2

	for t := range numFrames {
		center := t * hopSize
		peak := 0.0
		for i := range frameSize {
			idx := center - half + i
			if idx >= 0 && idx < len(signal) {
				if abs := math.Abs(signal[idx]); abs > peak {
					peak = abs
				}
			}
		}
		envelope[t] = peak
	}

	return envelope
}
