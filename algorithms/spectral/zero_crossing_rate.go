package spectral

// ZeroCrossingRate computes the rate of sign changes in a signal,
// a cheap indicator of noisiness and high-frequency content.
type ZeroCrossingRate struct{}

// NewZeroCrossingRate creates a new zero crossing rate calculator
func NewZeroCrossingRate() *ZeroCrossingRate {
	return &ZeroCrossingRate{}
}

// Compute calculates the zero crossing rate of a signal segment (0..1)
func (z *ZeroCrossingRate) Compute(signal []float64) float64 {
	if len(signal) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(signal); i++ {
		if (signal[i-1] >= 0) != (signal[i] >= 0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(signal)-1)
}

// ComputeFrames computes a per-frame zero crossing rate over centered
// frames. Frame t covers samples around t*hopSize, zero-padded at edges.
func (z *ZeroCrossingRate) ComputeFrames(signal []float64, frameSize, hopSize int) []float64 {
	if len(signal) == 0 || frameSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	numFrames := NumFrames(len(signal), hopSize)
	rates := make([]float64, numFrames)
	half := frameSize / 2

	for t := range numFrames {
		center := t * hopSize
		start := center - half
		end := start + frameSize
		if start < 0 {
			start = 0
		}
		if end > len(signal) {
			end = len(signal)
		}
		if end > start {
			rates[t] = z.Compute(signal[start:end])
		}
	}

	return rates
}
