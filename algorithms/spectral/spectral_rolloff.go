package spectral

// SpectralRolloff computes the frequency below which a fixed fraction of
// the total spectral energy is contained.
type SpectralRolloff struct {
	sampleRate  int
	rolloffPct  float64
	freqBins    []float64
	initialized bool
}

// NewSpectralRolloff creates a rolloff calculator. rolloffPct defaults to
// 0.85 when non-positive.
func NewSpectralRolloff(sampleRate int, rolloffPct float64) *SpectralRolloff {
	if rolloffPct <= 0 || rolloffPct > 1 {
		rolloffPct = 0.85
	}
	return &SpectralRolloff{
		sampleRate: sampleRate,
		rolloffPct: rolloffPct,
	}
}

// Compute calculates the rolloff frequency in Hz for a single magnitude spectrum
func (sr *SpectralRolloff) Compute(spectrum []float64) float64 {
	if len(spectrum) == 0 {
		return 0.0
	}

	if !sr.initialized || len(sr.freqBins) != len(spectrum) {
		sr.freqBins = make([]float64, len(spectrum))
		for i := range spectrum {
			sr.freqBins[i] = float64(i) * float64(sr.sampleRate) / float64((len(spectrum)-1)*2)
		}
		sr.initialized = true
	}

	totalEnergy := 0.0
	for _, mag := range spectrum {
		totalEnergy += mag * mag
	}
	if totalEnergy == 0 {
		return 0.0
	}

	threshold := sr.rolloffPct * totalEnergy
	cumulative := 0.0
	for i, mag := range spectrum {
		cumulative += mag * mag
		if cumulative >= threshold {
			return sr.freqBins[i]
		}
	}

	return sr.freqBins[len(spectrum)-1]
}

// ComputeFrames processes multiple frames efficiently
func (sr *SpectralRolloff) ComputeFrames(spectrogram [][]float64) []float64 {
	if len(spectrogram) == 0 {
		return []float64{}
	}

	rolloffs := make([]float64, len(spectrogram))

	for t, spectrum := range spectrogram {
		rolloffs[t] = sr.Compute(spectrum)
	}

	return rolloffs
}
