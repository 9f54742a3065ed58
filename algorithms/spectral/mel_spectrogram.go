package spectral

import (
	"fmt"
	"math"
)

// MelSpectrogram converts STFT magnitude frames into a mel-band power
// spectrogram, bin-major: [numMels][numFrames].
type MelSpectrogram struct {
	numMels    int
	sampleRate int
	melScale   *MelScale
	filterBank [][]float64
	fftSize    int
}

// NewMelSpectrogram creates a mel spectrogram computer
func NewMelSpectrogram(sampleRate, numMels int) *MelSpectrogram {
	return &MelSpectrogram{
		numMels:    numMels,
		sampleRate: sampleRate,
		melScale:   NewMelScale(),
	}
}

// ComputeFrames computes a mel power spectrogram from magnitude frames
// (time-major, as produced by STFT). Output is bin-major so that a single
// time column can be sliced as melSpec[i][frame].
func (m *MelSpectrogram) ComputeFrames(magnitude [][]float64) ([][]float64, error) {
	if len(magnitude) == 0 {
		return nil, fmt.Errorf("empty spectrogram")
	}

	fftSize := (len(magnitude[0]) - 1) * 2
	if m.filterBank == nil || m.fftSize != fftSize {
		m.filterBank = m.melScale.CreateMelFilterBank(m.numMels, fftSize, m.sampleRate, 0.0, float64(m.sampleRate)/2.0)
		m.fftSize = fftSize
		if len(m.filterBank) == 0 {
			return nil, fmt.Errorf("failed to create mel filter bank")
		}
	}

	numFrames := len(magnitude)
	melSpec := make([][]float64, m.numMels)
	for i := range melSpec {
		melSpec[i] = make([]float64, numFrames)
	}

	powerSpectrum := make([]float64, len(magnitude[0]))
	for t, frame := range magnitude {
		for i, mag := range frame {
			powerSpectrum[i] = mag * mag
		}
		melFrame := m.melScale.ApplyFilterBank(powerSpectrum, m.filterBank)
		for i := range m.numMels {
			if i < len(melFrame) {
				melSpec[i][t] = melFrame[i]
			}
		}
	}

	return melSpec, nil
}

// PowerToDB converts a bin-major power spectrogram to decibels relative to
// its maximum, floored at -topDB (librosa power_to_db semantics). A silent
// input maps uniformly to -topDB.
func PowerToDB(power [][]float64, topDB float64) [][]float64 {
	maxPower := 0.0
	for _, row := range power {
		for _, v := range row {
			if v > maxPower {
				maxPower = v
			}
		}
	}

	db := make([][]float64, len(power))
	for i, row := range power {
		db[i] = make([]float64, len(row))
		for j, v := range row {
			if maxPower <= 0 {
				db[i][j] = -topDB
				continue
			}
			ratio := v / maxPower
			if ratio < 1e-10 {
				ratio = 1e-10
			}
			val := 10.0 * math.Log10(ratio)
			if val < -topDB {
				val = -topDB
			}
			db[i][j] = val
		}
	}
	return db
}
