package temporal

import (
	"math"

	"github.com/RyanBlaney/sonido-viz/algorithms/common"
)

// BeatTracker estimates tempo and beat positions from an onset envelope.
// Tempo search is bounded by a BPM range and seeded at its minimum, so a
// track with no clear periodicity still reports a usable tempo.
type BeatTracker struct {
	sampleRate int
	hopSize    int
}

// BeatTrackingResult holds tempo and beat positions for a full track
type BeatTrackingResult struct {
	Tempo      float64   `json:"tempo"`       // Estimated tempo (BPM)
	BeatFrames []int     `json:"beat_frames"` // Frame indices of beats
	BeatTimes  []float64 `json:"beat_times"`  // Beat positions (seconds)
}

// NewBeatTracker creates a beat tracker for the given analysis geometry
func NewBeatTracker(sampleRate, hopSize int) *BeatTracker {
	return &BeatTracker{
		sampleRate: sampleRate,
		hopSize:    hopSize,
	}
}

// Track estimates tempo within [minBPM, maxBPM] and places beats on the
// onset envelope. An empty or flat envelope yields the seed tempo and no
// beats.
func (bt *BeatTracker) Track(onsetEnv []float64, minBPM, maxBPM float64) *BeatTrackingResult {
	if minBPM <= 0 {
		minBPM = 60
	}
	if maxBPM <= minBPM {
		maxBPM = minBPM + 140
	}

	result := &BeatTrackingResult{
		Tempo:      minBPM,
		BeatFrames: []int{},
		BeatTimes:  []float64{},
	}
	if len(onsetEnv) < 4 {
		return result
	}

	tempo := bt.estimateTempo(onsetEnv, minBPM, maxBPM)
	if tempo > 0 {
		result.Tempo = tempo
	}

	result.BeatFrames = bt.placeBeats(onsetEnv, result.Tempo)

	framesToTime := float64(bt.hopSize) / float64(bt.sampleRate)
	result.BeatTimes = make([]float64, len(result.BeatFrames))
	for i, frame := range result.BeatFrames {
		result.BeatTimes[i] = float64(frame) * framesToTime
	}

	return result
}

// estimateTempo finds the strongest autocorrelation peak of the onset
// envelope within the lag range implied by the BPM bounds.
func (bt *BeatTracker) estimateTempo(onsetEnv []float64, minBPM, maxBPM float64) float64 {
	timePerFrame := float64(bt.hopSize) / float64(bt.sampleRate)

	minLag := int(60.0 / maxBPM / timePerFrame)
	maxLag := int(60.0 / minBPM / timePerFrame)

	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(onsetEnv) {
		maxLag = len(onsetEnv) - 1
	}
	if maxLag <= minLag {
		return 0.0
	}

	autocorr := make([]float64, maxLag+1)
	for lag := minLag; lag <= maxLag; lag++ {
		sum := 0.0
		for i := 0; i < len(onsetEnv)-lag; i++ {
			sum += onsetEnv[i] * onsetEnv[i+lag]
		}
		autocorr[lag] = sum / float64(len(onsetEnv)-lag)
	}

	bestLag := 0
	bestVal := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		if lag > minLag && lag < maxLag {
			if autocorr[lag] <= autocorr[lag-1] || autocorr[lag] <= autocorr[lag+1] {
				continue
			}
		}
		if autocorr[lag] > bestVal {
			bestVal = autocorr[lag]
			bestLag = lag
		}
	}

	if bestLag == 0 || bestVal == 0 {
		return 0.0
	}

	return 60.0 / (float64(bestLag) * timePerFrame)
}

// placeBeats lays a beat grid at the tempo period, snapping each beat to
// the strongest onset within a quarter-period search window.
func (bt *BeatTracker) placeBeats(onsetEnv []float64, tempo float64) []int {
	if tempo <= 0 {
		return []int{}
	}

	timePerFrame := float64(bt.hopSize) / float64(bt.sampleRate)
	period := 60.0 / tempo / timePerFrame
	if period < 1 {
		return []int{}
	}

	// Anchor the grid on the strongest onset in the first period
	firstEnd := min(int(period)+1, len(onsetEnv))
	anchor := 0
	for i := 1; i < firstEnd; i++ {
		if onsetEnv[i] > onsetEnv[anchor] {
			anchor = i
		}
	}

	search := int(period / 4)
	var beats []int

	for pos := float64(anchor); pos < float64(len(onsetEnv)); pos += period {
		center := int(math.Round(pos))
		best := center
		bestVal := -1.0
		for i := center - search; i <= center+search; i++ {
			if i < 0 || i >= len(onsetEnv) {
				continue
			}
			if onsetEnv[i] > bestVal {
				bestVal = onsetEnv[i]
				best = i
			}
		}
		if len(beats) == 0 || best > beats[len(beats)-1] {
			beats = append(beats, best)
		}
	}

	return beats
}

// SmoothBeatStrength converts a raw onset envelope into the stable
// beat-strength signal the visual layer consumes: a centered sliding
// maximum, normalization to [0,1], a floor at the given percentile so
// quiet passages keep a nonzero baseline, then renormalization.
func SmoothBeatStrength(onsetEnv []float64, window int, floorPercentile float64) []float64 {
	if len(onsetEnv) == 0 {
		return []float64{}
	}
	if window <= 0 {
		window = 20
	}

	smoothed := make([]float64, len(onsetEnv))
	for i := range onsetEnv {
		start := max(0, i-window/2)
		end := min(len(onsetEnv), i+window/2+1)
		smoothed[i] = common.Max(onsetEnv[start:end])
	}

	if peak := common.Max(smoothed); peak > 0 {
		for i := range smoothed {
			smoothed[i] /= peak
		}
	}

	floor := common.Percentile(smoothed, floorPercentile)
	for i := range smoothed {
		if smoothed[i] < floor {
			smoothed[i] = floor
		}
	}

	if peak := common.Max(smoothed); peak > 0 {
		for i := range smoothed {
			smoothed[i] /= peak
		}
	}

	return smoothed
}
