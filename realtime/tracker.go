package realtime

import (
	"sync"

	"github.com/RyanBlaney/sonido-viz/algorithms/common"
	"github.com/RyanBlaney/sonido-viz/feature"
)

// IntensityKind selects which raw signal a tracker follows
type IntensityKind int

const (
	// IntensityOnset follows the onset envelope relative to its
	// recent local maximum.
	IntensityOnset IntensityKind = iota
	// IntensityBeatStrength follows the smoothed beat-strength signal
	IntensityBeatStrength
	// IntensityMel follows overall loudness derived from the log-mel
	// column.
	IntensityMel
)

const (
	// DefaultSmoothing is the exponential smoothing factor; one update
	// moves the tracked value at most this fraction of the way to the
	// raw target.
	DefaultSmoothing = 0.3

	// trackerHistorySize bounds the retained history for Average
	trackerHistorySize = 10

	// onsetFloorRatio keeps the onset intensity from collapsing in
	// sparse passages: the raw value is floored at this fraction of
	// the window mean over the window max.
	onsetFloorRatio = 0.5

	logMelRange = 80.0
)

// IntensityTracker smooths one raw feature stream into a stable [0,1]
// intensity for visual consumption. Safe for concurrent use.
type IntensityTracker struct {
	mu        sync.Mutex
	kind      IntensityKind
	smoothing float64
	current   float64
	history   []float64
}

// NewIntensityTracker creates a tracker for the given signal. A
// non-positive or >1 smoothing falls back to DefaultSmoothing.
func NewIntensityTracker(kind IntensityKind, smoothing float64) *IntensityTracker {
	if smoothing <= 0 || smoothing > 1 {
		smoothing = DefaultSmoothing
	}
	return &IntensityTracker{
		kind:      kind,
		smoothing: smoothing,
	}
}

// Update feeds the tracker one feature slice and returns the smoothed
// intensity. A slice missing the tracked category leaves the value
// unchanged.
func (t *IntensityTracker) Update(slice *feature.FeatureSlice) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, ok := t.rawValue(slice)
	if !ok {
		return t.current
	}

	t.current += t.smoothing * (raw - t.current)
	t.current = common.Clamp(t.current, 0, 1)

	t.history = append(t.history, t.current)
	if len(t.history) > trackerHistorySize {
		t.history = t.history[1:]
	}

	return t.current
}

// Current returns the latest smoothed intensity
func (t *IntensityTracker) Current() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Average returns the mean of the last window tracked values, over the
// whole retained history when window is not positive or exceeds it.
func (t *IntensityTracker) Average(window int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.history) == 0 {
		return 0
	}
	if window <= 0 || window > len(t.history) {
		window = len(t.history)
	}
	return common.Mean(t.history[len(t.history)-window:])
}

// Reset clears the tracked value and history
func (t *IntensityTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = 0
	t.history = t.history[:0]
}

// rawValue derives the raw intensity for this tracker's kind from a
// slice. Reports false when the slice lacks the needed category.
func (t *IntensityTracker) rawValue(slice *feature.FeatureSlice) (float64, bool) {
	if slice == nil {
		return 0, false
	}

	switch t.kind {
	case IntensityOnset:
		if slice.Rhythm == nil || len(slice.Rhythm.OnsetWindow) == 0 {
			return 0, false
		}
		window := slice.Rhythm.OnsetWindow
		last := window[len(window)-1]
		localMax := common.Max(window)
		if localMax <= 0 {
			return 0, true
		}
		raw := last / localMax
		if floor := onsetFloorRatio * common.Mean(window) / localMax; raw < floor {
			raw = floor
		}
		return common.Clamp(raw, 0, 1), true

	case IntensityBeatStrength:
		if slice.Rhythm == nil || len(slice.Rhythm.BeatStrengthWindow) == 0 {
			return 0, false
		}
		window := slice.Rhythm.BeatStrengthWindow
		raw := window[len(window)-1]
		if raw > 1.0 {
			raw = min(1.0, raw/2.0)
		}
		return common.Clamp(raw, 0, 1), true

	case IntensityMel:
		if slice.Frequency == nil || len(slice.Frequency.LogMel) == 0 {
			return 0, false
		}
		// Log-mel values live in [-logMelRange, 0] dB re max, so the
		// mean magnitude maps silence to 0 and full level to 1.
		raw := (logMelRange - common.MeanAbs(slice.Frequency.LogMel)) / logMelRange
		return common.Clamp(raw, 0, 1), true
	}

	return 0, false
}
