package realtime

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-viz/feature"
)

func melSlice(db float64) *feature.FeatureSlice {
	col := make([]float64, 16)
	for i := range col {
		col[i] = db
	}
	return &feature.FeatureSlice{
		Frequency: &feature.FrequencySlice{LogMel: col},
	}
}

func beatSlice(strength float64) *feature.FeatureSlice {
	window := make([]float64, 20)
	window[len(window)-1] = strength
	return &feature.FeatureSlice{
		Rhythm: &feature.RhythmSlice{BeatStrengthWindow: window},
	}
}

func onsetSlice(window []float64) *feature.FeatureSlice {
	return &feature.FeatureSlice{
		Rhythm: &feature.RhythmSlice{OnsetWindow: window},
	}
}

func TestTrackerStaysInUnitRange(t *testing.T) {
	tracker := NewIntensityTracker(IntensityBeatStrength, DefaultSmoothing)

	for range 50 {
		v := tracker.Update(beatSlice(5.0))
		if v < 0 || v > 1 {
			t.Fatalf("intensity %v outside [0,1]", v)
		}
	}
}

func TestTrackerSmoothingBoundsStep(t *testing.T) {
	tracker := NewIntensityTracker(IntensityMel, 0.3)

	prev := tracker.Current()
	for range 20 {
		v := tracker.Update(melSlice(0)) // full level, raw = 1
		step := math.Abs(v - prev)
		if step > 0.3+1e-9 {
			t.Fatalf("step %v exceeds smoothing factor", step)
		}
		prev = v
	}

	// Converges toward the raw target
	if prev < 0.95 {
		t.Errorf("intensity = %v, want near 1 after repeated full-level updates", prev)
	}
}

func TestTrackerMelMapping(t *testing.T) {
	silent := NewIntensityTracker(IntensityMel, 1.0)
	if v := silent.Update(melSlice(-80)); v != 0 {
		t.Errorf("silence intensity = %v, want 0", v)
	}

	loud := NewIntensityTracker(IntensityMel, 1.0)
	if v := loud.Update(melSlice(0)); math.Abs(v-1) > 1e-12 {
		t.Errorf("full-level intensity = %v, want 1", v)
	}
}

func TestTrackerBeatStrengthHalvesOverflow(t *testing.T) {
	tracker := NewIntensityTracker(IntensityBeatStrength, 1.0)

	// Raw 1.6 folds to 0.8
	if v := tracker.Update(beatSlice(1.6)); math.Abs(v-0.8) > 1e-12 {
		t.Errorf("intensity = %v, want 0.8", v)
	}

	tracker.Reset()
	// Raw 3.0 folds to min(1, 1.5) = 1
	if v := tracker.Update(beatSlice(3.0)); math.Abs(v-1.0) > 1e-12 {
		t.Errorf("intensity = %v, want 1.0", v)
	}
}

func TestTrackerOnsetRelativeToLocalMax(t *testing.T) {
	window := make([]float64, 20)
	window[5] = 2.0              // local max
	window[len(window)-1] = 1.0  // current frame

	tracker := NewIntensityTracker(IntensityOnset, 1.0)
	v := tracker.Update(onsetSlice(window))
	if math.Abs(v-0.5) > 1e-12 {
		t.Errorf("intensity = %v, want 0.5 (current over local max)", v)
	}

	// An all-zero window must not divide by zero
	tracker.Reset()
	if v := tracker.Update(onsetSlice(make([]float64, 20))); v != 0 {
		t.Errorf("zero window intensity = %v, want 0", v)
	}
}

func TestTrackerOnsetFloor(t *testing.T) {
	// Current value far below the local mean still gets the floor
	window := make([]float64, 20)
	for i := range window {
		window[i] = 1.0
	}
	window[len(window)-1] = 0.01

	tracker := NewIntensityTracker(IntensityOnset, 1.0)
	v := tracker.Update(onsetSlice(window))

	mean := (19*1.0 + 0.01) / 20
	floor := 0.5 * mean / 1.0
	if math.Abs(v-floor) > 1e-9 {
		t.Errorf("intensity = %v, want floor %v", v, floor)
	}
}

func TestTrackerIgnoresMissingCategory(t *testing.T) {
	tracker := NewIntensityTracker(IntensityMel, 1.0)
	tracker.Update(melSlice(-40))
	before := tracker.Current()

	after := tracker.Update(&feature.FeatureSlice{})
	if after != before {
		t.Errorf("intensity changed from %v to %v on a slice with no frequency data", before, after)
	}
	if got := tracker.Update(nil); got != before {
		t.Errorf("nil slice changed intensity to %v", got)
	}
}

func TestTrackerAverageAndReset(t *testing.T) {
	tracker := NewIntensityTracker(IntensityMel, 1.0)

	tracker.Update(melSlice(-40)) // 0.5
	tracker.Update(melSlice(-40))
	tracker.Update(melSlice(-40))

	if avg := tracker.Average(3); math.Abs(avg-0.5) > 1e-12 {
		t.Errorf("Average(3) = %v, want 0.5", avg)
	}
	if avg := tracker.Average(0); math.Abs(avg-0.5) > 1e-12 {
		t.Errorf("Average(0) = %v, want mean of full history 0.5", avg)
	}

	tracker.Reset()
	if tracker.Current() != 0 || tracker.Average(5) != 0 {
		t.Error("reset tracker should report zero")
	}
}

func TestTrackerHistoryBounded(t *testing.T) {
	tracker := NewIntensityTracker(IntensityMel, 1.0)

	for range 30 {
		tracker.Update(melSlice(0))
	}
	tracker.mu.Lock()
	n := len(tracker.history)
	tracker.mu.Unlock()
	if n != trackerHistorySize {
		t.Errorf("history length = %d, want %d", n, trackerHistorySize)
	}
}
