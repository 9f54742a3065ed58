package feature

import (
	"math"
	"testing"
)

// sliceBundle builds a small bundle with recognizable per-frame values
func sliceBundle() *FeatureBundle {
	n := 44
	sampleRate := 22050
	hop := 512

	loudness := make([]float64, n)
	onset := make([]float64, n)
	strength := make([]float64, n)
	for i := range n {
		loudness[i] = float64(i)
		onset[i] = float64(i) / float64(n)
		strength[i] = 0.5
	}

	amplitude := make([]float64, sampleRate)
	for i := range amplitude {
		amplitude[i] = 0.25
	}

	spectrum := make([][]float64, 8)
	for i := range spectrum {
		spectrum[i] = make([]float64, n)
		for t := range n {
			spectrum[i][t] = float64(i*100 + t)
		}
	}

	return &FeatureBundle{
		Temporal: &TemporalFeatures{
			Amplitude: amplitude,
			Loudness:  loudness,
		},
		Frequency: &FrequencyFeatures{
			Spectrum: spectrum,
		},
		Rhythm: &RhythmFeatures{
			Tempo:         120,
			BeatTimes:     []float64{0.25, 0.75},
			OnsetEnvelope: onset,
			BeatStrength:  strength,
		},
		Timbre: &TimbreFeatures{
			SpectralCentroid: loudness,
		},
		TotalFrames: n,
		SampleRate:  sampleRate,
		HopSize:     hop,
		Duration:    1.0,
	}
}

func TestSliceAtFrameMapping(t *testing.T) {
	bundle := sliceBundle()

	slice := bundle.SliceAt(0.5)
	sampleRate, hop := 22050.0, 512.0
	wantFrame := int(0.5 * sampleRate / hop)
	if slice.Frame != wantFrame {
		t.Errorf("frame = %d, want %d", slice.Frame, wantFrame)
	}
	if slice.Temporal.Loudness != float64(wantFrame) {
		t.Errorf("loudness = %v, want %v", slice.Temporal.Loudness, float64(wantFrame))
	}
}

func TestSliceAtClampsPastEnd(t *testing.T) {
	bundle := sliceBundle()

	slice := bundle.SliceAt(10.0)
	if slice.Frame != bundle.TotalFrames-1 {
		t.Errorf("frame = %d, want final frame %d", slice.Frame, bundle.TotalFrames-1)
	}

	slice = bundle.SliceAt(-1.0)
	if slice.Frame != 0 {
		t.Errorf("frame = %d, want 0 for negative time", slice.Frame)
	}
}

func TestSliceAtAmplitudeWindow(t *testing.T) {
	bundle := sliceBundle()

	slice := bundle.SliceAt(0.5)
	if len(slice.Temporal.Amplitude) != 2*AmplitudeHalfWindow {
		t.Fatalf("amplitude window = %d samples, want %d", len(slice.Temporal.Amplitude), 2*AmplitudeHalfWindow)
	}
	for _, v := range slice.Temporal.Amplitude {
		if v != 0.25 {
			t.Fatalf("mid-track window should hold signal values, got %v", v)
		}
	}

	// At t=0 the left half of the window falls before the track
	slice = bundle.SliceAt(0)
	if len(slice.Temporal.Amplitude) != 2*AmplitudeHalfWindow {
		t.Fatalf("edge window = %d samples, want %d", len(slice.Temporal.Amplitude), 2*AmplitudeHalfWindow)
	}
	for i := 0; i < AmplitudeHalfWindow; i++ {
		if slice.Temporal.Amplitude[i] != 0 {
			t.Fatalf("expected zero padding before track start, got %v at %d", slice.Temporal.Amplitude[i], i)
		}
	}
}

func TestSliceAtRhythmWindowEndsAtCurrentFrame(t *testing.T) {
	bundle := sliceBundle()

	slice := bundle.SliceAt(0.5)
	window := slice.Rhythm.OnsetWindow
	if len(window) != 2*RhythmHalfWindow {
		t.Fatalf("onset window = %d frames, want %d", len(window), 2*RhythmHalfWindow)
	}

	want := bundle.Rhythm.OnsetEnvelope[slice.Frame]
	if last := window[len(window)-1]; math.Abs(last-want) > 1e-12 {
		t.Errorf("window last = %v, want current frame value %v", last, want)
	}
}

func TestSliceAtBeatDetection(t *testing.T) {
	bundle := sliceBundle()

	tests := []struct {
		time string
		t    float64
		want bool
	}{
		{"on the beat", 0.25, true},
		{"just inside tolerance", 0.25 + BeatTolerance - 0.001, true},
		{"exactly at tolerance", 0.25 + BeatTolerance, false},
		{"between beats", 0.5, false},
	}
	for _, tt := range tests {
		if got := bundle.SliceAt(tt.t).Rhythm.IsBeat; got != tt.want {
			t.Errorf("%s (t=%v): IsBeat = %v, want %v", tt.time, tt.t, got, tt.want)
		}
	}
}

func TestSliceAtSpectrumColumn(t *testing.T) {
	bundle := sliceBundle()

	slice := bundle.SliceAt(0.5)
	col := slice.Frequency.Spectrum
	if len(col) != 8 {
		t.Fatalf("spectrum column = %d bins, want 8", len(col))
	}
	for i, v := range col {
		want := float64(i*100 + slice.Frame)
		if v != want {
			t.Errorf("bin %d = %v, want %v", i, v, want)
		}
	}
}

func TestSliceAtMissingCategories(t *testing.T) {
	bundle := &FeatureBundle{
		TotalFrames: 10,
		SampleRate:  22050,
		HopSize:     512,
		Duration:    0.25,
	}

	slice := bundle.SliceAt(0.1)
	if slice.Temporal != nil || slice.Frequency != nil || slice.Rhythm != nil || slice.Timbre != nil {
		t.Error("categories absent from the bundle must be nil in the slice")
	}
}
