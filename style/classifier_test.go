package style

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-viz/feature"
)

func TestClassifyAggregates(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name string
		agg  Aggregates
		want string
	}{
		{
			name: "loud fast bright wideband track is rock",
			agg: Aggregates{
				Amplitude:         0.7,
				Tempo:             130,
				HighFreqEnergy:    0.4,
				SpectralBandwidth: 0.3,
			},
			want: StyleRock,
		},
		{
			name: "quiet slow dull track is light",
			agg: Aggregates{
				Amplitude:         0.1,
				Tempo:             70,
				HighFreqEnergy:    0.05,
				SpectralBandwidth: 0.1,
			},
			want: StyleLight,
		},
		{
			name: "moderate melodic narrowband track is piano",
			agg: Aggregates{
				Amplitude:         0.4,
				Tempo:             90,
				SpectralCentroid:  0.5,
				SpectralBandwidth: 0.15,
			},
			want: StylePiano,
		},
		{
			name: "fast bass-heavy track is dj",
			agg: Aggregates{
				Amplitude:        0.5,
				Tempo:            140,
				LowFreqEnergy:    0.5,
				SpectralCentroid: 0.4,
			},
			want: StyleDJ,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.ClassifyAggregates(tt.agg); got != tt.want {
				t.Errorf("classified as %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyTieBreaksTowardEarlierProfile(t *testing.T) {
	classifier := NewClassifier()

	// Scores: piano 0, rock 3, dj 2, light 0
	agg := Aggregates{
		Amplitude:         0.9,
		Tempo:             250,
		SpectralCentroid:  0.2,
		SpectralBandwidth: 0.22,
		HighFreqEnergy:    0.25,
		LowFreqEnergy:     0.3,
	}
	if got := classifier.ClassifyAggregates(agg); got != StyleRock {
		t.Fatalf("got %q, want rock", got)
	}

	// Piano and rock both score 3 here; the earlier profile wins
	tied := Aggregates{
		Amplitude:         0.65,
		Tempo:             250,
		SpectralCentroid:  0.65,
		SpectralBandwidth: 0.22,
		HighFreqEnergy:    0.25,
		LowFreqEnergy:     0.35,
	}
	if got := classifier.ClassifyAggregates(tied); got != StylePiano {
		t.Errorf("tie: got %q, want first profile piano", got)
	}
}

func TestAggregateFromBundle(t *testing.T) {
	n := 4
	numBins := 10

	// Flat spectrum: centroid is the middle of the normalized axis
	spectrum := make([][]float64, numBins)
	for i := range spectrum {
		spectrum[i] = make([]float64, n)
		for t := range n {
			spectrum[i][t] = 1.0
		}
	}

	bundle := &feature.FeatureBundle{
		Temporal: &feature.TemporalFeatures{
			Amplitude: []float64{0.2, 0.4, 0.6},
			Loudness:  []float64{0.1, 0.3},
		},
		Frequency: &feature.FrequencyFeatures{Spectrum: spectrum},
		Rhythm:    &feature.RhythmFeatures{Tempo: 128},
		TotalFrames: n,
		SampleRate:  22050,
		HopSize:     512,
	}

	agg := Aggregate(bundle)

	if math.Abs(agg.Amplitude-0.4) > 1e-12 {
		t.Errorf("amplitude = %v, want 0.4", agg.Amplitude)
	}
	if math.Abs(agg.Loudness-0.2) > 1e-12 {
		t.Errorf("loudness = %v, want 0.2", agg.Loudness)
	}
	if agg.Tempo != 128 {
		t.Errorf("tempo = %v, want 128", agg.Tempo)
	}
	if math.Abs(agg.SpectralCentroid-0.5) > 1e-9 {
		t.Errorf("centroid = %v, want 0.5 for a flat spectrum", agg.SpectralCentroid)
	}
	if agg.LowFreqEnergy != 1.0 || agg.HighFreqEnergy != 1.0 {
		t.Errorf("band energies = %v/%v, want 1.0 for a flat spectrum", agg.LowFreqEnergy, agg.HighFreqEnergy)
	}
}

func TestAggregateHandlesMissingCategories(t *testing.T) {
	agg := Aggregate(&feature.FeatureBundle{TotalFrames: 10})
	if agg != (Aggregates{}) {
		t.Errorf("empty bundle should aggregate to zeros, got %+v", agg)
	}
	if got := Aggregate(nil); got != (Aggregates{}) {
		t.Errorf("nil bundle should aggregate to zeros, got %+v", got)
	}
}

func TestClassifierVisualConfigs(t *testing.T) {
	classifier := NewClassifier()

	rock, ok := classifier.Profile(StyleRock)
	if !ok {
		t.Fatal("rock profile missing")
	}
	if rock.Visual.ParticleCount != 400 || rock.Visual.BeatResponse != 1.8 {
		t.Errorf("rock visual config = %+v", rock.Visual)
	}

	if _, ok := classifier.Profile("unknown"); ok {
		t.Error("unknown profile should not resolve")
	}

	if len(classifier.Profiles()) != 4 {
		t.Errorf("profile count = %d, want 4", len(classifier.Profiles()))
	}
}
