package feature

import "math"

// Window sizes for slice assembly. The amplitude window is in samples
// around the playhead; the rhythm window is in frames around the current
// frame. BeatTolerance is the half-width in seconds within which a
// tracked beat counts as "now".
const (
	AmplitudeHalfWindow = 500
	RhythmHalfWindow    = 10
	BeatTolerance       = 0.1
)

// TemporalSlice is the amplitude-domain view at one playback instant
type TemporalSlice struct {
	Loudness  float64   `json:"loudness"`
	Amplitude []float64 `json:"amplitude"`
}

// FrequencySlice holds single spectral columns at one playback instant
type FrequencySlice struct {
	Spectrum []float64 `json:"spectrum"`
	Mel      []float64 `json:"mel"`
	LogMel   []float64 `json:"log_mel"`
}

// RhythmSlice holds tempo and short onset context around the playhead.
// OnsetWindow and BeatStrengthWindow are trailing windows ending at the
// current frame, zero-padded at the track start, so their last element
// is always the current frame's value.
type RhythmSlice struct {
	Tempo              float64   `json:"tempo"`
	OnsetWindow        []float64 `json:"onset_window"`
	BeatStrengthWindow []float64 `json:"beat_strength_window"`
	IsBeat             bool      `json:"is_beat"`
}

// TimbreSlice samples the spectral-shape features at one playback instant
type TimbreSlice struct {
	SpectralCentroid float64 `json:"spectral_centroid"`
}

// FeatureSlice is the per-instant view of a bundle that the realtime
// generator publishes. Categories absent from the bundle are nil;
// consumers must tolerate that.
type FeatureSlice struct {
	Time  float64 `json:"time"` // playback position, seconds
	Frame int     `json:"frame"`

	Temporal  *TemporalSlice  `json:"temporal,omitempty"`
	Frequency *FrequencySlice `json:"frequency,omitempty"`
	Rhythm    *RhythmSlice    `json:"rhythm,omitempty"`
	Timbre    *TimbreSlice    `json:"timbre,omitempty"`
}

// SliceAt assembles the feature view for playback position t seconds.
// The frame index is derived from t and clamped, so a clock that runs
// slightly past the end of the track keeps yielding the final frame.
func (b *FeatureBundle) SliceAt(t float64) *FeatureSlice {
	frame := b.FrameAt(t)
	slice := &FeatureSlice{
		Time:  t,
		Frame: frame,
	}

	if b.Temporal != nil {
		ts := &TemporalSlice{}
		if frame < len(b.Temporal.Loudness) {
			ts.Loudness = b.Temporal.Loudness[frame]
		}
		center := int(t * float64(b.SampleRate))
		ts.Amplitude = windowAround(b.Temporal.Amplitude, center, AmplitudeHalfWindow)
		slice.Temporal = ts
	}

	if b.Frequency != nil {
		slice.Frequency = &FrequencySlice{
			Spectrum: column(b.Frequency.Spectrum, frame),
			Mel:      column(b.Frequency.MelSpectrogram, frame),
			LogMel:   column(b.Frequency.LogMelSpectrogram, frame),
		}
	}

	if b.Rhythm != nil {
		rs := &RhythmSlice{
			Tempo:              b.Rhythm.Tempo,
			OnsetWindow:        trailingWindow(b.Rhythm.OnsetEnvelope, frame, 2*RhythmHalfWindow),
			BeatStrengthWindow: trailingWindow(b.Rhythm.BeatStrength, frame, 2*RhythmHalfWindow),
		}
		for _, bt := range b.Rhythm.BeatTimes {
			if math.Abs(bt-t) < BeatTolerance {
				rs.IsBeat = true
				break
			}
		}
		slice.Rhythm = rs
	}

	if b.Timbre != nil {
		ts := &TimbreSlice{}
		if frame < len(b.Timbre.SpectralCentroid) {
			ts.SpectralCentroid = b.Timbre.SpectralCentroid[frame]
		}
		slice.Timbre = ts
	}

	return slice
}

// windowAround extracts data[center-half : center+half], zero-padding
// whatever falls outside the array so the result always has 2*half
// elements.
func windowAround(data []float64, center, half int) []float64 {
	out := make([]float64, 2*half)
	for i := range out {
		idx := center - half + i
		if idx >= 0 && idx < len(data) {
			out[i] = data[idx]
		}
	}
	return out
}

// trailingWindow extracts the length-sized window of data ending at and
// including index end, zero-padded on the left.
func trailingWindow(data []float64, end, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		idx := end - (length - 1) + i
		if idx >= 0 && idx < len(data) {
			out[i] = data[idx]
		}
	}
	return out
}

// column extracts time column t from a bin-major matrix
func column(matrix [][]float64, t int) []float64 {
	if len(matrix) == 0 {
		return nil
	}
	out := make([]float64, len(matrix))
	for i, row := range matrix {
		if t < len(row) {
			out[i] = row[t]
		}
	}
	return out
}
