package waveform

import (
	"errors"
	"math"
	"os"
	"testing"
)

func TestMixToMono(t *testing.T) {
	stereo := []float64{1, 0, 0.5, 0.5, -1, 1}
	mono := mixToMono(stereo, 2)

	want := []float64{0.5, 0.5, 0}
	if len(mono) != len(want) {
		t.Fatalf("got %d frames, want %d", len(mono), len(want))
	}
	for i, v := range mono {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("frame %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestMixToMonoPassthrough(t *testing.T) {
	mono := []float64{1, 2, 3}
	if got := mixToMono(mono, 1); &got[0] != &mono[0] {
		t.Error("mono input should pass through unchanged")
	}
}

func TestResampleLinearHalvesRate(t *testing.T) {
	src := make([]float64, 100)
	for i := range src {
		src[i] = float64(i)
	}

	out := resampleLinear(src, 1, 44100, 22050)
	if len(out) != 50 {
		t.Fatalf("got %d samples, want 50", len(out))
	}
	// A linear ramp resamples onto the same line
	for i, v := range out {
		if math.Abs(v-float64(2*i)) > 1e-9 {
			t.Errorf("sample %d = %v, want %v", i, v, float64(2*i))
			break
		}
	}
}

func TestResampleLinearNoop(t *testing.T) {
	src := []float64{1, 2, 3}
	if got := resampleLinear(src, 1, 22050, 22050); &got[0] != &src[0] {
		t.Error("matching rates should pass the input through")
	}
}

func TestLoaderRejectsUnknownExtension(t *testing.T) {
	loader := NewLoader(DefaultLoaderConfig())

	path := t.TempDir() + "/track.flac"
	if err := os.WriteFile(path, []byte("not audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loader.Load(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}
