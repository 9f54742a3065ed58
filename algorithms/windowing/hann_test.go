package windowing

import (
	"math"
	"testing"
)

func TestHannSymmetricEndpoints(t *testing.T) {
	h := NewHann(8, true)
	coeffs := h.Coefficients()

	if len(coeffs) != 8 {
		t.Fatalf("got %d coefficients, want 8", len(coeffs))
	}
	if coeffs[0] != 0 || coeffs[len(coeffs)-1] != 0 {
		t.Errorf("symmetric window endpoints = %v, %v, want 0", coeffs[0], coeffs[len(coeffs)-1])
	}
	for i := range len(coeffs) / 2 {
		if math.Abs(coeffs[i]-coeffs[len(coeffs)-1-i]) > 1e-12 {
			t.Errorf("coefficients not symmetric at %d", i)
		}
	}
}

func TestHannPeriodicForSpectralAnalysis(t *testing.T) {
	h := NewHann(8, false)
	coeffs := h.Coefficients()

	// Periodic form: implicit continuation, last coefficient nonzero
	if coeffs[len(coeffs)-1] == 0 {
		t.Error("periodic window should not end at zero")
	}
}

func TestHannApplyInPlace(t *testing.T) {
	h := NewHann(4, true)

	signal := []float64{1, 1, 1, 1}
	if err := h.ApplyInPlace(signal); err != nil {
		t.Fatalf("ApplyInPlace failed: %v", err)
	}
	for i, v := range signal {
		if math.Abs(v-h.Coefficients()[i]) > 1e-12 {
			t.Errorf("sample %d = %v, want coefficient %v", i, v, h.Coefficients()[i])
		}
	}

	if err := h.ApplyInPlace([]float64{1, 2}); err == nil {
		t.Error("expected error for mismatched signal length")
	}
}
