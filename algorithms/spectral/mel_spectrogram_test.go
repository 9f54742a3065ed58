package spectral

import (
	"testing"
)

func TestMelSpectrogramShape(t *testing.T) {
	numFrames := 20
	freqBins := 1025

	magnitude := make([][]float64, numFrames)
	for i := range magnitude {
		magnitude[i] = make([]float64, freqBins)
		for j := range magnitude[i] {
			magnitude[i][j] = 0.5
		}
	}

	mel := NewMelSpectrogram(22050, 128)
	spec, err := mel.ComputeFrames(magnitude)
	if err != nil {
		t.Fatalf("ComputeFrames failed: %v", err)
	}

	if len(spec) != 128 {
		t.Fatalf("got %d mel bands, want 128", len(spec))
	}
	for i, band := range spec {
		if len(band) != numFrames {
			t.Fatalf("band %d has %d frames, want %d", i, len(band), numFrames)
		}
	}
}

func TestMelSpectrogramRejectsEmptyInput(t *testing.T) {
	mel := NewMelSpectrogram(22050, 128)
	if _, err := mel.ComputeFrames(nil); err == nil {
		t.Error("expected error for empty spectrogram")
	}
}

func TestPowerToDBRange(t *testing.T) {
	power := [][]float64{
		{1.0, 0.1, 0.0},
		{0.5, 1e-12, 0.25},
	}

	db := PowerToDB(power, 80)

	for i, row := range db {
		for j, v := range row {
			if v > 0 || v < -80 {
				t.Errorf("db[%d][%d] = %v outside [-80, 0]", i, j, v)
			}
		}
	}
	// The maximum power maps to 0 dB
	if db[0][0] != 0 {
		t.Errorf("peak maps to %v dB, want 0", db[0][0])
	}
}

func TestPowerToDBSilence(t *testing.T) {
	power := [][]float64{{0, 0}, {0, 0}}
	db := PowerToDB(power, 80)

	for i, row := range db {
		for j, v := range row {
			if v != -80 {
				t.Errorf("db[%d][%d] = %v, want uniform -80 for silence", i, j, v)
			}
		}
	}
}

func TestMFCCFrameShape(t *testing.T) {
	numFrames := 10
	magnitude := make([][]float64, numFrames)
	for i := range magnitude {
		magnitude[i] = make([]float64, 1025)
		for j := range magnitude[i] {
			magnitude[i][j] = float64(j%7) * 0.1
		}
	}

	mfcc := NewMFCC(22050, 13, 26)
	coeffs, err := mfcc.ComputeFrames(magnitude)
	if err != nil {
		t.Fatalf("ComputeFrames failed: %v", err)
	}

	if len(coeffs) != 13 {
		t.Fatalf("got %d coefficients, want 13", len(coeffs))
	}
	for i, row := range coeffs {
		if len(row) != numFrames {
			t.Fatalf("coefficient %d has %d frames, want %d", i, len(row), numFrames)
		}
	}
}
