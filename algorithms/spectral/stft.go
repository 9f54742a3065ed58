package spectral

import (
	"fmt"
	"math/cmplx"
	"runtime"
	"sync"
)

// STFT provides Short-Time Fourier Transform functionality
type STFT struct {
	fft *FFT
}

// STFTResult holds the result of STFT analysis
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	Phase          [][]float64 `json:"phase"`           // Time x Frequency phase matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// Window interface for windowing functions
type Window interface {
	ApplyInPlace(signal []float64) error
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft: NewFFT(),
	}
}

// NumFrames returns the frame count of a centered STFT over a signal of
// the given length: one frame per hop plus the final centered frame.
func NumFrames(signalLen, hopSize int) int {
	if signalLen <= 0 || hopSize <= 0 {
		return 0
	}
	return signalLen/hopSize + 1
}

// ComputeCentered computes a centered STFT with parallel frame processing.
// Frame t is centered on sample t*hopSize; the signal is zero-padded by
// windowSize/2 on both ends so every per-frame feature array has exactly
// NumFrames(len(signal), hopSize) entries.
func (s *STFT) ComputeCentered(signal []float64, windowSize, hopSize, sampleRate int, window Window) (*STFTResult, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("empty signal")
	}
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive")
	}
	if hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	numFrames := NumFrames(len(signal), hopSize)
	freqBins := windowSize/2 + 1
	halfWindow := windowSize / 2

	magnitude := make([][]float64, numFrames)
	phase := make([][]float64, numFrames)
	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
		phase[i] = make([]float64, freqBins)
	}

	numWorkers := s.getOptimalWorkerCount(numFrames)

	jobs := make(chan int, numFrames)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for frameIdx := range jobs {
				center := frameIdx * hopSize
				for i := range windowSize {
					srcIdx := center - halfWindow + i
					if srcIdx >= 0 && srcIdx < len(signal) {
						frameBuffer[i] = signal[srcIdx]
					} else {
						frameBuffer[i] = 0
					}
				}

				if window != nil {
					if err := window.ApplyInPlace(frameBuffer); err != nil {
						continue
					}
				}

				fftResult := s.fft.Compute(frameBuffer)

				for i := range freqBins {
					magnitude[frameIdx][i] = cmplx.Abs(fftResult[i])
					phase[frameIdx][i] = cmplx.Phase(fftResult[i])
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for frameIdx := range numFrames {
			jobs <- frameIdx
		}
	}()

	wg.Wait()

	return &STFTResult{
		Magnitude:      magnitude,
		Phase:          phase,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     windowSize,
		HopSize:        hopSize,
		FreqResolution: float64(sampleRate) / float64(windowSize),
		TimeResolution: float64(hopSize) / float64(sampleRate),
	}, nil
}

// getOptimalWorkerCount determines the number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}
	if numFrames < 1000 {
		return min(numCPU, 8)
	}
	return numCPU
}
