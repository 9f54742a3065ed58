package waveform

// mixToMono averages interleaved multi-channel samples into one channel
func mixToMono(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}

	frames := len(samples) / channels
	mono := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += samples[i*channels+c]
		}
		mono[i] = sum / float64(channels)
	}
	return mono
}

// resampleLinear converts samples between sample rates using linear
// interpolation, per channel. Adequate for analysis; the pipeline never
// plays resampled audio back.
func resampleLinear(samples []float64, channels, srcRate, dstRate int) []float64 {
	if srcRate == dstRate || srcRate <= 0 || dstRate <= 0 || len(samples) == 0 {
		return samples
	}
	if channels < 1 {
		channels = 1
	}

	srcFrames := len(samples) / channels
	dstFrames := int(float64(srcFrames) * float64(dstRate) / float64(srcRate))
	if dstFrames < 1 {
		dstFrames = 1
	}

	out := make([]float64, dstFrames*channels)
	ratio := float64(srcFrames) / float64(dstFrames)

	for c := range channels {
		for i := range dstFrames {
			srcPos := float64(i) * ratio
			idx := int(srcPos)
			frac := srcPos - float64(idx)

			s0 := samples[min(idx, srcFrames-1)*channels+c]
			s1 := samples[min(idx+1, srcFrames-1)*channels+c]
			out[i*channels+c] = s0 + frac*(s1-s0)
		}
	}

	return out
}
