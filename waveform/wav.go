package waveform

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// decodeWAV decodes a RIFF/WAVE stream into interleaved float64 samples
func decodeWAV(r io.ReadSeeker) ([]float64, int, int, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, 0, 0, fmt.Errorf("empty PCM buffer")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = buf.SourceBitDepth
	}
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / scale
	}

	format := buf.Format
	if format == nil {
		format = &audio.Format{NumChannels: 1, SampleRate: int(dec.SampleRate)}
	}

	return samples, format.SampleRate, format.NumChannels, nil
}
