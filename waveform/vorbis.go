package waveform

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// decodeVorbis decodes an Ogg Vorbis stream into interleaved float64 samples
func decodeVorbis(r io.Reader) ([]float64, int, int, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode ogg vorbis: %w", err)
	}

	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}

	return samples, format.SampleRate, format.Channels, nil
}
