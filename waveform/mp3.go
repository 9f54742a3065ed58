package waveform

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// decodeMP3 decodes an MP3 stream into interleaved float64 samples.
// go-mp3 always outputs 16-bit little-endian stereo PCM.
func decodeMP3(r io.Reader) ([]float64, int, int, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to create MP3 decoder: %w", err)
	}

	const channels = 2

	var samples []float64
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		for i := 0; i+1 < n; i += 2 {
			// int16 little-endian
			val := int16(uint16(buf[i]) | uint16(buf[i+1])<<8)
			samples = append(samples, float64(val)/32768.0)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read MP3 data: %w", err)
		}
	}

	return samples, dec.SampleRate(), channels, nil
}
