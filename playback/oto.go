package playback

import (
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"github.com/RyanBlaney/sonido-viz/logging"
	"github.com/RyanBlaney/sonido-viz/waveform"
)

const bytesPerSample = 2 // 16-bit PCM

// OtoDevice plays a decoded waveform through the system output using
// oto. The position clock is derived from bytes the device has actually
// consumed, minus what still sits unplayed in its buffer.
type OtoDevice struct {
	mu      sync.Mutex
	context *oto.Context
	player  oto.Player
	source  *pcmSource

	sampleRate int
	channels   int
	closed     bool

	logger logging.Logger
}

// NewOtoDevice opens the system audio output for the given waveform.
// The waveform's samples are converted to 16-bit PCM up front; the
// device owns that copy.
func NewOtoDevice(data *waveform.WaveformData) (*OtoDevice, error) {
	if data == nil || len(data.Samples) == 0 {
		return nil, fmt.Errorf("%w: no samples to play", ErrDeviceUnavailable)
	}

	channels := data.Channels
	if channels < 1 {
		channels = 1
	}

	ctx, ready, err := oto.NewContext(data.SampleRate, channels, bytesPerSample)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	<-ready

	source := newPCMSource(data.Samples)
	dev := &OtoDevice{
		context:    ctx,
		source:     source,
		sampleRate: data.SampleRate,
		channels:   channels,
		logger: logging.WithFields(logging.Fields{
			"component": "playback_device",
		}),
	}
	dev.player = ctx.NewPlayer(source)

	dev.logger.Debug("Opened audio output", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    channels,
		"duration":    data.Duration,
	})

	return dev, nil
}

// Start begins or resumes playback
func (d *OtoDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return fmt.Errorf("%w: device closed", ErrDeviceUnavailable)
	}
	if err := d.player.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	if !d.player.IsPlaying() {
		d.player.Play()
	}
	return nil
}

// Stop pauses playback without releasing the device
func (d *OtoDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	if d.player.IsPlaying() {
		d.player.Pause()
	}
	return nil
}

// Position reports elapsed playback in seconds from the device clock:
// bytes handed to the device minus bytes it has not yet played.
func (d *OtoDevice) Position() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return 0
	}

	consumed := d.source.BytesRead() - int64(d.player.UnplayedBufferSize())
	if consumed < 0 {
		consumed = 0
	}
	bytesPerSecond := float64(d.sampleRate * d.channels * bytesPerSample)
	return float64(consumed) / bytesPerSecond
}

// IsActive reports whether the device is currently playing
func (d *OtoDevice) IsActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.closed && d.player.IsPlaying()
}

// Close releases the device
func (d *OtoDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.player.Close()
}

var _ Device = (*OtoDevice)(nil)

// pcmSource serves 16-bit little-endian PCM converted from float64
// samples and counts how many bytes the player has pulled.
type pcmSource struct {
	mu   sync.Mutex
	pcm  []byte
	read int64
}

func newPCMSource(samples []float64) *pcmSource {
	pcm := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767)
		pcm[2*i] = byte(v)
		pcm[2*i+1] = byte(v >> 8)
	}
	return &pcmSource{pcm: pcm}
}

// Read implements io.Reader for the oto player
func (s *pcmSource) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.read >= int64(len(s.pcm)) {
		return 0, io.EOF
	}
	n := copy(p, s.pcm[s.read:])
	s.read += int64(n)
	return n, nil
}

// BytesRead returns how many bytes the player has pulled so far
func (s *pcmSource) BytesRead() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read
}
