package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-viz/feature"
	"github.com/RyanBlaney/sonido-viz/logging"
	"github.com/RyanBlaney/sonido-viz/playback"
)

const (
	// DefaultPublishRate is how many slices per second the generator
	// publishes while playback is active.
	DefaultPublishRate = 120

	// stopTimeout bounds how long Stop waits for the publish loop
	stopTimeout = 2 * time.Second
)

// SliceCallback receives each published slice on the publish goroutine.
// Callbacks must return quickly; slow work belongs on the consumer side
// of the buffer.
type SliceCallback func(*feature.FeatureSlice)

// FrameCallback receives the current frame index on the publish
// goroutine, for consumers that only track playback progress.
type FrameCallback func(frame int)

// GeneratorConfig tunes the publish loop
type GeneratorConfig struct {
	PublishRate    int `json:"publish_rate" yaml:"publish_rate"`
	BufferCapacity int `json:"buffer_capacity" yaml:"buffer_capacity"`
}

// DefaultGeneratorConfig returns the canonical publish configuration
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PublishRate:    DefaultPublishRate,
		BufferCapacity: DefaultBufferCapacity,
	}
}

// Generator publishes feature slices on the playback clock. It owns a
// publish goroutine between Start and Stop; the device's position, not
// wall time, decides which frame each slice reflects.
type Generator struct {
	bundle *feature.FeatureBundle
	device playback.Device
	buffer *SliceBuffer
	config GeneratorConfig
	logger logging.Logger

	mu            sync.Mutex
	running       bool
	stopCh        chan struct{}
	doneCh        chan struct{}
	callback      SliceCallback
	frameCallback FrameCallback
}

// NewGenerator creates a generator for the given bundle and device
func NewGenerator(bundle *feature.FeatureBundle, device playback.Device, config GeneratorConfig) (*Generator, error) {
	if bundle == nil {
		return nil, fmt.Errorf("feature bundle is required")
	}
	if device == nil {
		return nil, fmt.Errorf("playback device is required")
	}
	if config.PublishRate <= 0 {
		config.PublishRate = DefaultPublishRate
	}

	return &Generator{
		bundle: bundle,
		device: device,
		buffer: NewSliceBuffer(config.BufferCapacity),
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "slice_generator",
		}),
	}, nil
}

// OnSlice registers a callback invoked for every published slice.
// Must be called before Start.
func (g *Generator) OnSlice(cb SliceCallback) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.callback = cb
}

// OnFrame registers a callback invoked with the frame index of every
// published slice. Must be called before Start.
func (g *Generator) OnFrame(cb FrameCallback) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frameCallback = cb
}

// Buffer returns the slice buffer consumers read from
func (g *Generator) Buffer() *SliceBuffer {
	return g.buffer
}

// Start begins playback and the publish loop. Starting a running
// generator is a no-op. When the device fails to start, no goroutine is
// spawned and the generator stays stopped.
func (g *Generator) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return nil
	}

	if err := g.device.Start(); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}

	g.stopCh = make(chan struct{})
	g.doneCh = make(chan struct{})
	g.running = true

	go g.publishLoop(g.stopCh, g.doneCh, g.callback, g.frameCallback)

	g.logger.Info("Slice generator started", logging.Fields{
		"publish_rate": g.config.PublishRate,
		"total_frames": g.bundle.TotalFrames,
	})
	return nil
}

// Stop halts the publish loop and pauses playback. Stopping a stopped
// generator is a no-op. The publish goroutine is joined with a bounded
// wait so a wedged callback cannot hang the caller forever.
func (g *Generator) Stop() error {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return nil
	}
	g.running = false
	close(g.stopCh)
	done := g.doneCh
	g.mu.Unlock()

	select {
	case <-done:
	case <-time.After(stopTimeout):
		g.logger.Warn("Publish loop did not exit in time", nil)
	}

	if err := g.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}

	g.logger.Info("Slice generator stopped", logging.Fields{
		"buffered": g.buffer.Len(),
	})
	g.buffer.Clear()
	return nil
}

// Running reports whether the publish loop is active
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// ElapsedTime returns the current playback position in seconds
func (g *Generator) ElapsedTime() float64 {
	return g.device.Position()
}

// GetLatestFeatures returns the most recently published slice, or nil
// before the first publish.
func (g *Generator) GetLatestFeatures() *feature.FeatureSlice {
	return g.buffer.Latest()
}

// publishLoop assembles and publishes a slice per tick until stopped or
// the device goes inactive past the end of the track.
func (g *Generator) publishLoop(stopCh, doneCh chan struct{}, callback SliceCallback, frameCallback FrameCallback) {
	defer close(doneCh)

	interval := time.Second / time.Duration(g.config.PublishRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			t := g.device.Position()
			slice := g.bundle.SliceAt(t)
			g.buffer.Put(slice)
			if callback != nil {
				callback(slice)
			}
			if frameCallback != nil {
				frameCallback(slice.Frame)
			}

			if t >= g.bundle.Duration && !g.device.IsActive() {
				g.mu.Lock()
				g.running = false
				g.mu.Unlock()
				return
			}
		}
	}
}
