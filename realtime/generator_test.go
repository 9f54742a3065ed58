package realtime

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/RyanBlaney/sonido-viz/feature"
	"github.com/RyanBlaney/sonido-viz/playback"
)

// fakeDevice advances its position with wall time while started, like a
// real output device consuming samples.
type fakeDevice struct {
	mu       sync.Mutex
	playing  bool
	startAt  time.Time
	elapsed  float64
	failNext bool
}

func (d *fakeDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failNext {
		return fmt.Errorf("%w: simulated failure", playback.ErrDeviceUnavailable)
	}
	if !d.playing {
		d.playing = true
		d.startAt = time.Now()
	}
	return nil
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.playing {
		d.elapsed += time.Since(d.startAt).Seconds()
		d.playing = false
	}
	return nil
}

func (d *fakeDevice) Position() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.playing {
		return d.elapsed + time.Since(d.startAt).Seconds()
	}
	return d.elapsed
}

func (d *fakeDevice) IsActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playing
}

func (d *fakeDevice) Close() error { return nil }

func generatorBundle(duration float64) *feature.FeatureBundle {
	sampleRate := 22050
	hop := 512
	n := int(duration*float64(sampleRate))/hop + 1

	onset := make([]float64, n)
	strength := make([]float64, n)
	for i := range n {
		onset[i] = 0.5
		strength[i] = 0.5
	}

	return &feature.FeatureBundle{
		Rhythm: &feature.RhythmFeatures{
			Tempo:         120,
			OnsetEnvelope: onset,
			BeatStrength:  strength,
		},
		TotalFrames: n,
		SampleRate:  sampleRate,
		HopSize:     hop,
		Duration:    duration,
	}
}

func TestGeneratorPublishRate(t *testing.T) {
	device := &fakeDevice{}
	gen, err := NewGenerator(generatorBundle(10), device, DefaultGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var count atomic.Int64
	gen.OnSlice(func(*feature.FeatureSlice) {
		count.Add(1)
	})

	if err := gen.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(time.Second)
	if err := gen.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// 120 publishes per second, with generous slack for scheduler jitter
	got := count.Load()
	if got < 90 || got > 135 {
		t.Errorf("published %d slices in 1s, want around 120", got)
	}
	if gen.Buffer().Len() != 0 {
		t.Error("Stop should clear the slice buffer")
	}
}

func TestGeneratorLatestTracksPlayback(t *testing.T) {
	device := &fakeDevice{}
	gen, err := NewGenerator(generatorBundle(10), device, DefaultGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if gen.GetLatestFeatures() != nil {
		t.Error("expected no slices before start")
	}

	if err := gen.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(200 * time.Millisecond)

	latest := gen.GetLatestFeatures()
	if latest == nil {
		t.Fatal("expected a published slice")
	}
	if latest.Rhythm == nil {
		t.Error("slice missing rhythm data present in the bundle")
	}
	if diff := gen.ElapsedTime() - latest.Time; diff < 0 || diff > 0.2 {
		t.Errorf("latest slice lags playback by %v s", diff)
	}

	if err := gen.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestGeneratorFrameCallbackTracksPosition(t *testing.T) {
	device := &fakeDevice{}
	gen, err := NewGenerator(generatorBundle(10), device, DefaultGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	var lastFrame atomic.Int64
	lastFrame.Store(-1)
	gen.OnFrame(func(frame int) {
		lastFrame.Store(int64(frame))
	})

	if err := gen.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	// 300 ms at 22050 Hz with hop 512 is around frame 12
	got := lastFrame.Load()
	if got < 1 {
		t.Errorf("last frame = %d, want the callback to have advanced past frame 0", got)
	}
	want := int64(gen.ElapsedTime() * 22050 / 512)
	if diff := want - got; diff < 0 || diff > 5 {
		t.Errorf("last frame = %d lags playback frame %d too far", got, want)
	}

	if err := gen.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestGeneratorStartStopIdempotent(t *testing.T) {
	device := &fakeDevice{}
	gen, err := NewGenerator(generatorBundle(10), device, DefaultGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if err := gen.Stop(); err != nil {
		t.Errorf("stopping a stopped generator: %v", err)
	}

	if err := gen.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := gen.Start(); err != nil {
		t.Errorf("starting a running generator: %v", err)
	}
	if !gen.Running() {
		t.Error("generator should be running")
	}

	if err := gen.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if gen.Running() {
		t.Error("generator should have stopped")
	}
	if err := gen.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}

func TestGeneratorDeviceFailureLeavesItStopped(t *testing.T) {
	device := &fakeDevice{failNext: true}
	gen, err := NewGenerator(generatorBundle(10), device, DefaultGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if err := gen.Start(); err == nil {
		t.Fatal("expected Start to fail when the device cannot start")
	}
	if gen.Running() {
		t.Error("generator must not run after a device failure")
	}
}

func TestGeneratorRequiresBundleAndDevice(t *testing.T) {
	if _, err := NewGenerator(nil, &fakeDevice{}, DefaultGeneratorConfig()); err == nil {
		t.Error("expected error for nil bundle")
	}
	if _, err := NewGenerator(generatorBundle(1), nil, DefaultGeneratorConfig()); err == nil {
		t.Error("expected error for nil device")
	}
}

func TestGeneratorStopsAtTrackEnd(t *testing.T) {
	device := &fakeDevice{}
	gen, err := NewGenerator(generatorBundle(0.05), device, DefaultGeneratorConfig())
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if err := gen.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Track is 50 ms; once the device reports a position past the end
	// and is no longer active the loop winds down on its own.
	time.Sleep(100 * time.Millisecond)
	if err := device.Stop(); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	if gen.Running() {
		t.Error("generator should stop once playback passed the end of the track")
	}
	if err := gen.Stop(); err != nil {
		t.Errorf("Stop after natural end: %v", err)
	}
}
