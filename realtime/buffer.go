// Package realtime bridges the offline feature bundle and live
// consumers: a generator publishes per-instant feature slices on the
// playback clock, a bounded buffer decouples publish and read rates,
// and intensity trackers smooth raw features for visual use.
package realtime

import (
	"math"
	"sync"

	"github.com/RyanBlaney/sonido-viz/feature"
)

// DefaultBufferCapacity bounds how many slices the buffer retains.
// Renderers only ever want recent data; older slices are discarded.
const DefaultBufferCapacity = 10

// SliceBuffer is a bounded ring of published feature slices. Writers
// never block: when full, the oldest slice is overwritten in place.
// Safe for concurrent use.
type SliceBuffer struct {
	mu     sync.Mutex
	slices []*feature.FeatureSlice
	head   int // index of the oldest retained slice
	size   int
}

// NewSliceBuffer creates a buffer with the given capacity, or
// DefaultBufferCapacity when capacity is not positive.
func NewSliceBuffer(capacity int) *SliceBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &SliceBuffer{
		slices: make([]*feature.FeatureSlice, capacity),
	}
}

// Put appends a slice, overwriting the oldest when the buffer is full
func (b *SliceBuffer) Put(s *feature.FeatureSlice) {
	if s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.slices[(b.head+b.size)%len(b.slices)] = s
	if b.size < len(b.slices) {
		b.size++
	} else {
		b.head = (b.head + 1) % len(b.slices)
	}
}

// Latest returns the most recently published slice, or nil when the
// buffer is empty.
func (b *SliceBuffer) Latest() *feature.FeatureSlice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latestLocked()
}

// LatestWithTimestamp returns the newest slice and its playback
// timestamp; ok is false when the buffer is empty.
func (b *SliceBuffer) LatestWithTimestamp() (slice *feature.FeatureSlice, t float64, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	slice = b.latestLocked()
	if slice == nil {
		return nil, 0, false
	}
	return slice, slice.Time, true
}

func (b *SliceBuffer) latestLocked() *feature.FeatureSlice {
	if b.size == 0 {
		return nil
	}
	return b.slices[(b.head+b.size-1)%len(b.slices)]
}

// Near returns the retained slice whose timestamp is within tolerance
// of t, inclusive, preferring the closest match. A slice stored at
// exactly t is found even with zero tolerance. Returns nil when no
// retained slice qualifies.
func (b *SliceBuffer) Near(t, tolerance float64) *feature.FeatureSlice {
	b.mu.Lock()
	defer b.mu.Unlock()

	var best *feature.FeatureSlice
	bestDiff := math.Inf(1)
	for i := range b.size {
		s := b.slices[(b.head+i)%len(b.slices)]
		if diff := math.Abs(s.Time - t); diff <= tolerance && diff < bestDiff {
			best = s
			bestDiff = diff
		}
	}
	return best
}

// Len returns the number of retained slices
func (b *SliceBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Clear discards all retained slices
func (b *SliceBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.slices)
	b.head, b.size = 0, 0
}
