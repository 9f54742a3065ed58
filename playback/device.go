// Package playback plays decoded audio through the system output device
// and exposes the playback position from the device's own clock, so the
// realtime layer never drifts from what the listener actually hears.
package playback

import "errors"

// ErrDeviceUnavailable indicates the audio output device could not be
// opened or started. Callers treat this as fatal for playback but may
// keep running analysis-only.
var ErrDeviceUnavailable = errors.New("audio output device unavailable")

// Device is a playback sink with its own position clock. Position must
// be derived from the device's actual consumption of samples, not from
// wall time, so that buffering and underruns do not desynchronize the
// visuals from the audio.
type Device interface {
	// Start begins playback from the current position. Returns an
	// error wrapping ErrDeviceUnavailable when the device cannot
	// start; in that case no playback resources are held.
	Start() error

	// Stop pauses playback. Position is retained.
	Stop() error

	// Position reports elapsed playback time in seconds as measured
	// by the device clock.
	Position() float64

	// IsActive reports whether the device is currently playing
	IsActive() bool

	// Close releases the device. The Device is unusable afterwards.
	Close() error
}
