// Package activation owns the debounced activation state machine that
// reconciles camera exclusive-use transitions with the user-visible effect
// state: tracker lifetime, overlay visibility, and the brightness side
// effect.
package activation

import "context"

// CapabilityGate answers whether the process holds the platform
// capabilities the effect needs. A false answer means "cannot activate",
// never a crash.
type CapabilityGate interface {
	HasCameraAccess() bool
	HasOverlayAccess() bool
	HasBrightnessWriteAccess() bool
}

// StatusSink receives human-readable status strings for display outside
// the core. Fire-and-forget; no acknowledgement.
type StatusSink interface {
	Publish(status string)
}

// BrightnessPort reads and writes the system brightness. Write errors are
// non-fatal: activation proceeds without brightness control.
type BrightnessPort interface {
	Read() (int, error)
	Write(level int) error
	Max() (int, error)
}

// FaceTracker is the tracker lifetime controlled by the state machine.
type FaceTracker interface {
	Start(ctx context.Context)
	Stop()
}

// Overlay is the effect surface toggled by the state machine. Show and
// Hide are idempotent; failures are recovered by the overlay itself.
type Overlay interface {
	Show() error
	Hide() error
}

// Published status strings.
const (
	StatusActive  = "active"
	StatusWaiting = "waiting for camera"
)
