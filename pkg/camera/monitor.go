package camera

import (
	"time"

	"github.com/uzumaki-ak/LumaFront/internal/log"
)

// Availability is the deduplicated exclusive-use state of the front camera.
//
// Available means the activation condition holds: some process currently has
// the camera in exclusive use. Unavailable means nobody holds it.
type Availability int

const (
	Unavailable Availability = iota
	Available
)

// String returns the availability name.
func (a Availability) String() string {
	if a == Available {
		return "available"
	}
	return "unavailable"
}

// Signal is a timestamped availability transition.
type Signal struct {
	State Availability
	At    time.Time
}

// Notifier delivers raw platform exclusive-use callbacks for one device.
// The platform may fire callbacks redundantly; the Monitor dedupes them.
type Notifier interface {
	// Register starts delivering callbacks for the device. The callback
	// receives true while some process holds the camera exclusively.
	Register(device string, fn func(inUse bool)) error

	// Unregister stops callbacks. Safe to call multiple times.
	Unregister()
}

// Monitor translates noisy platform exclusive-use callbacks into a single
// deduplicated stream of Signal transitions. It holds no concurrency of its
// own: emission happens directly on the notifier's callback context, and the
// outbound channel is the only hand-off point.
type Monitor struct {
	notifier Notifier
	discover func() (string, error)

	signals chan Signal
	last    Availability
	hasLast bool
	started bool
	stopped bool
	inert   bool
}

// NewMonitor creates a monitor over the given notifier. The front camera
// is resolved lazily on Start.
func NewMonitor(notifier Notifier) *Monitor {
	return &Monitor{
		notifier: notifier,
		discover: DiscoverFront,
		signals:  make(chan Signal, 16),
	}
}

// Signals returns the outbound transition stream.
func (m *Monitor) Signals() <-chan Signal {
	return m.signals
}

// Start resolves the front-facing camera once and registers for
// availability callbacks. If no front camera exists the error is logged
// once and the monitor becomes a permanent no-op; the error is returned so
// callers can surface it, but the monitor stays safe to Stop.
func (m *Monitor) Start() error {
	if m.started {
		return ErrAlreadyStarted
	}
	m.started = true

	device, err := m.discover()
	if err != nil {
		m.inert = true
		log.Error("front camera not found, monitoring disabled", "err", err)
		return err
	}

	if err := m.notifier.Register(device, m.onNotify); err != nil {
		m.inert = true
		log.Error("availability registration failed, monitoring disabled",
			"device", device, "err", err)
		return err
	}

	log.Info("camera monitoring started", "device", device)
	return nil
}

// Stop unregisters from the platform. Safe to call multiple times.
func (m *Monitor) Stop() {
	if m.stopped || m.inert {
		m.stopped = true
		return
	}
	m.stopped = true
	m.notifier.Unregister()
}

// onNotify filters a raw platform callback into at most one transition.
func (m *Monitor) onNotify(inUse bool) {
	state := Unavailable
	if inUse {
		state = Available
	}

	// Compare against the last *emitted* state; redundant callbacks are
	// dropped here.
	if m.hasLast && state == m.last {
		return
	}
	m.last = state
	m.hasLast = true

	select {
	case m.signals <- Signal{State: state, At: time.Now()}:
	default:
		log.Warn("camera signal dropped, consumer too slow", "state", state.String())
	}
}
