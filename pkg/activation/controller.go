package activation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uzumaki-ak/LumaFront/internal/log"
	"github.com/uzumaki-ak/LumaFront/pkg/camera"
)

// State is the controller's activation state.
type State int

const (
	// Idle: no effect, waiting for the camera to come into use.
	Idle State = iota
	// Active: effect running.
	Active
	// PendingDeactivation: camera released, deactivation timer armed.
	PendingDeactivation
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case PendingDeactivation:
		return "pending_deactivation"
	default:
		return "idle"
	}
}

// Config holds the state machine timings.
type Config struct {
	// DeactivationDelay is the debounce window absorbing availability
	// flaps before the effect is torn down.
	DeactivationDelay time.Duration

	// StopGrace is how long to wait after stopping the tracker for
	// in-flight frame callbacks to drain before hiding the overlay.
	StopGrace time.Duration
}

// DefaultConfig returns the production timings.
func DefaultConfig() Config {
	return Config{
		DeactivationDelay: 2000 * time.Millisecond,
		StopGrace:         200 * time.Millisecond,
	}
}

// Snapshot is the externally visible controller state, safe to read from
// any goroutine.
type Snapshot struct {
	State   string    `json:"state"`
	CycleID string    `json:"cycle_id,omitempty"`
	Since   time.Time `json:"since"`
}

// timerFired is posted by the deactivation timer into the event loop.
type timerFired struct {
	gen int
}

// Controller is the activation state machine. All state lives on the
// single Run goroutine: camera transitions, the deactivation timer, and
// shutdown are serialized into one logical event queue, which is what
// makes timer cancellation atomic. Nothing here takes a lock around
// state transitions.
type Controller struct {
	config     Config
	gate       CapabilityGate
	status     StatusSink
	brightness BrightnessPort
	tracker    FaceTracker
	overlay    Overlay

	events chan timerFired

	// Owned exclusively by the Run goroutine.
	state    State
	snapshot *int // brightness captured at activation, nil once restored
	timer    *time.Timer
	timerGen int
	cycleID  string
	runCtx   context.Context

	// Published mirror for dashboards; the only shared state.
	mu  sync.RWMutex
	pub Snapshot
}

// New creates a controller wired to its collaborator ports.
func New(cfg Config, gate CapabilityGate, status StatusSink, brightness BrightnessPort, tracker FaceTracker, overlay Overlay) *Controller {
	return &Controller{
		config:     cfg,
		gate:       gate,
		status:     status,
		brightness: brightness,
		tracker:    tracker,
		overlay:    overlay,
		events:     make(chan timerFired, 4),
		pub:        Snapshot{State: Idle.String(), Since: time.Now()},
	}
}

// Snapshot returns the current externally visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pub
}

// Run processes camera transitions and timer events until the context is
// cancelled or the signal channel closes, then performs forced shutdown.
// It must be the only goroutine touching the state machine.
func (c *Controller) Run(ctx context.Context, signals <-chan camera.Signal) {
	c.runCtx = ctx
	log.Info("activation controller started",
		"deactivation_delay", c.config.DeactivationDelay,
		"stop_grace", c.config.StopGrace)

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case sig, ok := <-signals:
			if !ok {
				c.shutdown()
				return
			}
			c.handleSignal(sig)
		case e := <-c.events:
			c.handleTimer(e)
		}
	}
}

// handleSignal applies one deduplicated camera transition.
func (c *Controller) handleSignal(sig camera.Signal) {
	log.Debug("camera signal", "state", sig.State.String(), "controller", c.state.String())

	switch sig.State {
	case camera.Available:
		switch c.state {
		case Idle:
			c.activate()
		case PendingDeactivation:
			// Cancel the pending timer; the effect never stopped, so no
			// side effects run.
			c.cancelTimer()
			c.setState(Active)
		}
	case camera.Unavailable:
		if c.state == Active {
			c.armTimer()
			c.setState(PendingDeactivation)
		}
	}
}

// handleTimer fires the deactivation if the timer is still current.
func (c *Controller) handleTimer(e timerFired) {
	if c.state != PendingDeactivation || e.gen != c.timerGen {
		// Stale fire from a cancelled timer generation.
		return
	}
	c.timer = nil
	c.deactivate(true)
}

// activate runs the Active-entry side effects in order: brightness first
// so the first rendered frame is already at target, then tracker, then
// overlay, then status.
func (c *Controller) activate() {
	if !c.gate.HasCameraAccess() || !c.gate.HasOverlayAccess() {
		log.Warn("cannot activate, missing capability",
			"camera", c.gate.HasCameraAccess(), "overlay", c.gate.HasOverlayAccess())
		c.status.Publish(StatusWaiting)
		return
	}

	c.cycleID = uuid.NewString()
	c.raiseBrightness()
	c.tracker.Start(c.runCtx)
	if err := c.overlay.Show(); err != nil {
		log.Error("overlay show failed", "cycle", c.cycleID, "err", err)
	}
	c.status.Publish(StatusActive)
	c.setState(Active)
	log.Info("effect activated", "cycle", c.cycleID)
}

// deactivate runs the Idle-entry side effects. With grace, the tracker is
// stopped first and the overlay stays up for the grace interval so a last
// stray position update is not drawn onto a vanishing surface.
func (c *Controller) deactivate(grace bool) {
	c.tracker.Stop()
	if grace && c.config.StopGrace > 0 {
		time.Sleep(c.config.StopGrace)
	}
	if err := c.overlay.Hide(); err != nil {
		log.Error("overlay hide failed", "cycle", c.cycleID, "err", err)
	}
	c.restoreBrightness()
	c.status.Publish(StatusWaiting)
	log.Info("effect deactivated", "cycle", c.cycleID)
	c.cycleID = ""
	c.setState(Idle)
}

// shutdown forces the Idle-entry side effects synchronously from any
// state and clears timers. Late frame callbacks are discarded by the
// tracker itself.
func (c *Controller) shutdown() {
	c.cancelTimer()
	if c.state != Idle {
		c.deactivate(false)
	}
	log.Info("activation controller stopped")
}

// armTimer starts a fresh deactivation timer generation.
func (c *Controller) armTimer() {
	c.cancelTimer()
	c.timerGen++
	gen := c.timerGen
	c.timer = time.AfterFunc(c.config.DeactivationDelay, func() {
		c.events <- timerFired{gen: gen}
	})
}

// cancelTimer stops any pending timer and invalidates its generation so a
// concurrent fire is ignored by the event loop.
func (c *Controller) cancelTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

// raiseBrightness captures the snapshot and pushes brightness to maximum.
// Any failure is skipped: activation proceeds without brightness control.
func (c *Controller) raiseBrightness() {
	if !c.gate.HasBrightnessWriteAccess() {
		return
	}

	current, err := c.brightness.Read()
	if err != nil {
		log.Warn("brightness read failed, skipping", "err", err)
		return
	}
	max, err := c.brightness.Max()
	if err != nil {
		log.Warn("brightness max query failed, skipping", "err", err)
		return
	}
	if err := c.brightness.Write(max); err != nil {
		log.Warn("brightness write denied, skipping", "err", err)
		return
	}
	c.snapshot = &current
}

// restoreBrightness restores the captured snapshot exactly once.
func (c *Controller) restoreBrightness() {
	if c.snapshot == nil {
		return
	}
	if err := c.brightness.Write(*c.snapshot); err != nil {
		log.Warn("brightness restore failed", "err", err)
	}
	// Cleared regardless so a later cycle cannot double-restore.
	c.snapshot = nil
}

// setState transitions the machine and refreshes the published mirror.
func (c *Controller) setState(s State) {
	c.state = s
	c.mu.Lock()
	c.pub = Snapshot{State: s.String(), CycleID: c.cycleID, Since: time.Now()}
	c.mu.Unlock()
}
