package activation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/uzumaki-ak/LumaFront/pkg/camera"
)

// recorder captures the side-effect ordering across the fake ports.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) count(e string) int {
	n := 0
	for _, got := range r.all() {
		if got == e {
			n++
		}
	}
	return n
}

type fakeGate struct{ cam, ov, br bool }

func (g *fakeGate) HasCameraAccess() bool          { return g.cam }
func (g *fakeGate) HasOverlayAccess() bool         { return g.ov }
func (g *fakeGate) HasBrightnessWriteAccess() bool { return g.br }

type fakeSink struct{ rec *recorder }

func (s *fakeSink) Publish(status string) { s.rec.add("status:" + status) }

type fakeBrightness struct {
	rec      *recorder
	level    int
	max      int
	writeErr error

	mu     sync.Mutex
	writes []int
}

func (b *fakeBrightness) Read() (int, error) { return b.level, nil }
func (b *fakeBrightness) Max() (int, error)  { return b.max, nil }
func (b *fakeBrightness) Write(v int) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.mu.Lock()
	b.writes = append(b.writes, v)
	b.mu.Unlock()
	b.rec.add("brightness.write")
	return nil
}

func (b *fakeBrightness) written() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]int, len(b.writes))
	copy(out, b.writes)
	return out
}

type fakeTracker struct{ rec *recorder }

func (tr *fakeTracker) Start(context.Context) { tr.rec.add("tracker.start") }
func (tr *fakeTracker) Stop()                 { tr.rec.add("tracker.stop") }

type fakeOverlay struct {
	rec     *recorder
	showErr error
	hideErr error
}

func (o *fakeOverlay) Show() error {
	o.rec.add("overlay.show")
	return o.showErr
}

func (o *fakeOverlay) Hide() error {
	o.rec.add("overlay.hide")
	return o.hideErr
}

type harness struct {
	ctrl       *Controller
	rec        *recorder
	gate       *fakeGate
	brightness *fakeBrightness
	overlay    *fakeOverlay
	signals    chan camera.Signal
	cancel     context.CancelFunc
	done       chan struct{}
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	rec := &recorder{}
	h := &harness{
		rec:        rec,
		gate:       &fakeGate{cam: true, ov: true, br: true},
		brightness: &fakeBrightness{rec: rec, level: 40, max: 100},
		overlay:    &fakeOverlay{rec: rec},
		signals:    make(chan camera.Signal, 16),
	}
	h.ctrl = New(cfg, h.gate, &fakeSink{rec: rec}, h.brightness, &fakeTracker{rec: rec}, h.overlay)

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.done = make(chan struct{})
	go func() {
		h.ctrl.Run(ctx, h.signals)
		close(h.done)
	}()
	t.Cleanup(func() {
		cancel()
		<-h.done
	})
	return h
}

func (h *harness) send(state camera.Availability) {
	h.signals <- camera.Signal{State: state, At: time.Now()}
}

func (h *harness) waitState(t *testing.T, want string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ctrl.Snapshot().State == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("state: got %s, want %s", h.ctrl.Snapshot().State, want)
}

func shortConfig() Config {
	return Config{
		DeactivationDelay: 60 * time.Millisecond,
		StopGrace:         5 * time.Millisecond,
	}
}

func TestController_ActivatesOnAvailable(t *testing.T) {
	h := newHarness(t, shortConfig())

	h.send(camera.Available)
	h.waitState(t, "active")

	events := h.rec.all()
	want := []string{"brightness.write", "tracker.start", "overlay.show", "status:" + StatusActive}
	if len(events) != len(want) {
		t.Fatalf("events: got %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, events[i], want[i])
		}
	}

	if got := h.brightness.written(); len(got) != 1 || got[0] != 100 {
		t.Errorf("brightness writes: got %v, want [100]", got)
	}
	if h.ctrl.Snapshot().CycleID == "" {
		t.Error("active snapshot should carry a cycle ID")
	}
}

func TestController_FlapWithinWindowStaysActive(t *testing.T) {
	h := newHarness(t, shortConfig())

	h.send(camera.Available)
	h.waitState(t, "active")
	h.send(camera.Unavailable)
	h.waitState(t, "pending_deactivation")
	h.send(camera.Available)
	h.waitState(t, "active")

	// Wait out the original deactivation window: the cancelled timer must
	// not fire any side effects.
	time.Sleep(100 * time.Millisecond)

	if h.ctrl.Snapshot().State != "active" {
		t.Fatalf("state after flap: got %s, want active", h.ctrl.Snapshot().State)
	}
	if n := h.rec.count("overlay.hide"); n != 0 {
		t.Errorf("overlay hides during flap: got %d, want 0", n)
	}
	if n := h.rec.count("tracker.stop"); n != 0 {
		t.Errorf("tracker stops during flap: got %d, want 0", n)
	}
	if got := h.brightness.written(); len(got) != 1 {
		t.Errorf("brightness writes: got %v, want only the max write", got)
	}
}

func TestController_DeactivatesAfterDelay(t *testing.T) {
	h := newHarness(t, shortConfig())

	h.send(camera.Available)
	h.waitState(t, "active")
	h.send(camera.Unavailable)
	h.waitState(t, "idle")

	// Tracker stop must precede overlay hide, with the restore after.
	events := h.rec.all()
	idx := map[string]int{}
	for i, e := range events {
		if _, seen := idx[e]; !seen {
			idx[e] = i
		}
	}
	if idx["tracker.stop"] > idx["overlay.hide"] {
		t.Errorf("tracker.stop must precede overlay.hide: %v", events)
	}

	if got := h.brightness.written(); len(got) != 2 || got[1] != 40 {
		t.Errorf("brightness writes: got %v, want [100 40]", got)
	}
	if n := h.rec.count("status:" + StatusWaiting); n != 1 {
		t.Errorf("waiting statuses: got %d, want 1", n)
	}
}

func TestController_RestoreHappensExactlyOncePerCycle(t *testing.T) {
	h := newHarness(t, shortConfig())

	for cycle := 0; cycle < 2; cycle++ {
		h.send(camera.Available)
		h.waitState(t, "active")
		h.send(camera.Unavailable)
		h.waitState(t, "idle")
	}

	// Two cycles: [max, restore, max, restore]
	if got := h.brightness.written(); len(got) != 4 || got[1] != 40 || got[3] != 40 {
		t.Errorf("brightness writes: got %v, want [100 40 100 40]", got)
	}
}

func TestController_EndToEndFlapScenario(t *testing.T) {
	cfg := Config{DeactivationDelay: 100 * time.Millisecond, StopGrace: 2 * time.Millisecond}
	h := newHarness(t, cfg)

	// Scaled version of the flap scenario: available, released, re-taken,
	// released again, then silence.
	h.send(camera.Available)
	time.Sleep(25 * time.Millisecond)
	h.send(camera.Unavailable)
	time.Sleep(25 * time.Millisecond)
	h.send(camera.Available)
	time.Sleep(25 * time.Millisecond)
	h.send(camera.Unavailable)

	// Inside the final debounce window.
	time.Sleep(50 * time.Millisecond)
	if got := h.ctrl.Snapshot().State; got != "pending_deactivation" {
		t.Errorf("mid-window state: got %s, want pending_deactivation", got)
	}
	if n := h.rec.count("overlay.show"); n != 1 {
		t.Errorf("overlay shows: got %d, want 1", n)
	}
	if n := h.rec.count("overlay.hide"); n != 0 {
		t.Errorf("overlay hides before window elapses: got %d, want 0", n)
	}

	h.waitState(t, "idle")
	if n := h.rec.count("overlay.hide"); n != 1 {
		t.Errorf("overlay hides: got %d, want 1", n)
	}
	if n := h.rec.count("tracker.stop"); n != 1 {
		t.Errorf("tracker stops: got %d, want 1", n)
	}
}

func TestController_ForcedShutdownFromActive(t *testing.T) {
	h := newHarness(t, shortConfig())

	h.send(camera.Available)
	h.waitState(t, "active")

	h.cancel()
	<-h.done

	if n := h.rec.count("tracker.stop"); n != 1 {
		t.Errorf("tracker stops: got %d, want 1", n)
	}
	if n := h.rec.count("overlay.hide"); n != 1 {
		t.Errorf("overlay hides: got %d, want 1", n)
	}
	if got := h.brightness.written(); len(got) != 2 || got[1] != 40 {
		t.Errorf("brightness writes: got %v, want [100 40]", got)
	}
	if got := h.ctrl.Snapshot().State; got != "idle" {
		t.Errorf("state after shutdown: got %s, want idle", got)
	}
}

func TestController_ForcedShutdownClearsPendingTimer(t *testing.T) {
	h := newHarness(t, shortConfig())

	h.send(camera.Available)
	h.waitState(t, "active")
	h.send(camera.Unavailable)
	h.waitState(t, "pending_deactivation")

	h.cancel()
	<-h.done

	// Let the original window elapse; nothing further may run.
	hides := h.rec.count("overlay.hide")
	time.Sleep(100 * time.Millisecond)
	if n := h.rec.count("overlay.hide"); n != hides {
		t.Errorf("stale timer ran side effects after shutdown: %d -> %d", hides, n)
	}
	if n := h.rec.count("tracker.stop"); n != 1 {
		t.Errorf("tracker stops: got %d, want 1", n)
	}
}

func TestController_MissingCapabilityBlocksActivation(t *testing.T) {
	h := newHarness(t, shortConfig())
	h.gate.ov = false

	h.send(camera.Available)

	// The controller publishes waiting and stays idle.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.rec.count("status:"+StatusWaiting) > 0 {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}
	if got := h.ctrl.Snapshot().State; got != "idle" {
		t.Errorf("state: got %s, want idle", got)
	}
	if n := h.rec.count("tracker.start"); n != 0 {
		t.Errorf("tracker starts: got %d, want 0", n)
	}
}

func TestController_BrightnessDeniedStillActivates(t *testing.T) {
	h := newHarness(t, shortConfig())
	h.brightness.writeErr = errors.New("write settings denied")

	h.send(camera.Available)
	h.waitState(t, "active")

	h.send(camera.Unavailable)
	h.waitState(t, "idle")

	// No snapshot was captured, so nothing is restored.
	if got := h.brightness.written(); len(got) != 0 {
		t.Errorf("brightness writes: got %v, want none", got)
	}
}

func TestController_NoBrightnessCapabilitySkipsSideEffect(t *testing.T) {
	h := newHarness(t, shortConfig())
	h.gate.br = false

	h.send(camera.Available)
	h.waitState(t, "active")

	if got := h.brightness.written(); len(got) != 0 {
		t.Errorf("brightness writes: got %v, want none", got)
	}
}

func TestController_OverlayShowFailureIsNonFatal(t *testing.T) {
	h := newHarness(t, shortConfig())
	h.overlay.showErr = errors.New("surface already attached")

	h.send(camera.Available)
	h.waitState(t, "active")

	if n := h.rec.count("status:" + StatusActive); n != 1 {
		t.Errorf("active statuses: got %d, want 1", n)
	}
}

func TestController_NeverActiveWithoutAvailable(t *testing.T) {
	h := newHarness(t, shortConfig())

	h.send(camera.Unavailable)
	h.send(camera.Unavailable)
	time.Sleep(30 * time.Millisecond)

	if got := h.ctrl.Snapshot().State; got != "idle" {
		t.Errorf("state: got %s, want idle", got)
	}
	if n := h.rec.count("tracker.start"); n != 0 {
		t.Errorf("tracker starts: got %d, want 0", n)
	}
}
