package camera

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeNotifier records registration and lets tests fire raw callbacks.
type fakeNotifier struct {
	device      string
	fn          func(inUse bool)
	registered  bool
	unregisters int
	registerErr error
}

func (f *fakeNotifier) Register(device string, fn func(inUse bool)) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	f.device = device
	f.fn = fn
	f.registered = true
	return nil
}

func (f *fakeNotifier) Unregister() {
	f.unregisters++
}

func newTestMonitor(n *fakeNotifier) *Monitor {
	m := NewMonitor(n)
	m.discover = func() (string, error) { return "/dev/video0", nil }
	return m
}

func drain(m *Monitor) []Signal {
	var out []Signal
	for {
		select {
		case s := <-m.Signals():
			out = append(out, s)
		default:
			return out
		}
	}
}

func TestMonitor_DeduplicatesRedundantCallbacks(t *testing.T) {
	n := &fakeNotifier{}
	m := newTestMonitor(n)
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// The platform fires redundantly; only actual transitions may surface.
	n.fn(true)
	n.fn(true)
	n.fn(true)
	n.fn(false)
	n.fn(false)
	n.fn(true)

	got := drain(m)
	want := []Availability{Available, Unavailable, Available}
	if len(got) != len(want) {
		t.Fatalf("signal count: got %d, want %d", len(got), len(want))
	}
	for i, s := range got {
		if s.State != want[i] {
			t.Errorf("signal %d: got %v, want %v", i, s.State, want[i])
		}
	}
}

func TestMonitor_SignalsAreTimestamped(t *testing.T) {
	n := &fakeNotifier{}
	m := newTestMonitor(n)
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	before := time.Now()
	n.fn(true)
	sigs := drain(m)
	if len(sigs) != 1 {
		t.Fatalf("expected 1 signal, got %d", len(sigs))
	}
	if sigs[0].At.Before(before) {
		t.Errorf("timestamp %v predates emission", sigs[0].At)
	}
}

func TestMonitor_NoFrontCameraBecomesInert(t *testing.T) {
	n := &fakeNotifier{}
	m := NewMonitor(n)
	m.discover = func() (string, error) { return "", ErrDeviceNotFound }

	err := m.Start()
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("Start: got %v, want ErrDeviceNotFound", err)
	}
	if n.registered {
		t.Error("notifier should not be registered without a device")
	}

	// Stop on an inert monitor must be a no-op, repeatedly.
	m.Stop()
	m.Stop()
	if n.unregisters != 0 {
		t.Errorf("unregisters: got %d, want 0", n.unregisters)
	}
}

func TestMonitor_StopUnregistersOnce(t *testing.T) {
	n := &fakeNotifier{}
	m := newTestMonitor(n)
	if err := m.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	m.Stop()
	m.Stop()
	if n.unregisters != 1 {
		t.Errorf("unregisters: got %d, want 1", n.unregisters)
	}
}

func TestMonitor_StartTwice(t *testing.T) {
	n := &fakeNotifier{}
	m := newTestMonitor(n)
	if err := m.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := m.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start: got %v, want ErrAlreadyStarted", err)
	}
}

func TestDiscoverFront_PicksFirstFrontByDeviceOrder(t *testing.T) {
	dir := t.TempDir()
	writeCamera(t, dir, "video2", "Front Camera: IR\n")
	writeCamera(t, dir, "video0", "Rear HD Camera\n")
	writeCamera(t, dir, "video10", "Integrated Front Camera\n")

	dev, err := discoverFront(dir)
	if err != nil {
		t.Fatalf("discoverFront: %v", err)
	}
	// video2 precedes video10 numerically even though "video10" sorts
	// first lexically.
	if dev != "/dev/video2" {
		t.Errorf("device: got %s, want /dev/video2", dev)
	}
}

func TestDiscoverFront_NoFrontCamera(t *testing.T) {
	dir := t.TempDir()
	writeCamera(t, dir, "video0", "Rear HD Camera\n")

	_, err := discoverFront(dir)
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("got %v, want ErrDeviceNotFound", err)
	}
}

func TestDiscoverFront_EmptyClassDir(t *testing.T) {
	_, err := discoverFront(filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("got %v, want ErrDeviceNotFound", err)
	}
}

func writeCamera(t *testing.T, classDir, device, name string) {
	t.Helper()
	dir := filepath.Join(classDir, device)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "name"), []byte(name), 0o644); err != nil {
		t.Fatal(err)
	}
}
