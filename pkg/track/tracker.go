package track

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/uzumaki-ak/LumaFront/internal/log"
	"github.com/uzumaki-ak/LumaFront/pkg/camera"
	"github.com/uzumaki-ak/LumaFront/pkg/detect"
)

// FrameSource supplies raw per-frame detection results.
type FrameSource interface {
	Start(ctx context.Context, onFrame func(camera.Frame)) error
	Stop()
}

// Tracker consumes raw per-frame detections and emits one screen-space
// Estimate per frame. Lifetime is controlled explicitly: Start begins
// consuming frames, Stop clears the smoothing window and emits "no face"
// once so downstream consumers do not retain a stale position.
type Tracker struct {
	config Config
	source FrameSource

	// OnEstimate receives one emission per frame. Set before Start.
	// It is invoked on the source's frame goroutine.
	OnEstimate func(Estimate)

	mu       sync.Mutex
	window   smoothingWindow
	running  bool
	fallback chan struct{} // non-nil while the fallback ticker runs
	done     chan struct{}
}

// New creates a tracker for the given screen configuration and source.
func New(cfg Config, source FrameSource) *Tracker {
	return &Tracker{config: cfg, source: source}
}

// Start begins frame consumption. If the capture session cannot be
// acquired the tracker degrades to emitting the static fallback estimate
// at the configured rate until Stop; acquisition failure is recovered
// here, not propagated.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	err := t.source.Start(ctx, t.handleFrame)
	if err == nil {
		return
	}

	if errors.Is(err, camera.ErrCameraUnavailable) {
		log.Warn("capture unavailable, emitting static estimate", "err", err)
	} else {
		log.Error("frame source start failed, emitting static estimate", "err", err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	t.mu.Lock()
	t.fallback = stop
	t.done = done
	t.mu.Unlock()

	go t.fallbackLoop(ctx, stop, done)
}

// Stop halts frame consumption, clears the smoothing window, and emits
// "no face" once. In-flight frame callbacks are drained before return.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	fallback := t.fallback
	done := t.done
	t.fallback = nil
	t.done = nil
	t.window.clear()
	t.mu.Unlock()

	if fallback != nil {
		close(fallback)
		<-done
	} else {
		t.source.Stop()
	}

	t.emit(Estimate{Present: false})
}

// handleFrame runs the per-frame pipeline on the source goroutine.
func (t *Tracker) handleFrame(frame camera.Frame) {
	t.mu.Lock()
	if !t.running {
		// Late callback after Stop: discard.
		t.mu.Unlock()
		return
	}

	best := detect.SelectLargest(frame.Faces)
	if best == nil {
		// Missed frame: the fallback covers this emission only, the
		// window keeps its trend.
		t.mu.Unlock()
		t.emit(Estimate{Box: FallbackBox(t.config), Present: true})
		return
	}

	mapped := t.mapToScreen(*best, frame.Width, frame.Height)
	t.window.push(mapped)
	smoothed, _ := t.window.mean()
	t.mu.Unlock()

	t.emit(Estimate{Box: smoothed, Present: true})
}

// mapToScreen scales a frame-space face into screen-pixel space using
// independent horizontal and vertical scale factors.
func (t *Tracker) mapToScreen(f detect.Face, frameW, frameH int) Box {
	if frameW <= 0 || frameH <= 0 {
		return FallbackBox(t.config)
	}
	return Box{
		Left:   f.X * t.config.ScreenWidth / frameW,
		Top:    f.Y * t.config.ScreenHeight / frameH,
		Right:  (f.X + f.W) * t.config.ScreenWidth / frameW,
		Bottom: (f.Y + f.H) * t.config.ScreenHeight / frameH,
	}
}

// fallbackLoop emits the static estimate until stopped.
func (t *Tracker) fallbackLoop(ctx context.Context, stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.config.FallbackRate)
	defer ticker.Stop()

	box := FallbackBox(t.config)
	t.emit(Estimate{Box: box, Present: true})

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.emit(Estimate{Box: box, Present: true})
		}
	}
}

func (t *Tracker) emit(e Estimate) {
	if t.OnEstimate != nil {
		t.OnEstimate(e)
	}
}
