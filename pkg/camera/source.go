package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/uzumaki-ak/LumaFront/internal/log"
	"github.com/uzumaki-ak/LumaFront/pkg/detect"
)

// Frame is one frame's worth of detection results in frame-pixel space.
type Frame struct {
	Faces  []detect.Face
	Width  int
	Height int
}

// Source acquires a capture session on the front camera and runs face
// detection once per frame on a dedicated goroutine. Exactly one frame is
// in flight at a time: the next frame is read only after the previous
// detection completes, so backlogged frames are dropped by the capture
// ring buffer rather than queued.
type Source struct {
	device   string
	detector detect.Detector

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewSource creates a frame source for the given device node.
func NewSource(device string, detector detect.Detector) *Source {
	return &Source{device: device, detector: detector}
}

// Start acquires the capture session and begins delivering frames to the
// callback. Returns ErrCameraUnavailable (wrapped) if the session cannot
// be acquired. The callback runs on the source's single capture goroutine.
func (s *Source) Start(ctx context.Context, onFrame func(Frame)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyStarted
	}

	cap, err := gocv.OpenVideoCapture(s.device)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrCameraUnavailable, s.device, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.running = true

	go s.captureLoop(runCtx, cap, onFrame, done)
	return nil
}

// Stop tears down the capture session and waits for the capture goroutine
// to exit. Safe to call when not running.
func (s *Source) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	<-done
}

// captureLoop reads and detects one frame at a time until cancelled.
func (s *Source) captureLoop(ctx context.Context, cap *gocv.VideoCapture, onFrame func(Frame), done chan struct{}) {
	defer close(done)
	defer cap.Close()

	mat := gocv.NewMat()
	defer mat.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ok := cap.Read(&mat); !ok || mat.Empty() {
			time.Sleep(50 * time.Millisecond)
			continue
		}

		width := mat.Cols()
		height := mat.Rows()
		raw := mat.ToBytes()

		faces, err := s.detector.Detect(raw, width, height)
		if err != nil {
			// Single-frame inference failure: drop this frame's result
			// and resume on the next frame.
			log.Debug("frame detection failed", "err", err)
			continue
		}

		select {
		case <-ctx.Done():
			// Results arriving after shutdown are discarded
			return
		default:
		}

		onFrame(Frame{Faces: faces, Width: width, Height: height})
	}
}
