package overlay

import (
	"bytes"
	"image"
	"image/png"
	"sync"
	"sync/atomic"

	"github.com/uzumaki-ak/LumaFront/pkg/hub"
)

// StreamSurface publishes frames as PNG to dashboard websocket clients
// instead of drawing on screen. Used headless and on the preview pane.
type StreamSurface struct {
	width  int
	height int
	hub    *hub.Hub

	attached atomic.Bool

	mu  sync.Mutex
	buf bytes.Buffer
}

func NewStreamSurface(width, height int, h *hub.Hub) *StreamSurface {
	return &StreamSurface{width: width, height: height, hub: h}
}

func (s *StreamSurface) Attach() error {
	s.attached.Store(true)
	return nil
}

// Detach stops publishing and pushes one transparent frame so viewers
// do not keep showing the last glow.
func (s *StreamSurface) Detach() error {
	s.attached.Store(false)
	return s.encodeAndSend(image.NewRGBA(image.Rect(0, 0, 1, 1)))
}

func (s *StreamSurface) Size() (int, int) { return s.width, s.height }

func (s *StreamSurface) Present(frame *image.RGBA) error {
	if !s.attached.Load() {
		return nil
	}
	return s.encodeAndSend(frame)
}

func (s *StreamSurface) encodeAndSend(frame *image.RGBA) error {
	if s.hub == nil || s.hub.ClientCount() == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Reset()
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&s.buf, frame); err != nil {
		return err
	}
	data := make([]byte, s.buf.Len())
	copy(data, s.buf.Bytes())
	s.hub.BroadcastBinary(data)
	return nil
}
