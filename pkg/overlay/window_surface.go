package overlay

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"

	"github.com/uzumaki-ak/LumaFront/internal/log"
)

// WindowSurface presents frames through a borderless, click-through
// ebiten window spanning the screen. Ebiten's game loop must own the
// main goroutine, so the window runs for the process lifetime and
// Attach/Detach toggle whether the loop paints the buffered frame or
// clears to transparent.
type WindowSurface struct {
	width  int
	height int

	mu     sync.RWMutex
	buffer []byte
	dirty  bool

	attached atomic.Bool
	closing  atomic.Bool
	texture  *ebiten.Image
	done     chan struct{}
}

func NewWindowSurface(width, height int) *WindowSurface {
	return &WindowSurface{
		width:  width,
		height: height,
		buffer: make([]byte, width*height*4),
		done:   make(chan struct{}),
	}
}

// Run starts the ebiten loop. Call from the main goroutine; it blocks
// until the window closes or the process exits.
func (w *WindowSurface) Run() error {
	defer close(w.done)
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle("lumafront")
	ebiten.SetWindowDecorated(false)
	ebiten.SetWindowFloating(true)
	ebiten.SetWindowMousePassthrough(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetWindowPosition(0, 0)

	opts := &ebiten.RunGameOptions{
		ScreenTransparent: true,
		InitUnfocused:     true,
		SkipTaskbar:       true,
	}
	if err := ebiten.RunGameWithOptions(w, opts); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}

// Done is closed when the window loop has exited.
func (w *WindowSurface) Done() <-chan struct{} { return w.done }

// Close asks the window loop to terminate on its next update.
func (w *WindowSurface) Close() { w.closing.Store(true) }

func (w *WindowSurface) Attach() error {
	w.attached.Store(true)
	return nil
}

func (w *WindowSurface) Detach() error {
	w.attached.Store(false)
	return nil
}

func (w *WindowSurface) Size() (int, int) { return w.width, w.height }

// Present buffers the frame for the next Draw. Frames of a different
// size are scaled onto the window.
func (w *WindowSurface) Present(frame *image.RGBA) error {
	b := frame.Bounds()
	w.mu.Lock()
	defer w.mu.Unlock()
	if b.Dx() == w.width && b.Dy() == w.height && frame.Stride == 4*w.width {
		copy(w.buffer, frame.Pix)
	} else {
		dst := &image.RGBA{Pix: w.buffer, Stride: 4 * w.width, Rect: image.Rect(0, 0, w.width, w.height)}
		xdraw.ApproxBiLinear.Scale(dst, dst.Rect, frame, b, xdraw.Src, nil)
	}
	w.dirty = true
	return nil
}

func (w *WindowSurface) Update() error {
	if w.closing.Load() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	return nil
}

func (w *WindowSurface) Draw(screen *ebiten.Image) {
	if !w.attached.Load() {
		screen.Clear()
		return
	}
	if w.texture == nil {
		w.texture = ebiten.NewImage(w.width, w.height)
	}
	w.mu.Lock()
	if w.dirty {
		w.texture.WritePixels(w.buffer)
		w.dirty = false
	}
	w.mu.Unlock()
	screen.Clear()
	screen.DrawImage(w.texture, nil)
}

func (w *WindowSurface) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != w.width || outsideHeight != w.height {
		log.Debug("overlay window layout differs from screen size",
			"want_w", w.width, "want_h", w.height, "got_w", outsideWidth, "got_h", outsideHeight)
	}
	return w.width, w.height
}
