package overlay

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"

	"github.com/uzumaki-ak/LumaFront/internal/log"
	"github.com/uzumaki-ak/LumaFront/pkg/glow"
)

type cmdKind int

const (
	cmdShow cmdKind = iota
	cmdHide
	cmdSetConfig
	cmdUpdatePosition
	cmdQueryPosition
)

type posReply struct {
	face    image.Rectangle
	present bool
}

type command struct {
	kind    cmdKind
	cfg     glow.Config
	face    image.Rectangle
	present bool
	reply   chan error
	pos     chan posReply
}

// Renderer composites and presents the glow effect. All drawing state is
// owned by the Run goroutine; the public methods marshal onto it. Show
// and Hide are idempotent, and attach/detach failures still move the
// visibility flag to the attempted target so a later toggle is not
// retried forever against an already-detached surface.
type Renderer struct {
	surface Surface
	cmds    chan command
	done    chan struct{}

	// Run-goroutine state.
	cfg         glow.Config
	frame       *image.RGBA
	face        image.Rectangle
	facePresent bool
	shown       bool

	visible atomic.Bool // mirror of shown for dashboards
}

// New creates a renderer over the given surface with an initial config.
// Call Run in a goroutine before using the other methods.
func New(surface Surface, cfg glow.Config) *Renderer {
	return &Renderer{
		surface: surface,
		cfg:     cfg,
		cmds:    make(chan command),
		done:    make(chan struct{}),
	}
}

// Run owns the drawing state until the context is cancelled. Call once.
func (r *Renderer) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			if r.shown {
				if err := r.surface.Detach(); err != nil {
					log.Error("surface detach on shutdown failed", "err", err)
				}
			}
			return
		case c := <-r.cmds:
			err := r.handle(c)
			if c.reply != nil {
				c.reply <- err
			}
		}
	}
}

// Show attaches the surface and presents the current frame. A no-op when
// already shown.
func (r *Renderer) Show() error {
	return r.send(command{kind: cmdShow, reply: make(chan error, 1)})
}

// Hide detaches the surface. A no-op when already hidden.
func (r *Renderer) Hide() error {
	return r.send(command{kind: cmdHide, reply: make(chan error, 1)})
}

// SetConfig replaces the glow configuration and re-renders if visible.
func (r *Renderer) SetConfig(cfg glow.Config) {
	r.send(command{kind: cmdSetConfig, cfg: cfg})
}

// UpdatePosition stores the latest face estimate and schedules a redraw.
// It does not decide visibility. The glow is currently a full-frame
// ambient effect; the rectangle is retained for a face-centered variant.
func (r *Renderer) UpdatePosition(face image.Rectangle, present bool) {
	r.send(command{kind: cmdUpdatePosition, face: face, present: present})
}

// Visible reports whether the renderer currently considers the surface
// attached. Safe from any goroutine.
func (r *Renderer) Visible() bool {
	return r.visible.Load()
}

// FacePosition returns the last stored face estimate for dashboards.
// Zero values once the run loop has exited.
func (r *Renderer) FacePosition() (image.Rectangle, bool) {
	c := command{kind: cmdQueryPosition, pos: make(chan posReply, 1)}
	select {
	case r.cmds <- c:
	case <-r.done:
		return image.Rectangle{}, false
	}
	select {
	case p := <-c.pos:
		return p.face, p.present
	case <-r.done:
		return image.Rectangle{}, false
	}
}

func (r *Renderer) send(c command) error {
	select {
	case r.cmds <- c:
	case <-r.done:
		return nil
	}
	if c.reply != nil {
		select {
		case err := <-c.reply:
			return err
		case <-r.done:
		}
	}
	return nil
}

// handle processes one command on the Run goroutine.
func (r *Renderer) handle(c command) error {
	switch c.kind {
	case cmdShow:
		if r.shown {
			return nil
		}
		err := r.surface.Attach()
		r.setShown(true)
		if err != nil {
			log.Error("overlay attach failed, visibility flag advanced anyway", "err", err)
			return fmt.Errorf("%w: %v", ErrAttachFailed, err)
		}
		r.redraw()
		return nil

	case cmdHide:
		if !r.shown {
			return nil
		}
		err := r.surface.Detach()
		r.setShown(false)
		if err != nil {
			log.Error("overlay detach failed, visibility flag advanced anyway", "err", err)
			return fmt.Errorf("%w: %v", ErrDetachFailed, err)
		}
		return nil

	case cmdSetConfig:
		r.cfg = c.cfg
		r.frame = nil // force recompose
		if r.shown {
			r.redraw()
		}
		return nil

	case cmdQueryPosition:
		c.pos <- posReply{face: r.face, present: r.facePresent}
		return nil

	case cmdUpdatePosition:
		r.face = c.face
		r.facePresent = c.present
		if r.shown {
			// The composited frame does not depend on position yet, so a
			// redraw is a cheap re-present of the cached frame.
			r.redraw()
		}
		return nil
	}
	return nil
}

// redraw recomposites if needed and presents.
func (r *Renderer) redraw() {
	w, h := r.surface.Size()
	if r.frame == nil || r.frame.Bounds().Dx() != w || r.frame.Bounds().Dy() != h {
		r.frame = glow.Render(w, h, r.cfg)
	}
	if err := r.surface.Present(r.frame); err != nil {
		log.Error("surface present failed", "err", err)
	}
}

func (r *Renderer) setShown(v bool) {
	r.shown = v
	r.visible.Store(v)
}
