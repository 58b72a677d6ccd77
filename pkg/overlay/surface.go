// Package overlay owns the glow effect's presentation: surface lifecycle,
// idempotent show/hide, and marshaling of position and config updates onto
// the single goroutine that touches drawing state.
package overlay

import (
	"errors"
	"image"
)

// Sentinel errors for the overlay package.
var (
	// ErrAttachFailed indicates the surface could not be attached to the
	// compositor. The renderer still flips its visibility flag to the
	// attempted target so toggles stay consistent.
	ErrAttachFailed = errors.New("overlay: surface attach failed")

	// ErrDetachFailed indicates the surface could not be detached.
	ErrDetachFailed = errors.New("overlay: surface detach failed")
)

// Surface is the rendering target owned by the system compositor (or a
// stand-in for it). Present and Attach/Detach are only ever called from
// the renderer's single goroutine.
type Surface interface {
	// Attach makes the surface visible above other content.
	Attach() error

	// Detach removes the surface from the compositor.
	Detach() error

	// Present displays a composited frame.
	Present(img *image.RGBA) error

	// Size returns the viewport dimensions in pixels.
	Size() (width, height int)
}
