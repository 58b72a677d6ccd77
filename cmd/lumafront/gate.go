package main

import (
	"errors"
	"syscall"

	"github.com/uzumaki-ak/LumaFront/pkg/brightness"
)

// platformGate probes the capabilities the activation controller needs.
// Probes run per activation attempt so permission changes (udev rules,
// group membership) are picked up without a restart.
type platformGate struct {
	device    string
	backlight *brightness.Backlight
}

// HasCameraAccess reports whether the camera device node is reachable.
// A busy device still counts: exclusive use by another process is the
// normal condition while the effect is active.
func (g *platformGate) HasCameraAccess() bool {
	if g.device == "" {
		return false
	}
	fd, err := syscall.Open(g.device, syscall.O_RDWR|syscall.O_NONBLOCK, 0)
	if err == nil {
		syscall.Close(fd)
		return true
	}
	return errors.Is(err, syscall.EBUSY)
}

// HasOverlayAccess is always true: both surface kinds are in-process and
// attach failures are handled by the renderer.
func (g *platformGate) HasOverlayAccess() bool {
	return true
}

func (g *platformGate) HasBrightnessWriteAccess() bool {
	return g.backlight != nil && g.backlight.Writable()
}
