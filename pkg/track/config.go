package track

import "time"

// Config holds tunable parameters for face tracking.
type Config struct {
	// Target screen dimensions in pixels.
	ScreenWidth  int
	ScreenHeight int

	// Fallback rectangle tuning. The constants are presentation choices;
	// the contract is that the rectangle is non-degenerate and fully
	// inside the screen bounds.
	FallbackHeightPct int // Face height as percent of screen height
	FallbackAspectPct int // Face width as percent of the fallback height

	// FallbackRate is the emission interval when the capture session
	// could not be acquired at all.
	FallbackRate time.Duration
}

// DefaultConfig returns the recommended configuration for a screen of the
// given size.
func DefaultConfig(screenWidth, screenHeight int) Config {
	return Config{
		ScreenWidth:       screenWidth,
		ScreenHeight:      screenHeight,
		FallbackHeightPct: 32, // roughly a third of the screen
		FallbackAspectPct: 72, // portrait face aspect
		FallbackRate:      100 * time.Millisecond,
	}
}

// FallbackBox returns the static face estimate for the configured screen:
// horizontally centered, biased to the upper quarter. The result is always
// non-degenerate and contained in the screen bounds for any screen of at
// least 1x1.
func FallbackBox(cfg Config) Box {
	h := cfg.ScreenHeight * cfg.FallbackHeightPct / 100
	if h < 1 {
		h = 1
	}
	if h > cfg.ScreenHeight {
		h = cfg.ScreenHeight
	}

	w := h * cfg.FallbackAspectPct / 100
	if w < 1 {
		w = 1
	}
	if w > cfg.ScreenWidth {
		w = cfg.ScreenWidth
	}

	left := (cfg.ScreenWidth - w) / 2
	top := cfg.ScreenHeight/4 - h/2
	if top < 0 {
		top = 0
	}
	if top+h > cfg.ScreenHeight {
		top = cfg.ScreenHeight - h
	}

	return Box{Left: left, Top: top, Right: left + w, Bottom: top + h}
}
