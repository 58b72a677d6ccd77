// Package track converts noisy per-frame face detections into a stable
// screen-space position via largest-face selection, coordinate mapping,
// rolling-window smoothing, and a static fallback estimate.
package track

import "image"

// Box is a face bounding box in screen-pixel space.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the box width in pixels.
func (b Box) Width() int {
	return b.Right - b.Left
}

// Height returns the box height in pixels.
func (b Box) Height() int {
	return b.Bottom - b.Top
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

// Estimate is one per-frame tracker emission: either a screen-space
// rectangle (a real detection or the static fallback) or "no face".
type Estimate struct {
	Box     Box  `json:"box"`
	Present bool `json:"present"`
}
