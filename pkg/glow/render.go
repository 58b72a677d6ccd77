package glow

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Center-dim layer appearance. The dim fill is deliberately flat, not
// feathered: the contrast against the ramped edges is what makes the
// glow read as bright.
const (
	dimAlpha = 176 // partial opacity, never fully opaque
	dimGray  = 10  // near-black
)

// Render composites the two glow layers into an RGBA image of the given
// size. It is a pure function of its arguments and safe to call from any
// goroutine.
//
// Layer 1 (edge glow): radial color ramp centered on the viewport, radius
// max(w,h)/1.5, alpha ramping from fully transparent at the center through
// half opacity at 50% to fully opaque at the rim, clipped to a rounded
// rectangle covering the viewport.
//
// Layer 2 (center dim): a solid near-black rounded rectangle inset from all
// four edges by cfg.EdgeWidth, drawn on top at fixed partial alpha.
func Render(width, height int, cfg Config) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}

	radius := math.Max(float64(width), float64(height)) / 1.5
	cx := float64(width) / 2
	cy := float64(height) / 2
	clip := roundedRect{rect: img.Bounds(), radius: cfg.CornerRadius}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !clip.contains(x, y) {
				continue
			}

			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			t := math.Sqrt(dx*dx+dy*dy) / radius
			if t > 1 {
				t = 1
			}

			c := cfg.ColorAt(t)
			// Ramp stops: 0% transparent, 50% half opacity, 100% opaque.
			// Linear between stops, scaled by the color's own alpha.
			a := uint8(t * float64(c.A))
			img.SetRGBA(x, y, color.RGBA{
				R: scale8(c.R, a),
				G: scale8(c.G, a),
				B: scale8(c.B, a),
				A: a,
			})
		}
	}

	drawCenterDim(img, cfg)
	return img
}

// drawCenterDim blends the inset dim rectangle over the edge layer.
func drawCenterDim(img *image.RGBA, cfg Config) {
	bounds := img.Bounds()
	inner := image.Rect(
		bounds.Min.X+cfg.EdgeWidth,
		bounds.Min.Y+cfg.EdgeWidth,
		bounds.Max.X-cfg.EdgeWidth,
		bounds.Max.Y-cfg.EdgeWidth,
	)
	if inner.Empty() {
		return
	}

	mask := image.NewAlpha(inner)
	rr := roundedRect{rect: inner, radius: cfg.CornerRadius}
	for y := inner.Min.Y; y < inner.Max.Y; y++ {
		for x := inner.Min.X; x < inner.Max.X; x++ {
			if rr.contains(x, y) {
				mask.SetAlpha(x, y, color.Alpha{A: dimAlpha})
			}
		}
	}

	fill := image.NewUniform(color.RGBA{R: dimGray, G: dimGray, B: dimGray, A: 255})
	draw.DrawMask(img, inner, fill, image.Point{}, mask, inner.Min, draw.Over)
}

// roundedRect tests point containment in a rounded rectangle.
type roundedRect struct {
	rect   image.Rectangle
	radius int
}

func (r roundedRect) contains(x, y int) bool {
	if !image.Pt(x, y).In(r.rect) {
		return false
	}
	rad := r.radius
	if rad <= 0 {
		return true
	}
	// Clamp oversized radii to the half-extent
	if w := r.rect.Dx() / 2; rad > w {
		rad = w
	}
	if h := r.rect.Dy() / 2; rad > h {
		rad = h
	}

	// Distance check only applies inside the corner squares
	left := r.rect.Min.X + rad
	right := r.rect.Max.X - rad
	top := r.rect.Min.Y + rad
	bottom := r.rect.Max.Y - rad
	if x >= left && x < right {
		return true
	}
	if y >= top && y < bottom {
		return true
	}

	var ccx, ccy int
	if x < left {
		ccx = left
	} else {
		ccx = right - 1
	}
	if y < top {
		ccy = top
	} else {
		ccy = bottom - 1
	}
	dx := x - ccx
	dy := y - ccy
	return dx*dx+dy*dy <= rad*rad
}

// scale8 premultiplies an 8-bit channel by an 8-bit alpha.
func scale8(c, a uint8) uint8 {
	return uint8(uint32(c) * uint32(a) / 255)
}
