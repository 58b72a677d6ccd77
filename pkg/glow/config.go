// Package glow renders the two-layer ambient light effect: a radial edge
// glow clipped to a rounded viewport, dimmed in the middle by a translucent
// near-black fill so the edges read as bright.
package glow

// Color is an 8-bit RGBA color.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// Mode selects how the edge ramp colors are sourced.
type Mode int

const (
	// Solid uses a single flat color across the ramp.
	Solid Mode = iota
	// Gradient evaluates an ordered color sequence along the ramp.
	Gradient
)

// Config describes the glow appearance for one render pass.
// It is treated as immutable once handed to Render.
type Config struct {
	Mode Mode `json:"mode"`

	// Color is the flat edge color (Mode == Solid).
	Color Color `json:"color"`

	// Colors is the ordered gradient sequence (Mode == Gradient, length >= 2).
	Colors []Color `json:"colors,omitempty"`

	// EdgeWidth is the inset of the center-dim layer in pixels.
	EdgeWidth int `json:"edge_width"`

	// CornerRadius is the rounded-rectangle corner radius in pixels.
	CornerRadius int `json:"corner_radius"`
}

// DefaultConfig returns a warm amber glow with moderate edge width.
func DefaultConfig() Config {
	return Config{
		Mode:         Solid,
		Color:        Color{R: 255, G: 179, B: 71, A: 255},
		EdgeWidth:    48,
		CornerRadius: 32,
	}
}

// Validate checks the config values.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Mode != Solid && c.Mode != Gradient {
		errors = append(errors, "mode must be solid or gradient")
	}
	if c.Mode == Gradient && len(c.Colors) < 2 {
		errors = append(errors, "gradient requires at least 2 colors")
	}
	if c.EdgeWidth < 0 {
		errors = append(errors, "edge_width must not be negative")
	}
	if c.CornerRadius < 0 {
		errors = append(errors, "corner_radius must not be negative")
	}

	return errors
}

// ColorAt evaluates the config's color ramp at position t in [0,1].
// Solid configs return the flat color at every position; gradient configs
// interpolate linearly between evenly spaced stops.
func (c *Config) ColorAt(t float64) Color {
	if c.Mode == Solid || len(c.Colors) == 0 {
		return c.Color
	}
	if len(c.Colors) == 1 {
		return c.Colors[0]
	}

	if t <= 0 {
		return c.Colors[0]
	}
	if t >= 1 {
		return c.Colors[len(c.Colors)-1]
	}

	// Position within the stop sequence
	scaled := t * float64(len(c.Colors)-1)
	idx := int(scaled)
	frac := scaled - float64(idx)

	a := c.Colors[idx]
	b := c.Colors[idx+1]
	return Color{
		R: lerp8(a.R, b.R, frac),
		G: lerp8(a.G, b.G, frac),
		B: lerp8(a.B, b.B, frac),
		A: lerp8(a.A, b.A, frac),
	}
}

// lerp8 linearly interpolates between two 8-bit channel values.
func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}
