package physics

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an 8-bit RGBA color. It satisfies image/color.Color.
type Color struct {
	R, G, B, A uint8
}

// RGBA returns alpha-premultiplied 16-bit channels.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	r = r * uint32(c.A) / 0xff
	g = uint32(c.G)
	g |= g << 8
	g = g * uint32(c.A) / 0xff
	b = uint32(c.B)
	b |= b << 8
	b = b * uint32(c.A) / 0xff
	a = uint32(c.A)
	a |= a << 8
	return
}

// Hex renders the color as #rrggbbaa.
func (c Color) Hex() string {
	return fmt.Sprintf("%s%02x", c.colorful().Hex(), c.A)
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// Lerp blends from c toward to by t. t is clamped to [0, 1], so the result never
// extrapolates past either endpoint.
func (c Color) Lerp(to Color, t float64) Color {
	if t <= 0 || math.IsNaN(t) {
		return c
	}
	if t >= 1 {
		return to
	}
	r, g, b := c.colorful().BlendRgb(to.colorful(), t).RGB255()
	a := float64(c.A) + t*(float64(to.A)-float64(c.A))
	return Color{R: r, G: g, B: b, A: uint8(math.Round(a))}
}
