package parser

import (
	"fmt"
	"image/color"
	"math/rand"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a KML color after byte-order conversion.
//
// KML writes colors as AABBGGRR (or BBGGRR). ParseColor swaps the bytes so
// the fields hold the conventional alpha, red, green and blue channels.
type Color struct {
	A, R, G, B uint8
}

// ParseColor parses an AABBGGRR or BBGGRR hex string. A leading '#' is ignored.
// Six-digit colors are fully opaque.
func ParseColor(s string) (Color, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return Color{}, &ErrMalformedColor{Input: s}
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, &ErrMalformedColor{Input: s}
	}

	c := Color{
		A: 0xff,
		B: uint8(v >> 16),
		G: uint8(v >> 8),
		R: uint8(v),
	}
	if len(raw) == 8 {
		c.A = uint8(v >> 24)
	}
	return c, nil
}

// Alpha returns the alpha channel as a fraction in [0, 1].
func (c Color) Alpha() float64 {
	return float64(c.A) / 255
}

// Hue returns the HSV hue of the color in degrees, [0, 360).
// Grays have hue 0.
func (c Color) Hue() float64 {
	h, _, _ := c.toColorful().Hsv()
	return h
}

// NRGBA converts to the standard library color type.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// String formats the color back into KML byte order.
func (c Color) String() string {
	return fmt.Sprintf("%02x%02x%02x%02x", c.A, c.B, c.G, c.R)
}

func (c Color) toColorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}
}

// HueFromColor returns the hue of c in degrees.
func HueFromColor(c Color) float64 {
	return c.Hue()
}

// ColorFromHue returns the fully saturated, full-value opaque color for hue h.
func ColorFromHue(h float64) Color {
	r, g, b := colorful.Hsv(h, 1, 1).RGB255()
	return Color{A: 0xff, R: r, G: g, B: b}
}

// ComputeRandomColor perturbs c the way KML colorMode "random" does.
//
// Each nonzero channel c is replaced by a uniform value in [0, c). Zero
// channels stay zero, unless all three are zero, in which case each channel
// gets an independent uniform value in [0, 256). Alpha is kept.
func ComputeRandomColor(c Color, rng *rand.Rand) Color {
	if c.R == 0 && c.G == 0 && c.B == 0 {
		return Color{
			A: c.A,
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
		}
	}

	out := Color{A: c.A}
	if c.R != 0 {
		out.R = uint8(rng.Intn(int(c.R)))
	}
	if c.G != 0 {
		out.G = uint8(rng.Intn(int(c.G)))
	}
	if c.B != 0 {
		out.B = uint8(rng.Intn(int(c.B)))
	}
	return out
}
