package spritepaint

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit per channel color without alpha. Palette identity is
// decided on RGB alone; alpha always stays with the pixel it came from.
type RGB struct {
	R, G, B uint8
}

// NRGBA returns c as a straight-alpha color with the given alpha.
func (c RGB) NRGBA(a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Colorful converts c to a go-colorful color with channels in [0, 1].
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex returns c formatted as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// RGBFromColorful clamps c into gamut and quantizes it to 8 bits per channel.
func RGBFromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("spritepaint: invalid color %q: %w", s, err)
	}
	return RGBFromColorful(c), nil
}

// ShiftHSV moves c through HSV space. Hue wraps around, saturation and value
// are clamped to [0, 1].
func ShiftHSV(c RGB, dh, ds, dv float64) RGB {
	h, s, v := c.Colorful().Hsv()
	h = math.Mod(h+dh, 360)
	if h < 0 {
		h += 360
	}
	s = max(0, min(1, s+ds))
	v = max(0, min(1, v+dv))
	return RGBFromColorful(colorful.Hsv(h, s, v))
}
