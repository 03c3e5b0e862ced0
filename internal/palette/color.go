// Package palette holds the swatches a configurator view offers and the color helpers around them.
package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB color used for part materials.
// It encodes as "#rrggbb" in JSON and YAML.
type Color struct {
	R byte // red component
	G byte // green component
	B byte // blue component
}

var (
	// White is used for light-toned parts that are not user colorable.
	White = Color{R: 255, G: 255, B: 255}

	// Black is the zero emissive (no highlight).
	Black = Color{}

	// Highlight is the emissive overlay for selected parts.
	Highlight = Color{R: 0x44, G: 0x44, B: 0x44}
)

// ParseHex parses "#RRGGBB" (or "#RGB") into a color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(expandShortHex(s))
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}

	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b}, nil
}

// FromFloat converts linear 0..1 channels (glTF base color factors) into a color.
func FromFloat(r, g, b float64) Color {
	c := colorful.Color{R: clampUnit(r), G: clampUnit(g), B: clampUnit(b)}
	rr, gg, bb := c.RGB255()

	return Color{R: rr, G: gg, B: bb}
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return c.colorful().Hex()
}

// Lightness returns the mean of the three channels in the 0..1 range.
func (c Color) Lightness() float64 {
	return (float64(c.R) + float64(c.G) + float64(c.B)) / (3 * 255)
}

// IsDark reports whether the color is below the given lightness limit.
func (c Color) IsDark(limit float64) bool {
	return c.Lightness() < limit
}

// colorful converts the color into go-colorful form.
func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// MarshalText encodes the color as hex.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a hex color.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseHex(string(b))
	if err != nil {
		return err
	}

	*c = parsed
	return nil
}

// expandShortHex turns "#abc" into "#aabbcc".
func expandShortHex(s string) string {
	if len(s) != 4 || s[0] != '#' {
		return s
	}

	return string([]byte{'#', s[1], s[1], s[2], s[2], s[3], s[3]})
}

// clampUnit clamps a channel value to 0..1.
func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}

	return v
}
