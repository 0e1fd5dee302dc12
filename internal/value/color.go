package value

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mazznoer/csscolorparser"
)

// RGBA is a color with channels in [0,1].
type RGBA struct {
	R, G, B, A float64
}

// ParseColor parses any CSS color string.
func ParseColor(s string) (RGBA, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return RGBA{}, fmt.Errorf("value: parse color %q: %w", s, err)
	}
	return RGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
}

// Lerp blends each channel independently.
func (c RGBA) Lerp(to RGBA, p float64) RGBA {
	return RGBA{
		R: lerp(c.R, to.R, p),
		G: lerp(c.G, to.G, p),
		B: lerp(c.B, to.B, p),
		A: lerp(c.A, to.A, p),
	}
}

// String encodes opaque colors as #rrggbb and translucent ones as rgba().
func (c RGBA) String() string {
	r, g, b := channel(c.R), channel(c.G), channel(c.B)
	a := clamp01(c.A)
	if a >= 1 {
		return fmt.Sprintf("#%02x%02x%02x", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, strconv.FormatFloat(roundTo(a, 3), 'f', -1, 64))
}

// blendColorString blends two CSS colors. When either side cannot be parsed
// the earlier value is held.
func blendColorString(a, b string, p float64) string {
	if a == b || p <= 0 {
		return a
	}
	if p >= 1 {
		return b
	}
	ca, err := ParseColor(a)
	if err != nil {
		return a
	}
	cb, err := ParseColor(b)
	if err != nil {
		return a
	}
	return ca.Lerp(cb, p).String()
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
