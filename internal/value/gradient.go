package value

import (
	"math"
	"strconv"
	"strings"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

// GradientKind is linear or radial.
type GradientKind string

const (
	Linear GradientKind = "linear"
	Radial GradientKind = "radial"
)

// Stop is a gradient color stop; Offset is in [0,1].
type Stop struct {
	Offset float64 `yaml:"offset"`
	Color  string  `yaml:"color"`
}

// Gradient describes a linear or radial gradient. Linear gradients use
// Angle in degrees; radial gradients carry their geometry as percentage
// strings ("50%") the way the document stores them.
type Gradient struct {
	ID    string       `yaml:"id,omitempty"`
	Kind  GradientKind `yaml:"kind"`
	Stops []Stop       `yaml:"stops"`
	Angle float64      `yaml:"angle,omitempty"`
	CX    string       `yaml:"cx,omitempty"`
	CY    string       `yaml:"cy,omitempty"`
	R     string       `yaml:"r,omitempty"`
	FX    string       `yaml:"fx,omitempty"`
	FY    string       `yaml:"fy,omitempty"`
}

// Clone returns a copy with its own stop slice.
func (g Gradient) Clone() Gradient {
	cp := g
	if g.Stops != nil {
		cp.Stops = make([]Stop, len(g.Stops))
		copy(cp.Stops, g.Stops)
	}
	return cp
}

// withSolid returns a gradient shaped like g whose stops are all color.
func (g Gradient) withSolid(color string) *Gradient {
	out := g.Clone()
	out.ID = ""
	for i := range out.Stops {
		out.Stops[i].Color = color
	}
	return &out
}

func blendGradients(a, b *Gradient, p float64) Value {
	if a == nil || b == nil {
		if a == nil {
			return Value{Kind: KindGradient}
		}
		return Value{Kind: KindGradient, Grad: a}
	}

	if a.Kind != b.Kind {
		switch {
		case p <= 0:
			return Value{Kind: KindGradient, Grad: a}
		case p >= 1:
			return Value{Kind: KindGradient, Grad: b}
		}
		return CrossfadeOf(a, b, p)
	}

	// No resampling between unequal stop lists: hold the earlier one.
	if len(a.Stops) != len(b.Stops) {
		if p < 1 {
			return Value{Kind: KindGradient, Grad: a}
		}
		return Value{Kind: KindGradient, Grad: b}
	}

	out := Gradient{Kind: a.Kind, Stops: make([]Stop, len(a.Stops))}
	for i := range a.Stops {
		out.Stops[i] = Stop{
			Offset: lerp(a.Stops[i].Offset, b.Stops[i].Offset, p),
			Color:  blendColorString(a.Stops[i].Color, b.Stops[i].Color, p),
		}
	}

	switch a.Kind {
	case Radial:
		out.CX = blendPercent(a.CX, b.CX, p)
		out.CY = blendPercent(a.CY, b.CY, p)
		out.R = blendPercent(a.R, b.R, p)
		out.FX = blendPercent(a.FX, b.FX, p)
		out.FY = blendPercent(a.FY, b.FY, p)
	default:
		out.Angle = lerp(a.Angle, b.Angle, p)
	}
	return Value{Kind: KindGradient, Grad: &out}
}

// blendPercent blends "40%"-style strings, keeping the first side's unit.
// Unparsable input steps like text.
func blendPercent(a, b string, p float64) string {
	if a == b || p <= 0 {
		return a
	}
	if p >= 1 {
		return b
	}
	av, unit, okA := parsePercent(a)
	bv, _, okB := parsePercent(b)
	if !okA || !okB {
		return a
	}
	return strconv.FormatFloat(roundTo(lerp(av, bv, p), 4), 'f', -1, 64) + unit
}

// parsePercent splits "12.5%" into (12.5, "%"). A bare number has no unit.
func parsePercent(s string) (float64, string, bool) {
	s = strings.TrimSpace(s)
	unit := ""
	if strings.HasSuffix(s, "%") {
		unit = "%"
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	if s == "" {
		return 0, unit, false
	}
	f, n := pstrconv.ParseFloat([]byte(s))
	if n != len(s) || math.IsNaN(f) {
		return 0, unit, false
	}
	return f, unit, true
}

func roundTo(f float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(f*scale) / scale
}
