// Package value holds the animatable value variant and the type-dispatching
// blend used between two keyframes.
package value

import (
	"fmt"
	"reflect"
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNumber
	KindColor
	KindGradient
	KindPoints
	KindText
	KindPathRef
	KindCrossfade
)

var kindNames = [...]string{
	KindAbsent:    "absent",
	KindNumber:    "number",
	KindColor:     "color",
	KindGradient:  "gradient",
	KindPoints:    "points",
	KindText:      "text",
	KindPathRef:   "pathref",
	KindCrossfade: "crossfade",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged union over everything a keyframe can hold. Only the
// field matching Kind is meaningful.
type Value struct {
	Kind      Kind
	Num       float64
	Str       string
	Grad      *Gradient
	Pts       []PathPoint
	Crossfade *Crossfade
}

// Handle is a bezier control handle, stored as an offset from its anchor.
type Handle struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PathPoint is one anchor of an editable vector path.
type PathPoint struct {
	ID     string  `yaml:"id,omitempty"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	In     *Handle `yaml:"in,omitempty"`
	Out    *Handle `yaml:"out,omitempty"`
	Smooth bool    `yaml:"smooth,omitempty"`
}

// Crossfade defers blending of two gradients of different kinds to the
// renderer, which dissolves From into To by Progress.
type Crossfade struct {
	From     *Gradient `yaml:"from"`
	To       *Gradient `yaml:"to"`
	Progress float64   `yaml:"progress"`
}

// Absent is the value of an unset optional field, like an auto width.
func Absent() Value { return Value{} }

// Number wraps a float.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Color wraps a CSS color string.
func Color(s string) Value { return Value{Kind: KindColor, Str: s} }

// Text wraps an opaque string that only ever steps.
func Text(s string) Value { return Value{Kind: KindText, Str: s} }

// PathRef wraps the id of a node whose outline is referenced.
func PathRef(id string) Value { return Value{Kind: KindPathRef, Str: id} }

// GradientOf wraps a gradient. The gradient is copied.
func GradientOf(g Gradient) Value {
	cp := g.Clone()
	return Value{Kind: KindGradient, Grad: &cp}
}

// Points wraps a path point list.
func Points(pts []PathPoint) Value { return Value{Kind: KindPoints, Pts: pts} }

// CrossfadeOf wraps a deferred crossfade between two gradients.
func CrossfadeOf(from, to *Gradient, progress float64) Value {
	return Value{Kind: KindCrossfade, Crossfade: &Crossfade{From: from, To: to, Progress: progress}}
}

// IsAbsent reports whether v holds nothing.
func (v Value) IsAbsent() bool { return v.Kind == KindAbsent }

// Float returns the number held by v.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// FloatOr returns the number held by v or def.
func (v Value) FloatOr(def float64) float64 {
	if f, ok := v.Float(); ok {
		return f
	}
	return def
}

// String renders v for logs and debugging.
func (v Value) String() string {
	switch v.Kind {
	case KindAbsent:
		return "<absent>"
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindColor, KindText:
		return v.Str
	case KindPathRef:
		return "ref:" + v.Str
	case KindGradient:
		if v.Grad == nil {
			return "gradient(<nil>)"
		}
		return fmt.Sprintf("%s-gradient(%d stops)", v.Grad.Kind, len(v.Grad.Stops))
	case KindPoints:
		return fmt.Sprintf("points(%d)", len(v.Pts))
	case KindCrossfade:
		if v.Crossfade == nil {
			return "crossfade(<nil>)"
		}
		return fmt.Sprintf("crossfade(%.3f)", v.Crossfade.Progress)
	}
	return v.Kind.String()
}

// Equal reports whether a and b hold the same variant and payload.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindAbsent:
		return true
	case KindNumber:
		return a.Num == b.Num
	case KindColor, KindText, KindPathRef:
		return a.Str == b.Str
	case KindGradient:
		return reflect.DeepEqual(a.Grad, b.Grad)
	case KindPoints:
		return reflect.DeepEqual(a.Pts, b.Pts)
	case KindCrossfade:
		return reflect.DeepEqual(a.Crossfade, b.Crossfade)
	}
	return false
}
