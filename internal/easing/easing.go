// Package easing maps normalized progress through named and cubic-bezier curves.
package easing

import (
	"math"
	"sort"
	"strings"
)

// Func remaps progress in [0,1].
type Func func(t float64) float64

const (
	Linear    = "linear"
	StepStart = "step-start"
	StepEnd   = "step-end"
)

const (
	backC1    = 1.70158
	backC2    = backC1 * 1.525
	backC3    = backC1 + 1
	elasticC4 = 2 * math.Pi / 3
	elasticC5 = 2 * math.Pi / 4.5
)

var named = map[string]Func{
	Linear: func(t float64) float64 { return t },

	"ease-in-sine":     func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) },
	"ease-out-sine":    func(t float64) float64 { return math.Sin(t * math.Pi / 2) },
	"ease-in-out-sine": func(t float64) float64 { return -(math.Cos(math.Pi*t) - 1) / 2 },

	"ease-in-quad":      powIn(2),
	"ease-out-quad":     powOut(2),
	"ease-in-out-quad":  powInOut(2),
	"ease-in-cubic":     powIn(3),
	"ease-out-cubic":    powOut(3),
	"ease-in-out-cubic": powInOut(3),
	"ease-in-quart":     powIn(4),
	"ease-out-quart":    powOut(4),
	"ease-in-out-quart": powInOut(4),
	"ease-in-quint":     powIn(5),
	"ease-out-quint":    powOut(5),
	"ease-in-out-quint": powInOut(5),

	"ease-in-expo":     func(t float64) float64 { return math.Pow(2, 10*t-10) },
	"ease-out-expo":    func(t float64) float64 { return 1 - math.Pow(2, -10*t) },
	"ease-in-out-expo": easeInOutExpo,

	"ease-in-circ":     func(t float64) float64 { return 1 - math.Sqrt(1-t*t) },
	"ease-out-circ":    func(t float64) float64 { return math.Sqrt(1 - (t-1)*(t-1)) },
	"ease-in-out-circ": easeInOutCirc,

	"ease-in-back":     func(t float64) float64 { return backC3*t*t*t - backC1*t*t },
	"ease-out-back":    func(t float64) float64 { return 1 + backC3*math.Pow(t-1, 3) + backC1*math.Pow(t-1, 2) },
	"ease-in-out-back": easeInOutBack,

	"ease-in-elastic":     easeInElastic,
	"ease-out-elastic":    easeOutElastic,
	"ease-in-out-elastic": easeInOutElastic,

	"ease-in-bounce":     func(t float64) float64 { return 1 - bounceOut(1-t) },
	"ease-out-bounce":    bounceOut,
	"ease-in-out-bounce": easeInOutBounce,
}

// CSS keyword timing functions, expressed as their bezier definitions.
var keywords = map[string]string{
	"ease":        "cubic-bezier(0.25, 0.1, 0.25, 1)",
	"ease-in":     "cubic-bezier(0.42, 0, 1, 1)",
	"ease-out":    "cubic-bezier(0, 0, 0.58, 1)",
	"ease-in-out": "cubic-bezier(0.42, 0, 0.58, 1)",
}

// normalized ids ("easeinoutcubic") back to their canonical names
var aliases = func() map[string]string {
	m := make(map[string]string, len(named)+len(keywords)+2)
	for id := range named {
		m[normalize(id)] = id
	}
	for id := range keywords {
		m[normalize(id)] = id
	}
	m[normalize(StepStart)] = StepStart
	m[normalize(StepEnd)] = StepEnd
	return m
}()

// Ease maps progress through the curve named by id. Progress is clamped to
// [0,1]; unknown or malformed ids behave like linear.
func Ease(t float64, id string) float64 {
	if math.IsNaN(t) {
		return 0
	}
	t = clamp01(t)

	canonical := Canonical(id)
	switch canonical {
	case StepStart:
		return 1
	case StepEnd:
		if t >= 1 {
			return 1
		}
		return 0
	}

	if t == 0 || t == 1 {
		return t
	}

	if f, ok := named[canonical]; ok {
		return f(t)
	}
	if def, ok := keywords[canonical]; ok {
		canonical = def
	}
	if b, ok := parseBezier(canonical); ok {
		return b.solve(t)
	}
	return t
}

// Canonical resolves id to its canonical spelling. Ids are matched ignoring
// case, dashes and underscores, so "easeInOutCubic" resolves to
// "ease-in-out-cubic". Unknown ids are returned trimmed.
func Canonical(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return Linear
	}
	if c, ok := aliases[normalize(id)]; ok {
		return c
	}
	return id
}

// Known reports whether id names a curve or is a well-formed cubic-bezier.
func Known(id string) bool {
	c := Canonical(id)
	if _, ok := named[c]; ok {
		return true
	}
	if _, ok := keywords[c]; ok {
		return true
	}
	if c == StepStart || c == StepEnd {
		return true
	}
	_, ok := parseBezier(c)
	return ok
}

// Names returns the sorted list of named curve ids.
func Names() []string {
	names := make([]string, 0, len(named)+len(keywords)+2)
	for id := range named {
		names = append(names, id)
	}
	for id := range keywords {
		names = append(names, id)
	}
	names = append(names, StepStart, StepEnd)
	sort.Strings(names)
	return names
}

func normalize(id string) string {
	id = strings.ToLower(id)
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(id)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func powIn(n float64) Func {
	return func(t float64) float64 { return math.Pow(t, n) }
}

func powOut(n float64) Func {
	return func(t float64) float64 { return 1 - math.Pow(1-t, n) }
}

func powInOut(n float64) Func {
	return func(t float64) float64 {
		if t < 0.5 {
			return math.Pow(2, n-1) * math.Pow(t, n)
		}
		return 1 - math.Pow(-2*t+2, n)/2
	}
}

func easeInOutExpo(t float64) float64 {
	if t < 0.5 {
		return math.Pow(2, 20*t-10) / 2
	}
	return (2 - math.Pow(2, -20*t+10)) / 2
}

func easeInOutCirc(t float64) float64 {
	if t < 0.5 {
		return (1 - math.Sqrt(1-math.Pow(2*t, 2))) / 2
	}
	return (math.Sqrt(1-math.Pow(-2*t+2, 2)) + 1) / 2
}

func easeInOutBack(t float64) float64 {
	if t < 0.5 {
		return (math.Pow(2*t, 2) * ((backC2+1)*2*t - backC2)) / 2
	}
	return (math.Pow(2*t-2, 2)*((backC2+1)*(t*2-2)+backC2) + 2) / 2
}

func easeInElastic(t float64) float64 {
	return -math.Pow(2, 10*t-10) * math.Sin((t*10-10.75)*elasticC4)
}

func easeOutElastic(t float64) float64 {
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*elasticC4) + 1
}

func easeInOutElastic(t float64) float64 {
	if t < 0.5 {
		return -(math.Pow(2, 20*t-10) * math.Sin((20*t-11.125)*elasticC5)) / 2
	}
	return (math.Pow(2, -20*t+10)*math.Sin((20*t-11.125)*elasticC5))/2 + 1
}

func bounceOut(t float64) float64 {
	const n1, d1 = 7.5625, 2.75
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

func easeInOutBounce(t float64) float64 {
	if t < 0.5 {
		return (1 - bounceOut(1-2*t)) / 2
	}
	return (1 + bounceOut(2*t-1)) / 2
}
