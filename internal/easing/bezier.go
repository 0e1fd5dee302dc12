package easing

import (
	"math"
	"strings"
	"sync"
	"sync/atomic"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

const (
	newtonIterations = 8
	newtonEpsilon    = 1e-7
	slopeEpsilon     = 1e-6
	bisectIterations = 30

	bezierPrefix = "cubic-bezier("
)

// Bezier is a CSS cubic-bezier timing curve anchored at (0,0) and (1,1).
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// maxMemo bounds the parsed-curve memo; ids past it are parsed every call.
const maxMemo = 256

// parsed cubic-bezier ids; entries never affect output
var (
	bezierMemo sync.Map
	memoSize   atomic.Int32
)

func isBezierID(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= len(bezierPrefix) && strings.EqualFold(s[:len(bezierPrefix)], bezierPrefix)
}

// ParseBezier parses "cubic-bezier(x1, y1, x2, y2)". X coordinates are
// clamped to [0,1] so the curve stays a function of time.
func ParseBezier(s string) (Bezier, bool) {
	return parseBezier(s)
}

func parseBezier(s string) (Bezier, bool) {
	if cached, ok := bezierMemo.Load(s); ok {
		b, valid := cached.(*Bezier)
		if !valid || b == nil {
			return Bezier{}, false
		}
		return *b, true
	}

	b, ok := scanBezier(s)
	if !isBezierID(s) || memoSize.Load() >= maxMemo {
		return b, ok
	}
	entry := (*Bezier)(nil)
	if ok {
		entry = &b
	}
	if _, loaded := bezierMemo.LoadOrStore(s, entry); !loaded {
		memoSize.Add(1)
	}
	return b, ok
}

func scanBezier(s string) (Bezier, bool) {
	body := strings.TrimSpace(strings.ToLower(s))
	if !strings.HasPrefix(body, bezierPrefix) || !strings.HasSuffix(body, ")") {
		return Bezier{}, false
	}
	body = strings.TrimSuffix(strings.TrimPrefix(body, bezierPrefix), ")")

	parts := strings.Split(body, ",")
	if len(parts) != 4 {
		return Bezier{}, false
	}

	var v [4]float64
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return Bezier{}, false
		}
		f, n := pstrconv.ParseFloat([]byte(part))
		if n != len(part) || math.IsNaN(f) || math.IsInf(f, 0) {
			return Bezier{}, false
		}
		v[i] = f
	}

	return Bezier{X1: clamp01(v[0]), Y1: v[1], X2: clamp01(v[2]), Y2: v[3]}, true
}

// Ease evaluates the curve's y at the parameter whose x equals t.
func (b Bezier) Ease(t float64) float64 {
	t = clamp01(t)
	if t == 0 || t == 1 {
		return t
	}
	return b.solve(t)
}

func (b Bezier) solve(x float64) float64 {
	return b.sampleY(b.paramForX(x))
}

// paramForX runs Newton-Raphson on x(u) = x and falls back to bisection
// when the slope flattens out.
func (b Bezier) paramForX(x float64) float64 {
	u := x
	for i := 0; i < newtonIterations; i++ {
		dx := b.sampleX(u) - x
		if math.Abs(dx) < newtonEpsilon {
			return u
		}
		slope := b.slopeX(u)
		if math.Abs(slope) < slopeEpsilon {
			break
		}
		u -= dx / slope
	}
	if u >= 0 && u <= 1 && math.Abs(b.sampleX(u)-x) < newtonEpsilon {
		return u
	}

	lo, hi := 0.0, 1.0
	u = x
	for i := 0; i < bisectIterations; i++ {
		cur := b.sampleX(u)
		if math.Abs(cur-x) < newtonEpsilon {
			break
		}
		if cur < x {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return u
}

func (b Bezier) sampleX(u float64) float64 { return cubic(b.X1, b.X2, u) }

func (b Bezier) sampleY(u float64) float64 { return cubic(b.Y1, b.Y2, u) }

func (b Bezier) slopeX(u float64) float64 {
	return 3*(1-u)*(1-u)*b.X1 + 6*(1-u)*u*(b.X2-b.X1) + 3*u*u*(1-b.X2)
}

// cubic evaluates a 1D bezier with endpoints 0 and 1.
func cubic(p1, p2, u float64) float64 {
	mu := 1 - u
	return 3*mu*mu*u*p1 + 3*mu*u*u*p2 + u*u*u
}
