package easing

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEaseEndpoints(t *testing.T) {
	for _, id := range Names() {
		if id == StepStart || id == StepEnd {
			continue
		}
		t.Run(id, func(t *testing.T) {
			assert.Equal(t, 0.0, Ease(0, id))
			assert.Equal(t, 1.0, Ease(1, id))
		})
	}
}

func TestEaseLinearAndUnknown(t *testing.T) {
	tests := []struct {
		id string
		t  float64
	}{
		{"linear", 0.3},
		{"", 0.42},
		{"no-such-curve", 0.7},
		{"cubic-bezier(0.1, 0.2)", 0.5},
		{"cubic-bezier(a, b, c, d)", 0.25},
		{"cubic-bezier(0.1, 0.2, 0.3, 0.4", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.t, Ease(tt.t, tt.id))
		})
	}
}

func TestEaseSteps(t *testing.T) {
	assert.Equal(t, 1.0, Ease(0.01, StepStart))
	assert.Equal(t, 1.0, Ease(0.99, StepStart))
	assert.Equal(t, 0.0, Ease(0.99, StepEnd))
	assert.Equal(t, 1.0, Ease(1, StepEnd))
}

func TestEaseClampsProgress(t *testing.T) {
	assert.Equal(t, 0.0, Ease(-0.5, "ease-in-quad"))
	assert.Equal(t, 1.0, Ease(1.5, "ease-in-quad"))
	assert.Equal(t, 0.0, Ease(math.NaN(), "linear"))
}

func TestEaseKnownValues(t *testing.T) {
	tests := []struct {
		id   string
		t    float64
		want float64
	}{
		{"ease-in-quad", 0.5, 0.25},
		{"ease-out-quad", 0.5, 0.75},
		{"ease-in-out-cubic", 0.25, 0.0625},
		{"ease-in-out-cubic", 0.5, 0.5},
		{"ease-in-sine", 0.5, 1 - math.Cos(math.Pi/4)},
		{"ease-out-bounce", 0.5, 0.765625},
		{"ease-in-expo", 0.5, math.Pow(2, -5)},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ease(tt.t, tt.id), 1e-9)
		})
	}
}

func TestEaseAliases(t *testing.T) {
	assert.Equal(t, "ease-in-out-cubic", Canonical("easeInOutCubic"))
	assert.Equal(t, "ease-out-back", Canonical("EASE_OUT_BACK"))
	assert.InDelta(t, Ease(0.3, "ease-in-out-cubic"), Ease(0.3, "easeInOutCubic"), 1e-12)
	assert.True(t, Known("easeOutElastic"))
	assert.False(t, Known("wobble"))
}

func TestEaseOvershootCurves(t *testing.T) {
	assert.Less(t, Ease(0.2, "ease-in-back"), 0.0)
	assert.Greater(t, Ease(0.8, "ease-out-back"), 1.0)
	assert.Greater(t, Ease(0.2, "ease-out-elastic"), 1.0)
}

func TestCubicBezier(t *testing.T) {
	// A bezier with control points on the diagonal is linear.
	for _, x := range []float64{0.1, 0.33, 0.5, 0.8} {
		assert.InDelta(t, x, Ease(x, "cubic-bezier(0.25, 0.25, 0.75, 0.75)"), 1e-6)
	}

	// CSS "ease-in-out" is symmetric around the midpoint.
	mid := Ease(0.5, "cubic-bezier(0.42, 0, 0.58, 1)")
	assert.InDelta(t, 0.5, mid, 1e-6)
	assert.InDelta(t, mid, Ease(0.5, "ease-in-out"), 1e-12)

	lo := Ease(0.2, "ease-in-out")
	hi := Ease(0.8, "ease-in-out")
	assert.InDelta(t, 1.0, lo+hi, 1e-6)
}

func TestCubicBezierMonotonic(t *testing.T) {
	prev := 0.0
	for i := 1; i <= 100; i++ {
		x := float64(i) / 100
		y := Ease(x, "cubic-bezier(0.17, 0.67, 0.83, 0.67)")
		assert.GreaterOrEqual(t, y, prev-1e-9, "x=%v", x)
		prev = y
	}
}

func TestParseBezier(t *testing.T) {
	b, ok := ParseBezier("  CUBIC-BEZIER( 1.5 , 0.1,-0.2, 1 ) ")
	assert.True(t, ok)
	assert.Equal(t, 1.0, b.X1)
	assert.InDelta(t, 0.1, b.Y1, 1e-12)
	assert.Equal(t, 0.0, b.X2)
	assert.Equal(t, 1.0, b.Y2)

	_, ok = ParseBezier("cubic-bezier(0.1, 0.2, 0.3, 0.4, 0.5)")
	assert.False(t, ok)

	// memoized failures stay failures
	_, ok = ParseBezier("cubic-bezier(0.1, 0.2, 0.3, 0.4, 0.5)")
	assert.False(t, ok)
}

func TestBezierMemoIgnoresOtherIdsAndStaysBounded(t *testing.T) {
	assert.Equal(t, 0.25, Ease(0.25, "wobble-not-a-curve"))
	_, cached := bezierMemo.Load("wobble-not-a-curve")
	assert.False(t, cached)

	for i := 0; i < maxMemo+50; i++ {
		id := fmt.Sprintf("cubic-bezier(0, 0, 1, %d)", i)
		b, ok := ParseBezier(id)
		assert.True(t, ok)
		assert.Equal(t, float64(i), b.Y2)
	}
	assert.LessOrEqual(t, int(memoSize.Load()), maxMemo)
}
