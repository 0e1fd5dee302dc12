package value

// Blend interpolates between a and b at progress p, which the caller has
// already eased. The result has the variant of the inputs; pairs that have
// no meaningful blend return a unchanged. Blend never panics.
func Blend(a, b Value, p float64) Value {
	if Equal(a, b) {
		return a
	}

	switch a.Kind {
	case KindAbsent:
		if b.Kind == KindNumber || b.Kind == KindAbsent {
			return stepAt(a, b, p, 0.5)
		}
	case KindNumber:
		switch b.Kind {
		case KindNumber:
			return Number(lerp(a.Num, b.Num, p))
		case KindAbsent:
			return stepAt(a, b, p, 0.5)
		}
	case KindColor:
		switch b.Kind {
		case KindColor:
			return Color(blendColorString(a.Str, b.Str, p))
		case KindGradient:
			if b.Grad == nil {
				return a
			}
			return blendGradients(b.Grad.withSolid(a.Str), b.Grad, p)
		}
	case KindGradient:
		switch b.Kind {
		case KindGradient:
			return blendGradients(a.Grad, b.Grad, p)
		case KindColor:
			if a.Grad == nil {
				return a
			}
			return blendGradients(a.Grad, a.Grad.withSolid(b.Str), p)
		}
	case KindPoints:
		if b.Kind == KindPoints {
			return blendPoints(a.Pts, b.Pts, p)
		}
	case KindText:
		if b.Kind == KindText {
			return stepAt(a, b, p, 1)
		}
	case KindPathRef:
		if b.Kind == KindPathRef {
			return stepAt(a, b, p, 1)
		}
	case KindCrossfade:
		// A resolved crossfade is never a keyframe endpoint.
	}
	return a
}

// stepAt holds a until progress reaches at, then switches to b.
func stepAt(a, b Value, p, at float64) Value {
	if p < at {
		return a
	}
	return b
}

// blendPoints blends two point lists by index. Lists of different length
// have no point correspondence, so they step at the end of the segment.
func blendPoints(a, b []PathPoint, p float64) Value {
	if len(a) != len(b) {
		if p < 1 {
			return Points(a)
		}
		return Points(b)
	}

	out := make([]PathPoint, len(a))
	for i := range a {
		pt := PathPoint{
			ID:     a[i].ID,
			X:      lerp(a[i].X, b[i].X, p),
			Y:      lerp(a[i].Y, b[i].Y, p),
			In:     blendHandle(a[i].In, b[i].In, p),
			Out:    blendHandle(a[i].Out, b[i].Out, p),
			Smooth: a[i].Smooth,
		}
		out[i] = pt
	}
	return Points(out)
}

// blendHandle blends handle offsets. A missing handle is a zero offset,
// so a handle present on one side grows out of or shrinks into its anchor
// and only disappears at the side where it is absent.
func blendHandle(a, b *Handle, p float64) *Handle {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		if p <= 0 {
			return nil
		}
		return &Handle{X: b.X * p, Y: b.Y * p}
	case b == nil:
		if p >= 1 {
			return nil
		}
		return &Handle{X: a.X * (1 - p), Y: a.Y * (1 - p)}
	}
	return &Handle{X: lerp(a.X, b.X, p), Y: lerp(a.Y, b.Y, p)}
}
