package compositor

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/ivlev/animtimeline/internal/motionpath"
	"github.com/ivlev/animtimeline/internal/timeline"
	"github.com/ivlev/animtimeline/internal/value"
)

// Compositor resolves frames. It holds no per-frame state, so Composite may
// run concurrently for different times once constructed.
type Compositor struct {
	// Paths caches flattened outlines of motion path sources.
	Paths *motionpath.Cache
	// Duration bounds motion path progress for nodes without motionPath
	// keyframes. Zero means the latest keyframe time.
	Duration float64
	Log      zerolog.Logger
}

func New(paths *motionpath.Cache, log zerolog.Logger) *Compositor {
	if paths == nil {
		paths = motionpath.NewCache()
	}
	return &Compositor{Paths: paths, Log: log}
}

type anchor struct {
	x, y, rotation float64
}

// Composite returns the resolved state of every node at time t, in node
// order. Neither nodes nor tracks are modified.
func (c *Compositor) Composite(nodes []Node, tracks []timeline.Track, t float64, override *PreviewOverride) []RenderState {
	paths := c.Paths
	if paths == nil {
		paths = motionpath.NewCache()
	}
	duration := c.Duration
	if duration <= 0 {
		duration = timeline.Duration(tracks)
	}

	byNode := make(map[string][]int, len(nodes))
	for i, tr := range tracks {
		byNode[tr.NodeID] = append(byNode[tr.NodeID], i)
	}

	states := make([]RenderState, len(nodes))
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		if _, dup := index[n.ID]; !dup {
			index[n.ID] = i
		}
		c.guard(n, &states[i], func() {
			states[i] = c.evaluate(n, tracks, byNode[n.ID], t, override)
		})
	}

	// Motion paths read their source as it was before any node moved.
	anchors := make([]anchor, len(states))
	for i, st := range states {
		anchors[i] = anchor{
			x:        st.Prop(timeline.PropX, 0),
			y:        st.Prop(timeline.PropY, 0),
			rotation: st.Prop(timeline.PropRotation, 0),
		}
	}

	for i, n := range nodes {
		c.guard(n, &states[i], func() {
			c.applyMotionPath(&states[i], tracks, t, duration, states, anchors, index, paths)
			c.applyDrawRange(&states[i], byNode[n.ID], tracks, paths)
		})
	}
	return states
}

// guard recovers a panic raised while resolving one node and falls back to
// the node's static state so the rest of the frame still resolves.
func (c *Compositor) guard(n Node, st *RenderState, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			c.Log.Warn().Str("node", n.ID).Interface("panic", r).Msg("node resolution failed, using static state")
			*st = staticState(n)
		}
	}()
	fn()
}

func (c *Compositor) evaluate(n Node, tracks []timeline.Track, idx []int, t float64, override *PreviewOverride) RenderState {
	st := staticState(n)

	var ov *PreviewOverride
	if override != nil && override.NodeID == n.ID {
		if timeline.IsPaint(override.Property) {
			ov = override
		} else {
			c.Log.Debug().Str("node", n.ID).Str("property", override.Property).Msg("preview override ignored for non-paint property")
		}
	}

	for _, i := range idx {
		tr := tracks[i]
		if ov != nil && tr.Property == ov.Property {
			continue
		}
		st.Props[tr.Property] = timeline.Evaluate(tr, t, n.Props[tr.Property])
	}
	if ov != nil {
		st.Props[ov.Property] = ov.Value
	}

	for _, prop := range []string{timeline.PropFill, timeline.PropStroke} {
		if v, ok := st.Props[prop]; ok {
			st.Props[prop] = withGradientID(v, GradientID(n.ID, prop))
		}
	}
	return st
}

// withGradientID stamps id onto gradients carried by v, copying them first.
func withGradientID(v value.Value, id string) value.Value {
	switch v.Kind {
	case value.KindGradient:
		if v.Grad == nil {
			return v
		}
		g := v.Grad.Clone()
		g.ID = id
		return value.Value{Kind: value.KindGradient, Grad: &g}
	case value.KindCrossfade:
		if v.Crossfade == nil {
			return v
		}
		return value.CrossfadeOf(stamped(v.Crossfade.From, id+"-from"), stamped(v.Crossfade.To, id+"-to"), v.Crossfade.Progress)
	}
	return v
}

func stamped(g *value.Gradient, id string) *value.Gradient {
	if g == nil {
		return nil
	}
	cp := g.Clone()
	cp.ID = id
	return &cp
}

func (c *Compositor) applyMotionPath(st *RenderState, tracks []timeline.Track, t, duration float64,
	states []RenderState, anchors []anchor, index map[string]int, paths *motionpath.Cache) {
	b := st.MotionPath
	if b == nil {
		return
	}

	sourceID := b.SourceNodeID
	if ref := st.Props[timeline.PropMotionPath]; ref.Kind == value.KindPathRef && ref.Str != "" {
		sourceID = ref.Str
	}
	j, ok := index[sourceID]
	if !ok || sourceID == st.ID {
		c.Log.Debug().Str("node", st.ID).Str("source", sourceID).Msg("motion path source not found")
		return
	}

	src := states[j]
	d, ok := motionpath.Outline(src.Type, src.Props)
	if !ok {
		c.Log.Debug().Str("node", st.ID).Str("source", sourceID).Str("type", src.Type).Msg("motion path source has no outline")
		return
	}
	sampler, ok := paths.Get(d)
	if !ok || sampler.Length() <= 0 {
		return
	}

	start, end, ok := timeline.Span(tracks, st.ID, timeline.PropMotionPath)
	if !ok {
		start, end = 0, duration
	}
	u := b.StartU + (b.EndU-b.StartU)*progress(t, start, end)

	a := anchors[j]
	p := rotate(sampler.SampleAt(u), a.rotation)
	x, y := a.x+p.X, a.y+p.Y

	off := motionpath.Point{X: b.OffsetX, Y: b.OffsetY}
	if b.AlignRotation {
		rot := sampler.TangentAngleAt(u) + a.rotation
		off = rotate(off, rot)
		st.Props[timeline.PropRotation] = value.Number(rot)
	}
	x += off.X
	y += off.Y

	if rectLike(st.Type) {
		x -= st.Prop(timeline.PropWidth, 0) / 2
		y -= st.Prop(timeline.PropHeight, 0) / 2
	}
	st.Props[timeline.PropX] = value.Number(x)
	st.Props[timeline.PropY] = value.Number(y)
}

// progress maps t into [0,1] over the span [start, end].
func progress(t, start, end float64) float64 {
	if end <= start {
		if t > end {
			return 1
		}
		return 0
	}
	return math.Max(0, math.Min(1, (t-start)/(end-start)))
}

func rotate(p motionpath.Point, deg float64) motionpath.Point {
	if deg == 0 {
		return p
	}
	sin, cos := math.Sincos(deg * math.Pi / 180)
	return motionpath.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

func (c *Compositor) applyDrawRange(st *RenderState, idx []int, tracks []timeline.Track, paths *motionpath.Cache) {
	animated := false
	for _, i := range idx {
		if p := tracks[i].Property; p == timeline.PropDrawStartPercent || p == timeline.PropDrawEndPercent {
			animated = true
			break
		}
	}
	start := st.Prop(timeline.PropDrawStartPercent, 0)
	end := st.Prop(timeline.PropDrawEndPercent, 1)
	if !animated && start == 0 && end == 1 {
		return
	}

	d, ok := motionpath.Outline(st.Type, st.Props)
	if !ok {
		return
	}
	sampler, ok := paths.Get(d)
	if !ok || sampler.Length() <= 0 {
		return
	}

	start = math.Max(0, math.Min(1, start))
	end = math.Max(0, math.Min(1, end))
	l := sampler.Length()
	visible := math.Max(0, end-start) * l
	st.Dash = &Dash{Array: [2]float64{visible, l}, Offset: -start * l}
}
