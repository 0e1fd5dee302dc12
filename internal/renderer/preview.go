// Package renderer rasterizes resolved frames into debug previews.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/ivlev/animtimeline/internal/compositor"
	"github.com/ivlev/animtimeline/internal/motionpath"
	"github.com/ivlev/animtimeline/internal/system"
	"github.com/ivlev/animtimeline/internal/timeline"
	"github.com/ivlev/animtimeline/internal/value"
)

const (
	strokeWidth = 1.5
	anchorSize  = 4
)

var (
	background  = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	defaultInk  = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	anchorColor = color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}
)

// Options controls the preview viewport.
type Options struct {
	Width, Height int
	// Scale maps scene units to pixels; 0 means 1.
	Scale float64
}

// Preview draws node outlines and anchors. Frames come from the process
// wide system.SharedPool and should be handed back with Release once written.
type Preview struct {
	Paths *motionpath.Cache
	Pool  *system.ImagePool
	Opts  Options
}

func NewPreview(paths *motionpath.Cache, opts Options) *Preview {
	if paths == nil {
		paths = motionpath.NewCache()
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Preview{Paths: paths, Pool: system.SharedPool(), Opts: opts}
}

// Render rasterizes one frame. Each node's outline is stroked in its fill
// color, clipped to its draw range, and its anchor is marked.
func (p *Preview) Render(states []compositor.RenderState) *image.RGBA {
	bounds := image.Rect(0, 0, p.Opts.Width, p.Opts.Height)
	img := p.Pool.Get(bounds)
	draw.Draw(img, bounds, image.NewUniform(background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	for _, st := range states {
		opacity := clamp01(st.Prop(timeline.PropOpacity, 1))
		if opacity == 0 {
			continue
		}
		ink := withOpacity(inkOf(st), opacity)

		if d, ok := motionpath.Outline(st.Type, st.Props); ok {
			if sampler, ok := p.Paths.Get(d); ok && sampler.Length() > 0 {
				z.Reset(bounds.Dx(), bounds.Dy())
				p.strokeOutline(z, st, sampler)
				z.Draw(img, bounds, image.NewUniform(ink), image.Point{})
			}
		}

		z.Reset(bounds.Dx(), bounds.Dy())
		ax, ay := p.toPixels(st.Prop(timeline.PropX, 0), st.Prop(timeline.PropY, 0))
		rect(z, ax-anchorSize/2, ay-anchorSize/2, anchorSize, anchorSize)
		z.Draw(img, bounds, image.NewUniform(anchorColor), image.Point{})
	}
	return img
}

// Release returns a rendered frame to the pool.
func (p *Preview) Release(img *image.RGBA) {
	p.Pool.Put(img)
}

func (p *Preview) strokeOutline(z *vector.Rasterizer, st compositor.RenderState, sampler *motionpath.Sampler) {
	from, to := 0.0, math.Inf(1)
	if st.Dash != nil {
		from = -st.Dash.Offset
		to = from + st.Dash.Array[0]
	}

	x, y := st.Prop(timeline.PropX, 0), st.Prop(timeline.PropY, 0)
	sx, sy := st.Prop(timeline.PropScaleX, 1), st.Prop(timeline.PropScaleY, 1)
	sin, cos := math.Sincos(st.Prop(timeline.PropRotation, 0) * math.Pi / 180)
	world := func(pt motionpath.Point) (float32, float32) {
		lx, ly := pt.X*sx, pt.Y*sy
		return p.toPixels(x+lx*cos-ly*sin, y+lx*sin+ly*cos)
	}

	sampler.Walk(func(a, b motionpath.Point, start float64) {
		l := math.Hypot(b.X-a.X, b.Y-a.Y)
		end := start + l
		if end <= from || start >= to || l == 0 {
			return
		}
		// Clip the segment to the visible arc-length window.
		a0, b0 := a, b
		if start < from {
			a = lerpPoint(a0, b0, (from-start)/l)
		}
		if end > to {
			b = lerpPoint(a0, b0, (to-start)/l)
		}
		ax, ay := world(a)
		bx, by := world(b)
		segment(z, ax, ay, bx, by, strokeWidth)
	})
}

func (p *Preview) toPixels(x, y float64) (float32, float32) {
	return float32(x * p.Opts.Scale), float32(y * p.Opts.Scale)
}

// segment adds a w-wide quad covering the line from (ax,ay) to (bx,by).
func segment(z *vector.Rasterizer, ax, ay, bx, by, w float32) {
	dx, dy := bx-ax, by-ay
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

func rect(z *vector.Rasterizer, x, y, w, h float32) {
	z.MoveTo(x, y)
	z.LineTo(x+w, y)
	z.LineTo(x+w, y+h)
	z.LineTo(x, y+h)
	z.ClosePath()
}

func lerpPoint(a, b motionpath.Point, t float64) motionpath.Point {
	return motionpath.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// inkOf picks the solid fill, then the stroke, then the first gradient stop.
func inkOf(st compositor.RenderState) color.NRGBA {
	for _, prop := range []string{timeline.PropFill, timeline.PropStroke} {
		v := st.Props[prop]
		s := ""
		switch v.Kind {
		case value.KindColor:
			s = v.Str
		case value.KindGradient:
			if v.Grad != nil && len(v.Grad.Stops) > 0 {
				s = v.Grad.Stops[0].Color
			}
		}
		if s == "" {
			continue
		}
		if c, err := value.ParseColor(s); err == nil {
			return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
		}
	}
	return defaultInk
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * opacity))}
}

func channel(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// WritePNG writes img to path.
func WritePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("renderer: encode %s: %w", path, err)
	}
	return f.Close()
}
