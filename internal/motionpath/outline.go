package motionpath

import (
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/animtimeline/internal/value"
)

// Shape types with an outline.
const (
	ShapeRect    = "rect"
	ShapeEllipse = "ellipse"
	ShapePath    = "path"
	ShapeLine    = "line"
	ShapePolygon = "polygon"
	ShapeText    = "text"
	ShapeImage   = "image"
	ShapeGroup   = "group"
)

// Outline returns the path description of a shape in its local frame, where
// the node's x,y is the origin. Ellipses are centered on the origin; boxes
// extend from the origin by width and height. ok is false when the shape has
// no outline.
func Outline(shape string, props map[string]value.Value) (d string, ok bool) {
	num := func(name string) float64 {
		v, _ := props[name].Float()
		return v
	}

	switch shape {
	case ShapeRect, ShapeText, ShapeImage, ShapeGroup:
		r := 0.0
		if shape == ShapeRect {
			r = num("cornerRadius")
		}
		return RectOutline(num("width"), num("height"), r), true
	case ShapeEllipse:
		return EllipseOutline(num("width")/2, num("height")/2), true
	case ShapeLine:
		return LineOutline(num("x2"), num("y2")), true
	case ShapePath, ShapePolygon:
		pts := props["points"]
		if pts.Kind != value.KindPoints || len(pts.Pts) == 0 {
			return "", false
		}
		closed := shape == ShapePolygon || num("closed") != 0
		return PointsOutline(pts.Pts, closed), true
	}
	return "", false
}

// RectOutline traces a w×h box clockwise from the top-left corner, rounding
// corners by r (clamped to half the shorter side).
func RectOutline(w, h, r float64) string {
	r = math.Max(0, math.Min(r, math.Min(math.Abs(w), math.Abs(h))/2))

	var sb pathWriter
	if r == 0 {
		sb.cmd('M', 0, 0)
		sb.cmd('H', w)
		sb.cmd('V', h)
		sb.cmd('H', 0)
		sb.close()
		return sb.String()
	}
	sb.cmd('M', r, 0)
	sb.cmd('H', w-r)
	sb.cmd('A', r, r, 0, 0, 1, w, r)
	sb.cmd('V', h-r)
	sb.cmd('A', r, r, 0, 0, 1, w-r, h)
	sb.cmd('H', r)
	sb.cmd('A', r, r, 0, 0, 1, 0, h-r)
	sb.cmd('V', r)
	sb.cmd('A', r, r, 0, 0, 1, r, 0)
	sb.close()
	return sb.String()
}

// EllipseOutline traces an ellipse as four quarter arcs starting at (rx, 0).
func EllipseOutline(rx, ry float64) string {
	rx, ry = math.Abs(rx), math.Abs(ry)
	var sb pathWriter
	sb.cmd('M', rx, 0)
	sb.cmd('A', rx, ry, 0, 0, 1, 0, ry)
	sb.cmd('A', rx, ry, 0, 0, 1, -rx, 0)
	sb.cmd('A', rx, ry, 0, 0, 1, 0, -ry)
	sb.cmd('A', rx, ry, 0, 0, 1, rx, 0)
	sb.close()
	return sb.String()
}

// LineOutline is a straight segment from the origin to (x2, y2).
func LineOutline(x2, y2 float64) string {
	var sb pathWriter
	sb.cmd('M', 0, 0)
	sb.cmd('L', x2, y2)
	return sb.String()
}

// PointsOutline joins path points in order. Handles are offsets from their
// point; a segment with a handle on either end becomes a cubic.
func PointsOutline(pts []value.PathPoint, closed bool) string {
	if len(pts) == 0 {
		return ""
	}

	var sb pathWriter
	sb.cmd('M', pts[0].X, pts[0].Y)
	join := func(a, b value.PathPoint) {
		if a.Out == nil && b.In == nil {
			sb.cmd('L', b.X, b.Y)
			return
		}
		c1x, c1y := a.X, a.Y
		if a.Out != nil {
			c1x, c1y = a.X+a.Out.X, a.Y+a.Out.Y
		}
		c2x, c2y := b.X, b.Y
		if b.In != nil {
			c2x, c2y = b.X+b.In.X, b.Y+b.In.Y
		}
		sb.cmd('C', c1x, c1y, c2x, c2y, b.X, b.Y)
	}
	for i := 1; i < len(pts); i++ {
		join(pts[i-1], pts[i])
	}
	if closed && len(pts) > 1 {
		join(pts[len(pts)-1], pts[0])
		sb.close()
	}
	return sb.String()
}

type pathWriter struct {
	strings.Builder
}

func (w *pathWriter) cmd(c byte, args ...float64) {
	if w.Len() > 0 {
		w.WriteByte(' ')
	}
	w.WriteByte(c)
	for _, a := range args {
		w.WriteByte(' ')
		w.WriteString(strconv.FormatFloat(a, 'g', -1, 64))
	}
}

func (w *pathWriter) close() {
	w.WriteString(" Z")
}
