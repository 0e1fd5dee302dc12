package motionpath

import (
	"fmt"
	"math"

	pstrconv "github.com/tdewolff/parse/v2/strconv"
)

const (
	cubicSteps   = 32
	quadSteps    = 24
	arcStepAngle = math.Pi / 64
	minArcSteps  = 4
)

var argCount = map[byte]int{'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7}

// pathBuilder flattens SVG path commands into a polyline.
type pathBuilder struct {
	segs  []segment
	cur   Point
	start Point
	// reflected control point for S/T, valid only right after C/S or Q/T
	lastCtrl Point
	lastCmd  byte
	hasCur   bool
}

// Parse flattens an SVG path description into an arc-length sampler.
func Parse(d string) (*Sampler, error) {
	b := []byte(d)
	pb := &pathBuilder{}

	var cmd byte
	i := 0
	for {
		i = skipSeparators(b, i)
		if i >= len(b) {
			break
		}

		if isCommand(b[i]) {
			cmd = b[i]
			i++
			if cmd == 'Z' || cmd == 'z' {
				pb.closePath()
				continue
			}
		} else if cmd == 0 || cmd == 'Z' || cmd == 'z' {
			return nil, fmt.Errorf("motionpath: unexpected %q at offset %d", b[i], i)
		}

		var err error
		i, err = pb.command(cmd, b, i)
		if err != nil {
			return nil, err
		}

		// Coordinates repeated after a moveto are implicit linetos.
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}

	if !pb.hasCur {
		return nil, fmt.Errorf("motionpath: empty path")
	}
	return newSampler(pb.segs, pb.start), nil
}

func (pb *pathBuilder) command(cmd byte, b []byte, i int) (int, error) {
	rel := cmd >= 'a' && cmd <= 'z'
	upper := cmd &^ 0x20

	var args [7]float64
	need := argCount[upper]
	for k := 0; k < need; k++ {
		var ok bool
		if upper == 'A' && (k == 3 || k == 4) {
			args[k], i, ok = readFlag(b, i)
		} else {
			args[k], i, ok = readNumber(b, i)
		}
		if !ok {
			return i, fmt.Errorf("motionpath: command %c: bad argument %d at offset %d", cmd, k+1, i)
		}
	}

	if upper != 'M' && !pb.hasCur {
		return i, fmt.Errorf("motionpath: command %c before moveto", cmd)
	}

	abs := func(x, y float64) Point {
		if rel {
			return Point{pb.cur.X + x, pb.cur.Y + y}
		}
		return Point{x, y}
	}

	switch upper {
	case 'M':
		p := abs(args[0], args[1])
		if !pb.hasCur {
			p = Point{args[0], args[1]}
		}
		pb.cur, pb.start, pb.hasCur = p, p, true
	case 'L':
		pb.lineTo(abs(args[0], args[1]))
	case 'H':
		x := args[0]
		if rel {
			x += pb.cur.X
		}
		pb.lineTo(Point{x, pb.cur.Y})
	case 'V':
		y := args[0]
		if rel {
			y += pb.cur.Y
		}
		pb.lineTo(Point{pb.cur.X, y})
	case 'C':
		pb.cubicTo(abs(args[0], args[1]), abs(args[2], args[3]), abs(args[4], args[5]))
	case 'S':
		c1 := pb.cur
		if pb.lastCmd == 'C' || pb.lastCmd == 'S' {
			c1 = reflect(pb.lastCtrl, pb.cur)
		}
		pb.cubicTo(c1, abs(args[0], args[1]), abs(args[2], args[3]))
	case 'Q':
		pb.quadTo(abs(args[0], args[1]), abs(args[2], args[3]))
	case 'T':
		c := pb.cur
		if pb.lastCmd == 'Q' || pb.lastCmd == 'T' {
			c = reflect(pb.lastCtrl, pb.cur)
		}
		pb.quadTo(c, abs(args[0], args[1]))
	case 'A':
		pb.arcTo(args[0], args[1], args[2], args[3] != 0, args[4] != 0, abs(args[5], args[6]))
	}
	pb.lastCmd = upper
	return i, nil
}

func (pb *pathBuilder) lineTo(p Point) {
	pb.addSegment(pb.cur, p)
	pb.cur = p
}

func (pb *pathBuilder) cubicTo(c1, c2, end Point) {
	p0 := pb.cur
	prev := p0
	for k := 1; k <= cubicSteps; k++ {
		t := float64(k) / cubicSteps
		mt := 1 - t
		p := Point{
			X: mt*mt*mt*p0.X + 3*mt*mt*t*c1.X + 3*mt*t*t*c2.X + t*t*t*end.X,
			Y: mt*mt*mt*p0.Y + 3*mt*mt*t*c1.Y + 3*mt*t*t*c2.Y + t*t*t*end.Y,
		}
		if k == cubicSteps {
			p = end
		}
		pb.addSegment(prev, p)
		prev = p
	}
	pb.cur = end
	pb.lastCtrl = c2
}

func (pb *pathBuilder) quadTo(c, end Point) {
	p0 := pb.cur
	prev := p0
	for k := 1; k <= quadSteps; k++ {
		t := float64(k) / quadSteps
		mt := 1 - t
		p := Point{
			X: mt*mt*p0.X + 2*mt*t*c.X + t*t*end.X,
			Y: mt*mt*p0.Y + 2*mt*t*c.Y + t*t*end.Y,
		}
		if k == quadSteps {
			p = end
		}
		pb.addSegment(prev, p)
		prev = p
	}
	pb.cur = end
	pb.lastCtrl = c
}

// arcTo flattens an elliptical arc using the endpoint-to-center conversion
// from the SVG implementation notes.
func (pb *pathBuilder) arcTo(rx, ry, phiDeg float64, large, sweep bool, end Point) {
	p1 := pb.cur
	if p1 == end {
		return
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 {
		pb.lineTo(end)
		return
	}

	phi := phiDeg * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	dx2, dy2 := (p1.X-end.X)/2, (p1.Y-end.Y)/2
	x1p := cosPhi*dx2 + sinPhi*dy2
	y1p := -sinPhi*dx2 + cosPhi*dy2

	if lambda := x1p*x1p/(rx*rx) + y1p*y1p/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coef := 0.0
	if den > 0 && num > 0 {
		coef = math.Sqrt(num / den)
	}
	if large == sweep {
		coef = -coef
	}
	cxp := coef * rx * y1p / ry
	cyp := -coef * ry * x1p / rx

	cx := cosPhi*cxp - sinPhi*cyp + (p1.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (p1.Y+end.Y)/2

	theta1 := vectorAngle(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	dTheta := vectorAngle((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && dTheta > 0 {
		dTheta -= 2 * math.Pi
	} else if sweep && dTheta < 0 {
		dTheta += 2 * math.Pi
	}

	steps := int(math.Ceil(math.Abs(dTheta) / arcStepAngle))
	if steps < minArcSteps {
		steps = minArcSteps
	}

	prev := p1
	for k := 1; k <= steps; k++ {
		theta := theta1 + dTheta*float64(k)/float64(steps)
		cosT, sinT := math.Cos(theta), math.Sin(theta)
		p := Point{
			X: cx + rx*cosT*cosPhi - ry*sinT*sinPhi,
			Y: cy + rx*cosT*sinPhi + ry*sinT*cosPhi,
		}
		if k == steps {
			p = end
		}
		pb.addSegment(prev, p)
		prev = p
	}
	pb.cur = end
}

func (pb *pathBuilder) closePath() {
	if !pb.hasCur {
		return
	}
	pb.lineTo(pb.start)
	pb.lastCmd = 'Z'
}

func (pb *pathBuilder) addSegment(a, b Point) {
	pb.segs = append(pb.segs, segment{A: a, B: b, Len: math.Hypot(b.X-a.X, b.Y-a.Y)})
}

func reflect(ctrl, about Point) Point {
	return Point{2*about.X - ctrl.X, 2*about.Y - ctrl.Y}
}

func vectorAngle(ux, uy, vx, vy float64) float64 {
	return math.Atan2(ux*vy-uy*vx, ux*vx+uy*vy)
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}

func skipSeparators(b []byte, i int) int {
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			i++
		default:
			return i
		}
	}
	return i
}

func readNumber(b []byte, i int) (float64, int, bool) {
	i = skipSeparators(b, i)
	if i >= len(b) {
		return 0, i, false
	}
	f, n := pstrconv.ParseFloat(b[i:])
	if n == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, i, false
	}
	return f, i + n, true
}

// readFlag reads a single arc flag; flags may be packed without separators.
func readFlag(b []byte, i int) (float64, int, bool) {
	i = skipSeparators(b, i)
	if i >= len(b) {
		return 0, i, false
	}
	switch b[i] {
	case '0':
		return 0, i + 1, true
	case '1':
		return 1, i + 1, true
	}
	return 0, i, false
}
