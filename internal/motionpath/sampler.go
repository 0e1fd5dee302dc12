// Package motionpath samples positions and tangents along a shape outline by
// arc length.
package motionpath

import (
	"math"
	"sort"
)

// Point is a 2D position.
type Point struct {
	X, Y float64
}

type segment struct {
	A, B  Point
	Len   float64
	Start float64 // arc length at A
}

// Sampler answers position and tangent queries at a normalized arc-length
// distance along a flattened path.
type Sampler struct {
	segs   []segment
	total  float64
	origin Point
}

func newSampler(segs []segment, origin Point) *Sampler {
	s := &Sampler{origin: origin}
	for _, seg := range segs {
		if seg.Len <= 0 {
			continue
		}
		seg.Start = s.total
		s.total += seg.Len
		s.segs = append(s.segs, seg)
	}
	if len(segs) > 0 {
		s.origin = segs[0].A
	}
	return s
}

// Length returns the total arc length.
func (s *Sampler) Length() float64 {
	if s == nil {
		return 0
	}
	return s.total
}

// SampleAt returns the point at normalized arc-length distance u in [0,1].
func (s *Sampler) SampleAt(u float64) Point {
	seg, local, ok := s.locate(u)
	if !ok {
		if s == nil {
			return Point{}
		}
		return s.origin
	}
	f := local / seg.Len
	return Point{
		X: seg.A.X + (seg.B.X-seg.A.X)*f,
		Y: seg.A.Y + (seg.B.Y-seg.A.Y)*f,
	}
}

// TangentAngleAt returns the direction of travel at u, in degrees.
func (s *Sampler) TangentAngleAt(u float64) float64 {
	seg, _, ok := s.locate(u)
	if !ok {
		return 0
	}
	return math.Atan2(seg.B.Y-seg.A.Y, seg.B.X-seg.A.X) * 180 / math.Pi
}

// locate finds the segment holding arc length u*total and the distance into it.
func (s *Sampler) locate(u float64) (segment, float64, bool) {
	if s == nil || len(s.segs) == 0 || s.total <= 0 {
		return segment{}, 0, false
	}
	if math.IsNaN(u) || u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}

	target := u * s.total
	i := sort.Search(len(s.segs), func(i int) bool {
		return s.segs[i].Start+s.segs[i].Len >= target
	})
	if i >= len(s.segs) {
		i = len(s.segs) - 1
	}
	seg := s.segs[i]
	local := target - seg.Start
	if local < 0 {
		local = 0
	}
	if local > seg.Len {
		local = seg.Len
	}
	return seg, local, true
}

// Walk calls fn for every flattened segment in path order with the arc
// length at its start.
func (s *Sampler) Walk(fn func(a, b Point, start float64)) {
	if s == nil {
		return
	}
	for _, seg := range s.segs {
		fn(seg.A, seg.B, seg.Start)
	}
}
