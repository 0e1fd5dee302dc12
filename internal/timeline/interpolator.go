// Package timeline evaluates keyframe tracks at a point in time.
package timeline

import (
	"math"
	"sort"

	"github.com/ivlev/animtimeline/internal/easing"
	"github.com/ivlev/animtimeline/internal/value"
)

// Keyframe anchors a property value at a specific time
type Keyframe struct {
	Time   float64     `yaml:"time"`             // Time offset in seconds
	Value  value.Value `yaml:"value"`            // Value held at Time
	Easing string      `yaml:"easing,omitempty"` // Curve used towards the next keyframe
	Freeze bool        `yaml:"freeze,omitempty"` // Hold Value until the next keyframe, then jump
}

// Track is the ordered keyframes of one node property
type Track struct {
	NodeID    string     `yaml:"node"`
	Property  string     `yaml:"property"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// Evaluate returns the track's value at currentTime. An empty track yields
// fallback, or the property default when fallback is absent.
func Evaluate(track Track, currentTime float64, fallback value.Value) value.Value {
	keyframes := sorted(track.Keyframes)
	if len(keyframes) == 0 {
		if fallback.IsAbsent() {
			return DefaultValue(track.Property)
		}
		return fallback
	}

	// NaN compares false everywhere, so the bracket search below would run off the end
	last := keyframes[len(keyframes)-1]
	if math.IsNaN(currentTime) {
		return last.Value
	}

	// If before first keyframe, use first keyframe
	if currentTime <= keyframes[0].Time {
		return keyframes[0].Value
	}

	// If after last keyframe, use last keyframe
	if currentTime >= last.Time {
		return last.Value
	}

	// Find surrounding keyframes
	i := sort.Search(len(keyframes), func(i int) bool {
		return keyframes[i].Time >= currentTime
	})
	if i >= len(keyframes) {
		return last.Value
	}
	nextKf := keyframes[i]
	if nextKf.Time == currentTime {
		return nextKf.Value
	}
	prevKf := keyframes[i-1]

	if prevKf.Freeze {
		return prevKf.Value
	}

	// Calculate interpolation factor (0.0 to 1.0)
	timeDelta := nextKf.Time - prevKf.Time
	if timeDelta <= 0 {
		return nextKf.Value
	}
	t := (currentTime - prevKf.Time) / timeDelta

	return value.Blend(prevKf.Value, nextKf.Value, easing.Ease(t, prevKf.Easing))
}

// sorted returns keyframes ordered by time, copying only when the input
// is out of order.
func sorted(keyframes []Keyframe) []Keyframe {
	if sort.SliceIsSorted(keyframes, func(i, j int) bool {
		return keyframes[i].Time < keyframes[j].Time
	}) {
		return keyframes
	}
	cp := make([]Keyframe, len(keyframes))
	copy(cp, keyframes)
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Time < cp[j].Time
	})
	return cp
}

// Span returns the earliest and latest keyframe time of the track.
func (t Track) Span() (start, end float64, ok bool) {
	if len(t.Keyframes) == 0 {
		return 0, 0, false
	}
	start, end = t.Keyframes[0].Time, t.Keyframes[0].Time
	for _, kf := range t.Keyframes[1:] {
		if kf.Time < start {
			start = kf.Time
		}
		if kf.Time > end {
			end = kf.Time
		}
	}
	return start, end, true
}

// Duration returns the time of the latest keyframe across tracks.
func Duration(tracks []Track) float64 {
	d := 0.0
	for _, tr := range tracks {
		if _, end, ok := tr.Span(); ok && end > d {
			d = end
		}
	}
	return d
}

// Span returns the keyframe span of the named node property across tracks.
func Span(tracks []Track, nodeID, property string) (start, end float64, ok bool) {
	for _, tr := range tracks {
		if tr.NodeID != nodeID || tr.Property != property {
			continue
		}
		s, e, has := tr.Span()
		if !has {
			continue
		}
		if !ok || s < start {
			start = s
		}
		if !ok || e > end {
			end = e
		}
		ok = true
	}
	return start, end, ok
}
