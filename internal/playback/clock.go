// Package playback advances animation time from the wall clock.
package playback

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// LoopMode controls what happens when playback reaches an end of the
// timeline.
type LoopMode int

const (
	// LoopOnce stops at the end.
	LoopOnce LoopMode = iota
	// LoopRepeat wraps back to the start.
	LoopRepeat
	// LoopPingPong reverses direction at either end.
	LoopPingPong
)

func (m LoopMode) String() string {
	switch m {
	case LoopOnce:
		return "once"
	case LoopRepeat:
		return "repeat"
	case LoopPingPong:
		return "pingpong"
	}
	return fmt.Sprintf("loop(%d)", int(m))
}

// ParseLoopMode accepts once, repeat, pingpong and ping-pong.
func ParseLoopMode(s string) (LoopMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "once", "":
		return LoopOnce, nil
	case "repeat", "loop":
		return LoopRepeat, nil
	case "pingpong", "ping-pong":
		return LoopPingPong, nil
	}
	return LoopOnce, fmt.Errorf("playback: unknown loop mode %q", s)
}

// ErrInvalidSpeed is returned for speeds that are not positive.
var ErrInvalidSpeed = errors.New("playback: speed must be positive")

// State is a snapshot of the clock.
type State struct {
	Time      float64
	IsPlaying bool
	Speed     float64
	Loop      LoopMode
	// Direction is +1 forwards and -1 backwards.
	Direction int
}

// Clock derives the query time from the wall time elapsed since play
// started, so ticks never accumulate rounding drift. It is not safe for
// concurrent use.
type Clock struct {
	duration float64
	state    State

	wallStart   time.Time
	timeAtStart float64
	dirAtStart  int
}

// Option configures a Clock.
type Option func(*Clock) error

func WithSpeed(speed float64) Option {
	return func(c *Clock) error {
		if !(speed > 0) || math.IsInf(speed, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
		}
		c.state.Speed = speed
		return nil
	}
}

func WithLoop(mode LoopMode) Option {
	return func(c *Clock) error {
		c.state.Loop = mode
		return nil
	}
}

// WithStartTime positions the clock before the first Play.
func WithStartTime(t float64) Option {
	return func(c *Clock) error {
		c.state.Time = c.clamp(t)
		return nil
	}
}

// New returns a paused clock at time 0 for a timeline of the given
// duration in seconds.
func New(duration float64, opts ...Option) (*Clock, error) {
	if math.IsNaN(duration) || duration < 0 {
		duration = 0
	}
	c := &Clock{
		duration: duration,
		state:    State{Speed: 1, Loop: LoopOnce, Direction: 1},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Duration returns the timeline length the clock wraps on.
func (c *Clock) Duration() float64 { return c.duration }

// State returns the last computed snapshot without advancing time.
func (c *Clock) State() State { return c.state }

// Play starts playback from the current time. In once mode a clock parked
// at the end restarts from 0.
func (c *Clock) Play(now time.Time) State {
	if c.state.IsPlaying {
		return c.state
	}
	if c.state.Loop == LoopOnce && c.state.Time >= c.duration {
		c.state.Time = 0
		c.state.Direction = 1
	}
	c.state.IsPlaying = true
	c.anchor(now)
	return c.state
}

// Pause stops playback, keeping the time reached at now.
func (c *Clock) Pause(now time.Time) State {
	if !c.state.IsPlaying {
		return c.state
	}
	c.Tick(now)
	c.state.IsPlaying = false
	return c.state
}

// Tick recomputes the time at now. It is a no-op while paused.
func (c *Clock) Tick(now time.Time) State {
	if !c.state.IsPlaying {
		return c.state
	}
	if c.duration <= 0 {
		c.state.Time = 0
		if c.state.Loop == LoopOnce {
			c.state.IsPlaying = false
		}
		return c.state
	}

	elapsed := now.Sub(c.wallStart).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	travel := elapsed * c.state.Speed
	d := c.duration

	switch c.state.Loop {
	case LoopRepeat:
		c.state.Time = wrap(c.timeAtStart+float64(c.dirAtStart)*travel, d)
	case LoopPingPong:
		// Unfold the back-and-forth motion onto a forward line of period 2d.
		pos := c.timeAtStart
		if c.dirAtStart < 0 {
			pos = 2*d - c.timeAtStart
		}
		m := wrap(pos+travel, 2*d)
		if m <= d {
			c.state.Time, c.state.Direction = m, 1
		} else {
			c.state.Time, c.state.Direction = 2*d-m, -1
		}
	default:
		raw := c.timeAtStart + float64(c.dirAtStart)*travel
		switch {
		case raw >= d:
			c.state.Time, c.state.IsPlaying = d, false
		case raw <= 0 && c.dirAtStart < 0:
			c.state.Time, c.state.IsPlaying = 0, false
		default:
			c.state.Time = raw
		}
	}
	return c.state
}

// Seek jumps to t, clamped to the timeline.
func (c *Clock) Seek(t float64, now time.Time) State {
	c.state.Time = c.clamp(t)
	if c.state.IsPlaying {
		c.anchor(now)
	}
	return c.state
}

// SetSpeed changes the playback rate without a jump in time.
func (c *Clock) SetSpeed(speed float64, now time.Time) error {
	if !(speed > 0) || math.IsInf(speed, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	c.reanchor(now)
	c.state.Speed = speed
	return nil
}

// SetLoop changes the loop mode without a jump in time. Modes other than
// ping-pong always run forwards.
func (c *Clock) SetLoop(mode LoopMode, now time.Time) {
	c.reanchor(now)
	c.state.Loop = mode
	if mode != LoopPingPong {
		c.state.Direction = 1
		c.dirAtStart = 1
	}
}

func (c *Clock) reanchor(now time.Time) {
	if !c.state.IsPlaying {
		return
	}
	c.Tick(now)
	if c.state.IsPlaying {
		c.anchor(now)
	}
}

func (c *Clock) anchor(now time.Time) {
	c.wallStart = now
	c.timeAtStart = c.state.Time
	c.dirAtStart = c.state.Direction
	if c.dirAtStart == 0 {
		c.dirAtStart = 1
	}
}

func (c *Clock) clamp(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > c.duration {
		return c.duration
	}
	return t
}

// wrap returns x modulo d in [0, d).
func wrap(x, d float64) float64 {
	m := math.Mod(x, d)
	if m < 0 {
		m += d
	}
	return m
}
