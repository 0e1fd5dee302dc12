package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func at(sec float64) time.Time {
	return epoch.Add(time.Duration(sec * float64(time.Second)))
}

func TestRepeatWrapsAtDoubleSpeed(t *testing.T) {
	c, err := New(10, WithSpeed(2), WithLoop(LoopRepeat), WithStartTime(8))
	require.NoError(t, err)

	c.Play(at(0))
	st := c.Tick(at(2))
	assert.InDelta(t, 2, st.Time, 1e-9)
	assert.True(t, st.IsPlaying)
}

func TestOnceClampsAndStops(t *testing.T) {
	c, err := New(5)
	require.NoError(t, err)

	c.Play(at(0))
	assert.InDelta(t, 0, c.Tick(at(0)).Time, 1e-9)
	assert.True(t, c.State().IsPlaying)
	assert.InDelta(t, 3, c.Tick(at(3)).Time, 1e-9)

	st := c.Tick(at(9))
	assert.Equal(t, 5.0, st.Time)
	assert.False(t, st.IsPlaying)

	// Playing again from the end restarts.
	st = c.Play(at(10))
	assert.Equal(t, 0.0, st.Time)
	assert.InDelta(t, 1, c.Tick(at(11)).Time, 1e-9)
}

func TestPingPongReverses(t *testing.T) {
	c, err := New(4, WithLoop(LoopPingPong))
	require.NoError(t, err)
	c.Play(at(0))

	tests := []struct {
		wall float64
		time float64
		dir  int
	}{
		{1, 1, 1},
		{3, 3, 1},
		{5, 3, -1},
		{7.5, 0.5, -1},
		{9, 1, 1},
		{13, 3, -1},
	}
	for _, tt := range tests {
		st := c.Tick(at(tt.wall))
		assert.InDelta(t, tt.time, st.Time, 1e-9, "wall=%v", tt.wall)
		assert.Equal(t, tt.dir, st.Direction, "wall=%v", tt.wall)
	}
}

func TestPingPongResumesBackwards(t *testing.T) {
	c, err := New(4, WithLoop(LoopPingPong))
	require.NoError(t, err)
	c.Play(at(0))
	c.Pause(at(5)) // time 3, heading back

	st := c.State()
	assert.InDelta(t, 3, st.Time, 1e-9)
	assert.Equal(t, -1, st.Direction)

	c.Play(at(100))
	st = c.Tick(at(102))
	assert.InDelta(t, 1, st.Time, 1e-9)
	assert.Equal(t, -1, st.Direction)
}

func TestPausePreservesTime(t *testing.T) {
	c, err := New(10, WithLoop(LoopRepeat))
	require.NoError(t, err)

	c.Play(at(0))
	paused := c.Pause(at(2.5))
	assert.InDelta(t, 2.5, paused.Time, 1e-9)
	assert.False(t, paused.IsPlaying)

	// Ticks while paused do not move time.
	assert.Equal(t, paused, c.Tick(at(50)))

	c.Play(at(60))
	assert.InDelta(t, 2.5, c.Tick(at(60)).Time, 1e-9)
	assert.InDelta(t, 3.5, c.Tick(at(61)).Time, 1e-9)
}

func TestTicksDoNotDrift(t *testing.T) {
	c, err := New(1000, WithSpeed(1.5))
	require.NoError(t, err)
	c.Play(at(0))

	var st State
	for i := 1; i <= 6000; i++ {
		st = c.Tick(at(float64(i) / 60))
	}
	assert.InDelta(t, 150, st.Time, 1e-9)
}

func TestSeek(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	assert.Equal(t, 4.0, c.Seek(4, at(0)).Time)
	assert.Equal(t, 10.0, c.Seek(42, at(0)).Time)
	assert.Equal(t, 0.0, c.Seek(-1, at(0)).Time)

	c.Play(at(0))
	c.Tick(at(3))
	c.Seek(7, at(3))
	assert.InDelta(t, 8, c.Tick(at(4)).Time, 1e-9)
}

func TestSetSpeedMidPlayback(t *testing.T) {
	c, err := New(100)
	require.NoError(t, err)
	c.Play(at(0))

	require.NoError(t, c.SetSpeed(3, at(2)))
	assert.InDelta(t, 2+3*2, c.Tick(at(4)).Time, 1e-9)

	assert.ErrorIs(t, c.SetSpeed(0, at(5)), ErrInvalidSpeed)
	assert.ErrorIs(t, c.SetSpeed(-1, at(5)), ErrInvalidSpeed)
	assert.Equal(t, 3.0, c.State().Speed)

	_, err = New(1, WithSpeed(0))
	assert.ErrorIs(t, err, ErrInvalidSpeed)
}

func TestSetLoopKeepsTime(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)
	c.Play(at(0))

	c.SetLoop(LoopRepeat, at(3))
	assert.InDelta(t, 3, c.State().Time, 1e-9)
	st := c.Tick(at(6))
	assert.InDelta(t, 2, st.Time, 1e-9)
	assert.True(t, st.IsPlaying)
}

func TestZeroDurationPinsTime(t *testing.T) {
	c, err := New(0, WithLoop(LoopRepeat))
	require.NoError(t, err)
	c.Play(at(0))
	assert.Equal(t, 0.0, c.Tick(at(5)).Time)

	once, err := New(-3)
	require.NoError(t, err)
	once.Play(at(0))
	st := once.Tick(at(1))
	assert.Equal(t, 0.0, st.Time)
	assert.False(t, st.IsPlaying)
}

func TestParseLoopMode(t *testing.T) {
	tests := map[string]LoopMode{
		"once":      LoopOnce,
		"Repeat":    LoopRepeat,
		"pingpong":  LoopPingPong,
		"ping-pong": LoopPingPong,
	}
	for in, want := range tests {
		got, err := ParseLoopMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		assert.NotEmpty(t, got.String())
	}

	_, err := ParseLoopMode("bounce")
	assert.Error(t, err)
}
