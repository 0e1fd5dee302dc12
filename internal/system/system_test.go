package system

import (
	"image"
	"image/color"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagePoolReturnsClearedFrames(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 8, 4)

	img := p.Get(rect)
	require.Equal(t, rect, img.Rect)
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	p.Put(img)

	again := p.Get(rect)
	assert.Equal(t, color.RGBA{}, again.RGBAAt(1, 1))
	assert.Equal(t, 1, p.Sizes())

	p.Get(image.Rect(0, 0, 2, 2))
	assert.Equal(t, 2, p.Sizes())
}

func TestImagePoolIgnoresForeignFrames(t *testing.T) {
	p := NewImagePool()
	p.Put(nil)
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	assert.Zero(t, p.Sizes())
}

func TestSharedPool(t *testing.T) {
	assert.Same(t, SharedPool(), SharedPool())

	rect := image.Rect(0, 0, 4, 4)
	img := SharedPool().Get(rect)
	require.NotNil(t, img)
	SharedPool().Put(img)
	assert.Positive(t, SharedPool().Sizes())
}

func TestDefaultWorkers(t *testing.T) {
	assert.Positive(t, DefaultWorkers())
}

func TestReadHostStats(t *testing.T) {
	stats, err := ReadHostStats()
	if err != nil {
		t.Skipf("memory stats unavailable: %v", err)
	}
	assert.Positive(t, stats.TotalMemory)
	assert.Positive(t, stats.HeapAlloc)
	assert.LessOrEqual(t, stats.UsedPercent, 100.0)
}

func TestInitResourceLimits(t *testing.T) {
	InitResourceLimits(zerolog.Nop())
}
