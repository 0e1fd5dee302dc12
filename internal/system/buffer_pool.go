package system

import (
	"image"
	"sync"
)

// ImagePool переиспользует кадры image.RGBA одного размера, чтобы при
// экспорте превью не нагружать Garbage Collector (GC).
type ImagePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

var sharedPool = NewImagePool()

// SharedPool возвращает общий пул кадров процесса: превью разных проектов
// (например, при перезапусках в watch-режиме) переиспользуют одни буферы.
func SharedPool() *ImagePool {
	return sharedPool
}

// Get возвращает прозрачный кадр размера rect: из пула, если есть, иначе новый.
func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	img := pool.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put возвращает кадр в пул. Кадры неизвестного размера отбрасываются.
func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Sizes returns how many distinct frame sizes the pool tracks.
func (p *ImagePool) Sizes() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pools)
}
