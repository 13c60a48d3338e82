package system

import (
	"image"
	"sync"
)

// ImagePool recycles *image.RGBA buffers by size. Surfaces and hosts
// reallocate their backing buffers on every resize, and a resize burst would
// otherwise churn through several megabytes per event.
type ImagePool struct {
	pools map[image.Point]*sync.Pool
	mu    sync.RWMutex
}

var globalPool = NewImagePool()

func NewImagePool() *ImagePool {
	return &ImagePool{pools: make(map[image.Point]*sync.Pool)}
}

// GetImage returns a transparent RGBA image covering rect, reusing a pooled
// buffer of the same size when one is available.
func GetImage(rect image.Rectangle) *image.RGBA {
	return globalPool.Get(rect)
}

// PutImage hands img back to the pool. img must not be used afterwards.
func PutImage(img *image.RGBA) {
	globalPool.Put(img)
}

func (p *ImagePool) pool(size image.Point, create bool) *sync.Pool {
	p.mu.RLock()
	pool, exists := p.pools[size]
	p.mu.RUnlock()
	if exists || !create {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Double check
	if pool, exists = p.pools[size]; exists {
		return pool
	}
	pool = &sync.Pool{
		New: func() interface{} {
			return image.NewRGBA(image.Rectangle{Max: size})
		},
	}
	p.pools[size] = pool
	return pool
}

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	if rect.Empty() {
		return image.NewRGBA(rect)
	}
	img := p.pool(rect.Size(), true).Get().(*image.RGBA)
	clear(img.Pix)
	img.Rect = rect
	return img
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Empty() {
		return
	}
	if pool := p.pool(img.Rect.Size(), false); pool != nil {
		pool.Put(img)
	}
}
