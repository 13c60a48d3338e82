// Package surface owns the drawable area of a player: its cover-fit size,
// its device-pixel backing store, the frame currently shown and the
// pointer-parallax transform composited on top.
//
// Two backends share one interface. The canvas backend draws frames into a
// 2D context scaled by the device pixel ratio; the swap backend only swaps
// which decoded frame its element shows. Neither ever fails loudly: painting
// a missing frame, or painting before the first Resize, is a no-op.
package surface

import (
	"fmt"
	"image"
	"sync"

	"github.com/ivlev/scrollreel/internal/logger"
	"github.com/ivlev/scrollreel/internal/store"
)

var log = logger.Log

type Backend string

const (
	BackendCanvas Backend = "canvas"
	BackendSwap   Backend = "swap"
)

// Frames resolves frame indexes to decoded images and their load status.
type Frames interface {
	Lookup(index int) (image.Image, store.Status)
}

type Surface interface {
	// Resize recomputes cover-fit dimensions and the backing store for vp.
	Resize(vp Viewport) Dimensions
	// Paint shows frame index. It reports false, leaving the previous
	// content in place, when the frame is not loaded or the surface has
	// not been attached by a Resize yet.
	Paint(index int) bool
	SetPointerOffset(o PointerOffset)

	Transform() Transform
	Dimensions() Dimensions
	Backing() Backing
	Viewport() Viewport
	// Current is the index on screen, 0 before the first successful paint.
	Current() int
	// Snapshot returns the raster content at backing resolution, or nil when
	// nothing has been painted. The image may be reused by the next call.
	Snapshot() image.Image
	Backend() Backend
}

type Options struct {
	AspectRatio float64
	Parallax    Parallax
}

func New(backend Backend, frames Frames, opts Options) (Surface, error) {
	if opts.AspectRatio <= 0 {
		opts.AspectRatio = 16.0 / 9.0
	}
	if opts.Parallax == (Parallax{}) {
		opts.Parallax = DefaultParallax
	}
	b := base{frames: frames, aspect: opts.AspectRatio, parallax: opts.Parallax}

	switch backend {
	case BackendCanvas, "":
		return &canvasSurface{base: b}, nil
	case BackendSwap:
		return &swapSurface{base: b}, nil
	default:
		return nil, fmt.Errorf("unknown surface backend %q", backend)
	}
}

// base carries the state both backends share.
type base struct {
	mu sync.Mutex

	frames   Frames
	aspect   float64
	parallax Parallax

	vp      Viewport
	dims    Dimensions
	backing Backing
	current int
	pointer PointerOffset
}

func (b *base) measure(vp Viewport) {
	b.vp = vp
	b.dims = Cover(vp, b.aspect)
	b.backing = BackingFor(b.dims, vp.DPR())
}

// loaded returns the frame only when its status is loaded.
func (b *base) loaded(index int) (image.Image, bool) {
	if b.frames == nil {
		return nil, false
	}
	img, st := b.frames.Lookup(index)
	if st != store.StatusLoaded || img == nil {
		return nil, false
	}
	return img, true
}

func (b *base) SetPointerOffset(o PointerOffset) {
	b.mu.Lock()
	b.pointer = o.Clamp()
	b.mu.Unlock()
}

func (b *base) Transform() Transform {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ParallaxTransform(b.pointer, b.parallax)
}

func (b *base) Dimensions() Dimensions {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dims
}

func (b *base) Backing() Backing {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.backing
}

func (b *base) Viewport() Viewport {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.vp
}

func (b *base) Current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
