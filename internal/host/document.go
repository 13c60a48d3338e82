package host

import (
	"sync"

	"github.com/ivlev/scrollreel/internal/scroll"
)

// VirtualDocument stands in for a scrolling page on hosts that have none.
// Its content is Length viewports tall, so the scrollable extent is
// (Length-1) viewport heights.
type VirtualDocument struct {
	mu     sync.Mutex
	offset float64
	height float64
	length float64
}

func NewVirtualDocument(viewportHeight, length float64) *VirtualDocument {
	if length < 1 {
		length = 1
	}
	return &VirtualDocument{height: viewportHeight, length: length}
}

func (d *VirtualDocument) Geometry() scroll.Geometry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return scroll.Geometry{Offset: d.offset, Extent: d.extent()}
}

func (d *VirtualDocument) extent() float64 {
	return (d.length - 1) * d.height
}

// ScrollBy moves the offset by delta CSS pixels, staying inside the document.
func (d *VirtualDocument) ScrollBy(delta float64) {
	d.mu.Lock()
	d.offset = clampOffset(d.offset+delta, d.extent())
	d.mu.Unlock()
}

// ScrollTo jumps to a fraction of the scrollable extent.
func (d *VirtualDocument) ScrollTo(fraction float64) {
	d.mu.Lock()
	d.offset = clampOffset(fraction*d.extent(), d.extent())
	d.mu.Unlock()
}

// SetViewportHeight keeps the scroll fraction when the viewport changes.
func (d *VirtualDocument) SetViewportHeight(h float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	old := d.extent()
	d.height = h
	if old > 0 {
		d.offset = clampOffset(d.offset/old*d.extent(), d.extent())
	} else {
		d.offset = 0
	}
}

func clampOffset(v, extent float64) float64 {
	if v < 0 || extent <= 0 {
		return 0
	}
	if v > extent {
		return extent
	}
	return v
}
