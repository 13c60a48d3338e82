// Package headless is a scripted host. Nothing happens until the caller
// moves the scroll position or the pointer, and frame callbacks only run on
// Flush, which makes it deterministic for tests and offline rendering.
package headless

import (
	"sync"

	"github.com/ivlev/scrollreel/internal/host"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/surface"
)

type Host struct {
	mu         sync.RWMutex
	vp         surface.Viewport
	doc        *host.VirtualDocument
	containers map[string]scroll.Container

	bus    *host.Bus
	frames host.FrameQueue
}

var _ host.Host = (*Host)(nil)

// New creates a host whose document is scrollLength viewports tall.
func New(vp surface.Viewport, scrollLength float64) *Host {
	return &Host{
		vp:         vp,
		doc:        host.NewVirtualDocument(vp.Height, scrollLength),
		containers: make(map[string]scroll.Container),
		bus:        host.NewBus(),
	}
}

func (h *Host) Viewport() surface.Viewport {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.vp
}

func (h *Host) Document() scroll.Container {
	return h.doc
}

func (h *Host) Container(name string) scroll.Container {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.containers[name]
}

func (h *Host) Events() *host.Bus {
	return h.bus
}

func (h *Host) RequestFrame(fn func()) {
	h.frames.RequestFrame(fn)
}

// AddContainer registers a named scroll container.
func (h *Host) AddContainer(name string, c scroll.Container) {
	h.mu.Lock()
	h.containers[name] = c
	h.mu.Unlock()
}

// SetScroll moves the document to fraction of its extent and publishes a
// scroll event.
func (h *Host) SetScroll(fraction float64) {
	h.doc.ScrollTo(fraction)
	h.bus.Publish(host.ScrollEvent{})
}

func (h *Host) ScrollBy(delta float64) {
	h.doc.ScrollBy(delta)
	h.bus.Publish(host.ScrollEvent{})
}

// Scrolled publishes a scroll event without moving the document, for
// containers registered with AddContainer.
func (h *Host) Scrolled() {
	h.bus.Publish(host.ScrollEvent{})
}

func (h *Host) SetViewport(vp surface.Viewport) {
	h.mu.Lock()
	h.vp = vp
	h.mu.Unlock()

	h.doc.SetViewportHeight(vp.Height)
	h.bus.Publish(host.ResizeEvent{})
}

func (h *Host) PointerMove(x, y float64) {
	h.bus.Publish(host.PointerMoveEvent{X: x, Y: y})
}

func (h *Host) PointerLeave() {
	h.bus.Publish(host.PointerLeaveEvent{})
}

// Flush runs the pending frame callbacks, as a display refresh would.
func (h *Host) Flush() int {
	return h.frames.Flush()
}

func (h *Host) Pending() int {
	return h.frames.Pending()
}
