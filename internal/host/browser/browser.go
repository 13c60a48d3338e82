//go:build js && wasm

// Package browser hosts players in a web page. Scroll, resize, orientation
// and pointer listeners feed the event bus; a requestAnimationFrame loop runs
// queued frame callbacks and pushes surfaces into the DOM.
package browser

import (
	"sync"
	"syscall/js"

	"github.com/ivlev/scrollreel/internal/host"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/surface"
)

type Host struct {
	win js.Value
	doc js.Value

	bus    *host.Bus
	frames host.FrameQueue

	mu       sync.Mutex
	funcs    []js.Func
	removers []func()
	probe    js.Value
	stopped  bool
}

var _ host.Host = (*Host)(nil)

func New() *Host {
	h := &Host{
		win: js.Global(),
		doc: js.Global().Get("document"),
		bus: host.NewBus(),
	}

	// A fixed 100lvh element measures the viewport with browser toolbars
	// collapsed.
	h.probe = h.doc.Call("createElement", "div")
	h.probe.Get("style").Set("cssText", "position:fixed;top:0;left:0;width:0;height:100lvh;visibility:hidden;pointer-events:none")
	h.doc.Get("body").Call("appendChild", h.probe)

	passive := map[string]any{"passive": true}
	h.listen(h.win, "scroll", passive, func(js.Value) { h.bus.Publish(host.ScrollEvent{}) })
	h.listen(h.win, "resize", nil, func(js.Value) { h.bus.Publish(host.ResizeEvent{}) })
	h.listen(h.win, "orientationchange", nil, func(js.Value) { h.bus.Publish(host.ResizeEvent{}) })
	h.listen(h.doc, "mousemove", passive, func(ev js.Value) {
		h.bus.Publish(host.PointerMoveEvent{X: ev.Get("clientX").Float(), Y: ev.Get("clientY").Float()})
	})
	h.listen(h.doc.Get("documentElement"), "mouseleave", nil, func(js.Value) {
		h.bus.Publish(host.PointerLeaveEvent{})
	})
	return h
}

func (h *Host) listen(target js.Value, name string, opts map[string]any, fn func(ev js.Value)) {
	cb := js.FuncOf(func(_ js.Value, args []js.Value) any {
		var ev js.Value
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	if opts != nil {
		target.Call("addEventListener", name, cb, opts)
	} else {
		target.Call("addEventListener", name, cb)
	}

	h.mu.Lock()
	h.funcs = append(h.funcs, cb)
	h.removers = append(h.removers, func() { target.Call("removeEventListener", name, cb) })
	h.mu.Unlock()
}

func (h *Host) Viewport() surface.Viewport {
	return surface.Viewport{
		Width:            h.win.Get("innerWidth").Float(),
		Height:           h.win.Get("innerHeight").Float(),
		LargeHeight:      h.probe.Get("offsetHeight").Float(),
		DevicePixelRatio: h.win.Get("devicePixelRatio").Float(),
	}
}

func (h *Host) Document() scroll.Container {
	return documentContainer{win: h.win, doc: h.doc}
}

// Container resolves an element by id, then by CSS selector.
func (h *Host) Container(name string) scroll.Container {
	el := h.doc.Call("getElementById", name)
	if el.IsNull() {
		el = h.doc.Call("querySelector", name)
	}
	if el.IsNull() || el.IsUndefined() {
		return nil
	}
	h.listen(el, "scroll", map[string]any{"passive": true}, func(js.Value) {
		h.bus.Publish(host.ScrollEvent{})
	})
	return elementContainer{el: el}
}

func (h *Host) Events() *host.Bus {
	return h.bus
}

func (h *Host) RequestFrame(fn func()) {
	h.frames.RequestFrame(fn)
}

// Close removes every listener and stops the animation loop.
func (h *Host) Close() {
	h.mu.Lock()
	h.stopped = true
	funcs, removers := h.funcs, h.removers
	h.funcs, h.removers = nil, nil
	h.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
	for _, cb := range funcs {
		cb.Release()
	}
	h.probe.Call("remove")
}

type documentContainer struct {
	win, doc js.Value
}

func (d documentContainer) Geometry() scroll.Geometry {
	top := d.win.Get("pageYOffset").Float()
	if top == 0 {
		top = d.doc.Get("documentElement").Get("scrollTop").Float()
	}
	return scroll.Geometry{
		Offset: top,
		Extent: d.doc.Get("body").Get("scrollHeight").Float() - d.win.Get("innerHeight").Float(),
	}
}

type elementContainer struct {
	el js.Value
}

func (e elementContainer) Geometry() scroll.Geometry {
	return scroll.Geometry{
		Offset: e.el.Get("scrollTop").Float(),
		Extent: e.el.Get("scrollHeight").Float() - e.el.Get("clientHeight").Float(),
	}
}
