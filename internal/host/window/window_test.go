package window

import (
	"testing"

	"github.com/ivlev/scrollreel/internal/host"
	"github.com/ivlev/scrollreel/internal/surface"
)

func TestResizePublishesOnChange(t *testing.T) {
	h := New(4)

	resizes := 0
	h.Events().Subscribe(func(e host.Event) {
		if _, ok := e.(host.ResizeEvent); ok {
			resizes++
		}
	})

	vp := surface.Viewport{Width: 1280, Height: 720, DevicePixelRatio: 2}
	h.resize(vp)
	h.resize(vp)
	if resizes != 1 {
		t.Errorf("Expected 1 resize event, got %d", resizes)
	}
	if h.Viewport() != vp {
		t.Errorf("Viewport not updated: %+v", h.Viewport())
	}

	h.doc.ScrollTo(0.5)
	h.resize(surface.Viewport{Width: 800, Height: 600, DevicePixelRatio: 2})
	if g := h.Document().Geometry(); g.Extent != 1800 || g.Offset != 900 {
		t.Errorf("Expected scroll fraction kept, got %+v", g)
	}
}

func TestFrameQueueRunsOnFlush(t *testing.T) {
	h := New(4)
	ran := 0
	h.RequestFrame(func() { ran++ })
	h.RequestFrame(func() { ran++ })
	if h.frames.Flush() != 2 || ran != 2 {
		t.Errorf("Expected both callbacks to run, ran %d", ran)
	}
}
