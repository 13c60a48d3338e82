// Package terminal plays a page inside a terminal. Every cell shows two
// pixels with an upper half block, the foreground colour being the top pixel
// and the background the bottom one, so one cell row is two pixel rows.
package terminal

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/ivlev/scrollreel/internal/host"
	"github.com/ivlev/scrollreel/internal/logger"
	"github.com/ivlev/scrollreel/internal/player"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/surface"
	"github.com/ivlev/scrollreel/internal/system"
)

// ScrollStep is how far one wheel notch or j/k press moves, in viewports.
const ScrollStep = 0.05

const frameInterval = 16 * time.Millisecond // ~60 FPS

type Host struct {
	screen tcell.Screen
	doc    *host.VirtualDocument
	bus    *host.Bus
	frames host.FrameQueue

	mu sync.RWMutex
	vp surface.Viewport

	buf    *image.RGBA
	easers map[surface.Surface]*surface.Easer
	inside bool
}

var _ host.Host = (*Host)(nil)

// New opens the controlling terminal.
func New(scrollLength float64) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen, scrollLength)
}

// NewWithScreen initialises screen and enables mouse and focus reporting.
func NewWithScreen(screen tcell.Screen, scrollLength float64) (*Host, error) {
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()

	h := &Host{
		screen: screen,
		bus:    host.NewBus(),
		easers: make(map[surface.Surface]*surface.Easer),
	}
	h.vp = h.measure()
	h.doc = host.NewVirtualDocument(h.vp.Height, scrollLength)
	return h, nil
}

func (h *Host) measure() surface.Viewport {
	cols, rows := h.screen.Size()
	return surface.Viewport{
		Width:            float64(cols),
		Height:           float64(rows * 2),
		DevicePixelRatio: 1,
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

// Container always returns nil: a terminal has a single scroll position.
func (h *Host) Container(name string) scroll.Container {
	return nil
}

func (h *Host) Events() *host.Bus {
	return h.bus
}

func (h *Host) RequestFrame(fn func()) {
	h.frames.RequestFrame(fn)
}

func (h *Host) Close() {
	h.screen.Fini()
	if h.buf != nil {
		system.PutImage(h.buf)
		h.buf = nil
	}
}

// Run drives the page until the user quits or ctx is done.
func (h *Host) Run(ctx context.Context, pg *player.Page) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-eventChan:
			if !h.handleInput(ev) {
				return nil
			}

		case now := <-ticker.C:
			h.frames.Flush()
			h.draw(pg, now)
		}
	}
}

// handleInput translates terminal input into host events. It returns false
// when the user asked to quit.
func (h *Host) handleInput(ev tcell.Event) bool {
	step := h.Viewport().Height * ScrollStep

	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyDown:
			h.scrollBy(step)
		case tcell.KeyUp:
			h.scrollBy(-step)
		case tcell.KeyPgDn:
			h.scrollBy(h.Viewport().Height)
		case tcell.KeyPgUp:
			h.scrollBy(-h.Viewport().Height)
		case tcell.KeyHome:
			h.scrollTo(0)
		case tcell.KeyEnd:
			h.scrollTo(1)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'j':
				h.scrollBy(step)
			case 'k':
				h.scrollBy(-step)
			case ' ':
				h.scrollBy(h.Viewport().Height)
			case 'g':
				h.scrollTo(0)
			case 'G':
				h.scrollTo(1)
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		switch btn := ev.Buttons(); {
		case btn&tcell.WheelUp != 0:
			h.scrollBy(-step)
		case btn&tcell.WheelDown != 0:
			h.scrollBy(step)
		default:
			h.inside = true
			// Aim at the centre of the two pixels the cell covers.
			h.bus.Publish(host.PointerMoveEvent{X: float64(x) + 0.5, Y: float64(y*2) + 1})
		}

	case *tcell.EventFocus:
		if !ev.Focused && h.inside {
			h.inside = false
			h.bus.Publish(host.PointerLeaveEvent{})
		}

	case *tcell.EventResize:
		vp := h.measure()
		h.mu.Lock()
		h.vp = vp
		h.mu.Unlock()
		h.doc.SetViewportHeight(vp.Height)
		h.screen.Sync()

		logger.Log.WithFields(logrus.Fields{"cols": vp.Width, "rows": vp.Height / 2}).Debug("terminal resized")
		h.bus.Publish(host.ResizeEvent{})
	}

	return true
}

func (h *Host) scrollBy(delta float64) {
	h.doc.ScrollBy(delta)
	h.bus.Publish(host.ScrollEvent{})
}

func (h *Host) scrollTo(fraction float64) {
	h.doc.ScrollTo(fraction)
	h.bus.Publish(host.ScrollEvent{})
}
