// Package window plays a page in a desktop window through ebiten. The game
// loop is the display refresh: queued frame callbacks run at the start of
// every Update.
package window

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/ivlev/scrollreel/internal/host"
	"github.com/ivlev/scrollreel/internal/logger"
	"github.com/ivlev/scrollreel/internal/player"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/surface"
	"github.com/ivlev/scrollreel/internal/system"
)

const (
	DefaultWidth  = 1280
	DefaultHeight = 720

	// wheelStep is the scroll distance of one wheel notch, in CSS px.
	wheelStep = 60
	// keyStep is the distance per tick while an arrow key is held.
	keyStep = 12
)

type Host struct {
	doc    *host.VirtualDocument
	bus    *host.Bus
	frames host.FrameQueue

	mu sync.RWMutex
	vp surface.Viewport

	ctx     context.Context
	page    *player.Page
	buf     *image.RGBA
	img     *ebiten.Image
	easers  map[surface.Surface]*surface.Easer
	pointer image.Point
	inside  bool
}

var _ host.Host = (*Host)(nil)

func New(scrollLength float64) *Host {
	vp := surface.Viewport{Width: DefaultWidth, Height: DefaultHeight, DevicePixelRatio: 1}
	return &Host{
		vp:     vp,
		doc:    host.NewVirtualDocument(vp.Height, scrollLength),
		bus:    host.NewBus(),
		easers: make(map[surface.Surface]*surface.Easer),
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
	return nil
}

func (h *Host) Events() *host.Bus {
	return h.bus
}

func (h *Host) RequestFrame(fn func()) {
	h.frames.RequestFrame(fn)
}

// Run opens the window and blocks until it is closed or ctx is done.
func (h *Host) Run(ctx context.Context, pg *player.Page, title string) error {
	h.ctx = ctx
	h.page = pg

	ebiten.SetWindowSize(DefaultWidth, DefaultHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(h)
	if h.buf != nil {
		system.PutImage(h.buf)
		h.buf = nil
	}
	return err
}

func (h *Host) Update() error {
	if h.ctx != nil && h.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	h.scrollInput()
	h.pointerInput()
	h.frames.Flush()
	return nil
}

func (h *Host) scrollInput() {
	vp := h.Viewport()
	var delta float64

	if _, dy := ebiten.Wheel(); dy != 0 {
		delta -= dy * wheelStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyJ) {
		delta += keyStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyK) {
		delta -= keyStep
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		delta += vp.Height
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		delta -= vp.Height
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		h.doc.ScrollTo(0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		h.doc.ScrollTo(1)
	case delta != 0:
		h.doc.ScrollBy(delta)
	default:
		return
	}
	h.bus.Publish(host.ScrollEvent{})
}

func (h *Host) pointerInput() {
	vp := h.Viewport()
	x, y := ebiten.CursorPosition()
	p := image.Pt(x, y)
	inside := x >= 0 && y >= 0 && float64(x) < vp.Width && float64(y) < vp.Height

	switch {
	case inside && p != h.pointer:
		h.pointer = p
		h.inside = true
		h.bus.Publish(host.PointerMoveEvent{X: float64(x), Y: float64(y)})
	case !inside && h.inside:
		h.inside = false
		h.bus.Publish(host.PointerLeaveEvent{})
	}
}

func (h *Host) Draw(screen *ebiten.Image) {
	if h.page == nil {
		return
	}
	now := time.Now()
	vp := h.Viewport()
	b := screen.Bounds()
	buf := h.buffer(b.Dx(), b.Dy())
	if buf == nil {
		return
	}

	var caption string
	layers := h.page.Layers()
	if len(layers) == 0 {
		if loading := h.page.Loading(); loading != nil && loading.Placeholder() != nil {
			ph := loading.Placeholder()
			ph.Render(buf, vp.DPR())
			caption = ph.Caption(now)
		}
	} else {
		clear(buf.Pix)
		for i := range layers {
			tr := h.ease(layers[i].Surface, now)
			layers[i].Transform = &tr
		}
		surface.Compose(buf, vp, layers)
	}

	h.img.WritePixels(buf.Pix)
	screen.DrawImage(h.img, nil)
	if caption != "" {
		ebitenutil.DebugPrintAt(screen, caption, b.Dx()/2-len(caption)*3, b.Dy()/2+int(12*vp.DPR()))
	}
}

func (h *Host) ease(s surface.Surface, now time.Time) surface.Transform {
	e, ok := h.easers[s]
	if !ok {
		e = surface.NewEaser(surface.DefaultParallax.Transition)
		h.easers[s] = e
	}
	e.Set(s.Transform(), now)
	return e.At(now)
}

func (h *Host) buffer(w, ht int) *image.RGBA {
	if w <= 0 || ht <= 0 {
		return nil
	}
	if h.buf != nil && h.buf.Rect.Dx() == w && h.buf.Rect.Dy() == ht {
		return h.buf
	}
	if h.buf != nil {
		system.PutImage(h.buf)
	}
	h.buf = system.GetImage(image.Rect(0, 0, w, ht))
	if h.img != nil {
		h.img.Deallocate()
	}
	h.img = ebiten.NewImage(w, ht)
	return h.buf
}

// Layout renders at device resolution and reports window size changes as
// resize events.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	vp := surface.Viewport{
		Width:            float64(outsideWidth),
		Height:           float64(outsideHeight),
		DevicePixelRatio: scale,
	}
	h.resize(vp)
	return int(float64(outsideWidth) * scale), int(float64(outsideHeight) * scale)
}

func (h *Host) resize(vp surface.Viewport) {
	h.mu.Lock()
	if vp == h.vp {
		h.mu.Unlock()
		return
	}
	h.vp = vp
	h.mu.Unlock()

	h.doc.SetViewportHeight(vp.Height)
	logger.Log.WithFields(logrus.Fields{
		"width":  vp.Width,
		"height": vp.Height,
		"dpr":    vp.DevicePixelRatio,
	}).Debug("window resized")
	h.bus.Publish(host.ResizeEvent{})
}
