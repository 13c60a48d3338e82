package terminal

import (
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/scrollreel/internal/player"
	"github.com/ivlev/scrollreel/internal/surface"
	"github.com/ivlev/scrollreel/internal/system"
)

const halfBlock = '▀'

var captionStyle = tcell.StyleDefault.Foreground(tcell.ColorGray).Background(tcell.ColorBlack)

func (h *Host) draw(pg *player.Page, now time.Time) {
	vp := h.Viewport()
	buf := h.buffer(int(vp.Width), int(vp.Height))
	if buf == nil {
		return
	}

	var caption string
	layers := pg.Layers()
	if len(layers) == 0 {
		if loading := pg.Loading(); loading != nil && loading.Placeholder() != nil {
			ph := loading.Placeholder()
			ph.Render(buf, 1)
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

	h.blit(buf)
	if caption != "" {
		cols, rows := h.screen.Size()
		h.text((cols-len([]rune(caption)))/2, rows/2+1, caption)
	}
	h.screen.Show()
}

// ease follows the surface's parallax target with the transition curve a
// browser would apply through CSS.
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
	return h.buf
}

// blit writes buf to the screen two pixel rows per cell row.
func (h *Host) blit(buf *image.RGBA) {
	b := buf.Bounds()
	for y := 0; y+1 < b.Dy(); y += 2 {
		for x := 0; x < b.Dx(); x++ {
			top := buf.RGBAAt(x, y)
			bottom := buf.RGBAAt(x, y+1)
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			h.screen.SetContent(x, y/2, halfBlock, nil, style)
		}
	}
}

func (h *Host) text(x, y int, s string) {
	for i, r := range []rune(s) {
		h.screen.SetContent(x+i, y, r, nil, captionStyle)
	}
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
