//go:build js && wasm

package browser

import (
	"fmt"
	"image"
	"syscall/js"
	"time"

	"golang.org/x/image/draw"

	"github.com/ivlev/scrollreel/internal/player"
	"github.com/ivlev/scrollreel/internal/surface"
	"github.com/ivlev/scrollreel/internal/system"
)

const (
	transition = "transform 0.15s ease-out"

	trackColor   = "#374151"
	fillColor    = "#10b981"
	captionColor = "#9ca3af"
)

// view is the DOM side of one player: a fixed layer holding either a canvas
// or an overscanned image element.
type view struct {
	pl    *player.Player
	layer js.Value
	el    js.Value
	ctx2d js.Value

	shown     int
	dims      surface.Dimensions
	backing   surface.Backing
	transform string
	visible   bool
	pix       js.Value
	rgba      *image.RGBA
}

type overlay struct {
	root    js.Value
	fill    js.Value
	caption js.Value
}

// Run builds one layer per player under root and keeps them in step with
// the players on every animation frame. It returns immediately.
func (h *Host) Run(pg *player.Page, root js.Value) {
	views := make([]*view, 0, len(pg.Players()))
	for _, pl := range pg.Players() {
		views = append(views, h.newView(pl, root))
	}
	ov := h.newOverlay(root)

	var loop js.Func
	loop = js.FuncOf(func(js.Value, []js.Value) any {
		h.mu.Lock()
		stopped := h.stopped
		h.mu.Unlock()
		if stopped {
			loop.Release()
			return nil
		}

		h.frames.Flush()
		h.sync(pg, views, ov, time.Now())
		h.win.Call("requestAnimationFrame", loop)
		return nil
	})
	h.win.Call("requestAnimationFrame", loop)
}

func (h *Host) newView(pl *player.Player, root js.Value) *view {
	seq := pl.Sequence()

	layer := h.doc.Call("createElement", "div")
	layer.Get("style").Set("cssText", fmt.Sprintf(
		"position:fixed;inset:0;overflow:hidden;pointer-events:none;visibility:hidden;z-index:%d;opacity:%g", seq.Z, seq.Alpha()))
	layer.Call("setAttribute", "data-sequence", seq.ID)

	v := &view{pl: pl, layer: layer}
	switch pl.Surface().Backend() {
	case surface.BackendSwap:
		box := h.doc.Call("createElement", "div")
		box.Get("style").Set("cssText", "position:absolute;top:50%;left:50%;overflow:hidden")
		img := h.doc.Call("createElement", "img")
		img.Set("alt", "")
		img.Get("style").Set("cssText", "position:absolute;top:-2.5%;left:-2.5%;width:105%;height:105%;object-fit:cover")
		box.Call("appendChild", img)
		layer.Call("appendChild", box)
		v.el = box
		v.ctx2d = img
	default:
		canvas := h.doc.Call("createElement", "canvas")
		canvas.Get("style").Set("cssText", "position:absolute;top:50%;left:50%")
		layer.Call("appendChild", canvas)
		v.el = canvas
		v.ctx2d = canvas.Call("getContext", "2d")
	}
	v.el.Get("style").Set("transition", transition)
	v.el.Get("style").Set("transform", surface.Identity().CSS(true))

	root.Call("appendChild", layer)
	return v
}

func (h *Host) newOverlay(root js.Value) *overlay {
	el := h.doc.Call("createElement", "div")
	el.Get("style").Set("cssText",
		"position:fixed;inset:0;z-index:1000;background:#000;display:flex;flex-direction:column;align-items:center;justify-content:center;gap:12px")

	track := h.doc.Call("createElement", "div")
	track.Get("style").Set("cssText", "width:256px;height:4px;border-radius:2px;overflow:hidden;background:"+trackColor)
	fill := h.doc.Call("createElement", "div")
	fill.Get("style").Set("cssText", "width:0;height:100%;transition:width 0.2s;background:"+fillColor)
	track.Call("appendChild", fill)

	caption := h.doc.Call("createElement", "p")
	caption.Get("style").Set("cssText", "margin:0;font:14px sans-serif;color:"+captionColor)

	el.Call("appendChild", track)
	el.Call("appendChild", caption)
	root.Call("appendChild", el)
	return &overlay{root: el, fill: fill, caption: caption}
}

func (h *Host) sync(pg *player.Page, views []*view, ov *overlay, now time.Time) {
	if ov != nil && ov.root.Truthy() {
		if loading := pg.Loading(); loading != nil && loading.Placeholder() != nil {
			ph := loading.Placeholder()
			ov.fill.Get("style").Set("width", fmt.Sprintf("%.1f%%", ph.Fraction()*100))
			ov.caption.Set("textContent", ph.Caption(now))
		} else if loading == nil {
			ov.root.Call("remove")
			ov.root = js.Null()
		}
	}

	shown := make(map[surface.Surface]bool)
	for _, l := range pg.Layers() {
		shown[l.Surface] = true
	}
	for _, v := range views {
		v.update(shown[v.pl.Surface()])
	}
}

func (v *view) update(visible bool) {
	s := v.pl.Surface()

	if visible != v.visible {
		v.visible = visible
		if visible {
			v.layer.Get("style").Set("visibility", "visible")
		} else {
			v.layer.Get("style").Set("visibility", "hidden")
		}
	}

	if d := s.Dimensions(); d != v.dims {
		v.dims = d
		style := v.el.Get("style")
		style.Set("width", fmt.Sprintf("%.2fpx", d.Width))
		style.Set("height", fmt.Sprintf("%.2fpx", d.Height))
	}

	if css := s.Transform().CSS(true); css != v.transform {
		v.transform = css
		v.el.Get("style").Set("transform", css)
	}

	current := s.Current()
	switch s.Backend() {
	case surface.BackendSwap:
		if current != v.shown && current > 0 {
			v.ctx2d.Set("src", v.pl.Source().Locate(current))
			v.shown = current
		}
	default:
		b := s.Backing()
		if current == v.shown && b == v.backing {
			return
		}
		if b != v.backing {
			v.backing = b
			v.el.Set("width", b.Width)
			v.el.Set("height", b.Height)
			v.pix = js.Null()
		}
		if snap := s.Snapshot(); snap != nil {
			v.put(snap)
			v.shown = current
		}
	}
}

// put copies a raster snapshot into the canvas.
func (v *view) put(snap image.Image) {
	rgba, ok := snap.(*image.RGBA)
	if !ok {
		b := snap.Bounds()
		if v.rgba == nil || v.rgba.Rect != b {
			if v.rgba != nil {
				system.PutImage(v.rgba)
			}
			v.rgba = system.GetImage(b)
		}
		draw.Draw(v.rgba, b, snap, b.Min, draw.Src)
		rgba = v.rgba
	}

	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	if v.pix.IsNull() || v.pix.IsUndefined() || v.pix.Length() != len(rgba.Pix) {
		v.pix = js.Global().Get("Uint8ClampedArray").New(len(rgba.Pix))
	}
	js.CopyBytesToJS(v.pix, rgba.Pix)
	data := js.Global().Get("ImageData").New(v.pix, w, h)
	v.ctx2d.Call("putImageData", data, 0, 0)
}
