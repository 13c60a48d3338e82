package surface

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/ivlev/scrollreel/internal/system"
)

// elementOverscan enlarges the swapped element past the surface so parallax
// translation never uncovers an edge.
const elementOverscan = 0.05

// swapSurface swaps which decoded frame its element shows. Hosts with a
// native image element only need Current; raster hosts call Snapshot, which
// draws the frame object-cover into the overscanned element box.
type swapSurface struct {
	base

	handle image.Image
	buf    *image.RGBA
	dirty  bool
}

func (s *swapSurface) Backend() Backend {
	return BackendSwap
}

func (s *swapSurface) Resize(vp Viewport) Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.measure(vp)
	if s.buf != nil && s.buf.Rect.Dx() == s.backing.Width && s.buf.Rect.Dy() == s.backing.Height {
		return s.dims
	}
	if s.buf != nil {
		system.PutImage(s.buf)
		s.buf = nil
	}
	s.dirty = true
	return s.dims
}

func (s *swapSurface) Paint(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backing.Empty() {
		return false
	}
	img, ok := s.loaded(index)
	if !ok {
		return false
	}
	if index != s.current {
		s.dirty = true
	}
	s.handle = img
	s.current = index
	return true
}

func (s *swapSurface) Snapshot() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil || s.backing.Empty() {
		return nil
	}
	if s.buf == nil {
		s.buf = system.GetImage(image.Rect(0, 0, s.backing.Width, s.backing.Height))
		s.dirty = true
	}
	if s.dirty {
		element := overscan(s.buf.Rect, elementOverscan)
		draw.ApproxBiLinear.Scale(s.buf, element, s.handle, coverCrop(s.handle.Bounds(), element), draw.Src, nil)
		s.dirty = false
	}
	return s.buf
}

// overscan grows r by frac of its size, keeping it centred.
func overscan(r image.Rectangle, frac float64) image.Rectangle {
	dx := int(float64(r.Dx()) * frac / 2)
	dy := int(float64(r.Dy()) * frac / 2)
	return image.Rect(r.Min.X-dx, r.Min.Y-dy, r.Max.X+dx, r.Max.Y+dy)
}

// coverCrop returns the centred part of src whose aspect matches dst, so
// scaling it into dst fills dst without distortion.
func coverCrop(src, dst image.Rectangle) image.Rectangle {
	sw, sh := float64(src.Dx()), float64(src.Dy())
	dw, dh := float64(dst.Dx()), float64(dst.Dy())
	if sw <= 0 || sh <= 0 || dw <= 0 || dh <= 0 {
		return src
	}

	if sw/sh > dw/dh {
		w := int(sh * dw / dh)
		x := src.Min.X + (src.Dx()-w)/2
		return image.Rect(x, src.Min.Y, x+w, src.Max.Y)
	}
	h := int(sw * dh / dw)
	y := src.Min.Y + (src.Dy()-h)/2
	return image.Rect(src.Min.X, y, src.Max.X, y+h)
}
