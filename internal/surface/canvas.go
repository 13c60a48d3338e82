package surface

import (
	"image"

	"github.com/gogpu/gg"
	"github.com/sirupsen/logrus"
)

// canvasSurface draws frames into a gg context whose pixel size is the
// backing store. The context is scaled by the device pixel ratio once per
// resize so every draw call works in CSS pixels.
type canvasSurface struct {
	base

	dc       *gg.Context
	bufIndex int
	buf      *gg.ImageBuf
}

func (s *canvasSurface) Backend() Backend {
	return BackendCanvas
}

func (s *canvasSurface) Resize(vp Viewport) Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.measure(vp)
	if s.backing.Empty() {
		return s.dims
	}

	if s.dc == nil {
		s.dc = gg.NewContext(s.backing.Width, s.backing.Height)
	} else if err := s.dc.Resize(s.backing.Width, s.backing.Height); err != nil {
		log.WithFields(logrus.Fields{"width": s.backing.Width, "height": s.backing.Height}).
			WithError(err).Warn("canvas resize failed")
		return s.dims
	}

	dpr := vp.DPR()
	s.dc.Identity()
	s.dc.Scale(dpr, dpr)

	// Resizing a canvas discards its pixels; put the current frame back.
	if s.current > 0 {
		s.draw(s.current)
	}
	return s.dims
}

func (s *canvasSurface) Paint(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dc == nil {
		return false
	}
	return s.draw(index)
}

func (s *canvasSurface) draw(index int) bool {
	img, ok := s.loaded(index)
	if !ok {
		return false
	}

	if s.bufIndex != index || s.buf == nil {
		s.buf = gg.ImageBufFromImage(img)
		s.bufIndex = index
	}

	s.dc.Clear()
	s.dc.DrawImageEx(s.buf, gg.DrawImageOptions{
		X:             0,
		Y:             0,
		DstWidth:      s.dims.Width,
		DstHeight:     s.dims.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
	s.current = index
	return true
}

func (s *canvasSurface) Snapshot() image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dc == nil || s.current == 0 {
		return nil
	}
	return s.dc.Image()
}
