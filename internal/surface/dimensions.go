package surface

import "math"

// MobileBreakpoint is the widest viewport (CSS px) treated as a phone.
const MobileBreakpoint = 768

// Viewport describes the host's visible area in CSS pixels.
type Viewport struct {
	Width  float64
	Height float64
	// LargeHeight is the viewport height with browser chrome collapsed, when
	// the host can measure it. Zero means unknown.
	LargeHeight      float64
	DevicePixelRatio float64
}

func (v Viewport) DPR() float64 {
	if v.DevicePixelRatio <= 0 {
		return 1
	}
	return v.DevicePixelRatio
}

// EffectiveHeight picks the large viewport height on narrow screens so the
// surface does not jump while an address bar collapses during scroll.
func (v Viewport) EffectiveHeight() float64 {
	if v.Width <= MobileBreakpoint && v.LargeHeight > v.Height {
		return v.LargeHeight
	}
	return v.Height
}

// Dimensions are CSS pixels.
type Dimensions struct {
	Width  float64
	Height float64
}

// Covers reports whether d fully covers a w×h area.
func (d Dimensions) Covers(w, h float64) bool {
	return d.Width >= w && d.Height >= h
}

// Backing is the device-pixel resolution of a surface.
type Backing struct {
	Width  int
	Height int
}

func (b Backing) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Cover sizes a surface to fully cover the viewport. It computes a
// height-driven width and a width-driven height and keeps the larger value
// on each axis, so the surface is never letterboxed.
func Cover(vp Viewport, aspect float64) Dimensions {
	vw, vh := vp.Width, vp.EffectiveHeight()
	if vw <= 0 || vh <= 0 || aspect <= 0 {
		return Dimensions{}
	}

	heightBasedWidth := vh * aspect
	widthBasedHeight := vw / aspect

	return Dimensions{
		Width:  math.Max(vw, heightBasedWidth),
		Height: math.Max(vh, widthBasedHeight),
	}
}

// BackingFor scales CSS dimensions by the device pixel ratio, rounding up so
// the backing store never falls short of the CSS box.
func BackingFor(d Dimensions, dpr float64) Backing {
	if dpr <= 0 {
		dpr = 1
	}
	return Backing{
		Width:  int(math.Ceil(d.Width*dpr - 1e-9)),
		Height: int(math.Ceil(d.Height*dpr - 1e-9)),
	}
}
