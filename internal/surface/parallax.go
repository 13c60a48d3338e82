package surface

import (
	"fmt"
	"time"
)

// PointerOffset is a pointer position normalized to [-1,1] on both axes,
// (0,0) being the centre of the reference box.
type PointerOffset struct {
	X, Y float64
}

func (o PointerOffset) Clamp() PointerOffset {
	return PointerOffset{X: clamp(o.X, -1, 1), Y: clamp(o.Y, -1, 1)}
}

// Rect is a box in CSS pixels.
type Rect struct {
	Left, Top, Width, Height float64
}

// NormalizePointer maps a pointer position inside bounds to [-1,1]².
func NormalizePointer(x, y float64, bounds Rect) PointerOffset {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return PointerOffset{}
	}
	return PointerOffset{
		X: ((x-bounds.Left)/bounds.Width - 0.5) * 2,
		Y: ((y-bounds.Top)/bounds.Height - 0.5) * 2,
	}.Clamp()
}

// Parallax bounds the pointer-driven tilt.
type Parallax struct {
	MaxTranslate float64 // CSS px
	MaxRotate    float64 // degrees
	Scale        float64
	Transition   time.Duration
}

var DefaultParallax = Parallax{
	MaxTranslate: 8,
	MaxRotate:    0.5,
	Scale:        1.005,
	Transition:   150 * time.Millisecond,
}

// Transform is a composited 3D transform applied to a whole surface.
// It never touches raster content.
type Transform struct {
	TranslateX, TranslateY float64 // CSS px
	RotateX, RotateY       float64 // degrees
	Scale                  float64
}

func Identity() Transform {
	return Transform{Scale: 1}
}

// ParallaxTransform derives the surface transform from a pointer offset.
// Vertical pointer motion tilts around X in the opposite direction so the
// surface leans toward the pointer.
func ParallaxTransform(o PointerOffset, p Parallax) Transform {
	o = o.Clamp()
	scale := p.Scale
	if scale == 0 {
		scale = 1
	}
	return Transform{
		TranslateX: o.X * p.MaxTranslate,
		TranslateY: o.Y * p.MaxTranslate,
		RotateX:    -o.Y * p.MaxRotate,
		RotateY:    o.X * p.MaxRotate,
		Scale:      scale,
	}
}

// CSS renders the transform for a style attribute. Centered surfaces are
// positioned at 50%/50% and need the extra -50% translate.
func (t Transform) CSS(centered bool) string {
	s := fmt.Sprintf("translate3d(%.3fpx, %.3fpx, 0) rotateX(%.4fdeg) rotateY(%.4fdeg) scale(%.4f)",
		t.TranslateX, t.TranslateY, t.RotateX, t.RotateY, t.Scale)
	if centered {
		return "translate(-50%, -50%) " + s
	}
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
