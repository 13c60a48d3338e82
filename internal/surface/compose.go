package surface

import (
	"image"
	"image/color"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Layer is one surface placed on a page. Opacity and Z come from the caller;
// no blending curve is assumed between overlapping layers.
type Layer struct {
	Surface Surface
	Opacity float64
	Z       int
	// Transform overrides Surface.Transform, e.g. with an eased value.
	Transform *Transform
}

// Compose paints layers onto dst, which spans the viewport in device pixels.
// Each surface is centred on the viewport, shifted by its parallax translate
// and scaled about its centre. Rotation is left to hosts with 3D compositing.
func Compose(dst *image.RGBA, vp Viewport, layers []Layer) {
	ordered := make([]Layer, len(layers))
	copy(ordered, layers)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Z < ordered[j].Z })

	dpr := vp.DPR()
	b := dst.Bounds()
	cx := float64(b.Min.X) + float64(b.Dx())/2
	cy := float64(b.Min.Y) + float64(b.Dy())/2

	for _, l := range ordered {
		if l.Surface == nil || l.Opacity <= 0 {
			continue
		}
		snap := l.Surface.Snapshot()
		if snap == nil {
			continue
		}

		tr := l.Surface.Transform()
		if l.Transform != nil {
			tr = *l.Transform
		}
		scale := tr.Scale
		if scale <= 0 {
			scale = 1
		}

		sb := snap.Bounds()
		dims := l.Surface.Dimensions()
		sx := scale
		sy := scale
		if sb.Dx() > 0 && sb.Dy() > 0 && dims.Width > 0 && dims.Height > 0 {
			sx = scale * dims.Width * dpr / float64(sb.Dx())
			sy = scale * dims.Height * dpr / float64(sb.Dy())
		}
		scx := float64(sb.Min.X) + float64(sb.Dx())/2
		scy := float64(sb.Min.Y) + float64(sb.Dy())/2
		tx := cx + tr.TranslateX*dpr
		ty := cy + tr.TranslateY*dpr

		s2d := f64.Aff3{
			sx, 0, tx - sx*scx,
			0, sy, ty - sy*scy,
		}

		var opts *draw.Options
		if l.Opacity < 1 {
			opts = &draw.Options{
				SrcMask: image.NewUniform(color.Alpha{A: uint8(l.Opacity * 255)}),
			}
		}
		draw.ApproxBiLinear.Transform(dst, s2d, snap, sb, draw.Over, opts)
	}
}
