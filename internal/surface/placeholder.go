package surface

import (
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"
)

const DefaultCaptionInterval = 800 * time.Millisecond

var (
	placeholderBackground = color.RGBA{A: 255}
	placeholderTrack      = color.RGBA{R: 0x37, G: 0x41, B: 0x51, A: 0xff}
	placeholderFill       = color.RGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
)

// Placeholder is what a player shows while its frames are loading: a
// progress fraction and a caption that rotates through Texts.
type Placeholder struct {
	Texts    []string
	Interval time.Duration

	progress func() (settled, total int)
	start    time.Time
}

func NewPlaceholder(texts []string, progress func() (settled, total int), now time.Time) *Placeholder {
	return &Placeholder{
		Texts:    texts,
		Interval: DefaultCaptionInterval,
		progress: progress,
		start:    now,
	}
}

func (p *Placeholder) Fraction() float64 {
	if p.progress == nil {
		return 0
	}
	settled, total := p.progress()
	if total <= 0 {
		return 1
	}
	return clamp(float64(settled)/float64(total), 0, 1)
}

func (p *Placeholder) Caption(now time.Time) string {
	if len(p.Texts) == 0 {
		return ""
	}
	if p.Interval <= 0 || now.Before(p.start) {
		return p.Texts[0]
	}
	step := int(now.Sub(p.start) / p.Interval)
	return p.Texts[step%len(p.Texts)]
}

// Render draws the progress bar centred on dst: a 256×4 px track (scaled by
// dpr) on black. Captions are left to hosts that can render text.
func (p *Placeholder) Render(dst draw.Image, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(placeholderBackground), image.Point{}, draw.Src)

	w := int(256 * dpr)
	if w > b.Dx()*3/4 {
		w = b.Dx() * 3 / 4
	}
	h := int(4 * dpr)
	if h < 1 {
		h = 1
	}
	x := b.Min.X + (b.Dx()-w)/2
	y := b.Min.Y + (b.Dy()-h)/2

	track := image.Rect(x, y, x+w, y+h)
	draw.Draw(dst, track, image.NewUniform(placeholderTrack), image.Point{}, draw.Src)

	fill := track
	fill.Max.X = x + int(float64(w)*p.Fraction())
	draw.Draw(dst, fill, image.NewUniform(placeholderFill), image.Point{}, draw.Src)
}
