// Package calibrate generates numbered test frames. Each frame carries a QR
// code of its index over a background whose hue walks the colour wheel, and
// a bar showing its position in the sequence, so scroll-to-frame mapping can
// be checked by eye or by scanning the screen.
package calibrate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrollreel/internal/logger"
)

type Options struct {
	Width  int
	Height int
}

var DefaultOptions = Options{Width: 1280, Height: 720}

// Payload is the text encoded in the QR code of a frame.
func Payload(index, total int) string {
	return fmt.Sprintf("frame %d/%d", index, total)
}

// Frame renders calibration frame index of total.
func Frame(index, total int, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions
	}
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))

	bg := hue(float64(index-1) / float64(max(total, 1)))
	drawRect(img, img.Rect, bg)

	q, err := qrcode.New(Payload(index, total), qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", index, err)
	}
	size := min(opts.Width, opts.Height) / 2
	code := q.Image(size)

	at := image.Pt((opts.Width-size)/2, (opts.Height-size)/2)
	draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))}, code, code.Bounds().Min, draw.Src)

	// Position bar along the bottom edge.
	barH := max(opts.Height/40, 2)
	track := image.Rect(0, opts.Height-barH, opts.Width, opts.Height)
	drawRect(img, track, color.RGBA{A: 255})
	fill := track
	fill.Max.X = opts.Width * index / max(total, 1)
	drawRect(img, fill, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	return img, nil
}

// Write renders frames 1..total into dir as {index}.png, the layout a
// "dir/" URL template expects. progress, when set, is called after every
// frame from worker goroutines.
func Write(ctx context.Context, dir string, total int, opts Options, progress func(done, total int)) error {
	if total < 1 {
		return fmt.Errorf("total frames must be >= 1, got %d", total)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{"dir": dir, "frames": total}).Info("writing calibration frames")

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := 1; i <= total; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := Frame(i, total, opts)
			if err != nil {
				return err
			}
			if err := writePNG(filepath.Join(dir, strconv.Itoa(i)+".png"), img); err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			if progress != nil {
				progress(int(done.Add(1)), total)
			}
			return nil
		})
	}
	return g.Wait()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// hue maps t in [0,1) to a saturated colour.
func hue(t float64) color.RGBA {
	h := t * 6
	i := int(h) % 6
	f := h - float64(int(h))
	q := uint8(255 * (1 - f))
	p := uint8(255 * f)
	switch i {
	case 0:
		return color.RGBA{R: 255, G: p, A: 255}
	case 1:
		return color.RGBA{R: q, G: 255, A: 255}
	case 2:
		return color.RGBA{G: 255, B: p, A: 255}
	case 3:
		return color.RGBA{G: q, B: 255, A: 255}
	case 4:
		return color.RGBA{R: p, B: 255, A: 255}
	default:
		return color.RGBA{R: 255, B: q, A: 255}
	}
}

// drawRect draws a filled rectangle
func drawRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}
