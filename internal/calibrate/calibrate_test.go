package calibrate

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/ivlev/scrollreel/internal/source"
)

func TestFrameLayout(t *testing.T) {
	opts := Options{Width: 320, Height: 180}
	img, err := Frame(5, 10, opts)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Fatalf("Unexpected bounds %v", b)
	}

	barY := 180 - 1
	if c := img.RGBAAt(10, barY); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("Expected filled bar at left, got %+v", c)
	}
	if c := img.RGBAAt(310, barY); c != (color.RGBA{A: 255}) {
		t.Errorf("Expected empty bar at right, got %+v", c)
	}

	// The QR quiet zone is white; the background is a saturated hue.
	if c := img.RGBAAt(2, 2); c.R == c.G && c.G == c.B {
		t.Errorf("Expected coloured background, got %+v", c)
	}
}

func TestFramesDiffer(t *testing.T) {
	a, _ := Frame(1, 4, Options{Width: 64, Height: 64})
	b, _ := Frame(3, 4, Options{Width: 64, Height: 64})
	if a.RGBAAt(1, 1) == b.RGBAAt(1, 1) {
		t.Error("Expected different backgrounds for different frames")
	}
}

func TestWriteReadableBySource(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	err := Write(context.Background(), dir, 3, Options{Width: 96, Height: 54}, func(done, total int) {
		calls.Add(1)
	})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 progress calls, got %d", calls.Load())
	}

	src, err := source.Open(dir + string(filepath.Separator))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 3; i++ {
		img, err := src.Fetch(context.Background(), i)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if img.Bounds().Dx() != 96 {
			t.Errorf("frame %d: unexpected width %d", i, img.Bounds().Dx())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "4.png")); !os.IsNotExist(err) {
		t.Error("Expected exactly 3 frames")
	}
}

func TestWriteRejectsEmpty(t *testing.T) {
	if err := Write(context.Background(), t.TempDir(), 0, DefaultOptions, nil); err == nil {
		t.Error("Expected error for zero frames")
	}
}

func TestHue(t *testing.T) {
	if c := hue(0); c != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("Expected red at 0, got %+v", c)
	}
	if c := hue(1.0 / 3.0); c.G != 255 {
		t.Errorf("Expected green at 1/3, got %+v", c)
	}
}
