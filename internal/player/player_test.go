package player

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/ivlev/scrollreel/internal/config"
	"github.com/ivlev/scrollreel/internal/host/headless"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/source"
	"github.com/ivlev/scrollreel/internal/surface"
)

type fakeSource struct {
	fail   func(index int) bool
	closed bool
}

func (f *fakeSource) FrameCount() int         { return 0 }
func (f *fakeSource) Locate(index int) string { return "" }
func (f *fakeSource) Close() error            { f.closed = true; return nil }

func (f *fakeSource) Fetch(ctx context.Context, index int) (image.Image, error) {
	if f.fail != nil && f.fail(index) {
		return nil, errors.New("404")
	}
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	img.SetRGBA(0, 0, color.RGBA{R: uint8(index), A: 255})
	return img, nil
}

var desktop = surface.Viewport{Width: 800, Height: 600, DevicePixelRatio: 1}

func waitState(t *testing.T, h *headless.Host, p *Player, want State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for p.State() != want {
		if time.Now().After(deadline) {
			t.Fatalf("player %s stuck in %s, want %s", p.ID(), p.State(), want)
		}
		h.Flush()
		time.Sleep(time.Millisecond)
	}
}

func mount(t *testing.T, seq config.Sequence, src *fakeSource) (*headless.Host, *Player) {
	t.Helper()
	h := headless.New(desktop, 6)
	p, err := New(seq, h, src, WithDebounce(time.Millisecond))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := p.Mount(context.Background()); err != nil {
		t.Fatalf("Mount failed: %v", err)
	}
	t.Cleanup(p.Unmount)
	return h, p
}

func TestScrollScenarios(t *testing.T) {
	tests := []struct {
		name   string
		seq    config.Sequence
		scroll float64
		want   int
	}{
		{
			name:   "first 30% of the page",
			seq:    config.Sequence{TotalFrames: 140, URLTemplate: "f/", StartTrigger: 0, EndTrigger: 0.3},
			scroll: 0.15,
			want:   70,
		},
		{
			name:   "double speed saturates",
			seq:    config.Sequence{TotalFrames: 100, URLTemplate: "f/", ScrollMultiplier: 2},
			scroll: 0.6,
			want:   100,
		},
		{
			name:   "top of page",
			seq:    config.Sequence{TotalFrames: 38, URLTemplate: "f/"},
			scroll: 0,
			want:   1,
		},
		{
			name:   "past the range",
			seq:    config.Sequence{TotalFrames: 140, URLTemplate: "f/", EndTrigger: 0.3},
			scroll: 0.9,
			want:   140,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, p := mount(t, tt.seq, &fakeSource{})
			waitState(t, h, p, StateReady)

			h.SetScroll(tt.scroll)
			h.Flush()

			if got := p.Frame(); got != tt.want {
				t.Errorf("Expected frame %d, got %d (progress %+v)", tt.want, got, p.Progress())
			}
		})
	}
}

func TestReadyPaintsCurrentPosition(t *testing.T) {
	h := headless.New(desktop, 6)
	p, _ := New(config.Sequence{TotalFrames: 10, URLTemplate: "f/"}, h, &fakeSource{})

	h.SetScroll(0.5)
	if err := p.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer p.Unmount()

	waitState(t, h, p, StateReady)
	if p.Frame() != 5 {
		t.Errorf("Expected frame 5 painted on ready, got %d", p.Frame())
	}
}

func TestNoPaintBeforeReady(t *testing.T) {
	h := headless.New(desktop, 6)
	block := make(chan struct{})
	src := &blockingSource{release: block}
	p, _ := New(config.Sequence{TotalFrames: 4, URLTemplate: "f/"}, h, src)
	p.Mount(context.Background())
	defer p.Unmount()

	h.SetScroll(0.5)
	h.Flush()
	if p.State() != StateLoading {
		t.Fatalf("Expected loading, got %s", p.State())
	}
	if p.Frame() != 0 {
		t.Errorf("Expected nothing painted while loading, got %d", p.Frame())
	}
	if p.Progress().Mapped != 0.5 {
		t.Errorf("Expected progress tracked while loading, got %f", p.Progress().Mapped)
	}

	close(block)
	waitState(t, h, p, StateReady)
	if p.Frame() != 2 {
		t.Errorf("Expected frame 2 after ready, got %d", p.Frame())
	}
}

type blockingSource struct {
	release chan struct{}
}

func (b *blockingSource) FrameCount() int         { return 0 }
func (b *blockingSource) Locate(index int) string { return "" }
func (b *blockingSource) Close() error            { return nil }

func (b *blockingSource) Fetch(ctx context.Context, index int) (image.Image, error) {
	<-b.release
	return image.NewRGBA(image.Rect(0, 0, 16, 9)), nil
}

var _ source.Source = (*blockingSource)(nil)

func TestAllFramesFail(t *testing.T) {
	h, p := mount(t, config.Sequence{TotalFrames: 12, URLTemplate: "f/"}, &fakeSource{
		fail: func(int) bool { return true },
	})
	waitState(t, h, p, StateReady)

	h.SetScroll(0.5)
	h.Flush()

	if p.Frame() != 0 {
		t.Errorf("Expected no frame painted, got %d", p.Frame())
	}
	if p.Surface().Snapshot() != nil {
		t.Error("Expected empty surface")
	}
	st := p.Stats().Store
	if st.Failed != 12 || st.Loaded != 0 {
		t.Errorf("Unexpected stats %+v", st)
	}
}

func TestHoldsLastGoodFrame(t *testing.T) {
	h, p := mount(t, config.Sequence{TotalFrames: 10, URLTemplate: "f/"}, &fakeSource{
		fail: func(i int) bool { return i == 6 },
	})
	waitState(t, h, p, StateReady)

	steps := []struct {
		scroll float64
		want   int
	}{
		{0.5, 5},
		{0.55, 5}, // frame 6 is missing
		{0.65, 7},
		{0.55, 7},
	}
	for _, s := range steps {
		h.SetScroll(s.scroll)
		h.Flush()
		if p.Frame() != s.want {
			t.Errorf("scroll %.2f: expected frame %d, got %d", s.scroll, s.want, p.Frame())
		}
	}
}

func TestScrollBurstCoalesced(t *testing.T) {
	h, p := mount(t, config.Sequence{TotalFrames: 100, URLTemplate: "f/"}, &fakeSource{})
	waitState(t, h, p, StateReady)
	before := p.Stats().Scroll

	for _, f := range []float64{0.1, 0.2, 0.3, 0.42} {
		h.SetScroll(f)
	}
	h.Flush()

	if p.Frame() != 42 {
		t.Errorf("Expected latest position to win, got frame %d", p.Frame())
	}
	after := p.Stats().Scroll
	if runs := after.Runs - before.Runs; runs != 1 {
		t.Errorf("Expected 1 render for the burst, got %d", runs)
	}
	if drops := after.Drops - before.Drops; drops != 3 {
		t.Errorf("Expected 3 dropped renders, got %d", drops)
	}
}

func TestPointerParallax(t *testing.T) {
	h, p := mount(t, config.Sequence{TotalFrames: 4, URLTemplate: "f/"}, &fakeSource{})

	h.PointerMove(800, 300)
	h.Flush()
	tr := p.Surface().Transform()
	if tr.TranslateX != 8 || tr.TranslateY != 0 || tr.RotateY != 0.5 {
		t.Errorf("Unexpected transform at right edge: %+v", tr)
	}

	h.PointerMove(200, 0)
	h.PointerLeave()
	h.Flush()
	tr = p.Surface().Transform()
	if tr.TranslateX != 0 || tr.TranslateY != 0 || tr.RotateX != 0 || tr.RotateY != 0 {
		t.Errorf("Expected rest transform after leave, got %+v", tr)
	}
}

func TestResizeIsDebounced(t *testing.T) {
	h, p := mount(t, config.Sequence{TotalFrames: 4, URLTemplate: "f/"}, &fakeSource{})
	waitState(t, h, p, StateReady)

	h.SetViewport(surface.Viewport{Width: 640, Height: 480})
	h.SetViewport(surface.Viewport{Width: 1920, Height: 1080, DevicePixelRatio: 2})

	deadline := time.Now().Add(5 * time.Second)
	for p.Surface().Viewport().Width != 1920 {
		if time.Now().After(deadline) {
			t.Fatal("surface never re-measured")
		}
		h.Flush()
		time.Sleep(time.Millisecond)
	}

	if b := p.Surface().Backing(); b.Width != 3840 || b.Height != 2160 {
		t.Errorf("Unexpected backing %+v", b)
	}
	if p.Frame() == 0 {
		t.Error("Expected a frame repainted after resize")
	}
}

func TestNamedScrollContainer(t *testing.T) {
	h := headless.New(desktop, 6)
	story := &movable{g: scroll.Geometry{Extent: 1000}}
	h.AddContainer("story", story)

	p, _ := New(config.Sequence{TotalFrames: 10, URLTemplate: "f/", ScrollContainer: "story"}, h, &fakeSource{})
	p.Mount(context.Background())
	defer p.Unmount()
	waitState(t, h, p, StateReady)

	h.SetScroll(0.9) // the document moves, the container does not
	h.Flush()
	if p.Frame() != 1 {
		t.Errorf("Expected container position to drive frames, got %d", p.Frame())
	}

	story.g.Offset = 300
	h.Scrolled()
	h.Flush()
	if p.Frame() != 3 {
		t.Errorf("Expected frame 3, got %d", p.Frame())
	}
}

type movable struct {
	g scroll.Geometry
}

func (m *movable) Geometry() scroll.Geometry { return m.g }

func TestUnmount(t *testing.T) {
	h, p := mount(t, config.Sequence{TotalFrames: 10, URLTemplate: "f/"}, &fakeSource{})
	waitState(t, h, p, StateReady)

	h.SetScroll(0.3)
	h.Flush()
	p.Unmount()
	p.Unmount()

	if n := h.Events().Len(); n != 0 {
		t.Errorf("Expected no subscribers after unmount, got %d", n)
	}
	h.SetScroll(0.8)
	h.Flush()
	if p.Frame() != 3 {
		t.Errorf("Expected frame to stay at 3, got %d", p.Frame())
	}
	if err := p.Mount(context.Background()); err == nil {
		t.Error("Expected error mounting twice")
	}
}

func TestNewRejectsInvalidSequence(t *testing.T) {
	h := headless.New(desktop, 6)
	_, err := New(config.Sequence{URLTemplate: "f/"}, h, &fakeSource{})
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}
}

func TestPlaceholderTracksLoad(t *testing.T) {
	h := headless.New(desktop, 6)
	start := time.Unix(100, 0)
	now := start
	p, _ := New(config.Sequence{ID: "hero", TotalFrames: 3, URLTemplate: "f/"}, h, &fakeSource{},
		WithClock(func() time.Time { return now }))

	if p.Placeholder() != nil {
		t.Fatal("Expected no placeholder before mount")
	}
	p.Mount(context.Background())
	defer p.Unmount()

	ph := p.Placeholder()
	if got := ph.Caption(now); got != "Loading hero animation..." {
		t.Errorf("Unexpected caption %q", got)
	}
	waitState(t, h, p, StateReady)
	if ph.Fraction() != 1 {
		t.Errorf("Expected full progress when ready, got %f", ph.Fraction())
	}
}
