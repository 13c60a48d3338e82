// Package player binds one frame sequence to a host. A player preloads every
// frame, follows scroll progress through its active range and paints the
// selected frame once loading has settled. Pointer movement drives a
// parallax transform that never changes which frame is shown.
package player

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/scrollreel/internal/config"
	"github.com/ivlev/scrollreel/internal/host"
	"github.com/ivlev/scrollreel/internal/logger"
	"github.com/ivlev/scrollreel/internal/schedule"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/selector"
	"github.com/ivlev/scrollreel/internal/source"
	"github.com/ivlev/scrollreel/internal/store"
	"github.com/ivlev/scrollreel/internal/surface"
)

var log = logger.Log

type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

type Option func(*Player)

// WithDebounce sets the quiet period before the surface is re-measured
// after resize and scroll bursts.
func WithDebounce(d time.Duration) Option {
	return func(p *Player) { p.debounce = d }
}

func WithParallax(px surface.Parallax) Option {
	return func(p *Player) { p.parallax = px }
}

// WithClock replaces time.Now for placeholder captions.
func WithClock(now func() time.Time) Option {
	return func(p *Player) { p.now = now }
}

type Player struct {
	seq  config.Sequence
	host host.Host
	src  source.Source

	store   *store.Store
	surface surface.Surface
	tracker *scroll.Tracker

	scrollC  *schedule.Coalescer
	pointerC *schedule.Coalescer
	resize   *schedule.Debouncer

	debounce time.Duration
	parallax surface.Parallax
	now      func() time.Time

	mu          sync.Mutex
	state       State
	unmounted   bool
	sub         host.Subscription
	cancel      context.CancelFunc
	scroller    scroll.Container
	placeholder *surface.Placeholder
}

// New builds an unmounted player. seq gets its defaults applied and is
// validated; src must address seq.TotalFrames frames.
func New(seq config.Sequence, h host.Host, src source.Source, opts ...Option) (*Player, error) {
	seq = seq.WithDefaults()
	if err := seq.Validate(); err != nil {
		return nil, fmt.Errorf("sequence %q: %w", seq.ID, err)
	}

	p := &Player{
		seq:      seq,
		host:     h,
		src:      src,
		debounce: time.Duration(config.DefaultDebounceMs) * time.Millisecond,
		parallax: surface.DefaultParallax,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.store = store.New(src, seq.TotalFrames,
		store.WithID(seq.ID),
		store.WithMaxConcurrent(seq.MaxConcurrent),
	)

	surf, err := surface.New(surface.Backend(seq.Backend), p.store, surface.Options{
		AspectRatio: seq.AspectRatio,
		Parallax:    p.parallax,
	})
	if err != nil {
		return nil, fmt.Errorf("sequence %q: %w", seq.ID, err)
	}
	p.surface = surf

	p.tracker = scroll.NewTracker(scroll.Range{Start: seq.StartTrigger, End: seq.EndTrigger})
	p.scrollC = schedule.NewCoalescer(h)
	p.pointerC = schedule.NewCoalescer(h)
	p.resize = schedule.NewDebouncer(p.debounce, func() {
		h.RequestFrame(p.remeasure)
	})
	return p, nil
}

// Mount sizes the surface, starts listening to host events and begins
// preloading. A player can be mounted once.
func (p *Player) Mount(ctx context.Context) error {
	p.mu.Lock()
	if p.state != StateUnloaded {
		p.mu.Unlock()
		return fmt.Errorf("player %q already mounted", p.seq.ID)
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.state = StateLoading
	p.scroller = p.resolveContainer()
	p.placeholder = surface.NewPlaceholder(p.seq.LoadingTexts, p.store.Progress, p.now())
	p.sub = p.host.Events().Subscribe(p.handle)
	p.mu.Unlock()

	dims := p.surface.Resize(p.host.Viewport())
	log.WithFields(logrus.Fields{
		"sequence": p.seq.ID,
		"frames":   p.seq.TotalFrames,
		"backend":  p.seq.Backend,
		"width":    dims.Width,
		"height":   dims.Height,
	}).Debug("player mounted")

	ready := p.store.Load(ctx)
	go func() {
		select {
		case <-ready:
			p.host.RequestFrame(p.markReady)
		case <-ctx.Done():
		}
	}()
	return nil
}

func (p *Player) resolveContainer() scroll.Container {
	name := p.seq.ScrollContainer
	if name == "" {
		return p.host.Document()
	}
	if c := p.host.Container(name); c != nil {
		return c
	}
	log.WithFields(logrus.Fields{"sequence": p.seq.ID, "container": name}).
		Warn("scroll container not found, following the document")
	return p.host.Document()
}

// Unmount stops event handling and abandons outstanding loads. The player
// keeps its last state and frame.
func (p *Player) Unmount() {
	p.mu.Lock()
	if p.state == StateUnloaded || p.unmounted {
		p.mu.Unlock()
		return
	}
	p.unmounted = true
	cancel := p.cancel
	sub := p.sub
	p.mu.Unlock()

	p.host.Events().Unsubscribe(sub)
	p.scrollC.Cancel()
	p.pointerC.Cancel()
	p.resize.Stop()
	cancel()

	log.WithFields(logrus.Fields{"sequence": p.seq.ID}).Debug("player unmounted")
}

// Close unmounts the player and releases its frame source.
func (p *Player) Close() error {
	p.Unmount()
	return p.src.Close()
}

func (p *Player) markReady() {
	p.mu.Lock()
	if p.unmounted || p.state != StateLoading {
		p.mu.Unlock()
		return
	}
	p.state = StateReady
	p.mu.Unlock()

	st := p.store.Stats()
	entry := log.WithFields(logrus.Fields{
		"sequence": p.seq.ID,
		"loaded":   st.Loaded,
		"failed":   st.Failed,
		"elapsed":  st.Elapsed.Round(time.Millisecond),
	})
	if st.Loaded == 0 {
		entry.Warn("no frames loaded")
	} else {
		entry.Debug("player ready")
	}
	p.render()
}

func (p *Player) handle(e host.Event) {
	switch ev := e.(type) {
	case host.ScrollEvent:
		p.scrollC.Schedule(p.render)
		// Mobile browsers resize the viewport while their toolbars
		// collapse during scroll.
		p.resize.Trigger()
	case host.ResizeEvent:
		p.resize.Trigger()
	case host.PointerMoveEvent:
		p.pointerC.Schedule(func() { p.point(ev.X, ev.Y) })
	case host.PointerLeaveEvent:
		p.pointerC.Schedule(func() { p.surface.SetPointerOffset(surface.PointerOffset{}) })
	}
}

// render samples scroll progress and, once ready, paints the selected frame.
func (p *Player) render() {
	p.mu.Lock()
	c := p.scroller
	p.mu.Unlock()
	if c == nil {
		return
	}

	progress := p.tracker.Sample(c.Geometry())
	if p.State() != StateReady {
		return
	}
	idx := selector.Select(progress, p.seq.TotalFrames, p.seq.ScrollMultiplier)
	p.surface.Paint(idx)
}

func (p *Player) point(x, y float64) {
	vp := p.host.Viewport()
	o := surface.NormalizePointer(x, y, surface.Rect{Width: vp.Width, Height: vp.Height})
	p.surface.SetPointerOffset(o)
}

func (p *Player) remeasure() {
	p.mu.Lock()
	unmounted := p.unmounted
	p.mu.Unlock()
	if unmounted {
		return
	}

	vp := p.host.Viewport()
	dims := p.surface.Resize(vp)
	log.WithFields(logrus.Fields{
		"sequence": p.seq.ID,
		"width":    dims.Width,
		"height":   dims.Height,
		"dpr":      vp.DPR(),
	}).Debug("surface resized")
	p.render()
}

func (p *Player) ID() string {
	return p.seq.ID
}

func (p *Player) Sequence() config.Sequence {
	return p.seq
}

func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Frame is the index on screen, 0 until the first successful paint.
func (p *Player) Frame() int {
	return p.surface.Current()
}

func (p *Player) Progress() scroll.State {
	return p.tracker.State()
}

// Active reports whether the last scroll sample fell inside the sequence's
// trigger range.
func (p *Player) Active() bool {
	return p.tracker.Active()
}

func (p *Player) Surface() surface.Surface {
	return p.surface
}

func (p *Player) Store() *store.Store {
	return p.store
}

func (p *Player) Source() source.Source {
	return p.src
}

// Placeholder is nil until the player is mounted.
func (p *Player) Placeholder() *surface.Placeholder {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placeholder
}

func (p *Player) Layer() surface.Layer {
	return surface.Layer{Surface: p.surface, Opacity: p.seq.Alpha(), Z: p.seq.Z}
}

type Stats struct {
	Store   store.Stats
	Scroll  schedule.CoalescerStats
	Pointer schedule.CoalescerStats
}

func (p *Player) Stats() Stats {
	return Stats{
		Store:   p.store.Stats(),
		Scroll:  p.scrollC.Stats(),
		Pointer: p.pointerC.Stats(),
	}
}
