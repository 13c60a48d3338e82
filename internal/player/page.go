package player

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/scrollreel/internal/config"
	"github.com/ivlev/scrollreel/internal/host"
	"github.com/ivlev/scrollreel/internal/scroll"
	"github.com/ivlev/scrollreel/internal/source"
	"github.com/ivlev/scrollreel/internal/surface"
)

// Opener creates the frame source for a sequence.
type Opener func(seq config.Sequence) (source.Source, error)

// OpenSource picks a source from the sequence's URL template.
func OpenSource(seq config.Sequence) (source.Source, error) {
	return source.Open(seq.URLTemplate)
}

// Page runs every sequence of a page description on one host. Players keep
// their own ranges; where ranges overlap several players are active at once
// and the host composites them by z order and opacity.
type Page struct {
	cfg     *config.Page
	players []*Player
}

func NewPage(cfg *config.Page, h host.Host, open Opener, opts ...Option) (*Page, error) {
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	if open == nil {
		open = OpenSource
	}
	opts = append([]Option{WithDebounce(time.Duration(cfg.DebounceMs) * time.Millisecond)}, opts...)

	page := &Page{cfg: cfg}
	for _, seq := range cfg.Sequences {
		src, err := open(seq)
		if err != nil {
			page.Close()
			return nil, fmt.Errorf("sequence %q: %w", seq.ID, err)
		}
		if n := src.FrameCount(); n > 0 && n < seq.TotalFrames {
			log.WithFields(logrus.Fields{
				"sequence":     seq.ID,
				"total_frames": seq.TotalFrames,
				"available":    n,
			}).Warn("source has fewer frames than configured")
		}

		pl, err := New(seq, h, src, opts...)
		if err != nil {
			src.Close()
			page.Close()
			return nil, err
		}
		page.players = append(page.players, pl)
	}
	return page, nil
}

func (pg *Page) Config() *config.Page {
	return pg.cfg
}

func (pg *Page) Mount(ctx context.Context) error {
	for _, pl := range pg.players {
		if err := pl.Mount(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (pg *Page) Unmount() {
	for _, pl := range pg.players {
		pl.Unmount()
	}
}

func (pg *Page) Close() error {
	var errs []error
	for _, pl := range pg.players {
		if err := pl.Close(); err != nil {
			errs = append(errs, fmt.Errorf("sequence %q: %w", pl.ID(), err))
		}
	}
	return errors.Join(errs...)
}

func (pg *Page) Players() []*Player {
	return pg.players
}

func (pg *Page) Player(id string) *Player {
	for _, pl := range pg.players {
		if pl.ID() == id {
			return pl
		}
	}
	return nil
}

// Ready reports whether every player has finished loading.
func (pg *Page) Ready() bool {
	for _, pl := range pg.players {
		if pl.State() != StateReady {
			return false
		}
	}
	return true
}

// Progress sums settled and total frame fetches across players.
func (pg *Page) Progress() (settled, total int) {
	for _, pl := range pg.players {
		s, t := pl.Store().Progress()
		settled += s
		total += t
	}
	return settled, total
}

// Loading returns the first player still loading, or nil.
func (pg *Page) Loading() *Player {
	for _, pl := range pg.players {
		if pl.State() != StateReady {
			return pl
		}
	}
	return nil
}

// Layers returns the ready players whose range holds the current scroll
// position, in ascending z order. Players sharing a z keep their page order.
// In a gap between ranges the nearest ready player is shown pinned.
func (pg *Page) Layers() []surface.Layer {
	var (
		layers  []surface.Layer
		nearest *Player
		best    = math.Inf(1)
	)
	for _, pl := range pg.players {
		if pl.State() != StateReady {
			continue
		}
		if pl.Active() {
			layers = append(layers, pl.Layer())
			continue
		}
		if d := rangeDistance(pl.Progress()); d < best {
			best = d
			nearest = pl
		}
	}
	if len(layers) == 0 && nearest != nil {
		layers = append(layers, nearest.Layer())
	}
	sort.SliceStable(layers, func(i, j int) bool { return layers[i].Z < layers[j].Z })
	return layers
}

func rangeDistance(s scroll.State) float64 {
	switch {
	case s.Raw < s.Range.Start:
		return s.Range.Start - s.Raw
	case s.Raw > s.Range.End:
		return s.Raw - s.Range.End
	default:
		return 0
	}
}
