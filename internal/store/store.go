// Package store preloads the frames of one sequence and serves them by index.
//
// Every frame is fetched concurrently as soon as Load is called. The store
// becomes ready once every fetch has settled, whether it succeeded or not: a
// failed frame stays missing forever and the renderer holds the previous one.
package store

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrollreel/internal/logger"
	"github.com/ivlev/scrollreel/internal/source"
)

var log = logger.Log

// Status is the per-frame load state.
type Status int32

const (
	StatusPending Status = iota
	StatusLoaded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type Stats struct {
	Loaded  int
	Failed  int
	Pending int
	Bytes   int64 // decoded RGBA estimate
	Elapsed time.Duration
}

type Option func(*Store)

// WithID tags log lines with the sequence id.
func WithID(id string) Option {
	return func(s *Store) { s.id = id }
}

// WithMaxConcurrent caps in-flight fetches. Zero means unbounded.
func WithMaxConcurrent(n int) Option {
	return func(s *Store) { s.limit = n }
}

// WithProgress registers a callback invoked after every settled fetch.
// It runs on loader goroutines.
func WithProgress(fn func(settled, total int)) Option {
	return func(s *Store) { s.onProgress = fn }
}

type Store struct {
	src        source.Source
	total      int
	id         string
	limit      int
	onProgress func(settled, total int)

	mu     sync.RWMutex
	frames []image.Image
	status []Status
	bytes  int64

	settled  atomic.Int64
	loaded   atomic.Bool
	once     sync.Once
	ready    chan struct{}
	started  time.Time
	finished time.Time
}

func New(src source.Source, total int, opts ...Option) *Store {
	if total < 0 {
		total = 0
	}
	s := &Store{
		src:    src,
		total:  total,
		id:     "default",
		frames: make([]image.Image, total+1),
		status: make([]Status, total+1),
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load issues every fetch and returns a channel closed once all of them have
// settled. Repeated calls return the same channel without refetching.
func (s *Store) Load(ctx context.Context) <-chan struct{} {
	s.once.Do(func() {
		s.mu.Lock()
		s.started = time.Now()
		s.mu.Unlock()
		log.WithFields(logrus.Fields{"sequence": s.id, "frames": s.total}).Debug("preloading frames")

		go func() {
			var g errgroup.Group
			if s.limit > 0 {
				g.SetLimit(s.limit)
			}
			for i := 1; i <= s.total; i++ {
				g.Go(func() error {
					s.fetch(ctx, i)
					return nil
				})
			}
			_ = g.Wait()

			s.mu.Lock()
			s.finished = time.Now()
			s.mu.Unlock()

			s.loaded.Store(true)
			close(s.ready)

			st := s.Stats()
			log.WithFields(logrus.Fields{
				"sequence": s.id,
				"loaded":   st.Loaded,
				"failed":   st.Failed,
				"elapsed":  st.Elapsed,
			}).Debug("frames settled")
		}()
	})
	return s.ready
}

func (s *Store) fetch(ctx context.Context, index int) {
	img, err := s.src.Fetch(ctx, index)

	s.mu.Lock()
	if err != nil || img == nil {
		s.status[index] = StatusFailed
	} else {
		s.frames[index] = img
		s.status[index] = StatusLoaded
		b := img.Bounds()
		s.bytes += int64(b.Dx()) * int64(b.Dy()) * 4
	}
	s.mu.Unlock()

	if err != nil {
		entry := log.WithFields(logrus.Fields{"sequence": s.id, "frame": index})
		if ctx.Err() != nil {
			entry.Debug("frame load abandoned")
		} else {
			entry.WithError(err).Warn("frame load failed")
		}
	}

	n := int(s.settled.Add(1))
	if s.onProgress != nil {
		s.onProgress(n, s.total)
	}
}

// Ready returns the channel closed when loading has settled. It stays open
// until Load has been called.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) Loaded() bool {
	return s.loaded.Load()
}

func (s *Store) Total() int {
	return s.total
}

// Get returns the decoded frame, or false for pending, failed and
// out-of-range indexes.
func (s *Store) Get(index int) (image.Image, bool) {
	img, st := s.Lookup(index)
	return img, st == StatusLoaded
}

func (s *Store) Status(index int) Status {
	_, st := s.Lookup(index)
	return st
}

func (s *Store) Lookup(index int) (image.Image, Status) {
	if index < 1 || index > s.total {
		return nil, StatusFailed
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frames[index], s.status[index]
}

// Progress reports how many fetches have settled.
func (s *Store) Progress() (settled, total int) {
	return int(s.settled.Load()), s.total
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for i := 1; i <= s.total; i++ {
		switch s.status[i] {
		case StatusLoaded:
			st.Loaded++
		case StatusFailed:
			st.Failed++
		default:
			st.Pending++
		}
	}
	st.Bytes = s.bytes
	if !s.started.IsZero() {
		end := s.finished
		if end.IsZero() {
			end = time.Now()
		}
		st.Elapsed = end.Sub(s.started)
	}
	return st
}
