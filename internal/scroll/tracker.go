// Package scroll reduces a scrollable region's position to a playback
// progress in [0,1], remapped through a sequence's active range.
package scroll

import "sync"

// Geometry is a snapshot of a scroll container: the current offset and the
// scrollable extent (content height minus visible height).
type Geometry struct {
	Offset float64
	Extent float64
}

// Fraction returns Offset/Extent clamped to [0,1]. ok is false when the
// content fits without scrolling.
func (g Geometry) Fraction() (f float64, ok bool) {
	if g.Extent <= 0 {
		return 0, false
	}
	return clamp(g.Offset/g.Extent, 0, 1), true
}

// Container is anything that can be sampled for scroll geometry.
type Container interface {
	Geometry() Geometry
}

// Range is the active sub-interval of global scroll progress.
type Range struct {
	Start float64
	End   float64
}

// FullRange plays across the whole document.
var FullRange = Range{Start: 0, End: 1}

// State is the result of the latest sample.
type State struct {
	Raw    float64
	Range  Range
	Mapped float64
}

// Remap rescales global progress into the local progress of a range.
// Outside the range the result is pinned to 0 or 1.
func Remap(progress, start, end float64) float64 {
	switch {
	case progress <= start:
		return 0
	case progress >= end:
		return 1
	default:
		return clamp((progress-start)/(end-start), 0, 1)
	}
}

// Tracker keeps the last known progress of one sequence.
type Tracker struct {
	mu    sync.Mutex
	state State
}

func NewTracker(r Range) *Tracker {
	return &Tracker{state: State{Range: r}}
}

// Sample recomputes progress from g. With no scrollable extent the sample is
// skipped and the last known progress is returned unchanged.
func (t *Tracker) Sample(g Geometry) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, ok := g.Fraction()
	if !ok {
		return t.state.Mapped
	}
	t.state.Raw = raw
	t.state.Mapped = Remap(raw, t.state.Range.Start, t.state.Range.End)
	return t.state.Mapped
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Active reports whether the last raw sample lies inside the range.
// Adjacent sequences may both be active in an overlap band.
func (t *Tracker) Active() bool {
	s := t.State()
	return s.Raw >= s.Range.Start && s.Raw <= s.Range.End
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
