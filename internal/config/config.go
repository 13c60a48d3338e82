package config

import (
	"errors"
	"fmt"
)

const (
	DefaultAspectRatio      = 16.0 / 9.0
	DefaultScrollMultiplier = 1.0
	DefaultScrollLength     = 6.0
	DefaultDebounceMs       = 100

	BackendCanvas = "canvas"
	BackendSwap   = "swap"
)

var ErrInvalid = errors.New("invalid configuration")

// Sequence describes one scroll-scrubbed frame set. It is treated as
// immutable once a player has been built from it.
type Sequence struct {
	ID               string   `yaml:"id"`
	TotalFrames      int      `yaml:"total_frames"`
	URLTemplate      string   `yaml:"url_template"`
	ScrollMultiplier float64  `yaml:"scroll_multiplier,omitempty"`
	StartTrigger     float64  `yaml:"start_trigger"`
	EndTrigger       float64  `yaml:"end_trigger"`
	AspectRatio      float64  `yaml:"aspect_ratio,omitempty"`
	ScrollContainer  string   `yaml:"scroll_container,omitempty"`
	Backend          string   `yaml:"backend,omitempty"`
	Opacity          *float64 `yaml:"opacity,omitempty"` // nil means fully opaque
	Z                int      `yaml:"z,omitempty"`
	LoadingTexts     []string `yaml:"loading_texts,omitempty"`
	MaxConcurrent    int      `yaml:"max_concurrent_loads,omitempty"`
}

// Page groups sequences that share one scroll and pointer source.
type Page struct {
	Version      string     `yaml:"version"`
	ScrollLength float64    `yaml:"scroll_length,omitempty"` // document height in viewports
	DebounceMs   int        `yaml:"debounce_ms,omitempty"`
	Sequences    []Sequence `yaml:"sequences"`
}

// WithDefaults fills the zero values of optional fields.
// An end trigger of zero can never be valid, so it is read as "unset".
func (s Sequence) WithDefaults() Sequence {
	if s.ScrollMultiplier == 0 {
		s.ScrollMultiplier = DefaultScrollMultiplier
	}
	if s.EndTrigger == 0 {
		s.EndTrigger = 1
	}
	if s.AspectRatio == 0 {
		s.AspectRatio = DefaultAspectRatio
	}
	if s.Backend == "" {
		s.Backend = BackendCanvas
	}
	if s.Opacity == nil {
		s.Opacity = Float(1)
	}
	if s.ID == "" {
		s.ID = "default"
	}
	if len(s.LoadingTexts) == 0 {
		s.LoadingTexts = []string{fmt.Sprintf("Loading %s animation...", s.ID)}
	}
	return s
}

func (s Sequence) Validate() error {
	switch {
	case s.TotalFrames < 1:
		return fmt.Errorf("%w: total_frames must be >= 1, got %d", ErrInvalid, s.TotalFrames)
	case s.URLTemplate == "":
		return fmt.Errorf("%w: url_template is required", ErrInvalid)
	case s.ScrollMultiplier <= 0:
		return fmt.Errorf("%w: scroll_multiplier must be > 0, got %g", ErrInvalid, s.ScrollMultiplier)
	case s.StartTrigger < 0 || s.StartTrigger >= 1:
		return fmt.Errorf("%w: start_trigger must be in [0,1), got %g", ErrInvalid, s.StartTrigger)
	case s.EndTrigger <= s.StartTrigger || s.EndTrigger > 1:
		return fmt.Errorf("%w: end_trigger must be in (start_trigger,1], got %g", ErrInvalid, s.EndTrigger)
	case s.AspectRatio <= 0:
		return fmt.Errorf("%w: aspect_ratio must be > 0, got %g", ErrInvalid, s.AspectRatio)
	case s.Alpha() < 0 || s.Alpha() > 1:
		return fmt.Errorf("%w: opacity must be in [0,1], got %g", ErrInvalid, s.Alpha())
	case s.MaxConcurrent < 0:
		return fmt.Errorf("%w: max_concurrent_loads must be >= 0", ErrInvalid)
	}
	if s.Backend != BackendCanvas && s.Backend != BackendSwap {
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, s.Backend)
	}
	return nil
}

// Alpha returns the layer opacity. An unset opacity is 1; an explicit 0
// is kept and makes the layer invisible.
func (s Sequence) Alpha() float64 {
	if s.Opacity == nil {
		return 1
	}
	return *s.Opacity
}

// Float returns a pointer to v, for optional fields such as Opacity.
func Float(v float64) *float64 {
	return &v
}

// Normalize applies defaults to the page and every sequence, then validates.
func (p *Page) Normalize() error {
	if p.Version == "" {
		p.Version = "1.0"
	}
	if p.ScrollLength == 0 {
		p.ScrollLength = DefaultScrollLength
	}
	if p.ScrollLength < 1 {
		return fmt.Errorf("%w: scroll_length must be >= 1, got %g", ErrInvalid, p.ScrollLength)
	}
	if p.DebounceMs == 0 {
		p.DebounceMs = DefaultDebounceMs
	}
	if len(p.Sequences) == 0 {
		return fmt.Errorf("%w: page has no sequences", ErrInvalid)
	}

	seen := make(map[string]bool, len(p.Sequences))
	for i := range p.Sequences {
		seq := p.Sequences[i]
		if seq.ID == "" && len(p.Sequences) > 1 {
			seq.ID = fmt.Sprintf("sequence-%d", i+1)
		}
		seq = seq.WithDefaults()
		if err := seq.Validate(); err != nil {
			return fmt.Errorf("sequence %q: %w", seq.ID, err)
		}
		if seen[seq.ID] {
			return fmt.Errorf("%w: duplicate sequence id %q", ErrInvalid, seq.ID)
		}
		seen[seq.ID] = true
		p.Sequences[i] = seq
	}
	return nil
}
