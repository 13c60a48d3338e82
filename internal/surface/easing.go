package surface

import "time"

// Easer moves an applied transform toward its target over a fixed duration
// with an ease-out curve, for hosts that have no CSS transitions.
type Easer struct {
	Duration time.Duration

	from   Transform
	target Transform
	start  time.Time
}

func NewEaser(d time.Duration) *Easer {
	return &Easer{Duration: d, from: Identity(), target: Identity()}
}

// Set retargets the easing from wherever the transform currently is.
func (e *Easer) Set(target Transform, now time.Time) {
	if target == e.target {
		return
	}
	e.from = e.At(now)
	e.target = target
	e.start = now
}

func (e *Easer) At(now time.Time) Transform {
	if e.Duration <= 0 || e.start.IsZero() {
		return e.target
	}
	t := float64(now.Sub(e.start)) / float64(e.Duration)
	if t >= 1 {
		return e.target
	}
	if t < 0 {
		t = 0
	}
	t = easeOutCubic(t)

	return Transform{
		TranslateX: lerp(e.from.TranslateX, e.target.TranslateX, t),
		TranslateY: lerp(e.from.TranslateY, e.target.TranslateY, t),
		RotateX:    lerp(e.from.RotateX, e.target.RotateX, t),
		RotateY:    lerp(e.from.RotateY, e.target.RotateY, t),
		Scale:      lerp(e.from.Scale, e.target.Scale, t),
	}
}

// Settled reports whether the target has been reached.
func (e *Easer) Settled(now time.Time) bool {
	return e.start.IsZero() || now.Sub(e.start) >= e.Duration
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func easeOutCubic(t float64) float64 {
	return 1 - pow(1-t, 3)
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
