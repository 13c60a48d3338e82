package scroll

import (
	"math"
	"testing"
)

func TestRemap(t *testing.T) {
	tests := []struct {
		progress, start, end float64
		want                 float64
	}{
		{0, 0, 1, 0},
		{1, 0, 1, 1},
		{0.5, 0, 1, 0.5},
		{0.15, 0, 0.3, 0.5},
		{0.3, 0, 0.3, 1},
		{0.2, 0.3, 0.9, 0},
		{0.3, 0.3, 0.9, 0},
		{0.6, 0.3, 0.9, 0.5},
		{0.9, 0.3, 0.9, 1},
		{0.95, 0.3, 0.9, 1},
	}

	for _, tt := range tests {
		got := Remap(tt.progress, tt.start, tt.end)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Remap(%.2f, %.2f, %.2f) = %f, want %f", tt.progress, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestRemapConstantOutsideLinearInside(t *testing.T) {
	start, end := 0.25, 0.75

	for p := 0.0; p <= start; p += 0.01 {
		if got := Remap(p, start, end); got != 0 {
			t.Fatalf("Remap(%f) = %f, want 0 below start", p, got)
		}
	}
	for p := end; p <= 1.0; p += 0.01 {
		if got := Remap(p, start, end); got != 1 {
			t.Fatalf("Remap(%f) = %f, want 1 above end", p, got)
		}
	}

	// Equal steps inside the range produce equal output steps.
	prev := Remap(0.30, start, end)
	step := Remap(0.31, start, end) - prev
	for p := 0.31; p < 0.7; p += 0.01 {
		cur := Remap(p, start, end)
		if math.Abs((cur-prev)-step) > 1e-9 {
			t.Fatalf("non-linear step at %f: %f vs %f", p, cur-prev, step)
		}
		prev = cur
	}
}

func TestTrackerSample(t *testing.T) {
	tr := NewTracker(Range{Start: 0, End: 0.3})

	got := tr.Sample(Geometry{Offset: 150, Extent: 1000})
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Expected 0.5, got %f", got)
	}

	// Idempotent with no movement.
	if again := tr.Sample(Geometry{Offset: 150, Extent: 1000}); again != got {
		t.Errorf("Expected %f on resample, got %f", got, again)
	}

	st := tr.State()
	if math.Abs(st.Raw-0.15) > 1e-9 || st.Mapped != got {
		t.Errorf("Unexpected state %+v", st)
	}
}

func TestTrackerDegenerateGeometry(t *testing.T) {
	tr := NewTracker(FullRange)

	if got := tr.Sample(Geometry{Offset: 0, Extent: 0}); got != 0 {
		t.Errorf("Expected initial progress 0, got %f", got)
	}

	tr.Sample(Geometry{Offset: 400, Extent: 1000})
	for _, g := range []Geometry{{Offset: 10, Extent: 0}, {Offset: 10, Extent: -50}} {
		if got := tr.Sample(g); math.Abs(got-0.4) > 1e-9 {
			t.Errorf("Sample(%+v) = %f, want last progress 0.4", g, got)
		}
	}
}

func TestTrackerClampsOverscroll(t *testing.T) {
	tr := NewTracker(FullRange)
	if got := tr.Sample(Geometry{Offset: -30, Extent: 100}); got != 0 {
		t.Errorf("Expected 0 for negative offset, got %f", got)
	}
	if got := tr.Sample(Geometry{Offset: 130, Extent: 100}); got != 1 {
		t.Errorf("Expected 1 for overscroll, got %f", got)
	}
}

func TestOverlappingRangesBothActive(t *testing.T) {
	a := NewTracker(Range{Start: 0, End: 0.35})
	b := NewTracker(Range{Start: 0.3, End: 0.9})

	g := Geometry{Offset: 320, Extent: 1000}
	a.Sample(g)
	b.Sample(g)

	if !a.Active() || !b.Active() {
		t.Errorf("Expected both sequences active in the overlap band")
	}
}
