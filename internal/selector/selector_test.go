package selector

import "testing"

func TestSelectBounds(t *testing.T) {
	for _, n := range []int{1, 2, 38, 140, 180} {
		for p := 0.0; p <= 1.0; p += 0.001 {
			got := Select(p, n, 1)
			if got < 1 || got > n {
				t.Fatalf("Select(%f, %d, 1) = %d out of range", p, n, got)
			}
		}
	}
}

func TestSelectEndpoints(t *testing.T) {
	for _, n := range []int{1, 10, 140} {
		for _, m := range []float64{1, 1.5, 2, 3} {
			if got := Select(0, n, m); got != 1 {
				t.Errorf("Select(0, %d, %.1f) = %d, want 1", n, m, got)
			}
			if got := Select(1, n, m); got != n {
				t.Errorf("Select(1, %d, %.1f) = %d, want %d", n, m, got, n)
			}
		}
	}
}

func TestSelectMonotonic(t *testing.T) {
	for _, m := range []float64{1, 2} {
		prev := Select(0, 100, m)
		for p := 0.0; p <= 1.0; p += 0.0005 {
			cur := Select(p, 100, m)
			if cur < prev {
				t.Fatalf("Select not monotonic at %f (m=%.0f): %d < %d", p, m, cur, prev)
			}
			prev = cur
		}
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name       string
		progress   float64
		total      int
		multiplier float64
		want       int
	}{
		{"midpoint of 140", 0.5, 140, 1, 70},
		{"just above zero", 0.0001, 140, 1, 1},
		{"just below one", 0.999, 140, 1, 140},
		{"ceil not round", 0.501, 100, 1, 51},
		{"multiplier finishes early", 0.6, 100, 2, 100},
		{"multiplier half", 0.25, 100, 2, 50},
		{"single frame", 0.7, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.progress, tt.total, tt.multiplier); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}
