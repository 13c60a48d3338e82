// Package selector maps playback progress to a frame index.
package selector

import "math"

// Select returns clamp(ceil(progress × total × multiplier), 1, total).
//
// Ceil keeps frame 1 on screen until progress is strictly above zero, and
// frames are numbered from 1. Inputs are not validated.
func Select(progress float64, total int, multiplier float64) int {
	idx := int(math.Ceil(progress * float64(total) * multiplier))
	if idx < 1 {
		return 1
	}
	if idx > total {
		return total
	}
	return idx
}
