package game

import (
	"math"
	"math/rand"
)

const (
	windMax        = 10.0  // wind strength range is [-windMax, windMax]
	windForceScale = 0.002 // horizontal acceleration per tick per unit of wind
)

// Wind is the single horizontal force acting on wind-affected shots.
// It is re-rolled once per turn.
type Wind struct {
	value float64
}

// Reroll draws a new whole-number wind strength.
func (w *Wind) Reroll(rng *rand.Rand) {
	w.value = math.Round((rng.Float64()*2 - 1) * windMax)
}

// Set forces a wind strength, clamped to the valid range.
func (w *Wind) Set(v float64) {
	w.value = clampF(v, -windMax, windMax)
}

// Value returns the wind strength in [-10, 10].
func (w *Wind) Value() float64 {
	if w == nil {
		return 0
	}
	return w.value
}

// Force returns the per-tick horizontal acceleration.
func (w *Wind) Force() float64 {
	return w.Value() * windForceScale
}
