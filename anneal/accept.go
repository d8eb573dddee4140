package anneal

import "math"

// Accept applies the Metropolis criterion.
//
// delta is current − candidate fitness, so a positive delta is an
// improvement. The acceptance probability is exp(delta / temperature) with
// temperature clamped to MinTemperatureFloor; the move is accepted iff
// draw < probability. For delta ≥ 0 the probability is ≥ 1, so any draw in
// [0, 1) accepts.
//
// Complexity: O(1).
func Accept(delta int, temperature, draw float64) bool {
	if temperature < MinTemperatureFloor {
		temperature = MinTemperatureFloor
	}
	return draw < math.Exp(float64(delta)/temperature)
}
