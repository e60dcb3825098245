package textile

import "math"

// RollBreakdown splits a quantity into whole rolls and a partial roll.
type RollBreakdown struct {
	NumberOfRolls    float64 `json:"number_of_rolls"`
	TotalWholeRolls  float64 `json:"total_whole_rolls"`
	FractionalRoll   float64 `json:"fractional_roll"`
	FractionalWeight float64 `json:"fractional_weight"`
}

// DecomposeRolls divides actualQuantity (kg) by rollPerKg (kg per roll).
// rollPerKg == 0 produces non-finite fields; callers guard with rollPerKg > 0.
func DecomposeRolls(actualQuantity, rollPerKg float64) RollBreakdown {
	n := actualQuantity / rollPerKg
	whole := math.Floor(n)
	frac := n - whole
	return RollBreakdown{
		NumberOfRolls:    n,
		TotalWholeRolls:  whole,
		FractionalRoll:   frac,
		FractionalWeight: frac * rollPerKg,
	}
}

// WholeRolls returns TotalWholeRolls as an int, or 0 when it is not finite.
func (b RollBreakdown) WholeRolls() int {
	if math.IsNaN(b.TotalWholeRolls) || math.IsInf(b.TotalWholeRolls, 0) {
		return 0
	}
	return int(b.TotalWholeRolls)
}

// HasPartialRoll reports whether the quantity leaves a partial roll behind.
func (b RollBreakdown) HasPartialRoll() bool {
	return b.FractionalRoll > 0
}
