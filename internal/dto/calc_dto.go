package dto

import "avyyan/internal/textile"

// CounterRequest is not range-checked: zero divisors render "0.00" and
// negative values flow through the formula.
type CounterRequest struct {
	Count        float64 `json:"count"`
	RollPerKg    float64 `json:"roll_per_kg"`
	Needle       float64 `json:"needle"`
	Feeder       float64 `json:"feeder"`
	StitchLength float64 `json:"stitch_length"`
}

type CounterResponse struct {
	Counter string `json:"counter"`
}

type RollsRequest struct {
	ActualQuantity float64 `json:"actual_quantity" validate:"min=0"`
	RollPerKg      float64 `json:"roll_per_kg"     validate:"gt=0"`
}

type ParseRequest struct {
	Description string `json:"description" validate:"max=4000"`
}

type ParseResponse struct {
	textile.Description
	ActualQuantity float64 `json:"actual_quantity"`
}
