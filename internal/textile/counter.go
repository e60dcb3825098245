// Package textile holds the knitting arithmetic shared by the allotment
// service, the calculator endpoints and the knitcalc CLI.
package textile

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// CounterConstant is the machine constant of the counter formula.
const CounterConstant = 169300

// ZeroCounter is what Counter renders when a divisor is missing.
const ZeroCounter = "0.00"

// CounterInput carries the machine and yarn parameters of one allotment.
type CounterInput struct {
	Count        float64 `json:"count"`
	RollPerKg    float64 `json:"roll_per_kg"`
	Needle       float64 `json:"needle"`
	Feeder       float64 `json:"feeder"`
	StitchLength float64 `json:"stitch_length"`
}

// CounterValue computes 169300 × count × rollPerKg / needle / feeder / stitchLength.
// ok is false when needle, feeder or stitch length is zero (or NaN); the value is 0 then.
// Negative and non-finite inputs are not rejected.
func CounterValue(in CounterInput) (value float64, ok bool) {
	if falsy(in.Needle) || falsy(in.Feeder) || falsy(in.StitchLength) {
		return 0, false
	}
	return CounterConstant * in.Count * in.RollPerKg / in.Needle / in.Feeder / in.StitchLength, true
}

// Counter renders the counter with two decimals, "0.00" when a divisor is missing.
func Counter(in CounterInput) string {
	v, ok := CounterValue(in)
	if !ok {
		return ZeroCounter
	}
	return Fixed2(v)
}

// Fixed2 formats v with exactly two decimals. NaN and ±Inf are rendered as-is.
func Fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func falsy(v float64) bool {
	return v == 0 || math.IsNaN(v)
}
