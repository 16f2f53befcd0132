// Package money provides exact monetary arithmetic on top of
// shopspring/decimal. All values exposed to callers are rounded to two
// decimal places at the point of computation, so stored and cached numbers
// are already display-ready.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Round4 rounds a fractional value (e.g. a day-change fraction) to four
// decimal places.
func Round4(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}

// Mul returns a*b rounded to two decimal places.
func Mul(a, b float64) float64 {
	f, _ := decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).Float64()
	return f
}

// Percent returns part/whole*100 rounded to two decimal places, or 0 when
// whole is zero. Division by zero must never reach a response as NaN/Inf.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	f, _ := decimal.NewFromFloat(part).
		Div(decimal.NewFromFloat(whole)).
		Mul(decimal.NewFromInt(100)).
		Round(2).
		Float64()
	return f
}

// WeightedAverageCost blends an existing position with an added lot:
//
//	(existingShares*existingCost + addedShares*addedPrice) / (existingShares+addedShares)
//
// computed exactly in decimal, rounded to two decimal places.
func WeightedAverageCost(existingShares, existingCost, addedShares, addedPrice float64) float64 {
	es := decimal.NewFromFloat(existingShares)
	as := decimal.NewFromFloat(addedShares)
	total := es.Add(as)
	if total.IsZero() {
		return 0
	}
	blended := es.Mul(decimal.NewFromFloat(existingCost)).
		Add(as.Mul(decimal.NewFromFloat(addedPrice))).
		Div(total)
	f, _ := blended.Round(2).Float64()
	return f
}
