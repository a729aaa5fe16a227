package pricing

import (
	"math"
	"sort"

	"github.com/Simplici0/o.bakery/internal/money"
)

// Price rounding modes stored in the recipe settings.
const (
	RoundingNone          = "none"
	RoundingWhole         = "whole"
	RoundingPsychological = "psychological"
)

// MaxPsychologicalPrice is the largest price that has charm points. Above it
// the cent amount no longer fits an int64 with room to spare.
const MaxPsychologicalPrice = 1e12

// ApplyPsychologicalPricing returns the attractive price points around
// price: the nearest .99 and .95 at or below it, the nearest whole amount
// and the next .99 above it. Points are positive, unique and ascending.
// Prices above MaxPsychologicalPrice, and NaN, have no points.
func ApplyPsychologicalPricing(price float64) []float64 {
	if !(price <= MaxPsychologicalPrice) {
		return nil
	}
	cents := int64(math.Round(money.RoundCents(price) * 100))
	if cents < 0 {
		cents = 0
	}

	candidates := []int64{
		endingAtOrBelow(cents, 99),
		endingAtOrBelow(cents, 95),
		(cents + 50) / 100 * 100,
		nextEndingAbove(cents, 99),
	}

	seen := make(map[int64]struct{}, len(candidates))
	points := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		if c <= 0 {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		points = append(points, c)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	out := make([]float64, len(points))
	for i, c := range points {
		out[i] = float64(c) / 100
	}
	return out
}

// endingAtOrBelow returns the largest amount <= cents whose cents part is
// ending, or -1 when there is none.
func endingAtOrBelow(cents, ending int64) int64 {
	if cents < ending {
		return -1
	}
	return (cents-ending)/100*100 + ending
}

func nextEndingAbove(cents, ending int64) int64 {
	v := cents/100*100 + ending
	if v <= cents {
		v += 100
	}
	return v
}

// RoundPrice applies a rounding mode to a price. The psychological mode
// picks the closest psychological point, preferring the lower on ties.
func RoundPrice(price float64, mode string) float64 {
	switch mode {
	case RoundingWhole:
		return math.Round(price)
	case RoundingPsychological:
		best := money.RoundCents(price)
		bestDist := math.Inf(1)
		for _, p := range ApplyPsychologicalPricing(price) {
			if d := math.Abs(p - price); d < bestDist {
				best, bestDist = p, d
			}
		}
		return best
	default:
		return money.RoundCents(price)
	}
}

// PsychologicalComparisons prices each psychological point of the
// breakdown's suggested price.
func PsychologicalComparisons(b Breakdown) []Comparison {
	points := ApplyPsychologicalPricing(b.SuggestedPrice)
	out := make([]Comparison, 0, len(points))
	for _, p := range points {
		c := priced(StrategyPsychological, b.TotalCost, p)
		c.Description = "Charm price near the suggested price"
		c.Recommendation = "Use for retail display and menu boards"
		out = append(out, c)
	}
	return out
}
