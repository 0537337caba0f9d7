package calc

import (
	"fmt"
	"math"

	"printcalc/pkg/api"
)

// Interpolation method for arbitrary-circulation pricing.
type Method string

const (
	MethodLinear      Method = "linear"
	MethodLogarithmic Method = "logarithmic"
)

func (m Method) Valid() bool {
	return m == MethodLinear || m == MethodLogarithmic
}

// Display returns the Russian label used in the price list UI.
func (m Method) Display() string {
	if m == MethodLogarithmic {
		return "Логарифмическая"
	}
	return "Линейная"
}

const logEpsilon = 1e-10

// InterpolatePrice estimates the per-sheet price for an arbitrary number of
// copies from the printer's saved price points. Points must be sorted by
// copies ascending. Outside the covered range the nearest point's price is
// returned as-is. An unknown method falls back to linear.
func InterpolatePrice(points []api.PrintPriceEntry, copies int, method Method) (float64, error) {
	if copies < 1 {
		return 0, fmt.Errorf("copies must be at least 1, got %d", copies)
	}
	if len(points) == 0 {
		return 0, nil
	}

	first, last := points[0], points[len(points)-1]
	if copies <= first.Copies {
		return first.PricePerSheet, nil
	}
	if copies >= last.Copies {
		return last.PricePerSheet, nil
	}

	var prev, next *api.PrintPriceEntry
	for i := range points {
		p := &points[i]
		if p.Copies <= copies {
			prev = p
		}
		if p.Copies >= copies {
			next = p
			break
		}
	}
	if prev == nil || next == nil || prev == next {
		if prev != nil {
			return prev.PricePerSheet, nil
		}
		return first.PricePerSheet, nil
	}

	if method == MethodLogarithmic {
		x1 := math.Log(float64(prev.Copies) + logEpsilon)
		y1 := math.Log(prev.PricePerSheet + logEpsilon)
		x2 := math.Log(float64(next.Copies) + logEpsilon)
		y2 := math.Log(next.PricePerSheet + logEpsilon)
		x := math.Log(float64(copies) + logEpsilon)

		result := math.Exp(y1+(y2-y1)*(x-x1)/(x2-x1)) - logEpsilon
		return Round2(result), nil
	}

	x1, y1 := float64(prev.Copies), prev.PricePerSheet
	x2, y2 := float64(next.Copies), next.PricePerSheet
	x := float64(copies)

	return Round2(y1 + (y2-y1)*(x-x1)/(x2-x1)), nil
}
