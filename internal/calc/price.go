package calc

import (
	"math"

	"printcalc/pkg/api"
)

// PriceSummary is derived, never persisted client-side. It is recomputed
// whenever the component or work snapshots change.
type PriceSummary struct {
	PrintComponentsTotal float64
	AdditionalWorksTotal float64
	TotalPrice           float64
}

// ComponentTotal prices a full print run of one component: print and paper
// cost per sheet, times the derived sheet count.
func ComponentTotal(pricePerSheetPrint, pricePerSheetPaper, listCount float64) float64 {
	return Round2((pricePerSheetPrint + pricePerSheetPaper) * listCount)
}

// Totals aggregates the current component and work snapshots.
func Totals(components []api.PrintComponent, works []api.AdditionalWork) PriceSummary {
	var s PriceSummary
	for _, c := range components {
		s.PrintComponentsTotal += c.TotalCirculationPrice
	}
	for _, w := range works {
		s.AdditionalWorksTotal += w.Price
	}
	s.PrintComponentsTotal = Round2(s.PrintComponentsTotal)
	s.AdditionalWorksTotal = Round2(s.AdditionalWorksTotal)
	s.TotalPrice = Round2(s.PrintComponentsTotal + s.AdditionalWorksTotal)
	return s
}

// Round2 rounds to two decimal places (kopecks).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
