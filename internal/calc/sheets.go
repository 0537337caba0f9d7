package calc

import "fmt"

// Sheet-count parameter bounds.
const (
	MinPolosaCount = 1
	MaxPolosaCount = 64
	MinVyleta      = 1
	MaxVyleta      = 100
)

// ValidateSheetParams checks the editable sheet-calc inputs against their
// bounds, independent of any circulation.
func ValidateSheetParams(polosaCount, vyleta int) error {
	if polosaCount < MinPolosaCount || polosaCount > MaxPolosaCount {
		return fmt.Errorf("polosa count must be in [%d, %d], got %d", MinPolosaCount, MaxPolosaCount, polosaCount)
	}
	if vyleta < MinVyleta || vyleta > MaxVyleta {
		return fmt.Errorf("vyleta must be in [%d, %d], got %d", MinVyleta, MaxVyleta, vyleta)
	}
	return nil
}

// SheetCount derives the number of sheets needed for a print run:
// circulation divided by the panel count, plus the bleed allowance.
// The same formula runs whether the trigger was a parameter edit or a
// circulation change.
func SheetCount(circulation, polosaCount, vyleta int) (float64, error) {
	if circulation <= 0 {
		return 0, fmt.Errorf("circulation must be positive, got %d", circulation)
	}
	if err := ValidateSheetParams(polosaCount, vyleta); err != nil {
		return 0, err
	}

	return float64(circulation)/float64(polosaCount) + float64(vyleta), nil
}

// SheetCountFormula renders the applied formula the way the server echoes it.
func SheetCountFormula(circulation, polosaCount, vyleta int) string {
	return fmt.Sprintf("(%d / %d) + %d", circulation, polosaCount, vyleta)
}
