package calc

import (
	"math"
	"testing"

	"printcalc/pkg/api"
)

var pricePoints = []api.PrintPriceEntry{
	{ID: 1, Copies: 100, PricePerSheet: 10.0},
	{ID: 2, Copies: 500, PricePerSheet: 6.0},
	{ID: 3, Copies: 1000, PricePerSheet: 4.0},
}

func TestInterpolatePrice_Linear(t *testing.T) {
	got, err := InterpolatePrice(pricePoints, 300, MethodLinear)
	if err != nil {
		t.Fatalf("InterpolatePrice failed: %v", err)
	}
	// Halfway between 100 and 500 copies.
	if got != 8.0 {
		t.Errorf("Incorrect linear price, got %.2f, want %.2f", got, 8.0)
	}
}

func TestInterpolatePrice_Logarithmic(t *testing.T) {
	got, err := InterpolatePrice(pricePoints, 300, MethodLogarithmic)
	if err != nil {
		t.Fatalf("InterpolatePrice failed: %v", err)
	}

	x1 := math.Log(100 + logEpsilon)
	y1 := math.Log(10.0 + logEpsilon)
	x2 := math.Log(500 + logEpsilon)
	y2 := math.Log(6.0 + logEpsilon)
	x := math.Log(300 + logEpsilon)
	want := Round2(math.Exp(y1+(y2-y1)*(x-x1)/(x2-x1)) - logEpsilon)

	if got != want {
		t.Errorf("Incorrect logarithmic price, got %v, want %v", got, want)
	}
}

func TestInterpolatePrice_ExactPoint(t *testing.T) {
	got, err := InterpolatePrice(pricePoints, 500, MethodLinear)
	if err != nil {
		t.Fatalf("InterpolatePrice failed: %v", err)
	}
	if got != 6.0 {
		t.Errorf("Exact point should return its price, got %.2f", got)
	}
}

func TestInterpolatePrice_Clamping(t *testing.T) {
	got, err := InterpolatePrice(pricePoints, 50, MethodLinear)
	if err != nil {
		t.Fatalf("InterpolatePrice failed: %v", err)
	}
	if got != 10.0 {
		t.Errorf("Below range should clamp to first point, got %.2f", got)
	}

	got, err = InterpolatePrice(pricePoints, 5000, MethodLogarithmic)
	if err != nil {
		t.Fatalf("InterpolatePrice failed: %v", err)
	}
	if got != 4.0 {
		t.Errorf("Above range should clamp to last point, got %.2f", got)
	}
}

func TestInterpolatePrice_InvalidCopies(t *testing.T) {
	if _, err := InterpolatePrice(pricePoints, 0, MethodLinear); err == nil {
		t.Error("Expected error for zero copies, got nil")
	}
}

func TestInterpolatePrice_NoPoints(t *testing.T) {
	got, err := InterpolatePrice(nil, 100, MethodLinear)
	if err != nil {
		t.Fatalf("InterpolatePrice failed: %v", err)
	}
	if got != 0 {
		t.Errorf("No points should price at zero, got %.2f", got)
	}
}

func TestMethod(t *testing.T) {
	if !MethodLinear.Valid() || !MethodLogarithmic.Valid() {
		t.Error("Known methods should be valid")
	}
	if Method("cubic").Valid() {
		t.Error("Unknown method should be invalid")
	}
	if MethodLinear.Display() != "Линейная" {
		t.Errorf("Incorrect linear display: %q", MethodLinear.Display())
	}
	if MethodLogarithmic.Display() != "Логарифмическая" {
		t.Errorf("Incorrect logarithmic display: %q", MethodLogarithmic.Display())
	}
}
