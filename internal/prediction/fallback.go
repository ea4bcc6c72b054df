package prediction

import (
	"math"

	"farmq-backend/internal/catalog"
)

const (
	FallbackConfidence = 0.7
	FallbackReason     = "Model service unavailable"

	minFallbackYield = 5
	maxFallbackYield = 95
)

// RescaleModelYield converts the model's raw output to kg/hectare: times ten,
// one decimal.
func RescaleModelYield(raw float64) float64 {
	return roundTo(raw*10, 1)
}

// HeuristicYield estimates a yield from the crop's base yield and the growing
// conditions. The result is already in final units, clamped to [5, 95] and
// rounded to two decimals.
func HeuristicYield(base catalog.BaseYields, crop string, in Inputs) float64 {
	rainfall := math.Min(math.Max(in.Rainfall, 200), 1000)
	rainfallFactor := 0.8 + (rainfall/1000)*0.4
	tempFactor := 1 - math.Abs((in.Temperature-25)/25)
	phFactor := 1 - math.Abs((in.SoilPH-6.5)/3.5)
	ndviFactor := 0.5 + in.NDVI*0.5

	y := base.For(crop) * rainfallFactor * tempFactor * phFactor * ndviFactor
	y = math.Min(math.Max(y, minFallbackYield), maxFallbackYield)
	return roundTo(y, 2)
}

// roundTo rounds half up, matching the figures the dashboard has always shown.
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Floor(v*p+0.5) / p
}
