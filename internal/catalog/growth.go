package catalog

import "time"

const defaultGrowthDays = 100

// GrowthDays is the typical number of days from planting to harvest.
type GrowthDays map[string]int

func (g GrowthDays) For(crop string) int {
	if d, ok := g[crop]; ok {
		return d
	}
	return defaultGrowthDays
}

// ExpectedHarvest adds the crop's growth period to the planting date.
func (g GrowthDays) ExpectedHarvest(crop string, planted time.Time) time.Time {
	return planted.AddDate(0, 0, g.For(crop))
}

func DefaultGrowthDays() GrowthDays {
	return GrowthDays{
		"Wheat": 120, "Maize": 90, "Rice": 150, "Pearl Millet": 90, "Banana": 270,
		"Barley": 130, "Bean": 70, "Blackgram": 90, "Egg Plant": 120, "Castor seed": 150,
		"Chillies": 150, "Coriander": 120, "Cotton": 180, "Cowpea": 80, "Drum Stick": 200,
		"Garlic": 150, "Gram": 100, "Grapes": 200, "Groundnut": 120, "Guar seed": 90,
		"Horse-gram": 90, "Sorghum": 100, "Golden Fiber": 150, "Grass Pea": 100, "Lady Finger": 90,
		"Lentil": 100, "Linseed": 100, "Fiber": 100, "Green Gram": 60, "Moth": 90,
		"Onion": 150, "Orange": 250, "Peas & beans (Pulses)": 70, "Potato": 90, "Raddish": 50,
		"Finger Millet": 100, "Safflower": 120, "Sannhamp": 120, "Sesamum": 100, "Soyabean": 100,
		"Sugarcane": 365, "Sunflower": 120, "Sweet potato": 120, "Tapioca": 180, "Tomato": 70,
		"Black Gram": 100,
	}
}
