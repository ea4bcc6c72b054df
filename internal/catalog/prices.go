package catalog

// PriceTable is the market price per kg for each crop name.
type PriceTable map[string]float64

// Price returns 0 for crops without a listed price.
func (p PriceTable) Price(crop string) float64 {
	return p[crop]
}

func DefaultPriceTable() PriceTable {
	return PriceTable{
		"Pearl Millet": 8.5, "Banana": 16.0, "Barley": 7.2, "Bean": 18.5, "Blackgram": 19.0,
		"Egg Plant": 14.0, "Castor seed": 12.5, "Chillies": 45.0, "Coriander": 38.0, "Cotton": 11.0,
		"Cowpea": 15.5, "Drum Stick": 22.0, "Garlic": 40.0, "Gram": 16.5, "Grapes": 30.0,
		"Groundnut": 25.0, "Guar seed": 14.0, "Horse-gram": 13.5, "Sorghum": 9.5, "Golden Fiber": 10.0,
		"Grass Pea": 12.0, "Lady Finger": 17.0, "Lentil": 22.5, "Linseed": 18.0, "Maize": 7.8,
		"Fiber": 10.0, "Green Gram": 19.5, "Moth": 15.0, "Onion": 12.0, "Orange": 10.5,
		"Peas & beans (Pulses)": 20.0, "Potato": 9.0, "Raddish": 11.0, "Finger Millet": 8.2,
		"Rice": 14.5, "Safflower": 16.0, "Sannhamp": 9.8, "Sesamum": 23.0, "Soyabean": 18.5,
		"Sugarcane": 5.5, "Sunflower": 14.0, "Sweet potato": 10.5, "Tapioca": 8.0,
		"Tomato": 13.0, "Black Gram": 19.0, "Wheat": 8.7,
	}
}

const defaultBaseYield = 30.0

// BaseYields feeds the heuristic fallback predictor.
type BaseYields map[string]float64

func (b BaseYields) For(crop string) float64 {
	if v, ok := b[crop]; ok {
		return v
	}
	return defaultBaseYield
}

func DefaultBaseYields() BaseYields {
	return BaseYields{
		"Wheat":        30,
		"Maize":        50,
		"Rice":         40,
		"Pearl Millet": 25,
		"Barley":       35,
		"Bean":         15,
		"Soyabean":     20,
		"Potato":       300,
		"Tomato":       400,
		"Sunflower":    20,
	}
}
