package catalog

const defaultNDVI = 0.5

type NDVIStatus struct {
	Status      string `json:"status"`
	Description string `json:"description"`
}

// Regions maps each region to its reference NDVI.
type Regions struct {
	order []string
	ndvi  map[string]float64
}

func DefaultRegions() *Regions {
	r := &Regions{
		order: []string{
			"Erongo", "Hardap", "Kavango East", "Kavango West", "Khomas", "Kunene", "Ohangwena",
			"Omaheke", "Omusati", "Oshana", "Oshikoto", "Otjozondjupa", "ǁKaras", "Zambezi",
		},
		ndvi: map[string]float64{
			"Erongo":       0.0762,
			"Hardap":       0.1779,
			"ǁKaras":       0.1734,
			"Kavango East": 0.7458,
			"Kavango West": 0.6957,
			"Khomas":       0.1991,
			"Kunene":       0.0956,
			"Ohangwena":    0.3118,
			"Omaheke":      0.5002,
			"Omusati":      0.2909,
			"Oshana":       0.283,
			"Oshikoto":     0.3062,
			"Otjozondjupa": 0.5021,
			"Zambezi":      0.8261,
		},
	}
	return r
}

func (r *Regions) Known(region string) bool {
	_, ok := r.ndvi[region]
	return ok
}

func (r *Regions) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// NDVI falls back to a neutral 0.5 for unknown regions.
func (r *Regions) NDVI(region string) float64 {
	if v, ok := r.ndvi[region]; ok {
		return v
	}
	return defaultNDVI
}

func StatusForNDVI(ndvi float64) NDVIStatus {
	switch {
	case ndvi >= 0.6:
		return NDVIStatus{Status: "Healthy", Description: "Excellent vegetation health"}
	case ndvi >= 0.4:
		return NDVIStatus{Status: "Moderate Stress", Description: "Fair vegetation condition"}
	default:
		return NDVIStatus{Status: "Poor", Description: "Vegetation stress detected"}
	}
}
