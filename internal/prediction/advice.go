package prediction

type OutcomeLabel string

const (
	OutcomeHigh     OutcomeLabel = "High"
	OutcomeModerate OutcomeLabel = "Moderate"
	OutcomeLow      OutcomeLabel = "Low"
)

func LabelFor(confidence float64) OutcomeLabel {
	switch {
	case confidence >= 0.76:
		return OutcomeHigh
	case confidence >= 0.5:
		return OutcomeModerate
	default:
		return OutcomeLow
	}
}

type Advice struct {
	Primary  string  `json:"primary"`
	NDVI     *string `json:"ndvi,omitempty"`
	Rainfall *string `json:"rainfall,omitempty"`
}

var primaryAdvice = map[OutcomeLabel]string{
	OutcomeHigh:     "Your predicted yield is above regional average. Current conditions show strong crop performance. Maintain current management practices.",
	OutcomeModerate: "Your predicted yield is within a normal range. Crop growth is fair. Consider optimizing irrigation or applying light nutrients to improve performance.",
	OutcomeLow:      "Your predicted yield is below expected levels. This may be linked to low vegetation health or limited rainfall. Inspect for water stress, nutrient deficiency, or pests.",
}

// AdviceFor builds recommendations from the label and the stored factors.
// Factor values may be numbers or numeric strings.
func AdviceFor(label OutcomeLabel, factors map[string]any) Advice {
	a := Advice{Primary: primaryAdvice[label]}

	if ndvi, ok := ParseNumber(factors["ndvi"]); ok {
		var msg string
		switch {
		case label == OutcomeHigh && ndvi > 0.7:
			msg = "Vegetation cover is excellent. Continue monitoring for pests and late-season diseases."
		case label == OutcomeModerate && ndvi >= 0.5 && ndvi <= 0.65:
			msg = "NDVI is stable. Minor adjustments to irrigation or fertilizer could increase yield."
		case label == OutcomeLow && ndvi < 0.45:
			msg = "Low NDVI suggests weak vegetation cover. Consider increasing watering frequency or reapplying fertilizer."
		}
		if msg != "" {
			a.NDVI = &msg
		}
	}

	if rainfall, ok := ParseNumber(factors["rainfall"]); ok {
		var msg string
		switch {
		case rainfall < 25:
			msg = "Recent rainfall has been low. Supplemental irrigation may be needed to maintain soil moisture."
		case rainfall > 70:
			msg = "High rainfall could cause nutrient loss. Check for root diseases and reapply fertilizer if necessary."
		}
		if msg != "" {
			a.Rainfall = &msg
		}
	}
	return a
}
