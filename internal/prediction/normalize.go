package prediction

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMissingIdentifiers = errors.New("Missing required fields (crop_type, field_id, crop_id)")
	ErrMissingInputs      = errors.New("missing model input fields")
)

// MissingInputsError lists the model inputs no rule could resolve.
type MissingInputsError struct {
	Fields []string
}

func (e *MissingInputsError) Error() string {
	return "Missing model input fields: " + strings.Join(e.Fields, ", ")
}

func (e *MissingInputsError) Is(target error) bool { return target == ErrMissingInputs }

// leading numeric prefix, the way browsers parse "12.5mm" as 12.5
var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseNumber coerces a JSON number or numeric-looking string. Strings are
// trimmed and their first comma becomes a decimal point. Non-finite results
// count as absent.
func ParseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return finite(n)
	case float32:
		return finite(float64(n))
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		cleaned := strings.Replace(strings.TrimSpace(n), ",", ".", 1)
		m := numberPrefix.FindString(cleaned)
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Rule extracts one candidate value for a model input from the raw payload.
type Rule func(raw map[string]any) (float64, bool)

// Key reads a top-level payload key.
func Key(name string) Rule {
	return func(raw map[string]any) (float64, bool) {
		return ParseNumber(raw[name])
	}
}

// Nested reads a value below one or more object keys, e.g. Nested("weather", "rainfall").
func Nested(path ...string) Rule {
	return func(raw map[string]any) (float64, bool) {
		var cur any = raw
		for _, p := range path {
			obj, ok := cur.(map[string]any)
			if !ok {
				return 0, false
			}
			cur = obj[p]
		}
		return ParseNumber(cur)
	}
}

// InputRules is the ordered candidate list for one model input; the first
// rule that yields a number wins.
type InputRules struct {
	Name  string
	Rules []Rule
}

func (r InputRules) resolve(raw map[string]any) (float64, bool) {
	for _, rule := range r.Rules {
		if v, ok := rule(raw); ok {
			return v, true
		}
	}
	return 0, false
}

const (
	inputRainfall    = "rainfall"
	inputTemperature = "temperature"
	inputSoilPH      = "soil_pH"
	inputNDVI        = "ndvi"
)

func DefaultInputRules() []InputRules {
	return []InputRules{
		{Name: inputRainfall, Rules: []Rule{Key("rainfall"), Key("rain"), Key("rainfall_mm"), Nested("weather", "rainfall")}},
		{Name: inputTemperature, Rules: []Rule{Key("temperature"), Key("temp"), Nested("weather", "temperature")}},
		{Name: inputSoilPH, Rules: []Rule{Key("soil_pH"), Key("soilPH"), Key("soil_ph"), Key("soil_quality")}},
		{Name: inputNDVI, Rules: []Rule{Key("ndvi"), Key("ndvi_value"), Key("NDVI"), Key("ndviValue")}},
	}
}

// Inputs are the normalized numeric model inputs.
type Inputs struct {
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
	SoilPH      float64 `json:"soil_pH"`
	NDVI        float64 `json:"ndvi"`
}

type Normalizer struct {
	rules []InputRules
}

func NewNormalizer(rules []InputRules) *Normalizer {
	return &Normalizer{rules: rules}
}

// Normalize resolves every input or returns a *MissingInputsError naming the
// unresolved ones in rule order.
func (n *Normalizer) Normalize(raw map[string]any) (Inputs, error) {
	var (
		in      Inputs
		missing []string
	)
	for _, r := range n.rules {
		v, ok := r.resolve(raw)
		if !ok {
			missing = append(missing, r.Name)
			continue
		}
		switch r.Name {
		case inputRainfall:
			in.Rainfall = v
		case inputTemperature:
			in.Temperature = v
		case inputSoilPH:
			in.SoilPH = v
		case inputNDVI:
			in.NDVI = v
		}
	}
	if len(missing) > 0 {
		return Inputs{}, &MissingInputsError{Fields: missing}
	}
	return in, nil
}

// Identifiers are the required non-model keys of a prediction payload.
type Identifiers struct {
	CropType string
	FieldID  string
	CropID   string
}

// ExtractIdentifiers treats absent, null, empty, false and zero values as missing.
func ExtractIdentifiers(raw map[string]any) (Identifiers, error) {
	ids := Identifiers{
		CropType: identifier(raw["crop_type"]),
		FieldID:  identifier(raw["field_id"]),
		CropID:   identifier(raw["crop_id"]),
	}
	if ids.CropType == "" || ids.FieldID == "" || ids.CropID == "" {
		return Identifiers{}, ErrMissingIdentifiers
	}
	return ids, nil
}

func identifier(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == 0 || math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "true"
		}
	}
	return ""
}

var factorKeys = []string{
	"crop_type", "rainfall", "temperature", "soil_pH", "ndvi",
	"field_size", "planting_date", "expected_harvest_date",
}

// Snapshot copies the raw (unnormalized) request fields kept with a prediction.
// Keys absent from the payload are left out.
func Snapshot(raw map[string]any) map[string]any {
	out := make(map[string]any, len(factorKeys))
	for _, k := range factorKeys {
		if v, ok := raw[k]; ok {
			out[k] = v
		}
	}
	return out
}
