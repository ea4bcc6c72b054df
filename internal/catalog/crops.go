// Package catalog holds the static crop and region reference data. Every
// constructor builds a fresh value so callers can substitute their own tables.
package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCropType  = errors.New("invalid crop type")
	ErrUnknownEncoding  = errors.New("unknown crop encoding")
	errDuplicateCropKey = errors.New("duplicate crop name")
)

// trainedCrops lists the crops the yield model was trained on; the index is the model encoding.
func trainedCrops() []string {
	return []string{
		"Pearl Millet", "Banana", "Barley", "Bean", "Blackgram",
		"Egg Plant", "Castor seed", "Chillies", "Coriander", "Cotton",
		"Cowpea", "Drum Stick", "Garlic", "Gram", "Grapes",
		"Groundnut", "Guar seed", "Horse-gram", "Sorghum", "Golden Fiber",
		"Grass Pea", "Lady Finger", "Lentil", "Linseed", "Maize",
		"Fiber", "Green Gram", "Moth", "Onion", "Orange",
		"Peas & beans (Pulses)", "Potato", "Raddish", "Finger Millet", "Rice",
		"Safflower", "Sannhamp", "Sesamum", "Soyabean", "Sugarcane",
		"Sunflower", "Sweet potato", "Tapioca", "Tomato", "Black Gram",
		"Wheat",
	}
}

// CropEncoding maps crop names to the integer codes expected by the model service.
type CropEncoding struct {
	byName map[string]int
	byCode []string
}

// NewCropEncoding assigns codes by position in names.
func NewCropEncoding(names []string) (*CropEncoding, error) {
	e := &CropEncoding{
		byName: make(map[string]int, len(names)),
		byCode: make([]string, len(names)),
	}
	for i, n := range names {
		if _, ok := e.byName[n]; ok {
			return nil, fmt.Errorf("%w: %s", errDuplicateCropKey, n)
		}
		e.byName[n] = i
		e.byCode[i] = n
	}
	return e, nil
}

// DefaultCropEncoding returns the 46-entry table used by the production model.
func DefaultCropEncoding() *CropEncoding {
	e, err := NewCropEncoding(trainedCrops())
	if err != nil {
		panic(err)
	}
	return e
}

func (e *CropEncoding) Encode(name string) (int, error) {
	code, ok := e.byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCropType, name)
	}
	return code, nil
}

func (e *CropEncoding) Decode(code int) (string, error) {
	if code < 0 || code >= len(e.byCode) {
		return "", fmt.Errorf("%w: %d", ErrUnknownEncoding, code)
	}
	return e.byCode[code], nil
}

func (e *CropEncoding) Known(name string) bool {
	_, ok := e.byName[name]
	return ok
}

// Names returns the crop names in encoding order.
func (e *CropEncoding) Names() []string {
	out := make([]string, len(e.byCode))
	copy(out, e.byCode)
	return out
}

func (e *CropEncoding) Len() int { return len(e.byCode) }
