package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const PredictionYieldUnit = "kg/hectare"

// Prediction is written once per prediction request and never updated.
// Factors is a schema-less snapshot of the request inputs.
type Prediction struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID         `gorm:"type:uuid;index;not null" json:"user_id"`
	FieldID         uuid.UUID         `gorm:"type:uuid;index;not null" json:"field_id"`
	Field           *Field            `gorm:"foreignKey:FieldID" json:"-"`
	CropID          uuid.UUID         `gorm:"type:uuid;index;not null" json:"crop_id"`
	Crop            *Crop             `gorm:"foreignKey:CropID" json:"-"`
	PredictedYield  float64           `gorm:"not null" json:"predicted_yield"`
	YieldUnit       string            `gorm:"size:20;not null" json:"yield_unit"`
	ConfidenceScore float64           `json:"confidence_score"`
	PredictionDate  time.Time         `gorm:"index;not null" json:"prediction_date"`
	Factors         datatypes.JSONMap `json:"factors"`
}

func (p *Prediction) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}
