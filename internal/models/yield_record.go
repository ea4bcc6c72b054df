package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultYieldUnit = "kg"

// YieldRecord is one harvest event. Rows are never edited, only removed.
type YieldRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;index;not null"`
	FieldID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Field       *Field    `gorm:"foreignKey:FieldID"`
	CropID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Crop        *Crop     `gorm:"foreignKey:CropID"`
	HarvestDate time.Time `gorm:"index;not null"`
	YieldAmount float64   `gorm:"not null"`
	YieldUnit   string    `gorm:"size:20;not null;default:kg"`
	CreatedAt   time.Time
}

func (y *YieldRecord) BeforeCreate(tx *gorm.DB) error {
	assignID(&y.ID)
	if y.YieldUnit == "" {
		y.YieldUnit = DefaultYieldUnit
	}
	return nil
}

var yieldUnits = map[string]bool{"kg": true, "tons": true, "pounds": true, "bushels": true}

func ValidYieldUnit(u string) bool { return yieldUnits[u] }
