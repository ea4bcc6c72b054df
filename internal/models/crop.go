package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CropStatus string

const (
	CropStatusPlanted   CropStatus = "planted"
	CropStatusGrowing   CropStatus = "growing"
	CropStatusHarvested CropStatus = "harvested"
)

func (s CropStatus) Valid() bool {
	switch s {
	case CropStatusPlanted, CropStatusGrowing, CropStatusHarvested:
		return true
	}
	return false
}

type Crop struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID              uuid.UUID  `gorm:"type:uuid;index;not null"`
	FieldID             uuid.UUID  `gorm:"type:uuid;index;not null"`
	Field               *Field     `gorm:"foreignKey:FieldID"`
	Name                string     `gorm:"size:100;not null"`
	Variety             *string    `gorm:"size:100"`
	Status              CropStatus `gorm:"size:20;not null;default:planted"`
	PlantingDate        *time.Time
	ExpectedHarvestDate *time.Time
	ProductionCost      *float64 // total for the crop, not per unit
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (c *Crop) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
