package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Field struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Name         string    `gorm:"size:150;not null"`
	SizeHectares float64   `gorm:"not null"`
	Location     string    `gorm:"size:255"`
	SoilType     *string   `gorm:"size:50"`
	Crops        []Crop    `gorm:"foreignKey:FieldID"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (f *Field) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
