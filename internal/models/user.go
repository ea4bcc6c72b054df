package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User carries both the login identity and the farmer profile.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	FirstName    string    `gorm:"size:100"`
	LastName     string    `gorm:"size:100"`
	FarmName     string    `gorm:"size:150"`
	Region       string    `gorm:"size:50"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}

// assignID fills an empty primary key; ids are generated app-side so every dialect behaves the same.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
