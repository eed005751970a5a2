package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Milestone is a dated goal attached to a persona.
type Milestone struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PersonaID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Goal        string     `gorm:"type:text;not null"`
	TargetDate  *time.Time `gorm:"type:date"`
	IsCompleted bool       `gorm:"not null;default:false"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`

	Persona Persona `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonaID;references:ID"`
}

func (m *Milestone) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
