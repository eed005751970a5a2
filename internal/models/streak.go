package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Streak is the materialized run-length of consecutive daily checks for one
// habit. It is maintained incrementally on the check-recording write path,
// never recomputed on read.
type Streak struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	NonNegotiableID uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null"`
	CurrentStreak   int        `gorm:"not null;default:0"`
	LongestStreak   int        `gorm:"not null;default:0"`
	LastCheckDate   *time.Time `gorm:"type:date"`

	NonNegotiable NonNegotiable `gorm:"constraint:OnDelete:CASCADE;foreignKey:NonNegotiableID;references:ID"`
}

func (s *Streak) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
