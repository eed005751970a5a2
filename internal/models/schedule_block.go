package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Day types for schedule blocks.
const (
	DayTypeWeekday = "weekday"
	DayTypeWeekend = "weekend"
	DayTypeDaily   = "daily"
)

// ScheduleBlock is a time block in a user's ideal day, tied to a persona.
// Start and end are wall-clock "HH:MM" strings interpreted in the user's
// timezone by the client.
type ScheduleBlock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PersonaID     uuid.UUID `gorm:"type:uuid;not null"`
	StartTime     string    `gorm:"type:text;not null"`
	EndTime       string    `gorm:"type:text;not null"`
	Activity      string    `gorm:"type:text;not null"`
	DayType       string    `gorm:"type:text;not null;default:'weekday'"`
	IsPrayerBlock bool      `gorm:"not null;default:false"`
	Order         int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	User    User    `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	Persona Persona `gorm:"constraint:OnDelete:CASCADE;foreignKey:PersonaID;references:ID"`
}

func (b *ScheduleBlock) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
