package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyCheck is one ledger fact: a habit was completed on a calendar date.
// The composite unique index is the authority for the one-check-per-day
// invariant; application-level checks only provide the friendly error path.
type DailyCheck struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	NonNegotiableID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_daily_check_unique"`
	CheckDate       time.Time `gorm:"type:date;not null;uniqueIndex:idx_daily_check_unique"`
	IsCompleted     bool      `gorm:"not null;default:true"`

	NonNegotiable NonNegotiable `gorm:"constraint:OnDelete:CASCADE;foreignKey:NonNegotiableID;references:ID"`
}

func (c *DailyCheck) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
