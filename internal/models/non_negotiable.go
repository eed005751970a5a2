package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Categories for non-negotiables.
const (
	CategorySpiritual = "spiritual"
	CategoryHealth    = "health"
	CategoryGrowth    = "growth"
)

// NonNegotiable is a daily habit commitment. Its Streak row is created in the
// same transaction and lives exactly as long as the habit does.
type NonNegotiable struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"type:text;not null"`
	Category  string    `gorm:"type:text;not null;default:'spiritual'"`
	Order     int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	User        User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	DailyChecks []DailyCheck `gorm:"constraint:OnDelete:CASCADE"`
	Streak      *Streak      `gorm:"constraint:OnDelete:CASCADE"`
}

func (n *NonNegotiable) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
