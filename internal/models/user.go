package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription tiers gate resource quotas.
const (
	TierFree = "free"
	TierPaid = "paid"
)

// User represents an end user of the Niyyah platform.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email            string    `gorm:"type:text;uniqueIndex;not null"`
	PasswordHash     string    `gorm:"type:text;not null"`
	Timezone         string    `gorm:"type:text;not null;default:'UTC'"`
	Locale           string    `gorm:"type:text;not null;default:'en'"`
	SubscriptionTier string    `gorm:"type:text;not null;default:'free'"`
	IsActive         bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	RefreshTokens  []RefreshToken  `gorm:"constraint:OnDelete:CASCADE"`
	Personas       []Persona       `gorm:"constraint:OnDelete:CASCADE"`
	Principles     []Principle     `gorm:"constraint:OnDelete:CASCADE"`
	ScheduleBlocks []ScheduleBlock `gorm:"constraint:OnDelete:CASCADE"`
	NonNegotiables []NonNegotiable `gorm:"constraint:OnDelete:CASCADE"`
	Settings       *UserSettings   `gorm:"constraint:OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
