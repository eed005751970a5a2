package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default settings values applied at registration time.
const (
	DefaultSuperObjective = "Allah SWT's Satisfaction"
	DefaultPrayerMethod   = "ISNA"
	DefaultTheme          = "light"
)

// UserSettings holds per-user preferences. The prayer calculation method is
// stored for the client; the server never computes prayer times.
type UserSettings struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID                  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	SuperObjective          string    `gorm:"type:text;not null"`
	PrayerCalculationMethod string    `gorm:"type:text;not null"`
	Latitude                *float64
	Longitude               *float64
	Theme                   string `gorm:"type:text;not null"`

	User User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}

// DefaultSettings returns a settings row with baseline values for a new user.
func DefaultSettings(userID uuid.UUID) UserSettings {
	return UserSettings{
		UserID:                  userID,
		SuperObjective:          DefaultSuperObjective,
		PrayerCalculationMethod: DefaultPrayerMethod,
		Theme:                   DefaultTheme,
	}
}

func (s *UserSettings) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
