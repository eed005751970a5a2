package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Principle is a guiding value displayed on the user's dashboard.
type Principle struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:text;not null"`
	Arabic    string    `gorm:"type:text;not null;default:''"`
	Meaning   string    `gorm:"type:text;not null"`
	Verse     *string   `gorm:"type:text"`
	Icon      string    `gorm:"type:text;not null;default:'heart'"`
	Order     int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
}

func (p *Principle) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
