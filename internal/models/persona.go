package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Persona is an aspirational identity a user works toward, with its own
// milestones and schedule blocks.
type Persona struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Name       string                      `gorm:"type:text;not null"`
	ArabicName string                      `gorm:"type:text;not null;default:''"`
	Domain     string                      `gorm:"type:text;not null"`
	Eventually string                      `gorm:"type:text;not null;default:''"`
	Icon       string                      `gorm:"type:text;not null;default:'star'"`
	Color      string                      `gorm:"type:text;not null;default:'#e11d48'"`
	OneThing   *string                     `gorm:"type:text"`
	Ritual     *string                     `gorm:"type:text"`
	Guardrail  *string                     `gorm:"type:text"`
	Points     datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Order      int                         `gorm:"column:display_order;not null;default:0"`
	CreatedAt  time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt  time.Time                   `gorm:"autoUpdateTime"`

	User           User            `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID"`
	Milestones     []Milestone     `gorm:"constraint:OnDelete:CASCADE"`
	ScheduleBlocks []ScheduleBlock `gorm:"constraint:OnDelete:CASCADE"`
}

func (p *Persona) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
