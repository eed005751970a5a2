package db

import (
	"context"

	"gorm.io/gorm"

	"niyyah/internal/models"
)

// Migrate performs schema migrations for the persistent models.
func Migrate(ctx context.Context, database *gorm.DB) error {
	return database.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.UserSettings{},
		&models.Persona{},
		&models.Milestone{},
		&models.ScheduleBlock{},
		&models.Principle{},
		&models.NonNegotiable{},
		&models.DailyCheck{},
		&models.Streak{},
	)
}
