package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"niyyah/internal/models"
)

var (
	// ErrHabitNotFound covers both absent habits and habits owned by someone
	// else, so ownership leaks no information about existence.
	ErrHabitNotFound = errors.New("non-negotiable not found")

	// ErrCheckNotFound covers absent and not-owned daily checks.
	ErrCheckNotFound = errors.New("check not found")

	// ErrAlreadyChecked is returned when a habit already has a check for the
	// requested date.
	ErrAlreadyChecked = errors.New("already checked for this date")
)

// Day normalizes a timestamp to its UTC calendar date. Every check date and
// streak date passes through here before touching the store.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// HabitPatch applies only the fields a request supplied.
type HabitPatch struct {
	Title    *string
	Category *string
	Order    *int
}

// Service maintains the daily-check ledger and its derived streaks.
type Service struct {
	db *gorm.DB
}

// NewService returns a ledger service backed by the provided GORM handle.
func NewService(database *gorm.DB) (*Service, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	return &Service{db: database}, nil
}

// CreateHabit creates a non-negotiable and its zero-valued streak row in one
// transaction. Display order appends to the end of the user's list.
func (s *Service) CreateHabit(ctx context.Context, userID uuid.UUID, title, category string) (*models.NonNegotiable, error) {
	if category == "" {
		category = models.CategorySpiritual
	}

	habit := models.NonNegotiable{
		UserID:   userID,
		Title:    title,
		Category: category,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.NonNegotiable{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		habit.Order = int(count)
		if err := tx.Create(&habit).Error; err != nil {
			return err
		}
		streak := models.Streak{NonNegotiableID: habit.ID}
		if err := tx.Create(&streak).Error; err != nil {
			return err
		}
		habit.Streak = &streak
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

// ListHabits returns the user's habits in display order with streaks loaded.
func (s *Service) ListHabits(ctx context.Context, userID uuid.UUID) ([]models.NonNegotiable, error) {
	var habits []models.NonNegotiable
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Streak").
		Order("display_order").
		Find(&habits).Error
	if err != nil {
		return nil, err
	}
	return habits, nil
}

// UpdateHabit applies the supplied patch fields to an owned habit.
func (s *Service) UpdateHabit(ctx context.Context, userID, habitID uuid.UUID, patch HabitPatch) (*models.NonNegotiable, error) {
	var habit models.NonNegotiable
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", habitID, userID).
		First(&habit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, err
	}

	if patch.Title != nil {
		habit.Title = *patch.Title
	}
	if patch.Category != nil {
		habit.Category = *patch.Category
	}
	if patch.Order != nil {
		habit.Order = *patch.Order
	}

	if err := s.db.WithContext(ctx).Save(&habit).Error; err != nil {
		return nil, err
	}
	var streak models.Streak
	err = s.db.WithContext(ctx).Where("non_negotiable_id = ?", habit.ID).First(&streak).Error
	switch {
	case err == nil:
		habit.Streak = &streak
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return &habit, nil
}

// DeleteHabit removes an owned habit together with its checks and streak.
func (s *Service) DeleteHabit(ctx context.Context, userID, habitID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit models.NonNegotiable
		if err := tx.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}
		if err := tx.Where("non_negotiable_id = ?", habit.ID).Delete(&models.DailyCheck{}).Error; err != nil {
			return err
		}
		if err := tx.Where("non_negotiable_id = ?", habit.ID).Delete(&models.Streak{}).Error; err != nil {
			return err
		}
		return tx.Delete(&habit).Error
	})
}

// RecordCheck inserts a ledger fact for (habit, date) and updates the habit's
// streak in the same transaction. The date defaults to today in server time.
//
// The streak rule is deliberately literal: the current streak extends only
// when the new date is exactly one calendar day after the last check date;
// any other new date resets it to 1, including backfilled past dates.
func (s *Service) RecordCheck(ctx context.Context, userID, habitID uuid.UUID, date *time.Time) (*models.DailyCheck, error) {
	checkDate := Day(time.Now())
	if date != nil {
		checkDate = Day(*date)
	}

	var check models.DailyCheck

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var habit models.NonNegotiable
		if err := tx.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHabitNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.DailyCheck{}).
			Where("non_negotiable_id = ? AND check_date = ?", habit.ID, checkDate).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyChecked
		}

		check = models.DailyCheck{
			NonNegotiableID: habit.ID,
			CheckDate:       checkDate,
			IsCompleted:     true,
		}
		if err := tx.Create(&check).Error; err != nil {
			// Concurrent duplicate submissions race at the unique index;
			// the loser lands here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyChecked
			}
			return err
		}

		var streak models.Streak
		if err := tx.Where("non_negotiable_id = ?", habit.ID).First(&streak).Error; err != nil {
			return err
		}

		switch {
		case streak.LastCheckDate != nil && Day(*streak.LastCheckDate).AddDate(0, 0, 1).Equal(checkDate):
			streak.CurrentStreak++
		case streak.LastCheckDate == nil || !Day(*streak.LastCheckDate).Equal(checkDate):
			streak.CurrentStreak = 1
		}
		if streak.CurrentStreak > streak.LongestStreak {
			streak.LongestStreak = streak.CurrentStreak
		}
		streak.LastCheckDate = &checkDate

		return tx.Save(&streak).Error
	})
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// DeleteCheck removes a ledger fact after verifying the caller owns the habit
// it belongs to. The streak it contributed to is left as-is.
func (s *Service) DeleteCheck(ctx context.Context, userID, checkID uuid.UUID) error {
	var check models.DailyCheck
	if err := s.db.WithContext(ctx).Where("id = ?", checkID).First(&check).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCheckNotFound
		}
		return err
	}

	var count int64
	err := s.db.WithContext(ctx).Model(&models.NonNegotiable{}).
		Where("id = ? AND user_id = ?", check.NonNegotiableID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCheckNotFound
	}

	return s.db.WithContext(ctx).Delete(&check).Error
}

// TodayView aggregates the tracker state for a single calendar date.
type TodayView struct {
	Date           time.Time
	Checks         []models.DailyCheck
	NonNegotiables []models.NonNegotiable
}

// Today returns the user's habits with streaks plus all checks recorded for
// today's date.
func (s *Service) Today(ctx context.Context, userID uuid.UUID) (*TodayView, error) {
	today := Day(time.Now())

	habits, err := s.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	checks, err := s.ChecksForDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	return &TodayView{Date: today, Checks: checks, NonNegotiables: habits}, nil
}

// ChecksForDate returns all of a user's checks recorded for the given date.
func (s *Service) ChecksForDate(ctx context.Context, userID uuid.UUID, date time.Time) ([]models.DailyCheck, error) {
	var checks []models.DailyCheck
	err := s.db.WithContext(ctx).
		Where("check_date = ? AND non_negotiable_id IN (?)",
			Day(date),
			s.db.Model(&models.NonNegotiable{}).Select("id").Where("user_id = ?", userID),
		).
		Find(&checks).Error
	if err != nil {
		return nil, err
	}
	return checks, nil
}
