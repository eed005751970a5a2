package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"niyyah/internal/db"
	"niyyah/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Migrate(context.Background(), database); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return database
}

func newTestService(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	database := newTestDB(t)
	svc, err := NewService(database)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}

	user := models.User{Email: "a@x.com", PasswordHash: "irrelevant", Timezone: "UTC", Locale: "en", SubscriptionTier: models.TierFree, IsActive: true}
	if err := database.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return svc, user.ID
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func loadStreak(t *testing.T, svc *Service, habitID uuid.UUID) models.Streak {
	t.Helper()
	var streak models.Streak
	if err := svc.db.Where("non_negotiable_id = ?", habitID).First(&streak).Error; err != nil {
		t.Fatalf("load streak: %v", err)
	}
	return streak
}

func TestCreateHabitCreatesStreak(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Tahajjud", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	if habit.Category != models.CategorySpiritual {
		t.Fatalf("category = %q, want spiritual", habit.Category)
	}
	if habit.Order != 0 {
		t.Fatalf("order = %d, want 0", habit.Order)
	}

	streak := loadStreak(t, svc, habit.ID)
	if streak.CurrentStreak != 0 || streak.LongestStreak != 0 || streak.LastCheckDate != nil {
		t.Fatalf("streak not zero-valued: %+v", streak)
	}

	second, err := svc.CreateHabit(ctx, userID, "Quran", models.CategoryGrowth)
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	if second.Order != 1 {
		t.Fatalf("second order = %d, want 1", second.Order)
	}
}

func TestRecordCheckDuplicateRejected(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Adhkar", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	day := date("2024-01-01")
	if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); err != nil {
		t.Fatalf("RecordCheck() error = %v", err)
	}
	if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); !errors.Is(err, ErrAlreadyChecked) {
		t.Fatalf("duplicate RecordCheck() error = %v, want ErrAlreadyChecked", err)
	}

	// The duplicate attempt must not have mutated the streak.
	streak := loadStreak(t, svc, habit.ID)
	if streak.CurrentStreak != 1 || streak.LongestStreak != 1 {
		t.Fatalf("streak mutated by duplicate: %+v", streak)
	}
}

func TestRecordCheckUnknownHabit(t *testing.T) {
	svc, userID := newTestService(t)

	if _, err := svc.RecordCheck(context.Background(), userID, uuid.New(), nil); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("RecordCheck() error = %v, want ErrHabitNotFound", err)
	}
}

func TestRecordCheckOwnership(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Tahajjud", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	other := models.User{Email: "b@x.com", PasswordHash: "irrelevant", Timezone: "UTC", Locale: "en", SubscriptionTier: models.TierFree, IsActive: true}
	if err := svc.db.Create(&other).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Another user's habit looks absent, not forbidden.
	if _, err := svc.RecordCheck(ctx, other.ID, habit.ID, nil); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("RecordCheck() error = %v, want ErrHabitNotFound", err)
	}
}

func TestStreakConsecutiveDays(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Istighfar", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	days := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	for _, d := range days {
		day := date(d)
		if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); err != nil {
			t.Fatalf("RecordCheck(%s) error = %v", d, err)
		}
	}

	streak := loadStreak(t, svc, habit.ID)
	if streak.CurrentStreak != 3 || streak.LongestStreak != 3 {
		t.Fatalf("streak = %d/%d, want 3/3", streak.CurrentStreak, streak.LongestStreak)
	}
	if streak.LastCheckDate == nil || !Day(*streak.LastCheckDate).Equal(date("2024-01-03")) {
		t.Fatalf("last check date = %v", streak.LastCheckDate)
	}
}

func TestStreakGapResets(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Quran", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	for _, d := range []string{"2024-01-01", "2024-01-02"} {
		day := date(d)
		if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); err != nil {
			t.Fatalf("RecordCheck(%s) error = %v", d, err)
		}
	}

	// A gap resets the running streak; longest is preserved.
	day := date("2024-01-05")
	if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); err != nil {
		t.Fatalf("RecordCheck() error = %v", err)
	}

	streak := loadStreak(t, svc, habit.ID)
	if streak.CurrentStreak != 1 {
		t.Fatalf("current streak = %d, want 1", streak.CurrentStreak)
	}
	if streak.LongestStreak != 2 {
		t.Fatalf("longest streak = %d, want 2", streak.LongestStreak)
	}
}

func TestStreakBackfillResets(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Dhikr", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	for _, d := range []string{"2024-02-01", "2024-02-02", "2024-02-03"} {
		day := date(d)
		if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); err != nil {
			t.Fatalf("RecordCheck(%s) error = %v", d, err)
		}
	}

	// Backfilling an earlier date is not the +1-day case, so the running
	// streak resets even though history got denser.
	day := date("2024-01-20")
	if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); err != nil {
		t.Fatalf("RecordCheck() error = %v", err)
	}

	streak := loadStreak(t, svc, habit.ID)
	if streak.CurrentStreak != 1 {
		t.Fatalf("current streak = %d, want 1", streak.CurrentStreak)
	}
	if streak.LongestStreak != 3 {
		t.Fatalf("longest streak = %d, want 3", streak.LongestStreak)
	}
	if streak.LastCheckDate == nil || !Day(*streak.LastCheckDate).Equal(date("2024-01-20")) {
		t.Fatalf("last check date = %v", streak.LastCheckDate)
	}
}

func TestDeleteCheckLeavesStreak(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Fajr", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	day := date("2024-01-01")
	check, err := svc.RecordCheck(ctx, userID, habit.ID, &day)
	if err != nil {
		t.Fatalf("RecordCheck() error = %v", err)
	}

	if err := svc.DeleteCheck(ctx, userID, check.ID); err != nil {
		t.Fatalf("DeleteCheck() error = %v", err)
	}

	// The ledger fact is gone but the streak is untouched.
	streak := loadStreak(t, svc, habit.ID)
	if streak.CurrentStreak != 1 || streak.LongestStreak != 1 {
		t.Fatalf("streak rolled back: %+v", streak)
	}

	// The date can be checked again after deletion.
	if _, err := svc.RecordCheck(ctx, userID, habit.ID, &day); err != nil {
		t.Fatalf("re-RecordCheck() error = %v", err)
	}
}

func TestDeleteCheckOwnership(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Fajr", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	check, err := svc.RecordCheck(ctx, userID, habit.ID, nil)
	if err != nil {
		t.Fatalf("RecordCheck() error = %v", err)
	}

	other := models.User{Email: "b@x.com", PasswordHash: "irrelevant", Timezone: "UTC", Locale: "en", SubscriptionTier: models.TierFree, IsActive: true}
	if err := svc.db.Create(&other).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := svc.DeleteCheck(ctx, other.ID, check.ID); !errors.Is(err, ErrCheckNotFound) {
		t.Fatalf("DeleteCheck() error = %v, want ErrCheckNotFound", err)
	}
	if err := svc.DeleteCheck(ctx, userID, uuid.New()); !errors.Is(err, ErrCheckNotFound) {
		t.Fatalf("DeleteCheck() unknown id error = %v, want ErrCheckNotFound", err)
	}
}

func TestUpdateHabitPatch(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Tahajjud", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}

	title := "Tahajjud + Witr"
	updated, err := svc.UpdateHabit(ctx, userID, habit.ID, HabitPatch{Title: &title})
	if err != nil {
		t.Fatalf("UpdateHabit() error = %v", err)
	}
	if updated.Title != title {
		t.Fatalf("title = %q, want %q", updated.Title, title)
	}
	// Unsupplied fields are untouched.
	if updated.Category != models.CategorySpiritual {
		t.Fatalf("category changed: %q", updated.Category)
	}

	if _, err := svc.UpdateHabit(ctx, userID, uuid.New(), HabitPatch{Title: &title}); !errors.Is(err, ErrHabitNotFound) {
		t.Fatalf("UpdateHabit() unknown id error = %v, want ErrHabitNotFound", err)
	}
}

func TestDeleteHabitRemovesChecksAndStreak(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	habit, err := svc.CreateHabit(ctx, userID, "Tahajjud", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	if _, err := svc.RecordCheck(ctx, userID, habit.ID, nil); err != nil {
		t.Fatalf("RecordCheck() error = %v", err)
	}

	if err := svc.DeleteHabit(ctx, userID, habit.ID); err != nil {
		t.Fatalf("DeleteHabit() error = %v", err)
	}

	var checks, streaks int64
	if err := svc.db.Model(&models.DailyCheck{}).Where("non_negotiable_id = ?", habit.ID).Count(&checks).Error; err != nil {
		t.Fatalf("count checks: %v", err)
	}
	if err := svc.db.Model(&models.Streak{}).Where("non_negotiable_id = ?", habit.ID).Count(&streaks).Error; err != nil {
		t.Fatalf("count streaks: %v", err)
	}
	if checks != 0 || streaks != 0 {
		t.Fatalf("orphaned rows: checks=%d streaks=%d", checks, streaks)
	}
}

func TestToday(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateHabit(ctx, userID, "Fajr", "")
	if err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	if _, err := svc.CreateHabit(ctx, userID, "Quran", ""); err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	if _, err := svc.RecordCheck(ctx, userID, first.ID, nil); err != nil {
		t.Fatalf("RecordCheck() error = %v", err)
	}

	view, err := svc.Today(ctx, userID)
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if len(view.NonNegotiables) != 2 {
		t.Fatalf("habits = %d, want 2", len(view.NonNegotiables))
	}
	if len(view.Checks) != 1 {
		t.Fatalf("checks = %d, want 1", len(view.Checks))
	}
	if !view.Date.Equal(Day(time.Now())) {
		t.Fatalf("date = %v", view.Date)
	}
}

func TestDay(t *testing.T) {
	in := time.Date(2024, 6, 15, 23, 45, 12, 0, time.FixedZone("X", 3*3600))
	got := Day(in)
	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Day() = %v, want %v", got, want)
	}
}
