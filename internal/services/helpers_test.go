package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/config"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/nutrition"
	"github.com/nutriai/backend/internal/repository"
	"github.com/stretchr/testify/require"
)

// Wednesday.
var testNow = time.Date(2026, 4, 15, 12, 0, 0, 0, time.UTC)

const testBotToken = "123456:test-bot-token"

type testEnv struct {
	now   time.Time
	cfg   *config.Config
	store *repository.MemoryStore

	daily    *DailyLogService
	auth     *AuthService
	profiles *ProfileService
	meals    *MealService
	tracking *TrackingService
	stats    *StatsService
	overview *OverviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{now: testNow}
	clock := func() time.Time { return env.now }

	env.cfg = &config.Config{
		JWTSecret:              "test-secret",
		JWTAccessExpiry:        time.Hour,
		JWTRefreshExpiry:       30 * 24 * time.Hour,
		TelegramBotToken:       testBotToken,
		TelegramInitDataMaxAge: 24 * time.Hour,
	}
	env.store = repository.NewMemoryStore().WithClock(clock)
	env.daily = NewDailyLogService(env.store, clock)
	env.auth = NewAuthService(env.store, env.cfg, clock)
	env.profiles = NewProfileService(env.store, env.daily, clock)
	env.meals = NewMealService(env.store, env.daily, clock)
	env.tracking = NewTrackingService(env.store, env.daily, clock)
	env.stats = NewStatsService(env.store, clock)
	env.overview = NewOverviewService(env.store, env.daily, clock)
	return env
}

func ptr[T any](v T) *T { return &v }

// seedUser stores a profile; with biometrics it is the 25y/175cm/70kg male
// on a moderate cutting plan whose daily target is 2075 kcal.
func (env *testEnv) seedUser(t *testing.T, withBiometrics bool) *models.UserProfile {
	t.Helper()
	u := &models.UserProfile{TelegramID: uuid.NewString()}
	if withBiometrics {
		u.Age = ptr(25)
		u.Sex = ptr(nutrition.SexMale)
		u.HeightCm = ptr(175.0)
		u.WeightKg = ptr(70.0)
		u.ActivityLevel = ptr("moderate")
		u.Goal = ptr(nutrition.GoalLose)
		u.WaterIntakeL = ptr(2.0)
		u.SleepHours = ptr(8.0)
		u.RecomputeEnergy()
	}
	require.NoError(t, env.store.CreateProfile(context.Background(), u))
	return u
}

// seedMealAt stores a meal with an explicit creation time, bypassing the
// recalculator.
func (env *testEnv) seedMealAt(t *testing.T, user *models.UserProfile, at time.Time, kcal float64) *models.MealEntry {
	t.Helper()
	m := &models.MealEntry{UserID: user.ID, FoodName: "seeded", Calories: kcal, MealType: models.MealLunch, CreatedAt: at}
	require.NoError(t, env.store.CreateMeal(context.Background(), m))
	return m
}

func (env *testEnv) seedLog(t *testing.T, user *models.UserProfile, date string, kcal float64, target *float64) {
	t.Helper()
	require.NoError(t, env.store.UpsertDailyTotals(context.Background(), &models.DailyLog{
		UserID:   user.ID,
		Date:     date,
		Calories: kcal,
		Target:   target,
		Deficit:  deficitOf(target, kcal),
	}))
}

func (env *testEnv) log(t *testing.T, user *models.UserProfile, date string) *models.DailyLog {
	t.Helper()
	l, err := env.store.GetDailyLog(context.Background(), user.ID, date)
	require.NoError(t, err)
	return l
}

func day(offset int) string {
	return testNow.AddDate(0, 0, offset).Format(models.DateLayout)
}
