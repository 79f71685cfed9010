package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

// runStoreContract exercises behaviour every Store implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	newProfile := func(t *testing.T, s Store, tg string) *models.UserProfile {
		t.Helper()
		p := &models.UserProfile{TelegramID: tg, DailyCalorieTarget: fptr(2000)}
		require.NoError(t, s.CreateProfile(ctx, p))
		require.NotEqual(t, uuid.Nil, p.ID)
		return p
	}

	t.Run("profile lookup", func(t *testing.T) {
		s := newStore(t)
		p := newProfile(t, s, "1001")

		got, err := s.GetProfileByTelegramID(ctx, "1001")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)

		_, err = s.GetProfile(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("daily totals upsert keeps water and sleep", func(t *testing.T) {
		s := newStore(t)
		p := newProfile(t, s, "1002")

		_, err := s.AddWater(ctx, p.ID, "2026-04-01", 0.5, p.DailyCalorieTarget)
		require.NoError(t, err)
		l, err := s.AddWater(ctx, p.ID, "2026-04-01", 0.75, p.DailyCalorieTarget)
		require.NoError(t, err)
		assert.InDelta(t, 1.25, l.WaterL, 1e-9)

		_, err = s.SetSleep(ctx, p.ID, "2026-04-01", 7.5, nil)
		require.NoError(t, err)

		require.NoError(t, s.UpsertDailyTotals(ctx, &models.DailyLog{
			UserID: p.ID, Date: "2026-04-01", Calories: 1500, Target: fptr(2000), Deficit: fptr(500),
		}))
		require.NoError(t, s.UpsertDailyTotals(ctx, &models.DailyLog{
			UserID: p.ID, Date: "2026-04-01", Calories: 1800, Target: fptr(2000), Deficit: fptr(200),
		}))

		l, err = s.GetDailyLog(ctx, p.ID, "2026-04-01")
		require.NoError(t, err)
		assert.Equal(t, 1800.0, l.Calories)
		require.NotNil(t, l.Deficit)
		assert.Equal(t, 200.0, *l.Deficit)
		assert.InDelta(t, 1.25, l.WaterL, 1e-9)
		require.NotNil(t, l.SleepH)
		assert.Equal(t, 7.5, *l.SleepH)
	})

	t.Run("daily log listing", func(t *testing.T) {
		s := newStore(t)
		p := newProfile(t, s, "1003")
		for i, date := range []string{"2026-04-01", "2026-04-02", "2026-04-03"} {
			log := &models.DailyLog{UserID: p.ID, Date: date, Calories: float64(1000 + i)}
			if i != 1 {
				log.Deficit = fptr(100)
			}
			require.NoError(t, s.UpsertDailyTotals(ctx, log))
		}

		logs, err := s.ListDailyLogs(ctx, p.ID, LogFilter{})
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.Equal(t, "2026-04-03", logs[0].Date)

		logs, err = s.ListDailyLogs(ctx, p.ID, LogFilter{WithDeficit: true})
		require.NoError(t, err)
		assert.Len(t, logs, 2)

		logs, err = s.ListDailyLogs(ctx, p.ID, LogFilter{From: "2026-04-02", To: "2026-04-02"})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, 1001.0, logs[0].Calories)

		logs, err = s.ListDailyLogs(ctx, p.ID, LogFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, logs, 1)
	})

	t.Run("meals are scoped to owner", func(t *testing.T) {
		s := newStore(t)
		owner := newProfile(t, s, "1004")
		other := newProfile(t, s, "1005")

		base := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
		for i := 0; i < 3; i++ {
			require.NoError(t, s.CreateMeal(ctx, &models.MealEntry{
				UserID: owner.ID, FoodName: "oats", Calories: 300, MealType: models.MealBreakfast,
				CreatedAt: base.Add(time.Duration(i) * time.Hour),
			}))
		}

		meals, err := s.ListMeals(ctx, owner.ID, MealFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, meals, 2)
		assert.True(t, meals[0].CreatedAt.After(meals[1].CreatedAt))

		meals, err = s.ListMeals(ctx, owner.ID, MealFilter{From: base.Add(time.Hour), To: base.Add(2 * time.Hour)})
		require.NoError(t, err)
		assert.Len(t, meals, 1)

		_, err = s.GetMeal(ctx, other.ID, meals[0].ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeleteMeal(ctx, other.ID, meals[0].ID), ErrNotFound)

		n, err := s.CountMeals(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("weight upsert by day", func(t *testing.T) {
		s := newStore(t)
		p := newProfile(t, s, "1006")
		first := &models.WeightEntry{UserID: p.ID, Date: "2026-04-01", WeightKg: 80, Source: models.WeightSourceManual}
		require.NoError(t, s.UpsertWeight(ctx, first))
		second := &models.WeightEntry{UserID: p.ID, Date: "2026-04-01", WeightKg: 79.4, Source: models.WeightSourceManual}
		require.NoError(t, s.UpsertWeight(ctx, second))
		assert.Equal(t, first.ID, second.ID)
		require.NoError(t, s.UpsertWeight(ctx, &models.WeightEntry{UserID: p.ID, Date: "2026-04-03", WeightKg: 79, Source: models.WeightSourceManual}))

		entries, err := s.ListWeights(ctx, p.ID, WeightFilter{})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "2026-04-03", entries[0].Date)
		assert.Equal(t, 79.4, entries[1].WeightKg)
	})

	t.Run("refresh tokens", func(t *testing.T) {
		s := newStore(t)
		p := newProfile(t, s, "1007")
		tok := &models.RefreshToken{ID: uuid.New(), UserID: p.ID, TokenHash: "abc", ExpiresAt: time.Now().Add(time.Hour)}
		require.NoError(t, s.CreateRefreshToken(ctx, tok))

		got, err := s.GetActiveRefreshToken(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.UserID)

		require.NoError(t, s.RevokeRefreshToken(ctx, "abc"))
		_, err = s.GetActiveRefreshToken(ctx, "abc")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.RevokeRefreshToken(ctx, "abc"), ErrNotFound, "second revoke loses")
		assert.ErrorIs(t, s.RevokeRefreshToken(ctx, "missing"), ErrNotFound)
	})

	t.Run("transaction rolls back", func(t *testing.T) {
		s := newStore(t)
		p := newProfile(t, s, "1008")
		boom := errors.New("boom")

		err := s.Transaction(ctx, func(tx Store) error {
			locked, err := tx.LockProfile(ctx, p.ID)
			require.NoError(t, err)
			locked.WeightKg = fptr(99)
			require.NoError(t, tx.SaveProfile(ctx, locked))
			require.NoError(t, tx.UpsertDailyTotals(ctx, &models.DailyLog{UserID: p.ID, Date: "2026-04-05", Calories: 10}))
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := s.GetProfile(ctx, p.ID)
		require.NoError(t, err)
		assert.Nil(t, got.WeightKg)
		_, err = s.GetDailyLog(ctx, p.ID, "2026-04-05")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete profile cascades", func(t *testing.T) {
		s := newStore(t)
		p := newProfile(t, s, "1009")
		require.NoError(t, s.CreateMeal(ctx, &models.MealEntry{UserID: p.ID, FoodName: "apple", Calories: 80, MealType: models.MealSnack}))
		require.NoError(t, s.UpsertDailyTotals(ctx, &models.DailyLog{UserID: p.ID, Date: "2026-04-05", Calories: 80}))

		require.NoError(t, s.DeleteProfile(ctx, p.ID))

		_, err := s.GetProfile(ctx, p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		n, err := s.CountMeals(ctx, p.ID)
		require.NoError(t, err)
		assert.Zero(t, n)
		logs, err := s.ListDailyLogs(ctx, p.ID, LogFilter{})
		require.NoError(t, err)
		assert.Empty(t, logs)
	})
}
