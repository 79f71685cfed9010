package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/observability"
	"github.com/nutriai/backend/internal/repository"
)

// DailyLogService keeps the meal-driven columns of daily logs in sync with
// the meals of that day.
type DailyLogService struct {
	store repository.Store
	now   Clock
}

func NewDailyLogService(store repository.Store, now Clock) *DailyLogService {
	return &DailyLogService{store: store, now: now}
}

// Recalculate overwrites calories, target and deficit for date from the
// user's meals created that day. tx must hold the profile lock. Callers
// record the metric once their transaction commits. Today always
// takes the current target; a past day keeps its snapshot if it has one.
func (s *DailyLogService) Recalculate(ctx context.Context, tx repository.Store, user *models.UserProfile, date string) (*models.DailyLog, error) {
	from, to, err := dayBounds(date)
	if err != nil {
		return nil, fmt.Errorf("bad log date %q: %w", date, err)
	}
	meals, err := tx.ListMeals(ctx, user.ID, repository.MealFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	var consumed float64
	for _, m := range meals {
		consumed += m.Calories
	}

	target := user.DailyCalorieTarget
	if date != dayOf(s.now()) {
		existing, err := tx.GetDailyLog(ctx, user.ID, date)
		switch {
		case err == nil && existing.Target != nil:
			target = existing.Target
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	log := &models.DailyLog{
		UserID:   user.ID,
		Date:     date,
		Calories: consumed,
		Target:   target,
		Deficit:  deficitOf(target, consumed),
	}
	if err := tx.UpsertDailyTotals(ctx, log); err != nil {
		return nil, err
	}
	return tx.GetDailyLog(ctx, user.ID, date)
}

// RecalculateDay runs Recalculate in its own transaction.
func (s *DailyLogService) RecalculateDay(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	var out *models.DailyLog
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		out, err = s.Recalculate(ctx, tx, user, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.DailyLogRecalculated()
	return out, nil
}

// RefreshTodayTarget re-snapshots today's target after the profile's target
// changed. Nothing is created when today has no log yet.
func (s *DailyLogService) RefreshTodayTarget(ctx context.Context, tx repository.Store, user *models.UserProfile) error {
	today := dayOf(s.now())
	existing, err := tx.GetDailyLog(ctx, user.ID, today)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return tx.UpsertDailyTotals(ctx, &models.DailyLog{
		UserID:   user.ID,
		Date:     today,
		Calories: existing.Calories,
		Target:   user.DailyCalorieTarget,
		Deficit:  deficitOf(user.DailyCalorieTarget, existing.Calories),
	})
}

func deficitOf(target *float64, consumed float64) *float64 {
	if target == nil {
		return nil
	}
	d := *target - consumed
	return &d
}

// lockUser loads and row-locks the profile. A token whose profile is gone
// yields ErrUnauthorized.
func lockUser(ctx context.Context, tx repository.Store, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := tx.LockProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}

func loadUser(ctx context.Context, store repository.Store, userID uuid.UUID) (*models.UserProfile, error) {
	user, err := store.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}
