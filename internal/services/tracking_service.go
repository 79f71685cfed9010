package services

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/repository"
)

const (
	DefaultWeightHistoryDays = 30
	MaxWeightHistoryDays     = 365

	maxWeightSourceLen = 20
	maxWaterPerEntryL  = 10.0
)

// TrackingService records weight, water and sleep.
type TrackingService struct {
	store repository.Store
	daily *DailyLogService
	now   Clock
}

func NewTrackingService(store repository.Store, daily *DailyLogService, now Clock) *TrackingService {
	return &TrackingService{store: store, daily: daily, now: now}
}

// AddWeight upserts the weight entry for a day. An entry for today also
// becomes the profile weight and re-derives the energy targets.
func (s *TrackingService) AddWeight(ctx context.Context, userID uuid.UUID, req *dto.WeightRequest) (*dto.WeightResponse, error) {
	if req.WeightKg == nil {
		return nil, invalid("weight_kg is required")
	}
	if *req.WeightKg < 15 || *req.WeightKg > 400 {
		return nil, invalid("weight_kg must be between 15 and 400")
	}
	now := s.now()
	date, err := resolveDate(req.Date, now)
	if err != nil {
		return nil, err
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = models.WeightSourceManual
	}
	if len(source) > maxWeightSourceLen {
		return nil, invalid("source must be at most %d characters", maxWeightSourceLen)
	}

	resp := &dto.WeightResponse{}
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		entry := &models.WeightEntry{UserID: userID, Date: date, WeightKg: *req.WeightKg, Source: source}
		if err := tx.UpsertWeight(ctx, entry); err != nil {
			return err
		}
		resp.Entry, resp.Profile = entry, user

		if date != dayOf(now) {
			return nil
		}
		weight := *req.WeightKg
		user.WeightKg = &weight
		user.RecomputeEnergy()
		if err := tx.SaveProfile(ctx, user); err != nil {
			return err
		}
		return s.daily.RefreshTodayTarget(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// WeightHistory returns the entries of the last days days, oldest first.
func (s *TrackingService) WeightHistory(ctx context.Context, userID uuid.UUID, days int) (*dto.WeightHistoryResponse, error) {
	if days == 0 {
		days = DefaultWeightHistoryDays
	}
	days = clamp(days, 1, MaxWeightHistoryDays)
	from := dayOf(s.now().AddDate(0, 0, -(days - 1)))

	entries, err := s.store.ListWeights(ctx, userID, repository.WeightFilter{From: from})
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	if entries == nil {
		entries = []models.WeightEntry{}
	}
	return &dto.WeightHistoryResponse{Days: days, Entries: entries}, nil
}

// AddWater adds to the day's water total, creating the log if needed.
func (s *TrackingService) AddWater(ctx context.Context, userID uuid.UUID, req *dto.WaterRequest) (*models.DailyLog, error) {
	if req.AmountL == nil || *req.AmountL <= 0 || *req.AmountL > maxWaterPerEntryL {
		return nil, invalid("amount_l must be greater than 0 and at most 10")
	}
	date, err := resolveDate(req.Date, s.now())
	if err != nil {
		return nil, err
	}

	var out *models.DailyLog
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		out, err = tx.AddWater(ctx, userID, date, *req.AmountL, user.DailyCalorieTarget)
		return err
	})
	return out, err
}

// SetSleep replaces the day's sleep hours.
func (s *TrackingService) SetSleep(ctx context.Context, userID uuid.UUID, req *dto.SleepRequest) (*models.DailyLog, error) {
	if req.Hours == nil || *req.Hours < 0 || *req.Hours > 24 {
		return nil, invalid("hours must be between 0 and 24")
	}
	date, err := resolveDate(req.Date, s.now())
	if err != nil {
		return nil, err
	}

	var out *models.DailyLog
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		out, err = tx.SetSleep(ctx, userID, date, *req.Hours, user.DailyCalorieTarget)
		return err
	})
	return out, err
}
