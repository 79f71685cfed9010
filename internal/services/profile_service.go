package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/nutrition"
	"github.com/nutriai/backend/internal/repository"
	"gorm.io/datatypes"
)

var (
	validSexes = map[string]bool{nutrition.SexMale: true, nutrition.SexFemale: true, nutrition.SexOther: true}
	validGoals = map[string]bool{nutrition.GoalLose: true, nutrition.GoalMaintain: true, nutrition.GoalGain: true}
)

const maxListItems = 50

type ProfileService struct {
	store repository.Store
	daily *DailyLogService
	now   Clock
}

func NewProfileService(store repository.Store, daily *DailyLogService, now Clock) *ProfileService {
	return &ProfileService{store: store, daily: daily, now: now}
}

func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	return loadUser(ctx, s.store, userID)
}

// Update applies a partial update, recomputes the energy model and
// re-snapshots today's log target. A weight change is also recorded as
// today's weight entry.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.UserProfile, error) {
	if err := validateProfileUpdate(req); err != nil {
		return nil, err
	}

	var user *models.UserProfile
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		var err error
		user, err = lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		weightChanged := req.WeightKg != nil && (user.WeightKg == nil || *user.WeightKg != *req.WeightKg)
		applyProfileUpdate(user, req)
		user.RecomputeEnergy()

		if err := tx.SaveProfile(ctx, user); err != nil {
			return err
		}
		if weightChanged {
			entry := &models.WeightEntry{UserID: user.ID, Date: dayOf(s.now()), WeightKg: *req.WeightKg, Source: models.WeightSourceProfile}
			if err := tx.UpsertWeight(ctx, entry); err != nil {
				return err
			}
		}
		return s.daily.RefreshTodayTarget(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func validateProfileUpdate(req *dto.UpdateProfileRequest) error {
	if req.Age != nil && (*req.Age < 5 || *req.Age > 120) {
		return invalid("age must be between 5 and 120")
	}
	if req.Sex != nil && !validSexes[*req.Sex] {
		return invalid("sex must be one of male, female, other")
	}
	if req.HeightCm != nil && (*req.HeightCm < 50 || *req.HeightCm > 250) {
		return invalid("height_cm must be between 50 and 250")
	}
	if req.WeightKg != nil && (*req.WeightKg < 15 || *req.WeightKg > 400) {
		return invalid("weight_kg must be between 15 and 400")
	}
	if req.TargetWeightKg != nil && (*req.TargetWeightKg < 15 || *req.TargetWeightKg > 400) {
		return invalid("target_weight_kg must be between 15 and 400")
	}
	if req.ActivityLevel != nil {
		if _, ok := nutrition.ActivityFactors[*req.ActivityLevel]; !ok {
			return invalid("activity_level must be one of sedentary, light, moderate, active, very_active")
		}
	}
	if req.ActivityMultiplier != nil && (*req.ActivityMultiplier < 1.0 || *req.ActivityMultiplier > 3.0) {
		return invalid("activity_multiplier must be between 1.0 and 3.0")
	}
	if req.Goal != nil && !validGoals[*req.Goal] {
		return invalid("goal must be one of lose, maintain, gain")
	}
	if req.SleepHours != nil && (*req.SleepHours < 0 || *req.SleepHours > 24) {
		return invalid("sleep_hours must be between 0 and 24")
	}
	if req.WaterIntakeL != nil && (*req.WaterIntakeL < 0 || *req.WaterIntakeL > 10) {
		return invalid("water_intake_l must be between 0 and 10")
	}
	for name, list := range map[string]*[]string{
		"health_conditions":    req.HealthConditions,
		"dietary_restrictions": req.DietaryRestrictions,
		"allergens":            req.Allergens,
	} {
		if list != nil && len(*list) > maxListItems {
			return invalid("%s accepts at most %d items", name, maxListItems)
		}
	}
	return nil
}

func applyProfileUpdate(u *models.UserProfile, req *dto.UpdateProfileRequest) {
	setIf(&u.Username, req.Username)
	setIf(&u.FirstName, req.FirstName)
	setIf(&u.LastName, req.LastName)
	setIf(&u.Age, req.Age)
	setIf(&u.Sex, req.Sex)
	setIf(&u.HeightCm, req.HeightCm)
	setIf(&u.WeightKg, req.WeightKg)
	setIf(&u.TargetWeightKg, req.TargetWeightKg)
	setIf(&u.ActivityLevel, req.ActivityLevel)
	setIf(&u.ActivityMultiplier, req.ActivityMultiplier)
	setIf(&u.Goal, req.Goal)
	setIf(&u.SleepHours, req.SleepHours)
	setIf(&u.WaterIntakeL, req.WaterIntakeL)
	if req.HealthConditions != nil {
		u.HealthConditions = cleanList(*req.HealthConditions)
	}
	if req.DietaryRestrictions != nil {
		u.DietaryRestrictions = cleanList(*req.DietaryRestrictions)
	}
	if req.Allergens != nil {
		u.Allergens = cleanList(*req.Allergens)
	}
}

func setIf[T any](dst **T, v *T) {
	if v != nil {
		copied := *v
		*dst = &copied
	}
}

// cleanList trims entries and drops blanks and duplicates, keeping order.
func cleanList(items []string) datatypes.JSONSlice[string] {
	seen := make(map[string]bool, len(items))
	out := make(datatypes.JSONSlice[string], 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
