package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/observability"
	"github.com/nutriai/backend/internal/repository"
)

const (
	maxFoodNameLen  = 200
	maxMealCalories = 10000
	maxMealMacroG   = 1000

	DefaultMealLimit = 100
	MaxMealLimit     = 500

	defaultPhotoName = "upload.jpg"
)

var validMealTypes = map[string]bool{
	models.MealBreakfast: true,
	models.MealLunch:     true,
	models.MealDinner:    true,
	models.MealSnack:     true,
}

type MealService struct {
	store repository.Store
	daily *DailyLogService
	now   Clock
}

func NewMealService(store repository.Store, daily *DailyLogService, now Clock) *MealService {
	return &MealService{store: store, daily: daily, now: now}
}

// List returns the user's meals newest first, optionally only those of date.
func (s *MealService) List(ctx context.Context, userID uuid.UUID, date string, limit int) ([]models.MealEntry, error) {
	if limit <= 0 {
		limit = DefaultMealLimit
	}
	f := repository.MealFilter{Limit: min(limit, MaxMealLimit)}
	if date != "" {
		from, to, err := dayBounds(date)
		if err != nil {
			return nil, invalid("date must be YYYY-MM-DD")
		}
		f.From, f.To = from, to
	}
	meals, err := s.store.ListMeals(ctx, userID, f)
	if meals == nil {
		meals = []models.MealEntry{}
	}
	return meals, err
}

func (s *MealService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateMealRequest) (*models.MealEntry, error) {
	req.FoodName = strings.TrimSpace(req.FoodName)
	if err := validateMeal(req.FoodName, req.Calories, req.ProteinG, req.CarbsG, req.FatG, req.MealType); err != nil {
		return nil, err
	}
	meal := &models.MealEntry{
		ID:        uuid.New(),
		UserID:    userID,
		FoodName:  req.FoodName,
		Calories:  *req.Calories,
		ProteinG:  req.ProteinG,
		CarbsG:    req.CarbsG,
		FatG:      req.FatG,
		MealType:  req.MealType,
		Notes:     req.Notes,
		CreatedAt: s.now().UTC(),
	}
	if err := s.insert(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// CreateFromPhoto records a zero-calorie placeholder snack for an uploaded
// photo. No image analysis happens.
func (s *MealService) CreateFromPhoto(ctx context.Context, userID uuid.UUID, filename string) (*dto.PhotoMealResponse, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = defaultPhotoName
	}
	name := "Photo: " + filename
	if utf8.RuneCountInString(name) > maxFoodNameLen {
		name = string([]rune(name)[:maxFoodNameLen])
	}
	meal := &models.MealEntry{
		ID:        uuid.New(),
		UserID:    userID,
		FoodName:  name,
		MealType:  models.MealSnack,
		CreatedAt: s.now().UTC(),
	}
	if err := s.insert(ctx, meal); err != nil {
		return nil, err
	}
	return &dto.PhotoMealResponse{
		Meal: meal,
		Analysis: dto.PhotoAnalysis{
			Status: "placeholder",
			Notes:  "Vision analysis not implemented",
		},
	}, nil
}

func (s *MealService) insert(ctx context.Context, meal *models.MealEntry) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := lockUser(ctx, tx, meal.UserID)
		if err != nil {
			return err
		}
		if err := tx.CreateMeal(ctx, meal); err != nil {
			return err
		}
		_, err = s.daily.Recalculate(ctx, tx, user, meal.Date())
		return err
	})
	if err == nil {
		observability.MealLogged(meal.MealType)
		observability.DailyLogRecalculated()
	}
	return err
}

func (s *MealService) Update(ctx context.Context, userID, mealID uuid.UUID, req *dto.UpdateMealRequest) (*models.MealEntry, error) {
	var meal *models.MealEntry
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		meal, err = tx.GetMeal(ctx, userID, mealID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if req.FoodName != nil {
			meal.FoodName = strings.TrimSpace(*req.FoodName)
		}
		setValue(&meal.Calories, req.Calories)
		setValue(&meal.ProteinG, req.ProteinG)
		setValue(&meal.CarbsG, req.CarbsG)
		setValue(&meal.FatG, req.FatG)
		setValue(&meal.MealType, req.MealType)
		if req.Notes != nil {
			meal.Notes = req.Notes
		}
		if err := validateMeal(meal.FoodName, &meal.Calories, meal.ProteinG, meal.CarbsG, meal.FatG, meal.MealType); err != nil {
			return err
		}

		if err := tx.SaveMeal(ctx, meal); err != nil {
			return err
		}
		_, err = s.daily.Recalculate(ctx, tx, user, meal.Date())
		return err
	})
	if err != nil {
		return nil, err
	}
	observability.DailyLogRecalculated()
	return meal, nil
}

func (s *MealService) Delete(ctx context.Context, userID, mealID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		user, err := lockUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		meal, err := tx.GetMeal(ctx, userID, mealID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.DeleteMeal(ctx, userID, mealID); err != nil {
			return err
		}
		_, err = s.daily.Recalculate(ctx, tx, user, meal.Date())
		return err
	})
	if err == nil {
		observability.DailyLogRecalculated()
	}
	return err
}

func validateMeal(name string, calories *float64, protein, carbs, fat float64, mealType string) error {
	if name == "" {
		return invalid("food_name is required")
	}
	if utf8.RuneCountInString(name) > maxFoodNameLen {
		return invalid("food_name must be at most %d characters", maxFoodNameLen)
	}
	if calories == nil {
		return invalid("calories is required")
	}
	if *calories < 0 || *calories > maxMealCalories {
		return invalid("calories must be between 0 and %d", maxMealCalories)
	}
	for _, m := range []struct {
		field string
		v     float64
	}{{"protein_g", protein}, {"carbs_g", carbs}, {"fat_g", fat}} {
		if m.v < 0 || m.v > maxMealMacroG {
			return invalid("%s must be between 0 and %d", m.field, maxMealMacroG)
		}
	}
	if !validMealTypes[mealType] {
		return invalid("meal_type must be one of breakfast, lunch, dinner, snack")
	}
	return nil
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
