package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/nutrition"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserProfile is a Telegram user together with the biometrics that drive the
// energy model. BMR, TDEE and DailyCalorieTarget are caches written only by
// RecomputeEnergy.
type UserProfile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TelegramID string    `gorm:"size:64;not null;uniqueIndex" json:"telegram_id"`
	Username   *string   `gorm:"size:255" json:"username"`
	FirstName  *string   `gorm:"size:255" json:"first_name"`
	LastName   *string   `gorm:"size:255" json:"last_name"`

	Age            *int     `json:"age"`
	Sex            *string  `gorm:"size:10" json:"sex"`
	HeightCm       *float64 `json:"height_cm"`
	WeightKg       *float64 `json:"weight_kg"`
	TargetWeightKg *float64 `json:"target_weight_kg"`

	ActivityLevel      *string  `gorm:"size:20" json:"activity_level"`
	ActivityMultiplier *float64 `json:"activity_multiplier"`
	Goal               *string  `gorm:"size:10" json:"goal"`

	SleepHours   *float64 `json:"sleep_hours"`
	WaterIntakeL *float64 `json:"water_intake_l"`

	HealthConditions    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"health_conditions"`
	DietaryRestrictions datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"dietary_restrictions"`
	Allergens           datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"allergens"`

	BMR                *float64 `json:"bmr"`
	TDEE               *float64 `json:"tdee"`
	DailyCalorieTarget *float64 `json:"daily_calorie_target"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// CalorieTarget prefers the goal-adjusted daily target and falls back to TDEE.
func (u *UserProfile) CalorieTarget() *float64 {
	if u.DailyCalorieTarget != nil {
		return u.DailyCalorieTarget
	}
	return u.TDEE
}

// Biometrics is the energy model input for this profile.
func (u *UserProfile) Biometrics() nutrition.Biometrics {
	return nutrition.Biometrics{
		Age:                u.Age,
		Sex:                u.Sex,
		HeightCm:           u.HeightCm,
		WeightKg:           u.WeightKg,
		ActivityLevel:      u.ActivityLevel,
		ActivityMultiplier: u.ActivityMultiplier,
		Goal:               u.Goal,
	}
}

// RecomputeEnergy refreshes the derived fields from the current inputs,
// clearing them when the inputs are incomplete.
func (u *UserProfile) RecomputeEnergy() {
	e, ok := nutrition.Estimate(u.Biometrics())
	if !ok {
		u.BMR, u.TDEE, u.DailyCalorieTarget = nil, nil, nil
		return
	}
	u.BMR = &e.BMR
	u.TDEE = &e.TDEE
	u.DailyCalorieTarget = &e.DailyCalorieTarget
}
