package dto

import "github.com/nutriai/backend/internal/models"

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`

	Age            *int     `json:"age"`
	Sex            *string  `json:"sex"`
	HeightCm       *float64 `json:"height_cm"`
	WeightKg       *float64 `json:"weight_kg"`
	TargetWeightKg *float64 `json:"target_weight_kg"`

	ActivityLevel      *string  `json:"activity_level"`
	ActivityMultiplier *float64 `json:"activity_multiplier"`
	Goal               *string  `json:"goal"`

	SleepHours   *float64 `json:"sleep_hours"`
	WaterIntakeL *float64 `json:"water_intake_l"`

	HealthConditions    *[]string `json:"health_conditions"`
	DietaryRestrictions *[]string `json:"dietary_restrictions"`
	Allergens           *[]string `json:"allergens"`
}

type WeightRequest struct {
	WeightKg *float64 `json:"weight_kg"`
	Date     string   `json:"date"`
	Source   string   `json:"source"`
}

type WeightResponse struct {
	Entry   *models.WeightEntry `json:"entry"`
	Profile *models.UserProfile `json:"profile"`
}

type WeightHistoryResponse struct {
	Days    int                  `json:"days"`
	Entries []models.WeightEntry `json:"entries"`
}

type WaterRequest struct {
	AmountL *float64 `json:"amount_l"`
	Date    string   `json:"date"`
}

type SleepRequest struct {
	Hours *float64 `json:"hours"`
	Date  string   `json:"date"`
}
