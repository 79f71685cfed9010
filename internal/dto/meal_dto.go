package dto

import "github.com/nutriai/backend/internal/models"

type CreateMealRequest struct {
	FoodName string   `json:"food_name"`
	Calories *float64 `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
	MealType string   `json:"meal_type"`
	Notes    *string  `json:"notes"`
}

type UpdateMealRequest struct {
	FoodName *string  `json:"food_name"`
	Calories *float64 `json:"calories"`
	ProteinG *float64 `json:"protein_g"`
	CarbsG   *float64 `json:"carbs_g"`
	FatG     *float64 `json:"fat_g"`
	MealType *string  `json:"meal_type"`
	Notes    *string  `json:"notes"`
}

type PhotoAnalysis struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type PhotoMealResponse struct {
	Meal     *models.MealEntry `json:"meal"`
	Analysis PhotoAnalysis     `json:"analysis"`
}
