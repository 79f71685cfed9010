package dto

import "github.com/nutriai/backend/internal/models"

const (
	SummaryWithinTarget = "within_target"
	SummaryOverTarget   = "over_target"
	SummaryNoTarget     = "no_target"
)

type SummaryResponse struct {
	Date              string             `json:"date"`
	CaloriesTarget    *float64           `json:"calories_target"`
	CaloriesConsumed  float64            `json:"calories_consumed"`
	CaloriesRemaining *float64           `json:"calories_remaining"`
	MealsCount        int                `json:"meals_count"`
	ProgressPercent   float64            `json:"progress_percent"`
	ProteinTotal      float64            `json:"protein_total"`
	CarbsTotal        float64            `json:"carbs_total"`
	FatTotal          float64            `json:"fat_total"`
	Status            string             `json:"status"`
	Message           string             `json:"message"`
	Meals             []models.MealEntry `json:"meals"`
}

type HistoryDay struct {
	Date     string   `json:"date"`
	Calories float64  `json:"calories"`
	Target   *float64 `json:"target"`
	Deficit  *float64 `json:"deficit"`
	Percent  float64  `json:"percent"`
}

type HistoryResponse struct {
	Days []HistoryDay `json:"days"`
}

type WeekStats struct {
	WeekStart        string   `json:"week_start"`
	WeekEnd          string   `json:"week_end"`
	DaysTracked      int      `json:"days_tracked"`
	TotalCalories    float64  `json:"total_calories"`
	AvgDailyCalories float64  `json:"avg_daily_calories"`
	AvgDeficit       *float64 `json:"avg_deficit"`
}

type WeeklyStatsResponse struct {
	Weeks int         `json:"weeks"`
	Data  []WeekStats `json:"weekly_data"`
}
