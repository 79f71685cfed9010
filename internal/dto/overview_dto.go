package dto

import (
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/nutrition"
)

type OverviewResponse struct {
	User         *models.UserProfile     `json:"user"`
	Today        TodayBlock              `json:"today"`
	Weight       WeightBlock             `json:"weight"`
	Streak       nutrition.Streak        `json:"streak"`
	Achievements []nutrition.Achievement `json:"achievements"`
	RecentMeals  []models.MealEntry      `json:"recent_meals"`
	Macros       *MacroBlock             `json:"macros"`
	MealsGrouped map[string]MealGroup    `json:"meals_grouped"`
	NextTip      *string                 `json:"next_tip"`
	DayScore     int                     `json:"day_score"`
}

type TodayBlock struct {
	Date     string        `json:"date"`
	Calories CaloriesBlock `json:"calories"`
	WaterL   Measure       `json:"water_l"`
	SleepH   Measure       `json:"sleep_h"`
}

type CaloriesBlock struct {
	Value   float64  `json:"value"`
	Target  *float64 `json:"target"`
	Percent *float64 `json:"percent"`
}

type Measure struct {
	Value  *float64 `json:"value"`
	Target *float64 `json:"target"`
}

type WeightBlock struct {
	Current      *float64 `json:"current"`
	Target       *float64 `json:"target"`
	DiffFromPrev *float64 `json:"diff_from_prev"`
}

type MacroBlock struct {
	Protein MacroProgress `json:"protein"`
	Carbs   MacroProgress `json:"carbs"`
	Fat     MacroProgress `json:"fat"`
}

type MacroProgress struct {
	Value   float64  `json:"value"`
	Target  float64  `json:"target"`
	Percent *float64 `json:"percent"`
}

type MealGroup struct {
	Count    int     `json:"count"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}
