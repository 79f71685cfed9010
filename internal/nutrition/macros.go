package nutrition

import "errors"

const (
	DefaultWeightKg   = 70.0
	ProteinGPerKg     = 1.7
	FatShare          = 0.28
	CarbFallbackShare = 0.25

	kcalPerGProtein = 4.0
	kcalPerGCarb    = 4.0
	kcalPerGFat     = 9.0

	MacroMethod = "protein_1.7g_per_kg_fat28pct"
)

// ErrNoCalorieTarget is returned when neither a daily target nor a TDEE is known.
var ErrNoCalorieTarget = errors.New("calorie target unknown")

type MacroTargets struct {
	Calories   float64 `json:"calories"`
	ProteinG   float64 `json:"protein_g"`
	FatG       float64 `json:"fat_g"`
	CarbsG     float64 `json:"carbs_g"`
	ProteinPct float64 `json:"protein_pct"`
	FatPct     float64 `json:"fat_pct"`
	CarbsPct   float64 `json:"carbs_pct"`
	Method     string  `json:"method"`
}

// AllocateMacros splits a calorie target into protein, fat and carbs.
// calorieTarget is usually UserProfile.CalorieTarget(); weightKg defaults to 70.
func AllocateMacros(calorieTarget, weightKg *float64) (MacroTargets, error) {
	if calorieTarget == nil || *calorieTarget == 0 {
		return MacroTargets{}, ErrNoCalorieTarget
	}
	calories := *calorieTarget
	weight := DefaultWeightKg
	if weightKg != nil && *weightKg > 0 {
		weight = *weightKg
	}

	protein := weight * ProteinGPerKg
	proteinKcal := protein * kcalPerGProtein
	fatKcal := calories * FatShare
	fat := fatKcal / kcalPerGFat

	// Protein and fat can exceed small targets; carbs then get a fixed share.
	remaining := calories - proteinKcal - fatKcal
	if remaining < 0 {
		remaining = max(calories*CarbFallbackShare, 0)
	}
	carbs := remaining / kcalPerGCarb

	total := proteinKcal + fatKcal + remaining
	var pPct, fPct, cPct float64
	if total != 0 {
		pPct = proteinKcal / total * 100
		fPct = fatKcal / total * 100
		cPct = remaining / total * 100
	}

	return MacroTargets{
		Calories:   Round(calories, 0),
		ProteinG:   round1(protein),
		FatG:       round1(fat),
		CarbsG:     round1(carbs),
		ProteinPct: round1(pPct),
		FatPct:     round1(fPct),
		CarbsPct:   round1(cPct),
		Method:     MacroMethod,
	}, nil
}
