// Package nutrition holds the deterministic calculations behind the
// dashboard: energy expenditure, macro targets, weight forecasts, streaks,
// the day score, achievements and tips. Nothing here touches storage.
package nutrition

const (
	SexMale   = "male"
	SexFemale = "female"
	SexOther  = "other"

	GoalLose     = "lose"
	GoalMaintain = "maintain"
	GoalGain     = "gain"

	DefaultActivityFactor = 1.2
)

// ActivityFactors maps named activity levels to TDEE multipliers.
var ActivityFactors = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// GoalAdjustments is the fractional change applied to TDEE per goal.
var GoalAdjustments = map[string]float64{
	GoalLose:     -0.20,
	GoalMaintain: 0,
	GoalGain:     0.15,
}

// Biometrics is the energy model input. Nil pointers mean "not provided".
type Biometrics struct {
	Age                *int
	Sex                *string
	HeightCm           *float64
	WeightKg           *float64
	ActivityLevel      *string
	ActivityMultiplier *float64
	Goal               *string
}

// Energy is the rounded energy model output.
type Energy struct {
	BMR                float64
	TDEE               float64
	DailyCalorieTarget float64
}

// Estimate runs Mifflin-St Jeor. ok is false when age, sex, height or weight
// is missing.
func Estimate(b Biometrics) (Energy, bool) {
	if b.Age == nil || b.Sex == nil || *b.Sex == "" || b.HeightCm == nil || b.WeightKg == nil {
		return Energy{}, false
	}

	base := 10**b.WeightKg + 6.25**b.HeightCm - 5*float64(*b.Age)
	var bmr float64
	switch *b.Sex {
	case SexMale:
		bmr = base + 5
	case SexFemale:
		bmr = base - 161
	default:
		bmr = ((base + 5) + (base - 161)) / 2
	}

	tdee := bmr * ActivityFactor(b.ActivityLevel, b.ActivityMultiplier)

	adj := 0.0
	if b.Goal != nil {
		adj = GoalAdjustments[*b.Goal]
	}
	daily := tdee * (1 + adj)

	return Energy{
		BMR:                round1(bmr),
		TDEE:               round1(tdee),
		DailyCalorieTarget: Round(daily, 0),
	}, true
}

// ActivityFactor resolves the TDEE multiplier. An explicit multiplier wins
// over the named level; unknown levels fall back to sedentary.
func ActivityFactor(level *string, multiplier *float64) float64 {
	if multiplier != nil && *multiplier > 0 {
		return *multiplier
	}
	if level != nil {
		if f, ok := ActivityFactors[*level]; ok {
			return f
		}
	}
	return DefaultActivityFactor
}
