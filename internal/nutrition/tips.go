package nutrition

const (
	TipProtein       = "You are short on protein today. Add eggs, cottage cheese, chicken or legumes."
	TipHealthyFat    = "Fats are low today. A handful of nuts, some avocado or olive oil will help."
	TipPlanMeal      = "Less than 60% of your calories are in. Plan a balanced meal so you don't overeat later."
	TipEncouragement = "Great day! Keep the same rhythm tomorrow."
	TipRefocus       = "Let's get back on track: log your meals, drink water and aim for 7-9 hours of sleep."

	proteinGapG = 15.0
)

// TipInputs carries the day's state relevant to tips. Percent fields are nil
// when the underlying target is unknown.
type TipInputs struct {
	ProteinConsumedG float64
	ProteinTargetG   *float64
	FatPercent       *float64
	MealsToday       int
	CaloriePercent   *float64
	DayScore         int
}

// NextTip returns the first matching nudge, or nil.
func NextTip(in TipInputs) *string {
	pick := func(s string) *string { return &s }
	switch {
	case in.ProteinTargetG != nil && *in.ProteinTargetG-in.ProteinConsumedG > proteinGapG:
		return pick(TipProtein)
	case in.FatPercent != nil && *in.FatPercent < 40 && in.MealsToday >= 2:
		return pick(TipHealthyFat)
	case in.CaloriePercent != nil && *in.CaloriePercent < 60:
		return pick(TipPlanMeal)
	case in.DayScore >= 80:
		return pick(TipEncouragement)
	case in.DayScore < 50:
		return pick(TipRefocus)
	}
	return nil
}
