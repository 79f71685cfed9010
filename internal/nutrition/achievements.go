package nutrition

type Achievement struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Icon  string `json:"icon"`
}

// AchievementInputs are the facts badges are derived from.
type AchievementInputs struct {
	TotalMeals     int64
	StreakDays     int
	WaterL         float64
	WaterTargetL   *float64
	SleepH         *float64
	HasWeightToday bool
}

type achievementRule struct {
	Achievement
	earned func(AchievementInputs) bool
}

var achievementRules = []achievementRule{
	{Achievement{"first_meal", "First meal logged", "🍽"}, func(in AchievementInputs) bool { return in.TotalMeals >= 1 }},
	{Achievement{"meals_5", "5 meals logged", "🥗"}, func(in AchievementInputs) bool { return in.TotalMeals >= 5 }},
	{Achievement{"streak_3", "3-day streak", "🔥"}, func(in AchievementInputs) bool { return in.StreakDays >= 3 }},
	{Achievement{"streak_7", "7-day streak", "🏆"}, func(in AchievementInputs) bool { return in.StreakDays >= 7 }},
	{Achievement{"water_goal", "Water goal reached", "💧"}, func(in AchievementInputs) bool {
		return in.WaterTargetL != nil && *in.WaterTargetL > 0 && in.WaterL >= *in.WaterTargetL
	}},
	{Achievement{"sleep_8", "Slept 8 hours", "😴"}, func(in AchievementInputs) bool { return in.SleepH != nil && *in.SleepH >= 8 }},
	{Achievement{"weight_today", "Weighed in today", "⚖"}, func(in AchievementInputs) bool { return in.HasWeightToday }},
}

// Achievements returns the earned badges in checklist order.
func Achievements(in AchievementInputs) []Achievement {
	out := make([]Achievement, 0, len(achievementRules))
	for _, r := range achievementRules {
		if r.earned(in) {
			out = append(out, r.Achievement)
		}
	}
	return out
}
