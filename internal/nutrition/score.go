package nutrition

import "math"

// DayInputs is what the day score looks at. Nil pointers are "not tracked".
type DayInputs struct {
	CaloriesConsumed float64
	CalorieTarget    *float64
	WaterL           float64
	WaterTargetL     *float64
	SleepH           *float64
	// MacroPercents holds protein, carbs and fat percent of target, or nil
	// when there is no macro block for the day.
	MacroPercents []float64
}

// DayScore is a 0-100 heuristic: calories 40, water 20, sleep 15, macros 25.
func DayScore(in DayInputs) int {
	total := calorieScore(in.CaloriesConsumed, in.CalorieTarget) +
		waterScore(in.WaterL, in.WaterTargetL) +
		sleepScore(in.SleepH) +
		macroScore(in.MacroPercents)
	return int(math.Round(min(max(total, 0), 100)))
}

func calorieScore(consumed float64, target *float64) float64 {
	if target == nil || *target <= 0 || consumed <= 0 {
		return 0
	}
	ratio := consumed / *target
	switch {
	case ratio >= 0.90 && ratio <= 1.05:
		return 40
	case ratio >= 0.80 && ratio <= 1.15:
		return 30
	case ratio >= 0.60 && ratio <= 1.30:
		return 20
	default:
		return 10
	}
}

func waterScore(water float64, target *float64) float64 {
	if target == nil || *target <= 0 || water <= 0 {
		return 0
	}
	return 20 * min(water / *target, 1)
}

func sleepScore(hours *float64) float64 {
	if hours == nil {
		return 0
	}
	h := *hours
	switch {
	case h >= 7 && h <= 9:
		return 15
	case h >= 6:
		return 10
	case h >= 5:
		return 6
	default:
		return 2
	}
}

func macroScore(percents []float64) float64 {
	if len(percents) == 0 {
		return 0
	}
	var sum float64
	for _, p := range percents {
		sum += min(max(p, 0), 100)
	}
	return 25 * (sum / float64(len(percents))) / 100
}
