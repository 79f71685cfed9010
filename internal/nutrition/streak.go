package nutrition

import "time"

// StreakWindow caps how many days back a streak is searched.
const StreakWindow = 120

type Streak struct {
	CurrentDays int `json:"current_days"`
	LongestDays int `json:"longest_days"`
}

// ComputeStreak counts consecutive days with logged calories ending today.
// caloriesByDate maps YYYY-MM-DD to consumed calories; missing days count as
// gaps. LongestDays is the best run inside the same window.
func ComputeStreak(caloriesByDate map[string]float64, today time.Time) Streak {
	today = today.UTC()
	var s Streak
	run := 0
	current := true
	for i := 0; i < StreakWindow; i++ {
		day := today.AddDate(0, 0, -i).Format(dateLayout)
		if caloriesByDate[day] > 0 {
			run++
			if current {
				s.CurrentDays = run
			}
		} else {
			current = false
			run = 0
		}
		s.LongestDays = max(s.LongestDays, run)
	}
	return s
}
