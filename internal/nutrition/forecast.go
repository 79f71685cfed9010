package nutrition

import (
	"errors"
	"time"
)

const (
	KcalPerKg           = 7700.0
	ForecastMinDays     = 7
	ForecastMaxDays     = 90
	ForecastDefaultDays = 30
	ForecastWindow      = 14
	ForecastMethod      = "avg_deficit_14d"

	dateLayout = "2006-01-02"
)

var ErrNoDeficitHistory = errors.New("not enough history")

type ForecastPoint struct {
	Day               int     `json:"day"`
	Date              string  `json:"date"`
	EstWeight         float64 `json:"est_weight"`
	CumulativeDeficit float64 `json:"cumulative_deficit"`
}

type Forecast struct {
	StartWeight     float64         `json:"start_weight"`
	TargetWeight    *float64        `json:"target_weight"`
	DailyAvgDeficit float64         `json:"daily_avg_deficit"`
	WeeklyChangeKg  float64         `json:"weekly_change_kg"`
	Points          []ForecastPoint `json:"points"`
	Method          string          `json:"method"`
}

// ClampForecastDays bounds the horizon to [7, 90].
func ClampForecastDays(days int) int {
	return min(max(days, ForecastMinDays), ForecastMaxDays)
}

// ProjectWeight extrapolates weight linearly from the mean daily deficit.
// deficits are the most recent (up to 14) non-null daily deficits.
func ProjectWeight(startWeight float64, targetWeight *float64, deficits []float64, start time.Time, days int) (Forecast, error) {
	if len(deficits) == 0 {
		return Forecast{}, ErrNoDeficitHistory
	}
	days = ClampForecastDays(days)

	var sum float64
	for _, d := range deficits {
		sum += d
	}
	avg := sum / float64(len(deficits))
	dailyChange := avg / KcalPerKg

	start = start.UTC()
	points := make([]ForecastPoint, 0, days+1)
	for d := 0; d <= days; d++ {
		est := startWeight
		if d > 0 {
			est = Round(startWeight-dailyChange*float64(d), 2)
		}
		points = append(points, ForecastPoint{
			Day:               d,
			Date:              start.AddDate(0, 0, d).Format(dateLayout),
			EstWeight:         est,
			CumulativeDeficit: round1(avg * float64(d+1)),
		})
	}

	return Forecast{
		StartWeight:     startWeight,
		TargetWeight:    targetWeight,
		DailyAvgDeficit: round1(avg),
		WeeklyChangeKg:  Round(dailyChange*7, 3),
		Points:          points,
		Method:          ForecastMethod,
	}, nil
}
