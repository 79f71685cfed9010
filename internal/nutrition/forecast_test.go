package nutrition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var forecastStart = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func TestProjectWeight(t *testing.T) {
	f, err := ProjectWeight(80.0, ptr(72.0), []float64{500, 600, 400}, forecastStart, 30)
	require.NoError(t, err)

	require.Len(t, f.Points, 31)
	assert.Equal(t, 80.0, f.Points[0].EstWeight)
	assert.Equal(t, "2026-03-10", f.Points[0].Date)
	assert.Equal(t, 500.0, f.Points[0].CumulativeDeficit)
	assert.Equal(t, "2026-04-09", f.Points[30].Date)
	assert.Equal(t, Round(80-500.0/7700*30, 2), f.Points[30].EstWeight)
	assert.Equal(t, 15500.0, f.Points[30].CumulativeDeficit)

	assert.Equal(t, 500.0, f.DailyAvgDeficit)
	assert.Equal(t, Round(500.0/7700*7, 3), f.WeeklyChangeKg)
	assert.Equal(t, ForecastMethod, f.Method)
	require.NotNil(t, f.TargetWeight)
	assert.Equal(t, 72.0, *f.TargetWeight)
}

func TestProjectWeightDayZeroIsExact(t *testing.T) {
	f, err := ProjectWeight(81.237, nil, []float64{333}, forecastStart, 7)
	require.NoError(t, err)
	assert.Equal(t, 81.237, f.Points[0].EstWeight)
}

func TestProjectWeightMonotonic(t *testing.T) {
	t.Run("deficit loses weight", func(t *testing.T) {
		f, err := ProjectWeight(90, nil, []float64{700}, forecastStart, 60)
		require.NoError(t, err)
		for i := 1; i < len(f.Points); i++ {
			assert.LessOrEqual(t, f.Points[i].EstWeight, f.Points[i-1].EstWeight)
		}
		assert.Less(t, f.Points[60].EstWeight, 90.0)
	})
	t.Run("surplus gains weight", func(t *testing.T) {
		f, err := ProjectWeight(60, nil, []float64{-400}, forecastStart, 60)
		require.NoError(t, err)
		for i := 1; i < len(f.Points); i++ {
			assert.GreaterOrEqual(t, f.Points[i].EstWeight, f.Points[i-1].EstWeight)
		}
		assert.Greater(t, f.Points[60].EstWeight, 60.0)
	})
}

func TestProjectWeightClampsDays(t *testing.T) {
	f, err := ProjectWeight(70, nil, []float64{100}, forecastStart, 1)
	require.NoError(t, err)
	assert.Len(t, f.Points, ForecastMinDays+1)

	f, err = ProjectWeight(70, nil, []float64{100}, forecastStart, 1000)
	require.NoError(t, err)
	assert.Len(t, f.Points, ForecastMaxDays+1)
}

func TestProjectWeightWithoutHistory(t *testing.T) {
	_, err := ProjectWeight(70, nil, nil, forecastStart, 30)
	require.ErrorIs(t, err, ErrNoDeficitHistory)
}
