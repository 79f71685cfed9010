package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeEnergy(t *testing.T) {
	age, sex, height, weight, level, goal := 25, "male", 175.0, 70.0, "moderate", "lose"
	p := &UserProfile{Age: &age, Sex: &sex, HeightCm: &height, WeightKg: &weight, ActivityLevel: &level, Goal: &goal}

	p.RecomputeEnergy()
	require.NotNil(t, p.DailyCalorieTarget)
	assert.Equal(t, 1673.8, *p.BMR)
	assert.Equal(t, 2594.3, *p.TDEE)
	assert.Equal(t, 2075.0, *p.DailyCalorieTarget)
	assert.Equal(t, p.DailyCalorieTarget, p.CalorieTarget())

	p.WeightKg = nil
	p.RecomputeEnergy()
	assert.Nil(t, p.BMR)
	assert.Nil(t, p.TDEE)
	assert.Nil(t, p.DailyCalorieTarget)
	assert.Nil(t, p.CalorieTarget())
}
