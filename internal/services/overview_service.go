package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/nutrition"
	"github.com/nutriai/backend/internal/repository"
)

const recentMealsLimit = 5

// OverviewService assembles the dashboard payload.
type OverviewService struct {
	store repository.Store
	daily *DailyLogService
	now   Clock
}

func NewOverviewService(store repository.Store, daily *DailyLogService, now Clock) *OverviewService {
	return &OverviewService{store: store, daily: daily, now: now}
}

func (s *OverviewService) Get(ctx context.Context, userID uuid.UUID) (*dto.OverviewResponse, error) {
	now := s.now()
	today := dayOf(now)

	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	log, err := s.store.GetDailyLog(ctx, userID, today)
	if errors.Is(err, repository.ErrNotFound) {
		log, err = s.daily.RecalculateDay(ctx, userID, today)
	}
	if err != nil {
		return nil, err
	}

	recent, err := s.store.ListMeals(ctx, userID, repository.MealFilter{Limit: recentMealsLimit})
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.MealEntry{}
	}
	from, to, _ := dayBounds(today)
	todayMeals, err := s.store.ListMeals(ctx, userID, repository.MealFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	totalMeals, err := s.store.CountMeals(ctx, userID)
	if err != nil {
		return nil, err
	}

	streak, err := s.streak(ctx, userID)
	if err != nil {
		return nil, err
	}

	weights, err := s.store.ListWeights(ctx, userID, repository.WeightFilter{Limit: 2})
	if err != nil {
		return nil, err
	}
	weight := dto.WeightBlock{Current: user.WeightKg, Target: user.TargetWeightKg}
	if len(weights) == 2 {
		diff := nutrition.Round(weights[0].WeightKg-weights[1].WeightKg, 2)
		weight.DiffFromPrev = &diff
	}

	var consumed dto.MealGroup
	grouped := make(map[string]dto.MealGroup)
	for _, m := range todayMeals {
		g := grouped[m.MealType]
		g.Count++
		g.Calories += m.Calories
		g.Protein += m.ProteinG
		g.Carbs += m.CarbsG
		g.Fat += m.FatG
		grouped[m.MealType] = g

		consumed.Calories += m.Calories
		consumed.Protein += m.ProteinG
		consumed.Carbs += m.CarbsG
		consumed.Fat += m.FatG
	}

	macros, err := macroBlock(user, consumed, len(todayMeals))
	if err != nil {
		return nil, err
	}

	calPercent := percentOf(log.Calories, log.Target)
	scoreIn := nutrition.DayInputs{
		CaloriesConsumed: log.Calories,
		CalorieTarget:    log.Target,
		WaterL:           log.WaterL,
		WaterTargetL:     user.WaterIntakeL,
		SleepH:           log.SleepH,
	}
	tipIn := nutrition.TipInputs{
		ProteinConsumedG: consumed.Protein,
		MealsToday:       len(todayMeals),
		CaloriePercent:   calPercent,
	}
	if macros != nil {
		for _, p := range []*float64{macros.Protein.Percent, macros.Carbs.Percent, macros.Fat.Percent} {
			if p != nil {
				scoreIn.MacroPercents = append(scoreIn.MacroPercents, *p)
			}
		}
		proteinTarget := macros.Protein.Target
		tipIn.ProteinTargetG = &proteinTarget
		tipIn.FatPercent = macros.Fat.Percent
	}
	score := nutrition.DayScore(scoreIn)
	tipIn.DayScore = score

	water := log.WaterL
	return &dto.OverviewResponse{
		User: user,
		Today: dto.TodayBlock{
			Date:     today,
			Calories: dto.CaloriesBlock{Value: log.Calories, Target: log.Target, Percent: calPercent},
			WaterL:   dto.Measure{Value: &water, Target: user.WaterIntakeL},
			SleepH:   dto.Measure{Value: log.SleepH, Target: user.SleepHours},
		},
		Weight: weight,
		Streak: streak,
		Achievements: nutrition.Achievements(nutrition.AchievementInputs{
			TotalMeals:     totalMeals,
			StreakDays:     streak.CurrentDays,
			WaterL:         log.WaterL,
			WaterTargetL:   user.WaterIntakeL,
			SleepH:         log.SleepH,
			HasWeightToday: len(weights) > 0 && weights[0].Date == today,
		}),
		RecentMeals:  recent,
		Macros:       macros,
		MealsGrouped: grouped,
		NextTip:      nutrition.NextTip(tipIn),
		DayScore:     score,
	}, nil
}

func (s *OverviewService) streak(ctx context.Context, userID uuid.UUID) (nutrition.Streak, error) {
	now := s.now()
	logs, err := s.store.ListDailyLogs(ctx, userID, repository.LogFilter{
		From: dayOf(now.AddDate(0, 0, -(nutrition.StreakWindow - 1))),
		To:   dayOf(now),
	})
	if err != nil {
		return nutrition.Streak{}, err
	}
	byDate := make(map[string]float64, len(logs))
	for _, l := range logs {
		byDate[l.Date] = l.Calories
	}
	return nutrition.ComputeStreak(byDate, now), nil
}

// macroBlock is nil unless there are meals today and a calorie target.
func macroBlock(user *models.UserProfile, consumed dto.MealGroup, mealsToday int) (*dto.MacroBlock, error) {
	if mealsToday == 0 || user.CalorieTarget() == nil {
		return nil, nil
	}
	targets, err := nutrition.AllocateMacros(user.CalorieTarget(), user.WeightKg)
	if errors.Is(err, nutrition.ErrNoCalorieTarget) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	progress := func(value, target float64) dto.MacroProgress {
		return dto.MacroProgress{Value: value, Target: target, Percent: percentOf(value, &target)}
	}
	return &dto.MacroBlock{
		Protein: progress(consumed.Protein, targets.ProteinG),
		Carbs:   progress(consumed.Carbs, targets.CarbsG),
		Fat:     progress(consumed.Fat, targets.FatG),
	}, nil
}

// percentOf is value/target as a 1-decimal percentage, nil without a
// positive target.
func percentOf(value float64, target *float64) *float64 {
	if target == nil || *target == 0 {
		return nil
	}
	p := nutrition.Round(value / *target * 100, 1)
	return &p
}
