package services

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/dto"
	"github.com/nutriai/backend/internal/models"
	"github.com/nutriai/backend/internal/nutrition"
	"github.com/nutriai/backend/internal/repository"
)

const (
	MaxHistoryDays     = 90
	DefaultWeeklyWeeks = 4
	MaxWeeklyWeeks     = 12
)

var summaryMessages = map[string]string{
	dto.SummaryWithinTarget: "Great! You are within your target",
	dto.SummaryOverTarget:   "Heads up: calorie target exceeded",
	dto.SummaryNoTarget:     "Calorie target is not set",
}

// StatsService serves the read-only aggregates: summary, history, weekly
// stats, the weight forecast and macro goals.
type StatsService struct {
	store repository.Store
	now   Clock
}

func NewStatsService(store repository.Store, now Clock) *StatsService {
	return &StatsService{store: store, now: now}
}

// Summary totals the meals of one day (today when date is empty).
func (s *StatsService) Summary(ctx context.Context, userID uuid.UUID, date string) (*dto.SummaryResponse, error) {
	now := s.now()
	date, err := resolveDate(date, now)
	if err != nil {
		return nil, err
	}
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}

	from, to, _ := dayBounds(date)
	meals, err := s.store.ListMeals(ctx, userID, repository.MealFilter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []models.MealEntry{}
	}

	target := user.DailyCalorieTarget
	if date != dayOf(now) {
		log, err := s.store.GetDailyLog(ctx, userID, date)
		switch {
		case err == nil:
			target = log.Target
		case errors.Is(err, repository.ErrNotFound):
			target = nil
		default:
			return nil, err
		}
	}

	resp := &dto.SummaryResponse{Date: date, CaloriesTarget: target, MealsCount: len(meals), Meals: meals}
	for _, m := range meals {
		resp.CaloriesConsumed += m.Calories
		resp.ProteinTotal += m.ProteinG
		resp.CarbsTotal += m.CarbsG
		resp.FatTotal += m.FatG
	}

	switch {
	case target == nil:
		resp.Status = dto.SummaryNoTarget
	case resp.CaloriesConsumed <= *target:
		resp.Status = dto.SummaryWithinTarget
	default:
		resp.Status = dto.SummaryOverTarget
	}
	if target != nil {
		resp.CaloriesRemaining = deficitOf(target, resp.CaloriesConsumed)
		if *target > 0 {
			resp.ProgressPercent = nutrition.Round(resp.CaloriesConsumed / *target * 100, 1)
		}
	}
	resp.Message = summaryMessages[resp.Status]
	return resp, nil
}

// History returns the most recent days logs, oldest first.
func (s *StatsService) History(ctx context.Context, userID uuid.UUID, days int) (*dto.HistoryResponse, error) {
	days = clamp(days, 1, MaxHistoryDays)
	logs, err := s.store.ListDailyLogs(ctx, userID, repository.LogFilter{Limit: days})
	if err != nil {
		return nil, err
	}
	slices.Reverse(logs)

	out := make([]dto.HistoryDay, 0, len(logs))
	for _, l := range logs {
		day := dto.HistoryDay{Date: l.Date, Calories: l.Calories, Target: l.Target, Deficit: l.Deficit}
		if l.Target != nil && *l.Target != 0 {
			day.Percent = nutrition.Round(l.Calories / *l.Target * 100, 1)
		}
		out = append(out, day)
	}
	return &dto.HistoryResponse{Days: out}, nil
}

// WeeklyStats groups the last weeks ISO weeks of logs, newest week first.
// Weeks without any log are omitted.
func (s *StatsService) WeeklyStats(ctx context.Context, userID uuid.UUID, weeks int) (*dto.WeeklyStatsResponse, error) {
	if weeks == 0 {
		weeks = DefaultWeeklyWeeks
	}
	weeks = clamp(weeks, 1, MaxWeeklyWeeks)

	thisWeek := weekStart(s.now())
	from := thisWeek.AddDate(0, 0, -7*(weeks-1))
	logs, err := s.store.ListDailyLogs(ctx, userID, repository.LogFilter{From: dayOf(from), To: dayOf(s.now())})
	if err != nil {
		return nil, err
	}

	type acc struct {
		stats       dto.WeekStats
		deficitSum  float64
		deficitDays int
	}
	byWeek := make(map[string]*acc)
	var order []string
	for _, l := range logs {
		d, err := time.Parse(models.DateLayout, l.Date)
		if err != nil {
			continue
		}
		start := weekStart(d)
		key := dayOf(start)
		a, ok := byWeek[key]
		if !ok {
			a = &acc{stats: dto.WeekStats{WeekStart: key, WeekEnd: dayOf(start.AddDate(0, 0, 6))}}
			byWeek[key] = a
			order = append(order, key)
		}
		if l.Calories > 0 {
			a.stats.DaysTracked++
			a.stats.TotalCalories += l.Calories
		}
		if l.Deficit != nil {
			a.deficitSum += *l.Deficit
			a.deficitDays++
		}
	}

	// logs come newest first, so order already is too
	data := make([]dto.WeekStats, 0, len(order))
	for _, key := range order {
		a := byWeek[key]
		ws := a.stats
		ws.TotalCalories = nutrition.Round(ws.TotalCalories, 1)
		if ws.DaysTracked > 0 {
			ws.AvgDailyCalories = nutrition.Round(a.stats.TotalCalories/float64(ws.DaysTracked), 1)
		}
		if a.deficitDays > 0 {
			avg := nutrition.Round(a.deficitSum/float64(a.deficitDays), 1)
			ws.AvgDeficit = &avg
		}
		data = append(data, ws)
	}
	return &dto.WeeklyStatsResponse{Weeks: weeks, Data: data}, nil
}

// Forecast projects weight from the recent average deficit.
func (s *StatsService) Forecast(ctx context.Context, userID uuid.UUID, days int) (*nutrition.Forecast, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if user.WeightKg == nil {
		return nil, insufficient("current weight unknown")
	}

	logs, err := s.store.ListDailyLogs(ctx, userID, repository.LogFilter{WithDeficit: true, Limit: nutrition.ForecastWindow})
	if err != nil {
		return nil, err
	}
	deficits := make([]float64, 0, len(logs))
	for _, l := range logs {
		deficits = append(deficits, *l.Deficit)
	}

	f, err := nutrition.ProjectWeight(*user.WeightKg, user.TargetWeightKg, deficits, s.now(), days)
	if errors.Is(err, nutrition.ErrNoDeficitHistory) {
		return nil, insufficient("not enough history")
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *StatsService) Macros(ctx context.Context, userID uuid.UUID) (*nutrition.MacroTargets, error) {
	user, err := loadUser(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	m, err := nutrition.AllocateMacros(user.CalorieTarget(), user.WeightKg)
	if errors.Is(err, nutrition.ErrNoCalorieTarget) {
		return nil, insufficient("calorie target unknown")
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// weekStart returns the Monday 00:00 UTC of t's ISO week.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
