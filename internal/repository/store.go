// Package repository persists profiles, meals, daily logs, weight entries and
// refresh tokens. GormStore backs production; MemoryStore backs tests and
// local runs without Postgres.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/models"
)

var ErrNotFound = errors.New("record not found")

// MealFilter narrows ListMeals. Zero values mean unbounded.
type MealFilter struct {
	From  time.Time // inclusive
	To    time.Time // exclusive
	Limit int
}

// LogFilter narrows ListDailyLogs. Dates are YYYY-MM-DD, both inclusive.
type LogFilter struct {
	From        string
	To          string
	WithDeficit bool
	Limit       int
}

// WeightFilter narrows ListWeights. From is an inclusive YYYY-MM-DD date.
type WeightFilter struct {
	From  string
	Limit int
}

// Store is the persistence boundary. List methods return newest first.
type Store interface {
	// Transaction runs fn atomically. Nested calls join the outer transaction.
	Transaction(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error

	CreateProfile(ctx context.Context, p *models.UserProfile) error
	GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	GetProfileByTelegramID(ctx context.Context, telegramID string) (*models.UserProfile, error)
	// LockProfile loads the profile and holds a row lock until the
	// surrounding transaction ends.
	LockProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	SaveProfile(ctx context.Context, p *models.UserProfile) error
	// DeleteProfile removes the profile and every row it owns.
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	CreateMeal(ctx context.Context, m *models.MealEntry) error
	GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.MealEntry, error)
	SaveMeal(ctx context.Context, m *models.MealEntry) error
	DeleteMeal(ctx context.Context, userID, id uuid.UUID) error
	ListMeals(ctx context.Context, userID uuid.UUID, f MealFilter) ([]models.MealEntry, error)
	CountMeals(ctx context.Context, userID uuid.UUID) (int64, error)

	GetDailyLog(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error)
	// UpsertDailyTotals inserts the log or overwrites its calories, target
	// and deficit. Water and sleep are never touched.
	UpsertDailyTotals(ctx context.Context, log *models.DailyLog) error
	// AddWater increments water for the day, creating the log with the
	// given target snapshot if needed.
	AddWater(ctx context.Context, userID uuid.UUID, date string, liters float64, target *float64) (*models.DailyLog, error)
	SetSleep(ctx context.Context, userID uuid.UUID, date string, hours float64, target *float64) (*models.DailyLog, error)
	ListDailyLogs(ctx context.Context, userID uuid.UUID, f LogFilter) ([]models.DailyLog, error)

	UpsertWeight(ctx context.Context, w *models.WeightEntry) error
	ListWeights(ctx context.Context, userID uuid.UUID, f WeightFilter) ([]models.WeightEntry, error)

	CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error
	GetActiveRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	// RevokeRefreshToken returns ErrNotFound unless it flipped an active token.
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
}
