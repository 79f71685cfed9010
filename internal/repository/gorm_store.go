package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) CreateProfile(ctx context.Context, p *models.UserProfile) error {
	return s.conn(ctx).Create(p).Error
}

func (s *GormStore) GetProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.conn(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *GormStore) GetProfileByTelegramID(ctx context.Context, telegramID string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := s.conn(ctx).Where("telegram_id = ?", telegramID).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *GormStore) LockProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var p models.UserProfile
	err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *GormStore) SaveProfile(ctx context.Context, p *models.UserProfile) error {
	return s.conn(ctx).Save(p).Error
}

func (s *GormStore) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&models.RefreshToken{}, &models.MealEntry{}, &models.DailyLog{}, &models.WeightEntry{}} {
			if err := tx.Scopes(ownedBy(id)).Delete(m).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&models.UserProfile{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *GormStore) CreateMeal(ctx context.Context, m *models.MealEntry) error {
	return s.conn(ctx).Create(m).Error
}

func (s *GormStore) GetMeal(ctx context.Context, userID, id uuid.UUID) (*models.MealEntry, error) {
	var m models.MealEntry
	if err := s.conn(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *GormStore) SaveMeal(ctx context.Context, m *models.MealEntry) error {
	return s.conn(ctx).Save(m).Error
}

func (s *GormStore) DeleteMeal(ctx context.Context, userID, id uuid.UUID) error {
	res := s.conn(ctx).Scopes(ownedBy(userID)).Where("id = ?", id).Delete(&models.MealEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListMeals(ctx context.Context, userID uuid.UUID, f MealFilter) ([]models.MealEntry, error) {
	q := s.conn(ctx).Scopes(ownedBy(userID))
	if !f.From.IsZero() {
		q = q.Where("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("created_at < ?", f.To)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var meals []models.MealEntry
	err := q.Order("created_at DESC").Find(&meals).Error
	return meals, err
}

func (s *GormStore) CountMeals(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.MealEntry{}).Scopes(ownedBy(userID)).Count(&n).Error
	return n, err
}

func (s *GormStore) GetDailyLog(ctx context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	var l models.DailyLog
	if err := s.conn(ctx).Scopes(onDay(userID, date)).First(&l).Error; err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// dailyLogConflict is the (user_id, date) key shared by daily logs and
// weight entries.
var dailyLogConflict = []clause.Column{{Name: "user_id"}, {Name: "date"}}

func (s *GormStore) UpsertDailyTotals(ctx context.Context, log *models.DailyLog) error {
	return s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   dailyLogConflict,
		DoUpdates: clause.AssignmentColumns([]string{"calories", "target", "deficit", "updated_at"}),
	}).Create(log).Error
}

func (s *GormStore) AddWater(ctx context.Context, userID uuid.UUID, date string, liters float64, target *float64) (*models.DailyLog, error) {
	row := &models.DailyLog{UserID: userID, Date: date, Target: target, WaterL: liters}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: dailyLogConflict,
		DoUpdates: clause.Assignments(map[string]any{
			"water_l":    gorm.Expr("daily_logs.water_l + EXCLUDED.water_l"),
			"updated_at": time.Now().UTC(),
		}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return s.GetDailyLog(ctx, userID, date)
}

func (s *GormStore) SetSleep(ctx context.Context, userID uuid.UUID, date string, hours float64, target *float64) (*models.DailyLog, error) {
	row := &models.DailyLog{UserID: userID, Date: date, Target: target, SleepH: &hours}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   dailyLogConflict,
		DoUpdates: clause.AssignmentColumns([]string{"sleep_h", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return nil, err
	}
	return s.GetDailyLog(ctx, userID, date)
}

func (s *GormStore) ListDailyLogs(ctx context.Context, userID uuid.UUID, f LogFilter) ([]models.DailyLog, error) {
	q := s.conn(ctx).Scopes(ownedBy(userID))
	if f.From != "" {
		q = q.Where(`"date" >= ?`, f.From)
	}
	if f.To != "" {
		q = q.Where(`"date" <= ?`, f.To)
	}
	if f.WithDeficit {
		q = q.Where("deficit IS NOT NULL")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var logs []models.DailyLog
	err := q.Order(`"date" DESC`).Find(&logs).Error
	return logs, err
}

// UpsertWeight writes the entry and reloads it, so w carries the stored id
// when an existing row was updated.
func (s *GormStore) UpsertWeight(ctx context.Context, w *models.WeightEntry) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   dailyLogConflict,
		DoUpdates: clause.AssignmentColumns([]string{"weight_kg", "source", "updated_at"}),
	}).Create(w).Error
	if err != nil {
		return err
	}
	var stored models.WeightEntry
	if err := s.conn(ctx).Scopes(onDay(w.UserID, w.Date)).First(&stored).Error; err != nil {
		return err
	}
	*w = stored
	return nil
}

func (s *GormStore) ListWeights(ctx context.Context, userID uuid.UUID, f WeightFilter) ([]models.WeightEntry, error) {
	q := s.conn(ctx).Scopes(ownedBy(userID))
	if f.From != "" {
		q = q.Where(`"date" >= ?`, f.From)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var entries []models.WeightEntry
	err := q.Order(`"date" DESC`).Find(&entries).Error
	return entries, err
}

func (s *GormStore) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return s.conn(ctx).Create(t).Error
}

func (s *GormStore) GetActiveRefreshToken(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := s.conn(ctx).Where("token_hash = ? AND revoked = false", tokenHash).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *GormStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	res := s.conn(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked = false", tokenHash).
		Update("revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
