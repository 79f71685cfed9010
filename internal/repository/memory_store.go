package repository

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nutriai/backend/internal/models"
)

type dayKey struct {
	userID uuid.UUID
	date   string
}

type memoryState struct {
	profiles map[uuid.UUID]models.UserProfile
	meals    map[uuid.UUID]models.MealEntry
	logs     map[dayKey]models.DailyLog
	weights  map[dayKey]models.WeightEntry
	tokens   map[string]models.RefreshToken
}

func newMemoryState() *memoryState {
	return &memoryState{
		profiles: map[uuid.UUID]models.UserProfile{},
		meals:    map[uuid.UUID]models.MealEntry{},
		logs:     map[dayKey]models.DailyLog{},
		weights:  map[dayKey]models.WeightEntry{},
		tokens:   map[string]models.RefreshToken{},
	}
}

func (st *memoryState) clone() *memoryState {
	return &memoryState{
		profiles: maps.Clone(st.profiles),
		meals:    maps.Clone(st.meals),
		logs:     maps.Clone(st.logs),
		weights:  maps.Clone(st.weights),
		tokens:   maps.Clone(st.tokens),
	}
}

// MemoryStore keeps everything in process. Transactions are serialized by a
// single mutex and rolled back by restoring a snapshot.
type MemoryStore struct {
	mu    *sync.Mutex
	state *memoryState
	inTx  bool
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, state: newMemoryState(), now: time.Now}
}

// WithClock replaces the clock used for CreatedAt/UpdatedAt stamps.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) run(fn func(st *memoryState) error) error {
	if !s.inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn(s.state)
}

func (s *MemoryStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	tx := &MemoryStore{mu: s.mu, state: s.state, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		*s.state = *snapshot
		return err
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) stamp(created, updated *time.Time) {
	now := s.now().UTC()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func (s *MemoryStore) CreateProfile(_ context.Context, p *models.UserProfile) error {
	return s.run(func(st *memoryState) error {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		s.stamp(&p.CreatedAt, &p.UpdatedAt)
		st.profiles[p.ID] = *p
		return nil
	})
}

func (s *MemoryStore) GetProfile(_ context.Context, id uuid.UUID) (*models.UserProfile, error) {
	var out *models.UserProfile
	err := s.run(func(st *memoryState) error {
		p, ok := st.profiles[id]
		if !ok {
			return ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (s *MemoryStore) GetProfileByTelegramID(_ context.Context, telegramID string) (*models.UserProfile, error) {
	var out *models.UserProfile
	err := s.run(func(st *memoryState) error {
		for _, p := range st.profiles {
			if p.TelegramID == telegramID {
				out = &p
				return nil
			}
		}
		return ErrNotFound
	})
	return out, err
}

// LockProfile is GetProfile: the transaction mutex already excludes writers.
func (s *MemoryStore) LockProfile(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	return s.GetProfile(ctx, id)
}

func (s *MemoryStore) SaveProfile(_ context.Context, p *models.UserProfile) error {
	return s.run(func(st *memoryState) error {
		s.stamp(&p.CreatedAt, &p.UpdatedAt)
		st.profiles[p.ID] = *p
		return nil
	})
}

func (s *MemoryStore) DeleteProfile(_ context.Context, id uuid.UUID) error {
	return s.run(func(st *memoryState) error {
		if _, ok := st.profiles[id]; !ok {
			return ErrNotFound
		}
		delete(st.profiles, id)
		maps.DeleteFunc(st.meals, func(_ uuid.UUID, m models.MealEntry) bool { return m.UserID == id })
		maps.DeleteFunc(st.logs, func(k dayKey, _ models.DailyLog) bool { return k.userID == id })
		maps.DeleteFunc(st.weights, func(k dayKey, _ models.WeightEntry) bool { return k.userID == id })
		maps.DeleteFunc(st.tokens, func(_ string, t models.RefreshToken) bool { return t.UserID == id })
		return nil
	})
}

func (s *MemoryStore) CreateMeal(_ context.Context, m *models.MealEntry) error {
	return s.run(func(st *memoryState) error {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		s.stamp(&m.CreatedAt, &m.UpdatedAt)
		st.meals[m.ID] = *m
		return nil
	})
}

func (s *MemoryStore) GetMeal(_ context.Context, userID, id uuid.UUID) (*models.MealEntry, error) {
	var out *models.MealEntry
	err := s.run(func(st *memoryState) error {
		m, ok := st.meals[id]
		if !ok || m.UserID != userID {
			return ErrNotFound
		}
		out = &m
		return nil
	})
	return out, err
}

func (s *MemoryStore) SaveMeal(_ context.Context, m *models.MealEntry) error {
	return s.run(func(st *memoryState) error {
		s.stamp(&m.CreatedAt, &m.UpdatedAt)
		st.meals[m.ID] = *m
		return nil
	})
}

func (s *MemoryStore) DeleteMeal(_ context.Context, userID, id uuid.UUID) error {
	return s.run(func(st *memoryState) error {
		m, ok := st.meals[id]
		if !ok || m.UserID != userID {
			return ErrNotFound
		}
		delete(st.meals, id)
		return nil
	})
}

func (s *MemoryStore) ListMeals(_ context.Context, userID uuid.UUID, f MealFilter) ([]models.MealEntry, error) {
	var out []models.MealEntry
	err := s.run(func(st *memoryState) error {
		for _, m := range st.meals {
			if m.UserID != userID {
				continue
			}
			if !f.From.IsZero() && m.CreatedAt.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && !m.CreatedAt.Before(f.To) {
				continue
			}
			out = append(out, m)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, err
}

func (s *MemoryStore) CountMeals(_ context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.run(func(st *memoryState) error {
		for _, m := range st.meals {
			if m.UserID == userID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (s *MemoryStore) GetDailyLog(_ context.Context, userID uuid.UUID, date string) (*models.DailyLog, error) {
	var out *models.DailyLog
	err := s.run(func(st *memoryState) error {
		l, ok := st.logs[dayKey{userID, date}]
		if !ok {
			return ErrNotFound
		}
		out = &l
		return nil
	})
	return out, err
}

// upsertLog applies mutate to the existing row for the day, or to a fresh
// row seeded from seed.
func (s *MemoryStore) upsertLog(st *memoryState, seed models.DailyLog, mutate func(existing *models.DailyLog)) models.DailyLog {
	key := dayKey{seed.UserID, seed.Date}
	l, ok := st.logs[key]
	if ok {
		mutate(&l)
	} else {
		l = seed
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		s.stamp(&l.CreatedAt, nil)
	}
	s.stamp(nil, &l.UpdatedAt)
	st.logs[key] = l
	return l
}

func (s *MemoryStore) UpsertDailyTotals(_ context.Context, log *models.DailyLog) error {
	return s.run(func(st *memoryState) error {
		s.upsertLog(st, *log, func(l *models.DailyLog) {
			l.Calories = log.Calories
			l.Target = log.Target
			l.Deficit = log.Deficit
		})
		return nil
	})
}

func (s *MemoryStore) AddWater(_ context.Context, userID uuid.UUID, date string, liters float64, target *float64) (*models.DailyLog, error) {
	var out models.DailyLog
	err := s.run(func(st *memoryState) error {
		seed := models.DailyLog{UserID: userID, Date: date, Target: target, WaterL: liters}
		out = s.upsertLog(st, seed, func(l *models.DailyLog) { l.WaterL += liters })
		return nil
	})
	return &out, err
}

func (s *MemoryStore) SetSleep(_ context.Context, userID uuid.UUID, date string, hours float64, target *float64) (*models.DailyLog, error) {
	var out models.DailyLog
	err := s.run(func(st *memoryState) error {
		seed := models.DailyLog{UserID: userID, Date: date, Target: target, SleepH: &hours}
		out = s.upsertLog(st, seed, func(l *models.DailyLog) { l.SleepH = &hours })
		return nil
	})
	return &out, err
}

func (s *MemoryStore) ListDailyLogs(_ context.Context, userID uuid.UUID, f LogFilter) ([]models.DailyLog, error) {
	var out []models.DailyLog
	err := s.run(func(st *memoryState) error {
		for k, l := range st.logs {
			if k.userID != userID {
				continue
			}
			if f.From != "" && l.Date < f.From {
				continue
			}
			if f.To != "" && l.Date > f.To {
				continue
			}
			if f.WithDeficit && l.Deficit == nil {
				continue
			}
			out = append(out, l)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, err
}

func (s *MemoryStore) UpsertWeight(_ context.Context, w *models.WeightEntry) error {
	return s.run(func(st *memoryState) error {
		key := dayKey{w.UserID, w.Date}
		if existing, ok := st.weights[key]; ok {
			w.ID = existing.ID
			w.CreatedAt = existing.CreatedAt
		} else if w.ID == uuid.Nil {
			w.ID = uuid.New()
		}
		s.stamp(&w.CreatedAt, &w.UpdatedAt)
		st.weights[key] = *w
		return nil
	})
}

func (s *MemoryStore) ListWeights(_ context.Context, userID uuid.UUID, f WeightFilter) ([]models.WeightEntry, error) {
	var out []models.WeightEntry
	err := s.run(func(st *memoryState) error {
		for k, w := range st.weights {
			if k.userID != userID || (f.From != "" && w.Date < f.From) {
				continue
			}
			out = append(out, w)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, err
}

func (s *MemoryStore) CreateRefreshToken(_ context.Context, t *models.RefreshToken) error {
	return s.run(func(st *memoryState) error {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		s.stamp(&t.CreatedAt, nil)
		st.tokens[t.TokenHash] = *t
		return nil
	})
}

func (s *MemoryStore) GetActiveRefreshToken(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	var out *models.RefreshToken
	err := s.run(func(st *memoryState) error {
		t, ok := st.tokens[tokenHash]
		if !ok || t.Revoked {
			return ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (s *MemoryStore) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	return s.run(func(st *memoryState) error {
		t, ok := st.tokens[tokenHash]
		if !ok || t.Revoked {
			return ErrNotFound
		}
		t.Revoked = true
		st.tokens[tokenHash] = t
		return nil
	})
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
