package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DateLayout is the calendar-day key used by daily logs and weight entries.
const DateLayout = "2006-01-02"

// DailyLog is the per-day energy balance of one user. Calories, Target and
// Deficit are recomputed from meals; WaterL and SleepH are set by their own
// endpoints.
type DailyLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_logs_user_date,priority:1" json:"-"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_daily_logs_user_date,priority:2" json:"date"`
	Calories  float64   `gorm:"not null;default:0" json:"calories"`
	Target    *float64  `json:"target"`
	Deficit   *float64  `json:"deficit"`
	WaterL    float64   `gorm:"not null;default:0" json:"water_l"`
	SleepH    *float64  `json:"sleep_h"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (l *DailyLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
