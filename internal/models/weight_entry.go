package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WeightSourceManual  = "manual"
	WeightSourceProfile = "profile"
)

type WeightEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_weight_entries_user_date,priority:1" json:"-"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_weight_entries_user_date,priority:2" json:"date"`
	WeightKg  float64   `gorm:"not null" json:"weight_kg"`
	Source    string    `gorm:"size:20;not null;default:'manual'" json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (w *WeightEntry) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}
