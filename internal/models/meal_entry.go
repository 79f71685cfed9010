package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealTypes is the fixed display order of meal types.
var MealTypes = []string{MealBreakfast, MealLunch, MealDinner, MealSnack}

type MealEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_meal_entries_user_created,priority:1" json:"user_id"`
	FoodName  string    `gorm:"size:200;not null" json:"food_name"`
	Calories  float64   `gorm:"not null;default:0" json:"calories"`
	ProteinG  float64   `gorm:"not null;default:0" json:"protein_g"`
	CarbsG    float64   `gorm:"not null;default:0" json:"carbs_g"`
	FatG      float64   `gorm:"not null;default:0" json:"fat_g"`
	MealType  string    `gorm:"size:20;not null" json:"meal_type"`
	Notes     *string   `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_meal_entries_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *MealEntry) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Date is the UTC calendar day the meal was logged on.
func (m *MealEntry) Date() string {
	return m.CreatedAt.UTC().Format(DateLayout)
}
