package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ownedBy limits a query to rows belonging to one profile.
func ownedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// onDay matches the (user, date) key of daily logs and weight entries.
func onDay(userID uuid.UUID, date string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(ownedBy(userID)).Where(`"date" = ?`, date)
	}
}
