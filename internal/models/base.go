package models

import (
	"time"

	"gorm.io/gorm"
)

// Base contains common columns for all tables. Amounts across all models are
// stored as int64 cents to avoid floating-point rounding in balances.
type Base struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}
