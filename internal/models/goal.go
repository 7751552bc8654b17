package models

import "time"

// Goal represents a savings goal. CurrentAmount accumulates contributions;
// MonthlyContribution, when set, drives completion projections.
type Goal struct {
	Base
	UserID              uint       `gorm:"not null;index" json:"user_id"`
	Name                string     `gorm:"not null" json:"name"`
	TargetAmount        int64      `gorm:"not null" json:"target_amount"`
	CurrentAmount       int64      `gorm:"not null;default:0" json:"current_amount"`
	TargetDate          *time.Time `json:"target_date,omitempty"`
	MonthlyContribution int64      `json:"monthly_contribution"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
}
