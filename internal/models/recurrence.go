package models

import "time"

// Frequency is how often a recurrence generates an occurrence.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Recurrence is a user template for a repeating transaction. Exactly one of
// AccountID/CreditCardID is set (the funding source); the service layer
// validates this at write time. The scheduler owns NextExecutionDate and
// LastExecutedDate; users own everything else.
type Recurrence struct {
	Base
	UserID       uint            `gorm:"not null;index" json:"user_id"`
	AccountID    *uint           `json:"account_id,omitempty"`
	CreditCardID *uint           `json:"credit_card_id,omitempty"`
	CategoryID   uint            `gorm:"not null" json:"category_id"`
	Type         TransactionType `gorm:"not null" json:"type"`
	Amount       int64           `gorm:"not null" json:"amount"`
	Description  string          `json:"description"`
	Frequency    Frequency       `gorm:"not null" json:"frequency"`

	StartDate         time.Time  `gorm:"not null" json:"start_date"`
	EndDate           *time.Time `json:"end_date,omitempty"`
	IsActive          bool       `gorm:"default:true;index" json:"is_active"`
	Installments      *int       `json:"installments,omitempty"`
	NextExecutionDate time.Time  `gorm:"not null;index" json:"next_execution_date"`
	LastExecutedDate  *time.Time `json:"last_executed_date,omitempty"`

	Account      *Account      `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	CreditCard   *CreditCard   `gorm:"foreignKey:CreditCardID" json:"credit_card,omitempty"`
	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:RecurrenceID" json:"transactions,omitempty"`
}
