package models

import "time"

// TransactionType represents the type of transaction.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

// TransactionStatus is the settlement state of a transaction. Pending
// transactions have no effect on any balance until confirmed. Confirmed is
// terminal; there is no transition back to pending.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
)

// Transaction represents a financial transaction in the system. RecurrenceID
// back-references the recurrence that generated it, null for manual entries.
type Transaction struct {
	Base
	UserID       uint              `gorm:"not null;index" json:"user_id"`
	AccountID    *uint             `gorm:"index" json:"account_id,omitempty"`
	CreditCardID *uint             `gorm:"index" json:"credit_card_id,omitempty"`
	CategoryID   *uint             `json:"category_id,omitempty"`
	Type         TransactionType   `gorm:"not null" json:"type"`
	Status       TransactionStatus `gorm:"not null;default:'confirmed'" json:"status"`
	Amount       int64             `gorm:"not null" json:"amount"`
	Description  string            `json:"description"`
	Date         time.Time         `gorm:"not null" json:"date"`

	// For transfers
	ToAccountID *uint `json:"to_account_id,omitempty"`

	// For scheduler-generated occurrences. A partial unique index on
	// (recurrence_id, date) in the SQL migrations backs scheduler idempotency.
	RecurrenceID *uint `gorm:"index" json:"recurrence_id,omitempty"`

	// For multi-installment credit card purchases
	Installments       *int `json:"installments,omitempty"`
	CurrentInstallment *int `json:"current_installment,omitempty"`

	Account    *Account    `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	ToAccount  *Account    `gorm:"foreignKey:ToAccountID" json:"to_account,omitempty"`
	CreditCard *CreditCard `gorm:"foreignKey:CreditCardID" json:"credit_card,omitempty"`
	Category   *Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
