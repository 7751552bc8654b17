package models

// Account represents a bank account. Balance is the running total in cents,
// mutated only by confirmed transactions.
type Account struct {
	Base
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Name     string `gorm:"not null" json:"name"`
	BankName string `json:"bank_name"`
	Balance  int64  `gorm:"not null;default:0" json:"balance"`
	Currency string `gorm:"not null;default:'USD'" json:"currency"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
