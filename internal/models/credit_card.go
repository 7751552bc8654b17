package models

// CreditCard is an alternative funding source to Account. It carries no
// running balance; card spend is derived from its confirmed transactions.
type CreditCard struct {
	Base
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	BankName    string `json:"bank_name"`
	ClosingDay  int    `json:"closing_day"`  // day of month the statement closes
	DueDay      int    `json:"due_day"`      // day of month payment is due
	CreditLimit int64  `json:"credit_limit"` // cents, 0 = unknown

	Transactions []Transaction `gorm:"foreignKey:CreditCardID" json:"transactions,omitempty"`
}
