package models

// CategoryType represents the transaction-type affinity of a category.
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Classification places a category in a 50/30/20 budgeting bucket.
// Income categories and uncategorized spend carry no classification.
type Classification string

const (
	ClassificationNecessities Classification = "necessities"
	ClassificationWants       Classification = "wants"
	ClassificationSavings     Classification = "savings"
	ClassificationNone        Classification = ""
)

// Category represents a transaction category. Categories are seeded per user
// at registration and treated as immutable reference data.
type Category struct {
	Base
	UserID         uint           `gorm:"not null;index" json:"user_id"`
	Name           string         `gorm:"not null" json:"name"`
	Type           CategoryType   `gorm:"not null" json:"type"`
	Classification Classification `json:"classification"`
	IsDefault      bool           `gorm:"default:false" json:"is_default"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}
