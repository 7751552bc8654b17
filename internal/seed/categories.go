// Package seed creates per-user default reference data.
package seed

import (
	"gorm.io/gorm"

	"moneta/internal/models"
)

// defaultCategories is the reference set seeded for every new user, each
// classified into its 50/30/20 bucket.
var defaultCategories = []models.Category{
	{Name: "Salary", Type: models.CategoryTypeIncome},
	{Name: "Freelance", Type: models.CategoryTypeIncome},
	{Name: "Other Income", Type: models.CategoryTypeIncome},

	{Name: "Housing", Type: models.CategoryTypeExpense, Classification: models.ClassificationNecessities},
	{Name: "Groceries", Type: models.CategoryTypeExpense, Classification: models.ClassificationNecessities},
	{Name: "Utilities", Type: models.CategoryTypeExpense, Classification: models.ClassificationNecessities},
	{Name: "Transportation", Type: models.CategoryTypeExpense, Classification: models.ClassificationNecessities},
	{Name: "Health", Type: models.CategoryTypeExpense, Classification: models.ClassificationNecessities},

	{Name: "Dining Out", Type: models.CategoryTypeExpense, Classification: models.ClassificationWants},
	{Name: "Entertainment", Type: models.CategoryTypeExpense, Classification: models.ClassificationWants},
	{Name: "Shopping", Type: models.CategoryTypeExpense, Classification: models.ClassificationWants},
	{Name: "Travel", Type: models.CategoryTypeExpense, Classification: models.ClassificationWants},

	{Name: "Emergency Fund", Type: models.CategoryTypeExpense, Classification: models.ClassificationSavings},
	{Name: "Investments", Type: models.CategoryTypeExpense, Classification: models.ClassificationSavings},
	{Name: "Debt Payments", Type: models.CategoryTypeExpense, Classification: models.ClassificationSavings},
}

// DefaultCategories inserts the default category set for a user. It runs
// inside the caller's transaction so registration stays all-or-nothing.
func DefaultCategories(tx *gorm.DB, userID uint) error {
	categories := make([]models.Category, len(defaultCategories))
	for i, c := range defaultCategories {
		c.UserID = userID
		c.IsDefault = true
		categories[i] = c
	}
	return tx.Create(&categories).Error
}
