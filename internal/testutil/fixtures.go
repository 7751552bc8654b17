package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"moneta/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestAccount creates an account with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID uint) *models.Account {
	t.Helper()
	return CreateTestAccountWithBalance(t, db, userID, 0)
}

// CreateTestAccountWithBalance creates an account with the given balance (in cents).
func CreateTestAccountWithBalance(t *testing.T, db *gorm.DB, userID uint, balance int64) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:   userID,
		Name:     fmt.Sprintf("Test Account %d", nextID()),
		Balance:  balance,
		Currency: "USD",
		IsActive: true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestCreditCard creates a credit card.
func CreateTestCreditCard(t *testing.T, db *gorm.DB, userID uint) *models.CreditCard {
	t.Helper()

	card := &models.CreditCard{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Card %d", nextID()),
		ClosingDay:  5,
		DueDay:      15,
		CreditLimit: 500000,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("failed to create test credit card: %v", err)
	}
	return card
}

// CreateTestCategory creates an expense category with no classification.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID uint) *models.Category {
	t.Helper()
	return CreateTestCategoryWithClassification(t, db, userID, models.CategoryTypeExpense, models.ClassificationNone)
}

// CreateTestCategoryWithClassification creates a category with the given type
// and budgeting bucket.
func CreateTestCategoryWithClassification(t *testing.T, db *gorm.DB, userID uint, categoryType models.CategoryType, classification models.Classification) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:         userID,
		Name:           fmt.Sprintf("Test Category %d", nextID()),
		Type:           categoryType,
		Classification: classification,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a confirmed expense funded by the account.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, accountID uint, amount int64) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   &accountID,
		Type:        models.TransactionTypeExpense,
		Status:      models.TransactionStatusConfirmed,
		Amount:      amount,
		Description: fmt.Sprintf("Test Transaction %d", nextID()),
		Date:        time.Now().UTC(),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestPendingTransaction creates a pending expense with no funding
// source, the state scheduler-generated occurrences start in.
func CreateTestPendingTransaction(t *testing.T, db *gorm.DB, userID uint, amount int64) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionTypeExpense,
		Status:      models.TransactionStatusPending,
		Amount:      amount,
		Description: fmt.Sprintf("Test Pending %d", nextID()),
		Date:        time.Now().UTC(),
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test pending transaction: %v", err)
	}
	return transaction
}

// CreateTestRecurrence creates an active monthly expense recurrence funded by
// the account, due at startDate.
func CreateTestRecurrence(t *testing.T, db *gorm.DB, userID, accountID, categoryID uint, startDate time.Time) *models.Recurrence {
	t.Helper()

	recurrence := &models.Recurrence{
		UserID:            userID,
		AccountID:         &accountID,
		CategoryID:        categoryID,
		Type:              models.TransactionTypeExpense,
		Amount:            10000,
		Description:       fmt.Sprintf("Test Recurrence %d", nextID()),
		Frequency:         models.FrequencyMonthly,
		StartDate:         startDate,
		IsActive:          true,
		NextExecutionDate: startDate,
	}
	if err := db.Create(recurrence).Error; err != nil {
		t.Fatalf("failed to create test recurrence: %v", err)
	}
	return recurrence
}

// CreateTestGoal creates an active goal.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, targetAmount int64) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount: targetAmount,
		IsActive:     true,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestInvestment creates a stock holding.
func CreateTestInvestment(t *testing.T, db *gorm.DB, userID uint, quantity float64, costBasis, currentPrice int64) *models.Investment {
	t.Helper()

	investment := &models.Investment{
		UserID:       userID,
		Symbol:       fmt.Sprintf("TST%d", nextID()),
		Name:         "Test Holding",
		AssetType:    models.AssetTypeStock,
		Quantity:     quantity,
		CostBasis:    costBasis,
		CurrentPrice: currentPrice,
		LastUpdated:  time.Now().UTC(),
		Currency:     "USD",
	}
	if err := db.Create(investment).Error; err != nil {
		t.Fatalf("failed to create test investment: %v", err)
	}
	return investment
}
