package services

import (
	"time"

	"gorm.io/gorm"

	"moneta/internal/models"
	"moneta/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, firstName, lastName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID uint, name, bankName, currency string, initialBalance int64) (*models.Account, error)
	GetUserAccounts(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID uint) (*models.Account, error)
	UpdateAccount(userID, accountID uint, name, bankName *string) (*models.Account, error)
	DeactivateAccount(userID, accountID uint) error
	// ApplyToBalance applies the signed effect of a confirmed income/expense to
	// the account balance inside the caller's transaction.
	ApplyToBalance(tx *gorm.DB, account *models.Account, transactionType models.TransactionType, amount int64) error
}

// CreditCardUpdateFields holds optional fields for a credit card update.
type CreditCardUpdateFields struct {
	Name        *string
	BankName    *string
	ClosingDay  *int
	DueDay      *int
	CreditLimit *int64
}

// CreditCardServicer defines the contract for credit-card business logic.
type CreditCardServicer interface {
	CreateCreditCard(userID uint, name, bankName string, closingDay, dueDay int, creditLimit int64) (*models.CreditCard, error)
	GetUserCreditCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CreditCard], error)
	GetCreditCardByID(userID, cardID uint) (*models.CreditCard, error)
	UpdateCreditCard(userID, cardID uint, fields CreditCardUpdateFields) (*models.CreditCard, error)
	DeleteCreditCard(userID, cardID uint) error
}

// CategoryServicer defines the contract for category reads. Categories are
// seeded reference data and have no user-facing mutation operations.
type CategoryServicer interface {
	GetUserCategories(userID uint, categoryType *models.CategoryType, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID uint) (*models.Category, error)
}

// CreateTransactionInput holds the fields for creating a transaction.
type CreateTransactionInput struct {
	AccountID    *uint
	CreditCardID *uint
	CategoryID   *uint
	Type         models.TransactionType
	Status       models.TransactionStatus
	Amount       int64
	Description  string
	Date         time.Time
	Installments *int
}

// TransactionUpdateFields holds optional fields for a partial transaction
// update. Only pending transactions accept updates.
type TransactionUpdateFields struct {
	AccountID    *uint
	CreditCardID *uint
	CategoryID   *uint
	Type         *models.TransactionType
	Amount       *int64
	Description  *string
	Date         *time.Time
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate     *time.Time
	ToDate       *time.Time
	Type         *models.TransactionType
	Status       *models.TransactionStatus
	CategoryID   *uint
	AccountID    *uint
	CreditCardID *uint
	MinAmount    *int64
	MaxAmount    *int64
}

// TransactionServicer defines the contract for transaction business logic,
// including the pending-transaction lifecycle.
type TransactionServicer interface {
	CreateTransaction(userID uint, input CreateTransactionInput) (*models.Transaction, error)
	CreateTransfer(userID, fromAccountID, toAccountID uint, amount int64, description string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetPendingTransactions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	ConfirmTransaction(userID, transactionID, accountID uint) (*models.Transaction, error)
	UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
}

// RecurrenceInput holds the fields for creating a recurrence.
type RecurrenceInput struct {
	AccountID    *uint
	CreditCardID *uint
	CategoryID   uint
	Type         models.TransactionType
	Amount       int64
	Description  string
	Frequency    models.Frequency
	StartDate    time.Time
	EndDate      *time.Time
	Installments *int
}

// RecurrenceUpdateFields holds optional fields for a partial recurrence update.
type RecurrenceUpdateFields struct {
	AccountID    *uint
	CreditCardID *uint
	CategoryID   *uint
	Type         *models.TransactionType
	Amount       *int64
	Description  *string
	Frequency    *models.Frequency
	StartDate    *time.Time
	EndDate      *time.Time
	IsActive     *bool
	Installments *int
}

// RecurrenceServicer defines the contract for recurrence-definition business logic.
type RecurrenceServicer interface {
	CreateRecurrence(userID uint, input RecurrenceInput) (*models.Recurrence, error)
	GetUserRecurrences(userID uint, isActive *bool, page pagination.PageRequest) (*pagination.PageResponse[models.Recurrence], error)
	GetRecurrenceByID(userID, recurrenceID uint) (*models.Recurrence, error)
	UpdateRecurrence(userID, recurrenceID uint, fields RecurrenceUpdateFields) (*models.Recurrence, error)
	DeleteRecurrence(userID, recurrenceID uint) error
}

// GoalUpdateFields holds optional fields for a partial goal update.
type GoalUpdateFields struct {
	Name                *string
	TargetAmount        *int64
	TargetDate          *time.Time
	MonthlyContribution *int64
	IsActive            *bool
}

// GoalProgress contains progress and projection data for a goal.
type GoalProgress struct {
	GoalID              uint       `json:"goal_id"`
	Target              int64      `json:"target"`
	Current             int64      `json:"current"`
	Remaining           int64      `json:"remaining"`
	Percentage          float64    `json:"percentage"`
	ProjectedCompletion *time.Time `json:"projected_completion,omitempty"`
}

// GoalServicer defines the contract for savings-goal business logic.
type GoalServicer interface {
	CreateGoal(userID uint, name string, targetAmount int64, targetDate *time.Time, monthlyContribution int64) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	UpdateGoal(userID, goalID uint, fields GoalUpdateFields) (*models.Goal, error)
	DeleteGoal(userID, goalID uint) error
	AddContribution(userID, goalID uint, amount int64) (*models.Goal, error)
	GetGoalProgress(userID, goalID uint) (*GoalProgress, error)
}

// BucketSummary contains spend vs target data for one 50/30/20 bucket.
type BucketSummary struct {
	Spent     int64 `json:"spent"`
	Target    int64 `json:"target"`
	Remaining int64 `json:"remaining"`
}

// BudgetSummary contains the 50/30/20 dashboard for one calendar month.
// Only confirmed transactions contribute.
type BudgetSummary struct {
	Month        string        `json:"month"`
	Income       int64         `json:"income"`
	Necessities  BucketSummary `json:"necessities"`
	Wants        BucketSummary `json:"wants"`
	Savings      BucketSummary `json:"savings"`
	Unclassified int64         `json:"unclassified"`
}

// SummaryServicer defines the contract for dashboard aggregation.
type SummaryServicer interface {
	GetBudgetSummary(userID uint, month time.Time) (*BudgetSummary, error)
}

// InvestmentInput holds the fields for adding an investment holding.
type InvestmentInput struct {
	AccountID    *uint
	Symbol       string
	Name         string
	AssetType    models.AssetType
	Quantity     float64
	CostBasis    int64
	CurrentPrice int64
	Currency     string
}

// TypeSummary contains summary data for a single asset type.
type TypeSummary struct {
	Value int64 `json:"value"`
	Count int   `json:"count"`
}

// PortfolioSummary contains aggregated holdings data across all investments.
type PortfolioSummary struct {
	TotalValue     int64                            `json:"total_value"`
	TotalCostBasis int64                            `json:"total_cost_basis"`
	TotalGainLoss  int64                            `json:"total_gain_loss"`
	GainLossPct    float64                          `json:"gain_loss_pct"`
	HoldingsByType map[models.AssetType]TypeSummary `json:"holdings_by_type"`
}

// InvestmentServicer defines the contract for investment business logic.
type InvestmentServicer interface {
	AddInvestment(userID uint, input InvestmentInput) (*models.Investment, error)
	GetUserInvestments(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error)
	GetInvestmentByID(userID, investmentID uint) (*models.Investment, error)
	UpdatePrice(userID, investmentID uint, currentPrice int64) (*models.Investment, error)
	DeleteInvestment(userID, investmentID uint) error
	GetPortfolio(userID uint) (*PortfolioSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
