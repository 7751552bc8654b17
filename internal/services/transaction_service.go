package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// transactionService handles transaction business logic, including the
// pending-transaction lifecycle (confirm, edit, delete).
type transactionService struct {
	db                *gorm.DB
	accountService    AccountServicer
	creditCardService CreditCardServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, accountService AccountServicer, creditCardService CreditCardServicer) TransactionServicer {
	return &transactionService{
		db:                db,
		accountService:    accountService,
		creditCardService: creditCardService,
	}
}

// validateFundingSource enforces the exactly-one-of invariant on
// account/credit-card funding and verifies ownership of whichever is set.
func (s *transactionService) validateFundingSource(userID uint, accountID, creditCardID *uint) error {
	if (accountID == nil) == (creditCardID == nil) {
		return apperrors.ErrFundingSource
	}
	if accountID != nil {
		_, err := s.accountService.GetAccountByID(userID, *accountID)
		return err
	}
	_, err := s.creditCardService.GetCreditCardByID(userID, *creditCardID)
	return err
}

// CreateTransaction creates a new transaction. Status defaults to confirmed;
// only confirmed transactions funded by an account touch its balance.
func (s *transactionService) CreateTransaction(userID uint, input CreateTransactionInput) (*models.Transaction, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if input.Installments != nil && *input.Installments < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "installments must be at least 1")
	}

	if err := s.validateFundingSource(userID, input.AccountID, input.CreditCardID); err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *input.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	if input.Status == "" {
		input.Status = models.TransactionStatusConfirmed
	}
	if input.Date.IsZero() {
		input.Date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:       userID,
		AccountID:    input.AccountID,
		CreditCardID: input.CreditCardID,
		CategoryID:   input.CategoryID,
		Type:         input.Type,
		Status:       input.Status,
		Amount:       input.Amount,
		Description:  input.Description,
		Date:         input.Date,
		Installments: input.Installments,
	}
	if input.Installments != nil {
		first := 1
		transaction.CurrentInstallment = &first
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// Pending transactions have no settled effect on any balance.
		if transaction.Status == models.TransactionStatusConfirmed && transaction.AccountID != nil {
			account, err := s.accountService.GetAccountByID(userID, *transaction.AccountID)
			if err != nil {
				return err
			}
			return s.accountService.ApplyToBalance(tx, account, transaction.Type, transaction.Amount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// CreateTransfer moves funds between two of the user's accounts. Transfers
// are settled immediately and never enter the pending state.
func (s *transactionService) CreateTransfer(userID, fromAccountID, toAccountID uint, amount int64, description string, date time.Time) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if fromAccountID == toAccountID {
		return nil, apperrors.ErrSameAccountTransfer
	}
	if date.IsZero() {
		date = time.Now()
	}

	from, err := s.accountService.GetAccountByID(userID, fromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountService.GetAccountByID(userID, toAccountID)
	if err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		AccountID:   &from.ID,
		ToAccountID: &to.ID,
		Type:        models.TransactionTypeTransfer,
		Status:      models.TransactionStatusConfirmed,
		Amount:      amount,
		Description: description,
		Date:        date,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.accountService.ApplyToBalance(tx, from, models.TransactionTypeExpense, amount); err != nil {
			return err
		}
		return s.accountService.ApplyToBalance(tx, to, models.TransactionTypeIncome, amount)
	})
	if err != nil {
		return nil, err
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPendingTransactions retrieves the user's pending transactions, oldest first.
func (s *transactionService) GetPendingTransactions(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).
		Where("user_id = ? AND status = ?", userID, models.TransactionStatusPending)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date ASC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", *f.ToDate)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AccountID != nil {
		q = q.Where("account_id = ?", *f.AccountID)
	}
	if f.CreditCardID != nil {
		q = q.Where("credit_card_id = ?", *f.CreditCardID)
	}
	if f.MinAmount != nil {
		q = q.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		q = q.Where("amount <= ?", *f.MaxAmount)
	}
	return q
}

// GetTransactionByID retrieves a transaction by ID for a specific user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// ConfirmTransaction settles a pending transaction: binds it to the given
// account, applies the signed amount to that account's balance, and marks it
// confirmed. The binding, balance update, and status change are atomic.
func (s *transactionService) ConfirmTransaction(userID, transactionID, accountID uint) (*models.Transaction, error) {
	if accountID == 0 {
		return nil, apperrors.ErrConfirmAccountRequired
	}

	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.Status != models.TransactionStatusPending {
		return nil, apperrors.ErrTransactionConfirmed
	}
	if transaction.Type != models.TransactionTypeIncome && transaction.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}

	account, err := s.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"account_id": account.ID,
			"status":     models.TransactionStatusConfirmed,
		}
		if err := tx.Model(transaction).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.accountService.ApplyToBalance(tx, account, transaction.Type, transaction.Amount)
	})
	if err != nil {
		return nil, err
	}

	transaction.AccountID = &account.ID
	transaction.Status = models.TransactionStatusConfirmed
	return transaction, nil
}

// UpdateTransaction applies a partial update to a pending transaction.
// Confirmed transactions are immutable through this path.
func (s *transactionService) UpdateTransaction(userID, transactionID uint, fields TransactionUpdateFields) (*models.Transaction, error) {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.Status != models.TransactionStatusPending {
		return nil, apperrors.ErrTransactionNotPending
	}

	updates := make(map[string]interface{})

	if fields.AccountID != nil && fields.CreditCardID != nil {
		return nil, apperrors.ErrFundingSource
	}
	if fields.AccountID != nil {
		if _, err := s.accountService.GetAccountByID(userID, *fields.AccountID); err != nil {
			return nil, err
		}
		updates["account_id"] = *fields.AccountID
		updates["credit_card_id"] = nil
	}
	if fields.CreditCardID != nil {
		if _, err := s.creditCardService.GetCreditCardByID(userID, *fields.CreditCardID); err != nil {
			return nil, err
		}
		updates["credit_card_id"] = *fields.CreditCardID
		updates["account_id"] = nil
	}
	if fields.CategoryID != nil {
		var category models.Category
		if err := s.db.Where("id = ? AND user_id = ?", *fields.CategoryID, userID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		updates["category_id"] = *fields.CategoryID
	}
	if fields.Type != nil {
		if *fields.Type != models.TransactionTypeIncome && *fields.Type != models.TransactionTypeExpense {
			return nil, apperrors.ErrInvalidTransactionType
		}
		updates["type"] = *fields.Type
	}
	if fields.Amount != nil {
		if *fields.Amount <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		updates["amount"] = *fields.Amount
	}
	if fields.Description != nil {
		updates["description"] = *fields.Description
	}
	if fields.Date != nil {
		updates["date"] = *fields.Date
	}

	if len(updates) > 0 {
		if err := s.db.Model(transaction).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", transaction.ID).First(transaction).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return transaction, nil
}

// DeleteTransaction removes a transaction. Deleting a pending transaction has
// no balance effect; deleting a confirmed one reverses its settled effect.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if transaction.Status != models.TransactionStatusConfirmed {
			return nil
		}

		switch transaction.Type {
		case models.TransactionTypeIncome, models.TransactionTypeExpense:
			if transaction.AccountID == nil {
				return nil // card-funded spend never touched an account balance
			}
			account, err := s.accountService.GetAccountByID(userID, *transaction.AccountID)
			if err != nil {
				return err
			}
			reverse := models.TransactionTypeExpense
			if transaction.Type == models.TransactionTypeExpense {
				reverse = models.TransactionTypeIncome
			}
			return s.accountService.ApplyToBalance(tx, account, reverse, transaction.Amount)

		case models.TransactionTypeTransfer:
			from, err := s.accountService.GetAccountByID(userID, *transaction.AccountID)
			if err != nil {
				return err
			}
			to, err := s.accountService.GetAccountByID(userID, *transaction.ToAccountID)
			if err != nil {
				return err
			}
			if err := s.accountService.ApplyToBalance(tx, from, models.TransactionTypeIncome, transaction.Amount); err != nil {
				return err
			}
			return s.accountService.ApplyToBalance(tx, to, models.TransactionTypeExpense, transaction.Amount)

		default:
			return apperrors.ErrInvalidTransactionType
		}
	})
}
