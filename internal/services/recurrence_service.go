package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// recurrenceService handles recurrence-definition business logic.
type recurrenceService struct {
	db                *gorm.DB
	accountService    AccountServicer
	creditCardService CreditCardServicer
}

// NewRecurrenceService creates a new RecurrenceServicer.
func NewRecurrenceService(db *gorm.DB, accountService AccountServicer, creditCardService CreditCardServicer) RecurrenceServicer {
	return &recurrenceService{
		db:                db,
		accountService:    accountService,
		creditCardService: creditCardService,
	}
}

func (s *recurrenceService) validateFundingSource(userID uint, accountID, creditCardID *uint) error {
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

func (s *recurrenceService) validateCategory(userID, categoryID uint) error {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateRecurrence creates a new recurrence template. The first occurrence is
// scheduled for the start date.
func (s *recurrenceService) CreateRecurrence(userID uint, input RecurrenceInput) (*models.Recurrence, error) {
	if input.Amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if input.Type != models.TransactionTypeIncome && input.Type != models.TransactionTypeExpense {
		return nil, apperrors.ErrInvalidTransactionType
	}
	if input.StartDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "start_date is required")
	}
	if input.EndDate != nil && input.EndDate.Before(input.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "end_date must not be before start_date")
	}
	if input.Installments != nil && *input.Installments < 1 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "installments must be at least 1")
	}

	if err := s.validateFundingSource(userID, input.AccountID, input.CreditCardID); err != nil {
		return nil, err
	}
	if err := s.validateCategory(userID, input.CategoryID); err != nil {
		return nil, err
	}

	recurrence := &models.Recurrence{
		UserID:            userID,
		AccountID:         input.AccountID,
		CreditCardID:      input.CreditCardID,
		CategoryID:        input.CategoryID,
		Type:              input.Type,
		Amount:            input.Amount,
		Description:       input.Description,
		Frequency:         input.Frequency,
		StartDate:         input.StartDate,
		EndDate:           input.EndDate,
		IsActive:          true,
		Installments:      input.Installments,
		NextExecutionDate: input.StartDate,
	}

	if err := s.db.Create(recurrence).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return recurrence, nil
}

// GetUserRecurrences retrieves a paginated list of the user's recurrences,
// optionally filtered by active state.
func (s *recurrenceService) GetUserRecurrences(userID uint, isActive *bool, page pagination.PageRequest) (*pagination.PageResponse[models.Recurrence], error) {
	page.Defaults()

	base := s.db.Model(&models.Recurrence{}).Where("user_id = ?", userID)
	if isActive != nil {
		base = base.Where("is_active = ?", *isActive)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recurrences []models.Recurrence
	if err := base.Preload("Category").Scopes(pagination.Paginate(page)).
		Order("next_execution_date ASC").
		Find(&recurrences).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(recurrences, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecurrenceByID retrieves a recurrence by ID for a specific user.
func (s *recurrenceService) GetRecurrenceByID(userID, recurrenceID uint) (*models.Recurrence, error) {
	var recurrence models.Recurrence
	if err := s.db.Where("id = ? AND user_id = ?", recurrenceID, userID).First(&recurrence).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRecurrenceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &recurrence, nil
}

// UpdateRecurrence applies a partial update. Scheduling state
// (next_execution_date, last_executed_date) belongs to the scheduler and is
// not user-editable; changing the start date of a recurrence that has not yet
// run reschedules its first occurrence.
func (s *recurrenceService) UpdateRecurrence(userID, recurrenceID uint, fields RecurrenceUpdateFields) (*models.Recurrence, error) {
	recurrence, err := s.GetRecurrenceByID(userID, recurrenceID)
	if err != nil {
		return nil, err
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
		if err := s.validateCategory(userID, *fields.CategoryID); err != nil {
			return nil, err
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
	if fields.Frequency != nil {
		updates["frequency"] = *fields.Frequency
	}
	if fields.StartDate != nil {
		updates["start_date"] = *fields.StartDate
		if recurrence.LastExecutedDate == nil {
			updates["next_execution_date"] = *fields.StartDate
		}
	}
	if fields.EndDate != nil {
		updates["end_date"] = *fields.EndDate
	}
	if fields.IsActive != nil {
		updates["is_active"] = *fields.IsActive
	}
	if fields.Installments != nil {
		if *fields.Installments < 1 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "installments must be at least 1")
		}
		updates["installments"] = *fields.Installments
	}

	if len(updates) > 0 {
		if err := s.db.Model(recurrence).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := s.db.Where("id = ?", recurrence.ID).First(recurrence).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return recurrence, nil
}

// DeleteRecurrence removes a recurrence and cancels its not-yet-confirmed
// pending transactions. Confirmed history from the recurrence is kept.
func (s *recurrenceService) DeleteRecurrence(userID, recurrenceID uint) error {
	recurrence, err := s.GetRecurrenceByID(userID, recurrenceID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recurrence_id = ? AND status = ?", recurrence.ID, models.TransactionStatusPending).
			Delete(&models.Transaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(recurrence).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
