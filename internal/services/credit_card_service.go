package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// creditCardService handles credit-card business logic.
type creditCardService struct {
	db *gorm.DB
}

// NewCreditCardService creates a new CreditCardServicer.
func NewCreditCardService(db *gorm.DB) CreditCardServicer {
	return &creditCardService{db: db}
}

// CreateCreditCard registers a new credit card funding source.
func (s *creditCardService) CreateCreditCard(userID uint, name, bankName string, closingDay, dueDay int, creditLimit int64) (*models.CreditCard, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "credit card name is required")
	}
	if closingDay < 1 || closingDay > 31 || dueDay < 1 || dueDay > 31 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "closing_day and due_day must be between 1 and 31")
	}

	card := &models.CreditCard{
		UserID:      userID,
		Name:        name,
		BankName:    bankName,
		ClosingDay:  closingDay,
		DueDay:      dueDay,
		CreditLimit: creditLimit,
	}

	if err := s.db.Create(card).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return card, nil
}

// GetUserCreditCards retrieves a paginated list of credit cards for a user.
func (s *creditCardService) GetUserCreditCards(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.CreditCard], error) {
	page.Defaults()

	base := s.db.Model(&models.CreditCard{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var cards []models.CreditCard
	if err := base.Scopes(pagination.Paginate(page)).Find(&cards).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(cards, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetCreditCardByID retrieves a credit card by ID for a specific user.
func (s *creditCardService) GetCreditCardByID(userID, cardID uint) (*models.CreditCard, error) {
	var card models.CreditCard
	if err := s.db.Where("id = ? AND user_id = ?", cardID, userID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCreditCardNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &card, nil
}

// UpdateCreditCard applies a partial update to a credit card.
func (s *creditCardService) UpdateCreditCard(userID, cardID uint, fields CreditCardUpdateFields) (*models.CreditCard, error) {
	card, err := s.GetCreditCardByID(userID, cardID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if fields.Name != nil && *fields.Name != "" {
		updates["name"] = *fields.Name
	}
	if fields.BankName != nil {
		updates["bank_name"] = *fields.BankName
	}
	if fields.ClosingDay != nil {
		updates["closing_day"] = *fields.ClosingDay
	}
	if fields.DueDay != nil {
		updates["due_day"] = *fields.DueDay
	}
	if fields.CreditLimit != nil {
		updates["credit_limit"] = *fields.CreditLimit
	}

	if len(updates) > 0 {
		if err := s.db.Model(card).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return card, nil
}

// DeleteCreditCard soft-deletes a credit card. Its transactions are kept.
func (s *creditCardService) DeleteCreditCard(userID, cardID uint) error {
	card, err := s.GetCreditCardByID(userID, cardID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(card).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
