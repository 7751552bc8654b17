package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
)

// investmentService handles investment-holding business logic.
type investmentService struct {
	db             *gorm.DB
	accountService AccountServicer
}

// NewInvestmentService creates a new InvestmentServicer.
func NewInvestmentService(db *gorm.DB, accountService AccountServicer) InvestmentServicer {
	return &investmentService{db: db, accountService: accountService}
}

// AddInvestment records a new holding.
func (s *investmentService) AddInvestment(userID uint, input InvestmentInput) (*models.Investment, error) {
	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}
	if input.Quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must be greater than zero")
	}
	if input.CostBasis < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost_basis must not be negative")
	}
	if input.AccountID != nil {
		if _, err := s.accountService.GetAccountByID(userID, *input.AccountID); err != nil {
			return nil, err
		}
	}
	if input.Currency == "" {
		input.Currency = "USD"
	}

	investment := &models.Investment{
		UserID:       userID,
		AccountID:    input.AccountID,
		Symbol:       symbol,
		Name:         input.Name,
		AssetType:    input.AssetType,
		Quantity:     input.Quantity,
		CostBasis:    input.CostBasis,
		CurrentPrice: input.CurrentPrice,
		LastUpdated:  time.Now(),
		Currency:     input.Currency,
	}

	if err := s.db.Create(investment).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment, nil
}

// GetUserInvestments retrieves a paginated list of the user's holdings.
func (s *investmentService) GetUserInvestments(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Investment], error) {
	page.Defaults()

	base := s.db.Model(&models.Investment{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var investments []models.Investment
	if err := base.Scopes(pagination.Paginate(page)).Order("symbol").Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(investments, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetInvestmentByID retrieves a holding by ID for a specific user.
func (s *investmentService) GetInvestmentByID(userID, investmentID uint) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Where("id = ? AND user_id = ?", investmentID, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvestmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &investment, nil
}

// UpdatePrice records a new current price for a holding.
func (s *investmentService) UpdatePrice(userID, investmentID uint, currentPrice int64) (*models.Investment, error) {
	if currentPrice < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current_price must not be negative")
	}

	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"current_price": currentPrice,
		"last_updated":  time.Now(),
	}
	if err := s.db.Model(investment).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return investment, nil
}

// DeleteInvestment soft-deletes a holding.
func (s *investmentService) DeleteInvestment(userID, investmentID uint) error {
	investment, err := s.GetInvestmentByID(userID, investmentID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(investment).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetPortfolio aggregates all holdings into a portfolio summary.
func (s *investmentService) GetPortfolio(userID uint) (*PortfolioSummary, error) {
	var investments []models.Investment
	if err := s.db.Where("user_id = ?", userID).Find(&investments).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &PortfolioSummary{
		HoldingsByType: make(map[models.AssetType]TypeSummary),
	}

	for i := range investments {
		value := int64(investments[i].Quantity * float64(investments[i].CurrentPrice))
		summary.TotalValue += value
		summary.TotalCostBasis += investments[i].CostBasis

		ts := summary.HoldingsByType[investments[i].AssetType]
		ts.Value += value
		ts.Count++
		summary.HoldingsByType[investments[i].AssetType] = ts
	}

	summary.TotalGainLoss = summary.TotalValue - summary.TotalCostBasis
	if summary.TotalCostBasis > 0 {
		summary.GainLossPct = float64(summary.TotalGainLoss) / float64(summary.TotalCostBasis) * 100
	}

	return summary, nil
}
