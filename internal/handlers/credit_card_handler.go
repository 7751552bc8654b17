package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// CreditCardHandler handles credit-card requests.
type CreditCardHandler struct {
	cardService services.CreditCardServicer
}

// NewCreditCardHandler creates a new CreditCardHandler.
func NewCreditCardHandler(cardService services.CreditCardServicer) *CreditCardHandler {
	return &CreditCardHandler{cardService: cardService}
}

// CreateCreditCardRequest represents the credit-card creation payload.
type CreateCreditCardRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	BankName    string `json:"bank_name" binding:"max=100"`
	ClosingDay  int    `json:"closing_day" binding:"required,min=1,max=31"`
	DueDay      int    `json:"due_day" binding:"required,min=1,max=31"`
	CreditLimit int64  `json:"credit_limit" binding:"gte=0"`
}

// UpdateCreditCardRequest represents the credit-card update payload.
type UpdateCreditCardRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	BankName    *string `json:"bank_name" binding:"omitempty,max=100"`
	ClosingDay  *int    `json:"closing_day" binding:"omitempty,min=1,max=31"`
	DueDay      *int    `json:"due_day" binding:"omitempty,min=1,max=31"`
	CreditLimit *int64  `json:"credit_limit" binding:"omitempty,gte=0"`
}

// CreateCreditCard handles credit-card creation
// @Summary     Create a credit card
// @Tags        credit-cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCreditCardRequest true "Credit card data"
// @Success     201 {object} models.CreditCard
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /credit-cards [post]
func (h *CreditCardHandler) CreateCreditCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCreditCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.CreateCreditCard(userID, req.Name, req.BankName, req.ClosingDay, req.DueDay, req.CreditLimit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"credit_card": card})
}

// GetCreditCards lists the user's credit cards
// @Summary     List credit cards
// @Tags        credit-cards
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.CreditCard]
// @Router      /credit-cards [get]
func (h *CreditCardHandler) GetCreditCards(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	cards, err := h.cardService.GetUserCreditCards(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cards)
}

// GetCreditCard fetches a single credit card
// @Summary     Get a credit card
// @Tags        credit-cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Credit card ID"
// @Success     200 {object} models.CreditCard
// @Failure     404 {object} ErrorResponse "Credit card not found"
// @Router      /credit-cards/{id} [get]
func (h *CreditCardHandler) GetCreditCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	card, err := h.cardService.GetCreditCardByID(userID, cardID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"credit_card": card})
}

// UpdateCreditCard updates a credit card
// @Summary     Update a credit card
// @Tags        credit-cards
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Credit card ID"
// @Param       request body UpdateCreditCardRequest true "Fields to update"
// @Success     200 {object} models.CreditCard
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Credit card not found"
// @Router      /credit-cards/{id} [put]
func (h *CreditCardHandler) UpdateCreditCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCreditCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	card, err := h.cardService.UpdateCreditCard(userID, cardID, services.CreditCardUpdateFields{
		Name:        req.Name,
		BankName:    req.BankName,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
		CreditLimit: req.CreditLimit,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"credit_card": card})
}

// DeleteCreditCard removes a credit card
// @Summary     Delete a credit card
// @Tags        credit-cards
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Credit card ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Credit card not found"
// @Router      /credit-cards/{id} [delete]
func (h *CreditCardHandler) DeleteCreditCard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	cardID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cardService.DeleteCreditCard(userID, cardID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "credit card deleted"})
}
