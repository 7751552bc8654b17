package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/scheduler"
	"moneta/internal/services"
)

// RecurrenceHandler handles recurrence-definition requests.
type RecurrenceHandler struct {
	recurrenceService services.RecurrenceServicer
	scheduler         *scheduler.Scheduler
}

// NewRecurrenceHandler creates a new RecurrenceHandler.
func NewRecurrenceHandler(recurrenceService services.RecurrenceServicer, sched *scheduler.Scheduler) *RecurrenceHandler {
	return &RecurrenceHandler{
		recurrenceService: recurrenceService,
		scheduler:         sched,
	}
}

// CreateRecurrenceRequest represents the recurrence creation payload.
// Exactly one of account_id and credit_card_id must be set.
type CreateRecurrenceRequest struct {
	AccountID    *uint   `json:"account_id"`
	CreditCardID *uint   `json:"credit_card_id"`
	CategoryID   uint    `json:"category_id" binding:"required"`
	Type         string  `json:"type" binding:"required,transaction_type"`
	Amount       int64   `json:"amount" binding:"required,gt=0"`
	Description  string  `json:"description" binding:"max=255"`
	Frequency    string  `json:"frequency" binding:"required,frequency"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      *string `json:"end_date"`
	Installments *int    `json:"installments" binding:"omitempty,min=1,max=120"`
}

// UpdateRecurrenceRequest represents a partial recurrence update.
type UpdateRecurrenceRequest struct {
	AccountID    *uint   `json:"account_id"`
	CreditCardID *uint   `json:"credit_card_id"`
	CategoryID   *uint   `json:"category_id"`
	Type         *string `json:"type" binding:"omitempty,transaction_type"`
	Amount       *int64  `json:"amount" binding:"omitempty,gt=0"`
	Description  *string `json:"description" binding:"omitempty,max=255"`
	Frequency    *string `json:"frequency" binding:"omitempty,frequency"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	IsActive     *bool   `json:"is_active"`
	Installments *int    `json:"installments" binding:"omitempty,min=1,max=120"`
}

// CreateRecurrence handles recurrence creation
// @Summary     Create a recurrence
// @Description Define a recurring transaction whose occurrences are generated as pending transactions
// @Tags        recurrences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateRecurrenceRequest true "Recurrence data"
// @Success     201 {object} models.Recurrence
// @Failure     400 {object} ErrorResponse "Invalid input or funding source"
// @Failure     404 {object} ErrorResponse "Account, card or category not found"
// @Router      /recurrences [post]
func (h *RecurrenceHandler) CreateRecurrence(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate, err := parseFlexibleTime(req.StartDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format"))
		return
	}

	var endDate *time.Time
	if req.EndDate != nil {
		t, err := parseFlexibleTime(*req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format"))
			return
		}
		endDate = &t
	}

	recurrence, err := h.recurrenceService.CreateRecurrence(userID, services.RecurrenceInput{
		AccountID:    req.AccountID,
		CreditCardID: req.CreditCardID,
		CategoryID:   req.CategoryID,
		Type:         models.TransactionType(req.Type),
		Amount:       req.Amount,
		Description:  req.Description,
		Frequency:    models.Frequency(req.Frequency),
		StartDate:    startDate,
		EndDate:      endDate,
		Installments: req.Installments,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recurrence": recurrence})
}

// GetRecurrences lists the user's recurrences
// @Summary     List recurrences
// @Tags        recurrences
// @Produce     json
// @Security    BearerAuth
// @Param       is_active query bool false "Filter by active state"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Recurrence]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /recurrences [get]
func (h *RecurrenceHandler) GetRecurrences(c *gin.Context) {
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

	var isActive *bool
	switch c.Query("is_active") {
	case "":
	case "true":
		v := true
		isActive = &v
	case "false":
		v := false
		isActive = &v
	default:
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "is_active must be true or false"))
		return
	}

	recurrences, err := h.recurrenceService.GetUserRecurrences(userID, isActive, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, recurrences)
}

// GetRecurrence fetches a single recurrence
// @Summary     Get a recurrence
// @Tags        recurrences
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recurrence ID"
// @Success     200 {object} models.Recurrence
// @Failure     404 {object} ErrorResponse "Recurrence not found"
// @Router      /recurrences/{id} [get]
func (h *RecurrenceHandler) GetRecurrence(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurrenceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurrence, err := h.recurrenceService.GetRecurrenceByID(userID, recurrenceID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurrence": recurrence})
}

// UpdateRecurrence updates a recurrence definition
// @Summary     Update a recurrence
// @Description Partially update a recurrence; already generated occurrences are untouched
// @Tags        recurrences
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recurrence ID"
// @Param       request body UpdateRecurrenceRequest true "Fields to update"
// @Success     200 {object} models.Recurrence
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Recurrence not found"
// @Router      /recurrences/{id} [put]
func (h *RecurrenceHandler) UpdateRecurrence(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurrenceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRecurrenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.RecurrenceUpdateFields{
		AccountID:    req.AccountID,
		CreditCardID: req.CreditCardID,
		CategoryID:   req.CategoryID,
		Amount:       req.Amount,
		Description:  req.Description,
		IsActive:     req.IsActive,
		Installments: req.Installments,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		fields.Type = &t
	}
	if req.Frequency != nil {
		f := models.Frequency(*req.Frequency)
		fields.Frequency = &f
	}
	if req.StartDate != nil {
		t, err := parseFlexibleTime(*req.StartDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid start_date format"))
			return
		}
		fields.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := parseFlexibleTime(*req.EndDate)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid end_date format"))
			return
		}
		fields.EndDate = &t
	}

	recurrence, err := h.recurrenceService.UpdateRecurrence(userID, recurrenceID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recurrence": recurrence})
}

// DeleteRecurrence deletes a recurrence and its pending occurrences
// @Summary     Delete a recurrence
// @Description Deletes the recurrence and its still-pending occurrences; confirmed ones are kept
// @Tags        recurrences
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Recurrence ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Recurrence not found"
// @Router      /recurrences/{id} [delete]
func (h *RecurrenceHandler) DeleteRecurrence(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	recurrenceID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.recurrenceService.DeleteRecurrence(userID, recurrenceID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "recurrence deleted"})
}

// ProcessRecurrences triggers a scheduler pass immediately
// @Summary     Run the recurrence scheduler now
// @Description Generates pending transactions for all due recurrences across all users
// @Tags        recurrences
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} scheduler.PassResult
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /recurrences/process [post]
func (h *RecurrenceHandler) ProcessRecurrences(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.scheduler.ProcessDue(time.Now().UTC())
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
