package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/models"
	"moneta/internal/pagination"
	"moneta/internal/services"
)

// TransactionHandler handles transaction requests, including the
// pending-transaction lifecycle and transfers.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		auditService:       auditService,
	}
}

// CreateTransactionRequest represents the transaction creation payload.
// Exactly one of account_id and credit_card_id must be set.
type CreateTransactionRequest struct {
	AccountID    *uint  `json:"account_id"`
	CreditCardID *uint  `json:"credit_card_id"`
	CategoryID   *uint  `json:"category_id"`
	Type         string `json:"type" binding:"required,transaction_type"`
	Status       string `json:"status" binding:"omitempty,transaction_status"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
	Description  string `json:"description" binding:"max=255"`
	Date         string `json:"date"`
	Installments *int   `json:"installments" binding:"omitempty,min=1,max=120"`
}

// UpdateTransactionRequest represents a partial update of a pending transaction.
type UpdateTransactionRequest struct {
	AccountID    *uint   `json:"account_id"`
	CreditCardID *uint   `json:"credit_card_id"`
	CategoryID   *uint   `json:"category_id"`
	Type         *string `json:"type" binding:"omitempty,transaction_type"`
	Amount       *int64  `json:"amount" binding:"omitempty,gt=0"`
	Description  *string `json:"description" binding:"omitempty,max=255"`
	Date         *string `json:"date"`
}

// CreateTransferRequest represents the transfer creation payload.
type CreateTransferRequest struct {
	FromAccountID uint   `json:"from_account_id" binding:"required"`
	ToAccountID   uint   `json:"to_account_id" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
	Description   string `json:"description" binding:"max=255"`
	Date          string `json:"date"`
}

// ConfirmTransactionRequest represents the confirmation payload. The account
// to debit or credit is chosen at confirmation time.
type ConfirmTransactionRequest struct {
	AccountID uint `json:"account_id" binding:"required"`
}

// CreateTransaction handles transaction creation
// @Summary     Create a transaction
// @Description Create an income or expense funded by exactly one of an account or a credit card
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction data"
// @Success     201 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input or funding source"
// @Failure     404 {object} ErrorResponse "Account, card or category not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format"))
			return
		}
	}

	transaction, err := h.transactionService.CreateTransaction(userID, services.CreateTransactionInput{
		AccountID:    req.AccountID,
		CreditCardID: req.CreditCardID,
		CategoryID:   req.CategoryID,
		Type:         models.TransactionType(req.Type),
		Status:       models.TransactionStatus(req.Status),
		Amount:       req.Amount,
		Description:  req.Description,
		Date:         date,
		Installments: req.Installments,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "transaction", transaction.ID, c.ClientIP(), map[string]interface{}{
		"type":   transaction.Type,
		"amount": transaction.Amount,
		"status": transaction.Status,
	})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// CreateTransfer handles transfers between two accounts
// @Summary     Create a transfer
// @Description Move money between two of the user's accounts; transfers are always confirmed
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransferRequest true "Transfer data"
// @Success     201 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input or same-account transfer"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Router      /transactions/transfer [post]
func (h *TransactionHandler) CreateTransfer(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format"))
			return
		}
	}

	transfer, err := h.transactionService.CreateTransfer(userID, req.FromAccountID, req.ToAccountID, req.Amount, req.Description, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create", "transfer", transfer.ID, c.ClientIP(), map[string]interface{}{
		"from_account_id": req.FromAccountID,
		"to_account_id":   req.ToAccountID,
		"amount":          req.Amount,
	})

	c.JSON(http.StatusCreated, gin.H{"transaction": transfer})
}

// GetTransactions lists the user's transactions with optional filters
// @Summary     List transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       from query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       type query string false "Filter by type" Enums(income, expense, transfer)
// @Param       status query string false "Filter by status" Enums(pending, confirmed)
// @Param       category_id query int false "Filter by category"
// @Param       account_id query int false "Filter by account"
// @Param       credit_card_id query int false "Filter by credit card"
// @Param       min_amount query int false "Minimum amount in cents"
// @Param       max_amount query int false "Maximum amount in cents"
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
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

	filter, err := buildTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.transactionService.GetUserTransactions(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetPendingTransactions lists pending transactions oldest first
// @Summary     List pending transactions
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Transaction]
// @Router      /transactions/pending [get]
func (h *TransactionHandler) GetPendingTransactions(c *gin.Context) {
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

	transactions, err := h.transactionService.GetPendingTransactions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// GetTransaction fetches a single transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} models.Transaction
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// ConfirmTransaction confirms a pending transaction against an account
// @Summary     Confirm a pending transaction
// @Description Confirms a pending transaction and applies its amount to the chosen account balance
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body ConfirmTransactionRequest true "Account to settle against"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction or account not found"
// @Failure     409 {object} ErrorResponse "Transaction already confirmed"
// @Router      /transactions/{id}/confirm [put]
func (h *TransactionHandler) ConfirmTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ConfirmTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.ConfirmTransaction(userID, transactionID, req.AccountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "confirm", "transaction", transaction.ID, c.ClientIP(), map[string]interface{}{
		"account_id": req.AccountID,
		"amount":     transaction.Amount,
	})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction updates a pending transaction
// @Summary     Update a pending transaction
// @Description Partially update a pending transaction; confirmed transactions are immutable
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Param       request body UpdateTransactionRequest true "Fields to update"
// @Success     200 {object} models.Transaction
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Transaction is not pending"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	fields := services.TransactionUpdateFields{
		AccountID:    req.AccountID,
		CreditCardID: req.CreditCardID,
		CategoryID:   req.CategoryID,
		Amount:       req.Amount,
		Description:  req.Description,
	}
	if req.Type != nil {
		t := models.TransactionType(*req.Type)
		fields.Type = &t
	}
	if req.Date != nil {
		date, err := parseFlexibleTime(*req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid date format"))
			return
		}
		fields.Date = &date
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, transactionID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "update", "transaction", transaction.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction deletes a transaction
// @Summary     Delete a transaction
// @Description Deletes a transaction; confirmed ones have their balance effect reversed
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Transaction ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "delete", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "transaction deleted"})
}

func buildTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if raw := c.Query("from"); raw != "" {
		t, err := parseFlexibleTime(raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from date")
		}
		filter.FromDate = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := parseFlexibleTime(raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to date")
		}
		filter.ToDate = &t
	}
	if raw := c.Query("type"); raw != "" {
		t := models.TransactionType(raw)
		if t != models.TransactionTypeIncome && t != models.TransactionTypeExpense && t != models.TransactionTypeTransfer {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid transaction type")
		}
		filter.Type = &t
	}
	if raw := c.Query("status"); raw != "" {
		s := models.TransactionStatus(raw)
		if s != models.TransactionStatusPending && s != models.TransactionStatusConfirmed {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid transaction status")
		}
		filter.Status = &s
	}

	for param, target := range map[string]**uint{
		"category_id":    &filter.CategoryID,
		"account_id":     &filter.AccountID,
		"credit_card_id": &filter.CreditCardID,
	} {
		if raw := c.Query(param); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+param)
			}
			v := uint(id)
			*target = &v
		}
	}

	for param, target := range map[string]**int64{
		"min_amount": &filter.MinAmount,
		"max_amount": &filter.MaxAmount,
	} {
		if raw := c.Query(param); raw != "" {
			amount, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+param)
			}
			*target = &amount
		}
	}

	return filter, nil
}
