package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/services"
)

// SummaryHandler handles budget dashboard requests.
type SummaryHandler struct {
	summaryService services.SummaryServicer
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summaryService services.SummaryServicer) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetBudgetSummary returns the 50/30/20 summary for one month
// @Summary     Get the monthly budget summary
// @Description Income and per-bucket spending for one calendar month; only confirmed transactions count
// @Tags        summary
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month in YYYY-MM format, defaults to the current month"
// @Success     200 {object} services.BudgetSummary
// @Failure     400 {object} ErrorResponse "Invalid month"
// @Router      /summary/budget [get]
func (h *SummaryHandler) GetBudgetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	month := time.Now().UTC()
	if raw := c.Query("month"); raw != "" {
		month, err = time.Parse("2006-01", raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "month must be in YYYY-MM format"))
			return
		}
	}

	summary, err := h.summaryService.GetBudgetSummary(userID, month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
