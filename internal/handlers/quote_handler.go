package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "moneta/internal/errors"
	"moneta/internal/quotes"
)

// QuoteHandler proxies market-quote lookups through the configured providers.
type QuoteHandler struct {
	quoteService *quotes.Service
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService *quotes.Service) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// GetQuote looks up a market quote for a symbol
// @Summary     Get a market quote
// @Description Looks the symbol up through the configured providers; unknown symbols return a null quote
// @Tags        quotes
// @Produce     json
// @Security    BearerAuth
// @Param       symbol path string true "Ticker or asset symbol"
// @Param       type query string false "Asset type hint" Enums(stock, etf, crypto)
// @Success     200 {object} quotes.Quote
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /quotes/{symbol} [get]
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		respondWithError(c, err)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required"))
		return
	}

	quote := h.quoteService.Lookup(c.Request.Context(), symbol, c.Query("type"))

	c.JSON(http.StatusOK, gin.H{"quote": quote})
}
