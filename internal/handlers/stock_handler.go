package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/pagination"
	"github.com/patrickacs/stocklio/internal/services"
)

// StockHandler serves stock lookups, listings, and the screener
type StockHandler struct {
	stockService    services.StockServicer
	screenerService services.ScreenerServicer
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService services.StockServicer, screenerService services.ScreenerServicer) *StockHandler {
	return &StockHandler{stockService: stockService, screenerService: screenerService}
}

// Detail handles GET /stocks/:ticker
func (h *StockHandler) Detail(c *gin.Context) {
	detail, err := h.stockService.Detail(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, detail)
}

// HistoryQuery is the query string accepted by the history endpoint.
type HistoryQuery struct {
	Period string `form:"period,default=1mo" binding:"history_period"`
}

// History handles GET /stocks/:ticker/history?period=
func (h *StockHandler) History(c *gin.Context) {
	var query HistoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be one of 1mo, 3mo, 6mo, 1y, 5y"))
		return
	}

	points, err := h.stockService.History(c.Request.Context(), c.Param("ticker"), query.Period)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, points)
}

// Search handles GET /stocks/search?q=&limit=
func (h *StockHandler) Search(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be an integer"))
			return
		}
		limit = n
	}

	stocks, err := h.stockService.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stocks)
}

// List handles GET /stocks?page=&page_size=
func (h *StockHandler) List(c *gin.Context) {
	var req pagination.PageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	page, err := h.stockService.List(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// Screener handles POST /stocks/screener
func (h *StockHandler) Screener(c *gin.Context) {
	var filter services.ScreenerFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	stocks, err := h.screenerService.Search(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, http.StatusOK, stocks)
}
