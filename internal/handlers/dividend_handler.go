package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/services"
)

const defaultUpcomingDays = 30

// DividendHandler serves dividend projections
type DividendHandler struct {
	dividendService services.DividendServicer
}

// NewDividendHandler creates a new DividendHandler
func NewDividendHandler(dividendService services.DividendServicer) *DividendHandler {
	return &DividendHandler{dividendService: dividendService}
}

// Upcoming handles GET /dividends/upcoming?days=
func (h *DividendHandler) Upcoming(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be an integer"))
			return
		}
	}

	result, err := h.dividendService.Upcoming(c.Request.Context(), userID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// Projection handles GET /dividends/projection
func (h *DividendHandler) Projection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projection, err := h.dividendService.AnnualProjection(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, projection)
}
