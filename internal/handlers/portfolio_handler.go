package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/patrickacs/stocklio/internal/services"
)

// PortfolioHandler serves the enriched portfolio views
type PortfolioHandler struct {
	enrichment services.EnrichmentServicer
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(enrichment services.EnrichmentServicer) *PortfolioHandler {
	return &PortfolioHandler{enrichment: enrichment}
}

// ListEnriched handles GET /portfolio/enriched
func (h *PortfolioHandler) ListEnriched(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	positions, err := h.enrichment.EnrichHoldings(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, positions)
}

// GetSummary handles GET /portfolio/summary
func (h *PortfolioHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.enrichment.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, summary)
}

// RefreshSummary handles POST /portfolio/summary/refresh
func (h *PortfolioHandler) RefreshSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.enrichment.RefreshSummary(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondOK(c, http.StatusOK, summary)
}
