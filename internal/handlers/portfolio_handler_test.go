package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/patrickacs/stocklio/internal/services"
)

type mockEnrichmentService struct {
	enrichHoldingsFn func(userID uint) ([]services.EnrichedPosition, error)
	summarizeFn      func(positions []services.EnrichedPosition) *services.PortfolioSummary
	getSummaryFn     func(userID uint) (*services.PortfolioSummary, error)
	refreshSummaryFn func(userID uint) (*services.PortfolioSummary, error)
}

func (m *mockEnrichmentService) EnrichHoldings(_ context.Context, userID uint) ([]services.EnrichedPosition, error) {
	if m.enrichHoldingsFn != nil {
		return m.enrichHoldingsFn(userID)
	}
	return []services.EnrichedPosition{}, nil
}

func (m *mockEnrichmentService) Summarize(positions []services.EnrichedPosition) *services.PortfolioSummary {
	if m.summarizeFn != nil {
		return m.summarizeFn(positions)
	}
	return &services.PortfolioSummary{}
}

func (m *mockEnrichmentService) GetSummary(_ context.Context, userID uint) (*services.PortfolioSummary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(userID)
	}
	return &services.PortfolioSummary{}, nil
}

func (m *mockEnrichmentService) RefreshSummary(_ context.Context, userID uint) (*services.PortfolioSummary, error) {
	if m.refreshSummaryFn != nil {
		return m.refreshSummaryFn(userID)
	}
	return &services.PortfolioSummary{}, nil
}

func setupPortfolioRouter(handler *PortfolioHandler) *gin.Engine {
	r := gin.New()
	r.Use(injectUserID(1))
	r.GET("/portfolio/enriched", handler.ListEnriched)
	r.GET("/portfolio/summary", handler.GetSummary)
	r.POST("/portfolio/summary/refresh", handler.RefreshSummary)
	return r
}

func TestListEnriched(t *testing.T) {
	svc := &mockEnrichmentService{
		enrichHoldingsFn: func(userID uint) ([]services.EnrichedPosition, error) {
			return []services.EnrichedPosition{
				{Ticker: "AAPL", CurrentValue: 1700},
			}, nil
		},
	}
	r := setupPortfolioRouter(NewPortfolioHandler(svc))

	rec := doRequest(r, http.MethodGet, "/portfolio/enriched", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := parseJSON(t, rec)
	positions, _ := body["data"].([]interface{})
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %v", body["data"])
	}
}

func TestGetSummaryHandler(t *testing.T) {
	svc := &mockEnrichmentService{
		getSummaryFn: func(userID uint) (*services.PortfolioSummary, error) {
			return &services.PortfolioSummary{AssetCount: 3, TotalValue: 3100}, nil
		},
	}
	r := setupPortfolioRouter(NewPortfolioHandler(svc))

	rec := doRequest(r, http.MethodGet, "/portfolio/summary", "")
	data := assertSuccess(t, rec, http.StatusOK)
	if data["asset_count"] != float64(3) {
		t.Errorf("unexpected summary payload: %v", data)
	}
}

func TestRefreshSummaryHandler(t *testing.T) {
	var refreshed uint
	svc := &mockEnrichmentService{
		refreshSummaryFn: func(userID uint) (*services.PortfolioSummary, error) {
			refreshed = userID
			return &services.PortfolioSummary{}, nil
		},
	}
	r := setupPortfolioRouter(NewPortfolioHandler(svc))

	rec := doRequest(r, http.MethodPost, "/portfolio/summary/refresh", "")
	assertSuccess(t, rec, http.StatusOK)
	if refreshed != 1 {
		t.Errorf("expected refresh for user 1, got %d", refreshed)
	}
}
