package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/marketdata"
	"github.com/patrickacs/stocklio/internal/models"
	"github.com/patrickacs/stocklio/internal/pagination"
	"github.com/patrickacs/stocklio/internal/services"
)

type mockStockService struct {
	detailFn  func(ticker string) (*services.StockDetail, error)
	searchFn  func(query string, limit int) ([]models.Stock, error)
	listFn    func(req pagination.PageRequest) (pagination.PageResponse[models.Stock], error)
	historyFn func(ticker, period string) ([]marketdata.PricePoint, error)
}

func (m *mockStockService) Detail(_ context.Context, ticker string) (*services.StockDetail, error) {
	if m.detailFn != nil {
		return m.detailFn(ticker)
	}
	return &services.StockDetail{Ticker: ticker}, nil
}

func (m *mockStockService) Search(_ context.Context, query string, limit int) ([]models.Stock, error) {
	if m.searchFn != nil {
		return m.searchFn(query, limit)
	}
	return []models.Stock{}, nil
}

func (m *mockStockService) List(_ context.Context, req pagination.PageRequest) (pagination.PageResponse[models.Stock], error) {
	if m.listFn != nil {
		return m.listFn(req)
	}
	return pagination.NewPageResponse[models.Stock](nil, 1, 20, 0), nil
}

func (m *mockStockService) History(_ context.Context, ticker, period string) ([]marketdata.PricePoint, error) {
	if m.historyFn != nil {
		return m.historyFn(ticker, period)
	}
	return []marketdata.PricePoint{}, nil
}

type mockScreenerService struct {
	searchFn func(filter services.ScreenerFilter) ([]models.Stock, error)
}

func (m *mockScreenerService) Search(_ context.Context, filter services.ScreenerFilter) ([]models.Stock, error) {
	if m.searchFn != nil {
		return m.searchFn(filter)
	}
	return []models.Stock{}, nil
}

func setupStockRouter(handler *StockHandler) *gin.Engine {
	r := gin.New()
	r.GET("/stocks", handler.List)
	r.GET("/stocks/search", handler.Search)
	r.POST("/stocks/screener", handler.Screener)
	r.GET("/stocks/:ticker", handler.Detail)
	r.GET("/stocks/:ticker/history", handler.History)
	return r
}

func TestStockDetailHandler(t *testing.T) {
	svc := &mockStockService{
		detailFn: func(ticker string) (*services.StockDetail, error) {
			return &services.StockDetail{Ticker: "AAPL", Price: 170.5, Name: "Apple Inc."}, nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockScreenerService{}))

	rec := doRequest(r, http.MethodGet, "/stocks/AAPL", "")
	data := assertSuccess(t, rec, http.StatusOK)
	if data["ticker"] != "AAPL" || data["price"] != 170.5 {
		t.Errorf("unexpected detail payload: %v", data)
	}
}

func TestStockDetailHandlerInvalidTicker(t *testing.T) {
	svc := &mockStockService{
		detailFn: func(ticker string) (*services.StockDetail, error) {
			return nil, apperrors.ErrInvalidTicker
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockScreenerService{}))

	rec := doRequest(r, http.MethodGet, "/stocks/bad!ticker", "")
	assertFailure(t, rec, http.StatusBadRequest, "INVALID_TICKER")
}

func TestStockSearchHandler(t *testing.T) {
	var gotQuery string
	var gotLimit int
	svc := &mockStockService{
		searchFn: func(query string, limit int) ([]models.Stock, error) {
			gotQuery, gotLimit = query, limit
			return []models.Stock{{Ticker: "AAPL"}}, nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockScreenerService{}))

	rec := doRequest(r, http.MethodGet, "/stocks/search?q=aa&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotQuery != "aa" || gotLimit != 5 {
		t.Errorf("expected q=aa limit=5, got q=%q limit=%d", gotQuery, gotLimit)
	}
}

func TestStockSearchHandlerBadLimit(t *testing.T) {
	r := setupStockRouter(NewStockHandler(&mockStockService{}, &mockScreenerService{}))

	rec := doRequest(r, http.MethodGet, "/stocks/search?q=aa&limit=lots", "")
	assertFailure(t, rec, http.StatusBadRequest, "INVALID_INPUT")
}

func TestStockListHandler(t *testing.T) {
	svc := &mockStockService{
		listFn: func(req pagination.PageRequest) (pagination.PageResponse[models.Stock], error) {
			if req.Page != 2 || req.PageSize != 10 {
				t.Errorf("expected page=2 page_size=10, got %+v", req)
			}
			return pagination.NewPageResponse([]models.Stock{{Ticker: "AAPL"}}, 2, 10, 11), nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockScreenerService{}))

	rec := doRequest(r, http.MethodGet, "/stocks?page=2&page_size=10", "")
	data := assertSuccess(t, rec, http.StatusOK)
	if data["total_pages"] != float64(2) {
		t.Errorf("unexpected page payload: %v", data)
	}
}

func TestScreenerHandler(t *testing.T) {
	var gotFilter services.ScreenerFilter
	svc := &mockScreenerService{
		searchFn: func(filter services.ScreenerFilter) ([]models.Stock, error) {
			gotFilter = filter
			return []models.Stock{{Ticker: "MSFT"}}, nil
		},
	}
	r := setupStockRouter(NewStockHandler(&mockStockService{}, svc))

	rec := doRequest(r, http.MethodPost, "/stocks/screener",
		`{"min_price":100,"sectors":["Technology"],"limit":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotFilter.MinPrice == nil || *gotFilter.MinPrice != 100 {
		t.Errorf("expected min price 100, got %v", gotFilter.MinPrice)
	}
	if len(gotFilter.Sectors) != 1 || gotFilter.Sectors[0] != "Technology" {
		t.Errorf("expected Technology sector filter, got %v", gotFilter.Sectors)
	}
}

func TestScreenerHandlerMalformedBody(t *testing.T) {
	r := setupStockRouter(NewStockHandler(&mockStockService{}, &mockScreenerService{}))

	rec := doRequest(r, http.MethodPost, "/stocks/screener", `{"min_price":"cheap"}`)
	assertFailure(t, rec, http.StatusBadRequest, "INVALID_INPUT")
}

func TestStockHistoryHandler(t *testing.T) {
	var gotPeriod string
	svc := &mockStockService{
		historyFn: func(ticker, period string) ([]marketdata.PricePoint, error) {
			gotPeriod = period
			return []marketdata.PricePoint{{Close: 170}}, nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockScreenerService{}))

	rec := doRequest(r, http.MethodGet, "/stocks/AAPL/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotPeriod != "1mo" {
		t.Errorf("expected default period 1mo, got %q", gotPeriod)
	}
}

func TestStockHistoryHandlerBadPeriod(t *testing.T) {
	called := false
	svc := &mockStockService{
		historyFn: func(ticker, period string) ([]marketdata.PricePoint, error) {
			called = true
			return nil, nil
		},
	}
	r := setupStockRouter(NewStockHandler(svc, &mockScreenerService{}))

	rec := doRequest(r, http.MethodGet, "/stocks/AAPL/history?period=2wk", "")
	assertFailure(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	if called {
		t.Error("expected an unknown period to be rejected at binding")
	}
}
