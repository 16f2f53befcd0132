package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/marketdata"
	"github.com/patrickacs/stocklio/internal/models"
	"github.com/patrickacs/stocklio/internal/pagination"
)

const searchDefaultLimit = 10

// stockService serves single-stock lookups outside any portfolio context.
type stockService struct {
	db     *gorm.DB
	market MarketData
}

// NewStockService creates a new StockServicer.
func NewStockService(db *gorm.DB, market MarketData) StockServicer {
	return &stockService{db: db, market: market}
}

// Detail merges the current quote with company facts for one ticker. Both
// halves resolve through the gateway, so cached and fallback data apply.
func (s *stockService) Detail(ctx context.Context, ticker string) (*StockDetail, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	if !tickerPattern.MatchString(ticker) {
		return nil, apperrors.ErrInvalidTicker
	}

	quote, err := s.market.GetQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}
	profile, err := s.market.GetCompanyInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}

	return &StockDetail{
		Ticker:        ticker,
		Name:          profile.Name,
		Sector:        profile.Sector,
		Industry:      profile.Industry,
		Price:         quote.Price,
		DayChange:     quote.DayChange,
		Volume:        quote.Volume,
		MarketCap:     profile.MarketCap,
		PERatio:       profile.PERatio,
		DividendYield: profile.DividendYield,
		Week52High:    profile.Week52High,
		Week52Low:     profile.Week52Low,
		AsOf:          quote.AsOf,
		Synthetic:     quote.Synthetic || profile.Synthetic,
	}, nil
}

// Search autocompletes tickers and company names by prefix over the stock
// reference rows.
func (s *stockService) Search(ctx context.Context, query string, limit int) ([]models.Stock, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "query is required")
	}
	if limit <= 0 || limit > screenerMaxLimit {
		limit = searchDefaultLimit
	}

	prefix := strings.ToUpper(query) + "%"
	namePrefix := query + "%"

	var stocks []models.Stock
	err := s.db.
		Where("ticker LIKE ? OR name LIKE ?", prefix, namePrefix).
		Order("ticker ASC").
		Limit(limit).
		Find(&stocks).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if stocks == nil {
		stocks = []models.Stock{}
	}
	return stocks, nil
}

// List returns a page of the stock reference rows, ordered by ticker.
func (s *stockService) List(ctx context.Context, req pagination.PageRequest) (pagination.PageResponse[models.Stock], error) {
	req.Defaults()

	var total int64
	if err := s.db.Model(&models.Stock{}).Count(&total).Error; err != nil {
		return pagination.PageResponse[models.Stock]{}, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	var stocks []models.Stock
	err := s.db.
		Scopes(pagination.Paginate(req)).
		Order("ticker ASC").
		Find(&stocks).Error
	if err != nil {
		return pagination.PageResponse[models.Stock]{}, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	return pagination.NewPageResponse(stocks, req.Page, req.PageSize, total), nil
}

// History returns the historical price series for a ticker and period.
func (s *stockService) History(ctx context.Context, ticker, period string) ([]marketdata.PricePoint, error) {
	ticker = marketdata.NormalizeTicker(ticker)
	if !tickerPattern.MatchString(ticker) {
		return nil, apperrors.ErrInvalidTicker
	}
	if !marketdata.ValidPeriods[period] {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be one of 1mo, 3mo, 6mo, 1y, 5y")
	}
	return s.market.GetHistoricalSeries(ctx, ticker, period)
}
