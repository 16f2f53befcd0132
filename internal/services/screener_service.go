package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/patrickacs/stocklio/internal/cache"
	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/models"
)

const (
	screenerTTL      = 10 * time.Minute
	screenerMaxLimit = 100
	screenerDefault  = 25
)

// screenerService filters the stock reference rows by multi-criteria ranges.
type screenerService struct {
	db    *gorm.DB
	store cache.Store
}

// NewScreenerService creates a new ScreenerServicer.
func NewScreenerService(db *gorm.DB, store cache.Store) ScreenerServicer {
	return &screenerService{db: db, store: store}
}

// Hash returns a stable digest of the filter so equal filters share one
// cache entry. Marshaling the struct keeps field order canonical.
func (f ScreenerFilter) Hash() string {
	raw, err := json.Marshal(f)
	if err != nil {
		return "invalid"
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Search queries the stock reference rows against the filter. Results come
// from the snapshot table only; no provider calls are made.
func (s *screenerService) Search(ctx context.Context, filter ScreenerFilter) ([]models.Stock, error) {
	if filter.Limit < 0 || filter.Limit > screenerMaxLimit {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "limit must be between 1 and 100")
	}
	if filter.Limit == 0 {
		filter.Limit = screenerDefault
	}

	key := fmt.Sprintf("screener:%s", filter.Hash())
	return cache.GetOrSet(s.store, key, screenerTTL, func() ([]models.Stock, error) {
		return s.query(filter)
	})
}

func (s *screenerService) query(filter ScreenerFilter) ([]models.Stock, error) {
	q := s.db.Model(&models.Stock{})

	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinMarketCap != nil {
		q = q.Where("market_cap >= ?", *filter.MinMarketCap)
	}
	if filter.MaxMarketCap != nil {
		q = q.Where("market_cap <= ?", *filter.MaxMarketCap)
	}
	if filter.MinPERatio != nil {
		q = q.Where("pe_ratio >= ?", *filter.MinPERatio)
	}
	if filter.MaxPERatio != nil {
		q = q.Where("pe_ratio <= ?", *filter.MaxPERatio)
	}
	if filter.MinYield != nil {
		q = q.Where("dividend_yield >= ?", *filter.MinYield)
	}
	if filter.MaxYield != nil {
		q = q.Where("dividend_yield <= ?", *filter.MaxYield)
	}
	if len(filter.Sectors) > 0 {
		q = q.Where("sector IN ?", filter.Sectors)
	}

	var stocks []models.Stock
	if err := q.Order("market_cap DESC").Limit(filter.Limit).Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if stocks == nil {
		stocks = []models.Stock{}
	}
	return stocks, nil
}
