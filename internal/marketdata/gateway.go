package marketdata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/patrickacs/stocklio/internal/cache"
	"github.com/patrickacs/stocklio/internal/logger"
	"github.com/patrickacs/stocklio/internal/models"
	"github.com/patrickacs/stocklio/internal/money"
)

// Cache TTLs per data type. Company facts change rarely; quotes go stale in
// minutes.
const (
	quoteTTL    = 5 * time.Minute
	companyTTL  = 24 * time.Hour
	dividendTTL = time.Hour
	historyTTL  = 30 * time.Minute
)

// Gateway resolves market data for tickers. Lookup order: cache, then each
// provider in fixed priority order, then the last-known snapshot row, then a
// deterministic synthetic placeholder. Provider errors are swallowed and
// logged, never surfaced to the caller.
type Gateway struct {
	store     cache.Store
	db        *gorm.DB
	providers []Provider
}

// NewGateway creates a gateway over the given cache store, snapshot table
// connection, and ordered provider chain.
func NewGateway(store cache.Store, db *gorm.DB, providers ...Provider) *Gateway {
	return &Gateway{store: store, db: db, providers: providers}
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// GetQuote resolves the current quote for a ticker. It never fails: after
// the provider chain it falls back to the stocks snapshot row, then to a
// synthetic quote seeded by the ticker symbol.
func (g *Gateway) GetQuote(ctx context.Context, ticker string) (*Quote, error) {
	ticker = NormalizeTicker(ticker)
	key := fmt.Sprintf("quote:%s", ticker)

	quote, err := cache.GetOrSet(g.store, key, quoteTTL, func() (Quote, error) {
		for _, p := range g.providers {
			fresh, err := p.Quote(ctx, ticker)
			if err != nil {
				logger.Get().Warnw("provider quote failed",
					"provider", p.Name(), "ticker", ticker, "error", err)
				continue
			}
			if fresh == nil || fresh.Price <= 0 {
				continue
			}
			fresh.Price = money.Round2(fresh.Price)
			fresh.PreviousClose = money.Round2(fresh.PreviousClose)
			fresh.DayChange = money.Round4(fresh.DayChange)
			g.upsertSnapshot(ticker, fresh, nil)
			return *fresh, nil
		}

		if snapshot := g.snapshotQuote(ticker); snapshot != nil {
			logger.Get().Infow("serving last-known snapshot", "ticker", ticker)
			return *snapshot, nil
		}

		logger.Get().Infow("serving synthetic quote", "ticker", ticker)
		return *SyntheticQuote(ticker), nil
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

// GetCompanyInfo resolves company facts for a ticker with a long TTL.
func (g *Gateway) GetCompanyInfo(ctx context.Context, ticker string) (*CompanyProfile, error) {
	ticker = NormalizeTicker(ticker)
	key := fmt.Sprintf("company:%s", ticker)

	profile, err := cache.GetOrSet(g.store, key, companyTTL, func() (CompanyProfile, error) {
		for _, p := range g.providers {
			fresh, err := p.CompanyProfile(ctx, ticker)
			if err != nil {
				if !errors.Is(err, ErrNotSupported) {
					logger.Get().Warnw("provider profile failed",
						"provider", p.Name(), "ticker", ticker, "error", err)
				}
				continue
			}
			if fresh == nil || fresh.Name == "" {
				continue
			}
			fresh.MarketCap = money.Round2(fresh.MarketCap)
			fresh.PERatio = money.Round2(fresh.PERatio)
			fresh.DividendYield = money.Round4(fresh.DividendYield)
			fresh.Week52High = money.Round2(fresh.Week52High)
			fresh.Week52Low = money.Round2(fresh.Week52Low)
			g.upsertSnapshot(ticker, nil, fresh)
			return *fresh, nil
		}

		if snapshot := g.snapshotProfile(ticker); snapshot != nil {
			return *snapshot, nil
		}
		return *SyntheticProfile(ticker), nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetDividends resolves the dividend history for a ticker, most recent
// first. Missing data degrades to an empty list, never an error.
func (g *Gateway) GetDividends(ctx context.Context, ticker string) ([]DividendRecord, error) {
	ticker = NormalizeTicker(ticker)
	key := fmt.Sprintf("dividend:%s", ticker)

	return cache.GetOrSet(g.store, key, dividendTTL, func() ([]DividendRecord, error) {
		for _, p := range g.providers {
			records, err := p.Dividends(ctx, ticker)
			if err != nil {
				if !errors.Is(err, ErrNotSupported) {
					logger.Get().Warnw("provider dividends failed",
						"provider", p.Name(), "ticker", ticker, "error", err)
				}
				continue
			}
			if len(records) == 0 {
				continue
			}
			for i := range records {
				records[i].Amount = money.Round2(records[i].Amount)
			}
			return records, nil
		}
		return []DividendRecord{}, nil
	})
}

// GetHistoricalSeries resolves a price series for a ticker over a period.
// Total failure returns an empty series, never an error.
func (g *Gateway) GetHistoricalSeries(ctx context.Context, ticker, period string) ([]PricePoint, error) {
	ticker = NormalizeTicker(ticker)
	key := fmt.Sprintf("historical:%s:%s", ticker, period)

	return cache.GetOrSet(g.store, key, historyTTL, func() ([]PricePoint, error) {
		for _, p := range g.providers {
			points, err := p.History(ctx, ticker, period)
			if err != nil {
				if !errors.Is(err, ErrNotSupported) {
					logger.Get().Warnw("provider history failed",
						"provider", p.Name(), "ticker", ticker, "period", period, "error", err)
				}
				continue
			}
			if len(points) == 0 {
				continue
			}
			for i := range points {
				points[i].Open = money.Round2(points[i].Open)
				points[i].High = money.Round2(points[i].High)
				points[i].Low = money.Round2(points[i].Low)
				points[i].Close = money.Round2(points[i].Close)
			}
			return points, nil
		}
		return []PricePoint{}, nil
	})
}

// snapshotQuote builds a quote from the last-known stocks row, if any.
func (g *Gateway) snapshotQuote(ticker string) *Quote {
	var stock models.Stock
	if err := g.db.First(&stock, "ticker = ?", ticker).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Get().Warnw("snapshot read failed", "ticker", ticker, "error", err)
		}
		return nil
	}
	if stock.Price <= 0 {
		return nil
	}

	prevClose := stock.Price
	if stock.DayChange > -1 {
		prevClose = money.Round2(stock.Price / (1 + stock.DayChange))
	}
	return &Quote{
		Ticker:        ticker,
		Price:         stock.Price,
		PreviousClose: prevClose,
		DayChange:     stock.DayChange,
		Volume:        stock.Volume,
		AsOf:          stock.UpdatedAt,
	}
}

// snapshotProfile builds a company profile from the last-known stocks row.
func (g *Gateway) snapshotProfile(ticker string) *CompanyProfile {
	var stock models.Stock
	if err := g.db.First(&stock, "ticker = ?", ticker).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Get().Warnw("snapshot read failed", "ticker", ticker, "error", err)
		}
		return nil
	}
	if stock.Name == "" {
		return nil
	}
	return &CompanyProfile{
		Ticker:        ticker,
		Name:          stock.Name,
		Sector:        stock.Sector,
		MarketCap:     stock.MarketCap,
		PERatio:       stock.PERatio,
		DividendYield: stock.DividendYield,
		Week52High:    stock.Week52High,
		Week52Low:     stock.Week52Low,
	}
}

// upsertSnapshot refreshes the denormalized stocks row from fresh provider
// data. Only fresh data is written back; snapshot and synthetic fallbacks
// never re-enter the table. Failures are logged and swallowed — the snapshot
// table is best-effort.
func (g *Gateway) upsertSnapshot(ticker string, quote *Quote, profile *CompanyProfile) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if quote != nil {
		updates["price"] = quote.Price
		updates["day_change"] = quote.DayChange
		updates["volume"] = quote.Volume
	}
	if profile != nil {
		updates["name"] = profile.Name
		updates["sector"] = profile.Sector
		updates["market_cap"] = profile.MarketCap
		updates["pe_ratio"] = profile.PERatio
		updates["dividend_yield"] = profile.DividendYield
		updates["week52_high"] = profile.Week52High
		updates["week52_low"] = profile.Week52Low
	}

	err := g.db.Where(models.Stock{Ticker: ticker}).
		Assign(updates).
		FirstOrCreate(&models.Stock{}).Error
	if err != nil {
		logger.Get().Warnw("snapshot upsert failed", "ticker", ticker, "error", err)
	}
}
