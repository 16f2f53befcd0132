package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/patrickacs/stocklio/internal/cache"
	apperrors "github.com/patrickacs/stocklio/internal/errors"
	"github.com/patrickacs/stocklio/internal/logger"
	"github.com/patrickacs/stocklio/internal/marketdata"
	"github.com/patrickacs/stocklio/internal/models"
	"github.com/patrickacs/stocklio/internal/money"
)

const (
	summaryTTL = 5 * time.Minute
	topMovers  = 3
)

// tickerData is the joined market data for one distinct ticker.
type tickerData struct {
	quote   *marketdata.Quote
	profile *marketdata.CompanyProfile
	failed  bool
}

// enrichmentService transforms raw holdings into a value-added view by
// merging cached/fetched market data with portfolio arithmetic.
type enrichmentService struct {
	db     *gorm.DB
	market MarketData
	store  cache.Store
}

// NewEnrichmentService creates a new EnrichmentServicer.
func NewEnrichmentService(db *gorm.DB, market MarketData, store cache.Store) EnrichmentServicer {
	return &enrichmentService{db: db, market: market, store: store}
}

// EnrichHoldings loads the user's positions and resolves one quote and one
// profile per distinct ticker, fanned out concurrently and joined before
// computing derived fields. A single ticker's failure degrades that position
// to neutral values instead of failing the request.
func (s *enrichmentService) EnrichHoldings(ctx context.Context, userID uint) ([]EnrichedPosition, error) {
	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Order("ticker ASC").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrDatabase, err)
	}
	if len(assets) == 0 {
		return []EnrichedPosition{}, nil
	}

	// One fetch per distinct ticker, issued in parallel. Providers are
	// called per ticker; serializing them would make multi-holding
	// portfolios unusably slow against rate-limited upstreams.
	distinct := make(map[string]struct{}, len(assets))
	for _, a := range assets {
		distinct[a.Ticker] = struct{}{}
	}

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		data = make(map[string]tickerData, len(distinct))
	)
	for ticker := range distinct {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()

			result := tickerData{}
			quote, err := s.market.GetQuote(ctx, ticker)
			if err != nil {
				logger.Get().Warnw("quote enrichment failed", "ticker", ticker, "error", err)
				result.failed = true
			} else {
				result.quote = quote
			}

			profile, err := s.market.GetCompanyInfo(ctx, ticker)
			if err != nil {
				logger.Get().Warnw("profile enrichment failed", "ticker", ticker, "error", err)
			} else {
				result.profile = profile
			}

			mu.Lock()
			data[ticker] = result
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	positions := make([]EnrichedPosition, 0, len(assets))
	for _, asset := range assets {
		positions = append(positions, enrichPosition(asset, data[asset.Ticker]))
	}
	return positions, nil
}

// enrichPosition computes the derived metrics for one holding.
func enrichPosition(asset models.Asset, data tickerData) EnrichedPosition {
	pos := EnrichedPosition{
		AssetID:      asset.ID,
		Ticker:       asset.Ticker,
		Shares:       asset.Shares,
		AvgCost:      asset.AvgCost,
		PurchaseDate: asset.PurchaseDate,
		Notes:        asset.Notes,
		TotalCost:    money.Mul(asset.AvgCost, asset.Shares),
	}
	if data.profile != nil {
		pos.Name = data.profile.Name
		pos.Sector = data.profile.Sector
	}

	if data.failed || data.quote == nil {
		// Neutral fallback: price 0, P&L 0, never an aborted batch.
		pos.Degraded = true
		return pos
	}

	quote := data.quote
	pos.CurrentPrice = quote.Price
	pos.CurrentValue = money.Mul(quote.Price, asset.Shares)
	pos.ProfitLoss = money.Round2(pos.CurrentValue - pos.TotalCost)
	pos.ReturnPercent = money.Percent(pos.ProfitLoss, pos.TotalCost)
	pos.DayChange = quote.DayChange
	if quote.PreviousClose > 0 {
		prevValue := money.Mul(quote.PreviousClose, asset.Shares)
		pos.DayChangeValue = money.Round2(pos.CurrentValue - prevValue)
	}
	return pos
}

// Summarize aggregates enriched positions into portfolio totals, top movers,
// and allocation breakdowns.
func (s *enrichmentService) Summarize(positions []EnrichedPosition) *PortfolioSummary {
	summary := &PortfolioSummary{
		AssetCount: len(positions),
		TopGainers: []Mover{},
		TopLosers:  []Mover{},
		BySector:   []AllocationSlice{},
		ByPosition: []AllocationSlice{},
	}

	sectorValues := make(map[string]float64)
	for _, pos := range positions {
		summary.TotalValue = money.Round2(summary.TotalValue + pos.CurrentValue)
		summary.TotalCost = money.Round2(summary.TotalCost + pos.TotalCost)
		summary.DayChangeValue = money.Round2(summary.DayChangeValue + pos.DayChangeValue)

		sector := pos.Sector
		if sector == "" {
			sector = "Unknown"
		}
		sectorValues[sector] += pos.CurrentValue
	}

	summary.ProfitLoss = money.Round2(summary.TotalValue - summary.TotalCost)
	summary.ReturnPercent = money.Percent(summary.ProfitLoss, summary.TotalCost)

	// Day change is measured against the previous total value, not the
	// current one, so today's move is not double-counted in the denominator.
	previousValue := summary.TotalValue - summary.DayChangeValue
	summary.DayChangePercent = money.Percent(summary.DayChangeValue, previousValue)

	// Top movers by return percent, degraded positions excluded.
	active := make([]EnrichedPosition, 0, len(positions))
	for _, pos := range positions {
		if !pos.Degraded {
			active = append(active, pos)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ReturnPercent > active[j].ReturnPercent })
	for i := 0; i < len(active) && i < topMovers; i++ {
		if active[i].ReturnPercent <= 0 {
			break
		}
		summary.TopGainers = append(summary.TopGainers, Mover{
			Ticker:        active[i].Ticker,
			ReturnPercent: active[i].ReturnPercent,
			ProfitLoss:    active[i].ProfitLoss,
		})
	}
	for i := len(active) - 1; i >= 0 && len(summary.TopLosers) < topMovers; i-- {
		if active[i].ReturnPercent >= 0 {
			break
		}
		summary.TopLosers = append(summary.TopLosers, Mover{
			Ticker:        active[i].Ticker,
			ReturnPercent: active[i].ReturnPercent,
			ProfitLoss:    active[i].ProfitLoss,
		})
	}

	// Allocation breakdowns as percentages of total value.
	for sector, value := range sectorValues {
		summary.BySector = append(summary.BySector, AllocationSlice{
			Label:   sector,
			Value:   money.Round2(value),
			Percent: money.Percent(value, summary.TotalValue),
		})
	}
	sort.Slice(summary.BySector, func(i, j int) bool { return summary.BySector[i].Value > summary.BySector[j].Value })

	for _, pos := range positions {
		summary.ByPosition = append(summary.ByPosition, AllocationSlice{
			Label:   pos.Ticker,
			Value:   pos.CurrentValue,
			Percent: money.Percent(pos.CurrentValue, summary.TotalValue),
		})
	}
	sort.Slice(summary.ByPosition, func(i, j int) bool { return summary.ByPosition[i].Value > summary.ByPosition[j].Value })

	return summary
}

// GetSummary returns the cached portfolio summary, computing and caching it
// on a miss.
func (s *enrichmentService) GetSummary(ctx context.Context, userID uint) (*PortfolioSummary, error) {
	key := fmt.Sprintf("portfolio:summary:%d", userID)
	summary, err := cache.GetOrSet(s.store, key, summaryTTL, func() (PortfolioSummary, error) {
		positions, err := s.EnrichHoldings(ctx, userID)
		if err != nil {
			return PortfolioSummary{}, err
		}
		return *s.Summarize(positions), nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// RefreshSummary invalidates the user's cached summary and recomputes it.
func (s *enrichmentService) RefreshSummary(ctx context.Context, userID uint) (*PortfolioSummary, error) {
	s.store.Delete(fmt.Sprintf("portfolio:summary:%d", userID))
	return s.GetSummary(ctx, userID)
}
