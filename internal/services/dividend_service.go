package services

import (
	"context"
	"fmt"
	"sort"
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
	upcomingTTL   = 10 * time.Minute
	projectionTTL = time.Hour

	maxUpcomingDays = 365
)

// dividendService projects payout schedules from historical distributions.
type dividendService struct {
	db     *gorm.DB
	market MarketData
	store  cache.Store
}

// NewDividendService creates a new DividendServicer.
func NewDividendService(db *gorm.DB, market MarketData, store cache.Store) DividendServicer {
	return &dividendService{db: db, market: market, store: store}
}

// frequencyGap maps a frequency tag to its nominal ex-date spacing and the
// number of payouts per year.
var frequencyGap = map[string]struct {
	days       int
	multiplier int
}{
	models.FrequencyMonthly:    {30, 12},
	models.FrequencyQuarterly:  {91, 4},
	models.FrequencySemiAnnual: {182, 2},
	models.FrequencyAnnual:     {365, 1},
}

// InferFrequency classifies a payout cadence from the last up to four
// ex-dates. The average gap between consecutive dates decides the tag.
// Fewer than two data points default to quarterly. Best effort only.
func InferFrequency(exDates []time.Time) string {
	if len(exDates) < 2 {
		return models.FrequencyQuarterly
	}

	sorted := make([]time.Time, len(exDates))
	copy(sorted, exDates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })
	if len(sorted) > 4 {
		sorted = sorted[:4]
	}

	var totalDays float64
	for i := 0; i < len(sorted)-1; i++ {
		totalDays += sorted[i].Sub(sorted[i+1]).Hours() / 24
	}
	avgGap := totalDays / float64(len(sorted)-1)

	switch {
	case avgGap < 35:
		return models.FrequencyMonthly
	case avgGap < 100:
		return models.FrequencyQuarterly
	case avgGap < 200:
		return models.FrequencySemiAnnual
	default:
		return models.FrequencyAnnual
	}
}

// Upcoming projects the expected payouts across the user's holdings within
// the next days (1..365). A ticker with no distribution history simply
// contributes nothing.
func (s *dividendService) Upcoming(ctx context.Context, userID uint, days int) (*UpcomingDividends, error) {
	if days < 1 || days > maxUpcomingDays {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be between 1 and 365")
	}

	key := fmt.Sprintf("dividends:upcoming:%d:%d", userID, days)
	result, err := cache.GetOrSet(s.store, key, upcomingTTL, func() (UpcomingDividends, error) {
		return s.computeUpcoming(ctx, userID, days)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *dividendService) computeUpcoming(ctx context.Context, userID uint, days int) (UpcomingDividends, error) {
	result := UpcomingDividends{Days: days, Dividends: []UpcomingDividend{}}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Order("ticker ASC").Find(&assets).Error; err != nil {
		return result, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, days)

	for _, asset := range assets {
		records, err := s.market.GetDividends(ctx, asset.Ticker)
		if err != nil || len(records) == 0 {
			continue
		}

		s.persistRecords(asset, records)

		// Records arrive sorted by ex-date descending. Project the next
		// ex-dates forward from the latest one at the inferred cadence.
		exDates := make([]time.Time, 0, len(records))
		for _, r := range records {
			exDates = append(exDates, r.ExDate)
		}
		frequency := InferFrequency(exDates)
		gap := frequencyGap[frequency]
		latest := records[0]

		next := latest.ExDate.AddDate(0, 0, gap.days)
		for next.Before(now) {
			next = next.AddDate(0, 0, gap.days)
		}
		for !next.After(horizon) {
			expected := money.Mul(latest.Amount, asset.Shares)
			result.Dividends = append(result.Dividends, UpcomingDividend{
				Ticker:   asset.Ticker,
				ExDate:   next,
				PerShare: latest.Amount,
				Shares:   asset.Shares,
				Expected: expected,
			})
			result.TotalExpected = money.Round2(result.TotalExpected + expected)
			next = next.AddDate(0, 0, gap.days)
		}

		// Already-announced future ex-dates take their real schedule.
		for _, r := range records {
			if r.ExDate.After(now) && !r.ExDate.After(horizon) {
				expected := money.Mul(r.Amount, asset.Shares)
				result.Dividends = append(result.Dividends, UpcomingDividend{
					Ticker:   asset.Ticker,
					ExDate:   r.ExDate,
					PayDate:  r.PayDate,
					PerShare: r.Amount,
					Shares:   asset.Shares,
					Expected: expected,
				})
				result.TotalExpected = money.Round2(result.TotalExpected + expected)
			}
		}
	}

	sort.Slice(result.Dividends, func(i, j int) bool {
		return result.Dividends[i].ExDate.Before(result.Dividends[j].ExDate)
	})
	return result, nil
}

// persistRecords lazily materializes fetched distribution history as
// Dividend rows linked to the holding. Duplicates by (ticker, ex-date) are
// skipped; write failures only log.
func (s *dividendService) persistRecords(asset models.Asset, records []marketdata.DividendRecord) {
	frequency := models.FrequencyQuarterly
	if len(records) >= 2 {
		exDates := make([]time.Time, 0, len(records))
		for _, r := range records {
			exDates = append(exDates, r.ExDate)
		}
		frequency = InferFrequency(exDates)
	}

	for _, r := range records {
		row := models.Dividend{
			Ticker:    asset.Ticker,
			ExDate:    r.ExDate,
			PayDate:   r.PayDate,
			Amount:    r.Amount,
			Frequency: frequency,
			AssetID:   &asset.ID,
		}
		err := s.db.Where("ticker = ? AND ex_date = ?", asset.Ticker, r.ExDate).
			Attrs(row).
			FirstOrCreate(&models.Dividend{}).Error
		if err != nil {
			logger.Get().Warnw("dividend persist failed", "ticker", asset.Ticker, "error", err)
		}
	}
}

// AnnualProjection estimates the yearly dividend income of the whole
// portfolio from the latest per-share amount and the inferred cadence.
func (s *dividendService) AnnualProjection(ctx context.Context, userID uint) (*AnnualProjection, error) {
	key := fmt.Sprintf("dividends:annual:%d", userID)
	result, err := cache.GetOrSet(s.store, key, projectionTTL, func() (AnnualProjection, error) {
		return s.computeProjection(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *dividendService) computeProjection(ctx context.Context, userID uint) (AnnualProjection, error) {
	result := AnnualProjection{Positions: []ProjectedDividend{}}

	var assets []models.Asset
	if err := s.db.Where("user_id = ?", userID).Order("ticker ASC").Find(&assets).Error; err != nil {
		return result, apperrors.Wrap(apperrors.ErrDatabase, err)
	}

	for _, asset := range assets {
		records, err := s.market.GetDividends(ctx, asset.Ticker)
		if err != nil || len(records) == 0 {
			continue
		}

		exDates := make([]time.Time, 0, len(records))
		for _, r := range records {
			exDates = append(exDates, r.ExDate)
		}
		frequency := InferFrequency(exDates)
		gap := frequencyGap[frequency]

		annual := money.Round2(records[0].Amount * float64(gap.multiplier) * asset.Shares)
		result.Positions = append(result.Positions, ProjectedDividend{
			Ticker:       asset.Ticker,
			Frequency:    frequency,
			PerShare:     records[0].Amount,
			Shares:       asset.Shares,
			AnnualAmount: annual,
		})
		result.TotalAnnual = money.Round2(result.TotalAnnual + annual)
	}
	return result, nil
}
