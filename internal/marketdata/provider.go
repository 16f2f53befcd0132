// Package marketdata resolves quotes, company profiles, dividends, and price
// history for tickers, hiding the unreliability of upstream providers behind
// a cache, a fixed-priority fallback chain, and a synthetic-data generator.
package marketdata

import (
	"context"
	"errors"
	"time"
)

// ErrNoData indicates a provider responded but had no usable data for the
// requested ticker.
var ErrNoData = errors.New("marketdata: no data for ticker")

// ErrNotSupported indicates a provider does not implement the requested
// data type; the chain simply moves on to the next provider.
var ErrNotSupported = errors.New("marketdata: not supported by provider")

// ValidPeriods are the history periods accepted by GetHistoricalSeries.
var ValidPeriods = map[string]bool{
	"1mo": true, "3mo": true, "6mo": true, "1y": true, "5y": true,
}

// Quote is a current market quote for one ticker. DayChange is a fraction
// (0.025 means 2.5%), never a pre-multiplied percent.
type Quote struct {
	Ticker        string    `json:"ticker"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	DayChange     float64   `json:"day_change"`
	Volume        int64     `json:"volume"`
	AsOf          time.Time `json:"as_of"`
	Synthetic     bool      `json:"synthetic,omitempty"`
}

// CompanyProfile holds slow-changing company facts for one ticker.
type CompanyProfile struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Industry      string  `json:"industry,omitempty"`
	MarketCap     float64 `json:"market_cap"`
	PERatio       float64 `json:"pe_ratio"`
	DividendYield float64 `json:"dividend_yield"`
	Week52High    float64 `json:"week_52_high"`
	Week52Low     float64 `json:"week_52_low"`
	Synthetic     bool    `json:"synthetic,omitempty"`
}

// DividendRecord is one per-share cash distribution.
type DividendRecord struct {
	Ticker  string     `json:"ticker"`
	ExDate  time.Time  `json:"ex_date"`
	PayDate *time.Time `json:"pay_date,omitempty"`
	Amount  float64    `json:"amount"`
}

// PricePoint is one bar of a historical price series.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Provider fetches market data for a single ticker from one upstream source.
// Providers return errors freely; the gateway swallows them and moves down
// the chain.
type Provider interface {
	// Name returns the provider's display name for logging.
	Name() string

	// Quote fetches the current quote for a ticker.
	Quote(ctx context.Context, ticker string) (*Quote, error)

	// CompanyProfile fetches company facts for a ticker.
	CompanyProfile(ctx context.Context, ticker string) (*CompanyProfile, error)

	// Dividends fetches the dividend history for a ticker, most recent first.
	Dividends(ctx context.Context, ticker string) ([]DividendRecord, error)

	// History fetches a historical price series for a ticker over a period
	// such as "1mo" or "1y".
	History(ctx context.Context, ticker string, period string) ([]PricePoint, error)
}
