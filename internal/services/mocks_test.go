package services

import (
	"context"

	"github.com/patrickacs/stocklio/internal/marketdata"
)

// fakeMarket is a MarketData stub with overridable behavior per call.
type fakeMarket struct {
	quoteFunc    func(ticker string) (*marketdata.Quote, error)
	profileFunc  func(ticker string) (*marketdata.CompanyProfile, error)
	dividendFunc func(ticker string) ([]marketdata.DividendRecord, error)
	historyFunc  func(ticker, period string) ([]marketdata.PricePoint, error)
}

func (f *fakeMarket) GetQuote(_ context.Context, ticker string) (*marketdata.Quote, error) {
	if f.quoteFunc != nil {
		return f.quoteFunc(ticker)
	}
	return &marketdata.Quote{Ticker: ticker, Price: 100, PreviousClose: 100}, nil
}

func (f *fakeMarket) GetCompanyInfo(_ context.Context, ticker string) (*marketdata.CompanyProfile, error) {
	if f.profileFunc != nil {
		return f.profileFunc(ticker)
	}
	return &marketdata.CompanyProfile{Ticker: ticker, Name: ticker + " Inc.", Sector: "Technology"}, nil
}

func (f *fakeMarket) GetDividends(_ context.Context, ticker string) ([]marketdata.DividendRecord, error) {
	if f.dividendFunc != nil {
		return f.dividendFunc(ticker)
	}
	return []marketdata.DividendRecord{}, nil
}

func (f *fakeMarket) GetHistoricalSeries(_ context.Context, ticker, period string) ([]marketdata.PricePoint, error) {
	if f.historyFunc != nil {
		return f.historyFunc(ticker, period)
	}
	return []marketdata.PricePoint{}, nil
}
