package marketdata

import "testing"

func TestSyntheticQuoteIsDeterministic(t *testing.T) {
	a := SyntheticQuote("AAPL")
	b := SyntheticQuote("AAPL")

	if a.Price != b.Price || a.DayChange != b.DayChange || a.Volume != b.Volume {
		t.Errorf("synthetic quote not stable for same ticker: %+v vs %+v", a, b)
	}
	if !a.Synthetic {
		t.Error("expected synthetic flag set")
	}
}

func TestSyntheticQuoteVariesByTicker(t *testing.T) {
	a := SyntheticQuote("AAPL")
	b := SyntheticQuote("MSFT")

	if a.Price == b.Price && a.Volume == b.Volume {
		t.Error("expected different tickers to synthesize different values")
	}
}

func TestSyntheticQuoteRanges(t *testing.T) {
	for _, ticker := range []string{"A", "BB", "CCC", "DDDD", "LONGTICKER"} {
		q := SyntheticQuote(ticker)
		if q.Price < 5 || q.Price >= 500 {
			t.Errorf("%s: price %v out of range", ticker, q.Price)
		}
		if q.DayChange < -0.05 || q.DayChange > 0.05 {
			t.Errorf("%s: day change %v out of range", ticker, q.DayChange)
		}
		if q.PreviousClose <= 0 {
			t.Errorf("%s: non-positive previous close %v", ticker, q.PreviousClose)
		}
	}
}

func TestSyntheticProfileIsDeterministic(t *testing.T) {
	a := SyntheticProfile("NVDA")
	b := SyntheticProfile("NVDA")

	if a.Sector != b.Sector || a.MarketCap != b.MarketCap || a.PERatio != b.PERatio {
		t.Errorf("synthetic profile not stable for same ticker: %+v vs %+v", a, b)
	}
	if a.Week52High <= a.Week52Low {
		t.Errorf("expected 52-week high above low: %+v", a)
	}
}
