package marketdata

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/patrickacs/stocklio/internal/money"
)

// syntheticSectors is the pool synthetic profiles draw from.
var syntheticSectors = []string{
	"Technology",
	"Healthcare",
	"Financial Services",
	"Consumer Cyclical",
	"Industrials",
	"Energy",
	"Utilities",
	"Real Estate",
}

// syntheticRand returns a generator seeded from the ticker symbol, so the
// same ticker always synthesizes the same placeholder values within and
// across sessions.
func syntheticRand(ticker string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(ticker))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

// SyntheticQuote generates a deterministic placeholder quote for a ticker,
// used when every provider fails and no snapshot row exists.
func SyntheticQuote(ticker string) *Quote {
	rng := syntheticRand(ticker)

	price := money.Round2(5 + rng.Float64()*495)
	change := money.Round4(rng.Float64()*0.1 - 0.05)
	prevClose := money.Round2(price / (1 + change))

	return &Quote{
		Ticker:        ticker,
		Price:         price,
		PreviousClose: prevClose,
		DayChange:     change,
		Volume:        int64(rng.Intn(9_000_000) + 1_000_000),
		AsOf:          time.Now(),
		Synthetic:     true,
	}
}

// SyntheticProfile generates a deterministic placeholder company profile.
func SyntheticProfile(ticker string) *CompanyProfile {
	rng := syntheticRand(ticker)
	quote := SyntheticQuote(ticker)

	return &CompanyProfile{
		Ticker:        ticker,
		Name:          ticker + " Corp.",
		Sector:        syntheticSectors[rng.Intn(len(syntheticSectors))],
		MarketCap:     money.Round2(float64(rng.Intn(490)+10) * 1e9),
		PERatio:       money.Round2(8 + rng.Float64()*32),
		DividendYield: money.Round4(rng.Float64() * 0.05),
		Week52High:    money.Round2(quote.Price * (1.1 + rng.Float64()*0.4)),
		Week52Low:     money.Round2(quote.Price * (0.5 + rng.Float64()*0.4)),
		Synthetic:     true,
	}
}
