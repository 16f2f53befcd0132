package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AlphaVantageProvider fetches market data from the Alpha Vantage REST API.
// It requires an API key and sits second in the chain. Alpha Vantage has no
// dividend-calendar endpoint, so Dividends reports ErrNotSupported.
type AlphaVantageProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewAlphaVantageProvider creates an Alpha Vantage provider rooted at
// baseURL (e.g. "https://www.alphavantage.co").
func NewAlphaVantageProvider(httpClient *http.Client, baseURL, apiKey string) *AlphaVantageProvider {
	return &AlphaVantageProvider{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey}
}

// Name returns the provider's display name.
func (p *AlphaVantageProvider) Name() string { return "Alpha Vantage" }

// avGlobalQuote is the GLOBAL_QUOTE payload. Alpha Vantage returns every
// number as a string.
type avGlobalQuote struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		PreviousClose string `json:"08. previous close"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// Quote fetches the current quote via the GLOBAL_QUOTE function.
func (p *AlphaVantageProvider) Quote(ctx context.Context, ticker string) (*Quote, error) {
	var resp avGlobalQuote
	if err := p.call(ctx, "GLOBAL_QUOTE", ticker, nil, &resp); err != nil {
		return nil, err
	}

	price, err := strconv.ParseFloat(resp.GlobalQuote.Price, 64)
	if err != nil || price <= 0 {
		return nil, ErrNoData
	}
	prevClose, _ := strconv.ParseFloat(resp.GlobalQuote.PreviousClose, 64)
	volume, _ := strconv.ParseInt(resp.GlobalQuote.Volume, 10, 64)

	// "10. change percent" looks like "1.2345%"; stored as a fraction.
	change := 0.0
	if pct := strings.TrimSuffix(resp.GlobalQuote.ChangePercent, "%"); pct != "" {
		if parsed, err := strconv.ParseFloat(pct, 64); err == nil {
			change = parsed / 100
		}
	}

	return &Quote{
		Ticker:        ticker,
		Price:         price,
		PreviousClose: prevClose,
		DayChange:     change,
		Volume:        volume,
		AsOf:          time.Now(),
	}, nil
}

// avOverview is the OVERVIEW payload, reduced to the fields we use.
type avOverview struct {
	Symbol         string `json:"Symbol"`
	Name           string `json:"Name"`
	Sector         string `json:"Sector"`
	Industry       string `json:"Industry"`
	MarketCap      string `json:"MarketCapitalization"`
	PERatio        string `json:"PERatio"`
	DividendYield  string `json:"DividendYield"`
	FiftyTwoWkHigh string `json:"52WeekHigh"`
	FiftyTwoWkLow  string `json:"52WeekLow"`
}

// CompanyProfile fetches company facts via the OVERVIEW function.
func (p *AlphaVantageProvider) CompanyProfile(ctx context.Context, ticker string) (*CompanyProfile, error) {
	var resp avOverview
	if err := p.call(ctx, "OVERVIEW", ticker, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Symbol == "" {
		return nil, ErrNoData
	}

	return &CompanyProfile{
		Ticker:        ticker,
		Name:          resp.Name,
		Sector:        titleCaseSector(resp.Sector),
		Industry:      resp.Industry,
		MarketCap:     avFloat(resp.MarketCap),
		PERatio:       avFloat(resp.PERatio),
		DividendYield: avFloat(resp.DividendYield),
		Week52High:    avFloat(resp.FiftyTwoWkHigh),
		Week52Low:     avFloat(resp.FiftyTwoWkLow),
	}, nil
}

// Dividends is not available from Alpha Vantage.
func (p *AlphaVantageProvider) Dividends(_ context.Context, _ string) ([]DividendRecord, error) {
	return nil, ErrNotSupported
}

// avDailySeries is the TIME_SERIES_DAILY payload.
type avDailySeries struct {
	Series map[string]struct {
		Open   string `json:"1. open"`
		High   string `json:"2. high"`
		Low    string `json:"3. low"`
		Close  string `json:"4. close"`
		Volume string `json:"5. volume"`
	} `json:"Time Series (Daily)"`
}

// periodToDays bounds a history period to a number of calendar days.
var periodToDays = map[string]int{
	"1mo": 31,
	"3mo": 92,
	"6mo": 183,
	"1y":  365,
	"5y":  1826,
}

// History fetches a daily series via TIME_SERIES_DAILY and trims it to the
// requested period.
func (p *AlphaVantageProvider) History(ctx context.Context, ticker string, period string) ([]PricePoint, error) {
	days, ok := periodToDays[period]
	if !ok {
		return nil, fmt.Errorf("marketdata: unknown period %q", period)
	}

	extra := url.Values{}
	if days > 100 {
		extra.Set("outputsize", "full")
	}

	var resp avDailySeries
	if err := p.call(ctx, "TIME_SERIES_DAILY", ticker, extra, &resp); err != nil {
		return nil, err
	}
	if len(resp.Series) == 0 {
		return nil, ErrNoData
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	points := make([]PricePoint, 0, len(resp.Series))
	for date, bar := range resp.Series {
		day, err := time.Parse("2006-01-02", date)
		if err != nil || day.Before(cutoff) {
			continue
		}
		volume, _ := strconv.ParseInt(bar.Volume, 10, 64)
		points = append(points, PricePoint{
			Date:   day,
			Open:   avFloat(bar.Open),
			High:   avFloat(bar.High),
			Low:    avFloat(bar.Low),
			Close:  avFloat(bar.Close),
			Volume: volume,
		})
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// call issues one Alpha Vantage API request.
func (p *AlphaVantageProvider) call(ctx context.Context, function, ticker string, extra url.Values, out interface{}) error {
	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", ticker)
	q.Set("apikey", p.apiKey)
	for key, values := range extra {
		for _, v := range values {
			q.Add(key, v)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// avFloat parses Alpha Vantage's string numbers, mapping "None" and parse
// failures to zero.
func avFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// titleCaseSector converts Alpha Vantage's ALL-CAPS sector names to the
// conventional form used by the rest of the system.
func titleCaseSector(s string) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
