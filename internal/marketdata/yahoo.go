package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"
)

const yahooUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"

// periodToRange maps API history periods to Yahoo chart ranges.
var periodToRange = map[string]string{
	"1mo": "1mo",
	"3mo": "3mo",
	"6mo": "6mo",
	"1y":  "1y",
	"5y":  "5y",
}

// yahooChartResult is a single result from the v8 chart endpoint.
type yahooChartResult struct {
	Meta struct {
		Symbol              string  `json:"symbol"`
		RegularMarketPrice  float64 `json:"regularMarketPrice"`
		ChartPreviousClose  float64 `json:"chartPreviousClose"`
		RegularMarketVolume int64   `json:"regularMarketVolume"`
		RegularMarketTime   int64   `json:"regularMarketTime"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []float64 `json:"open"`
			High   []float64 `json:"high"`
			Low    []float64 `json:"low"`
			Close  []float64 `json:"close"`
			Volume []int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
	Events struct {
		Dividends map[string]struct {
			Amount float64 `json:"amount"`
			Date   int64   `json:"date"`
		} `json:"dividends"`
	} `json:"events"`
}

// yahooChartResponse is the v8 chart API envelope.
type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *json.RawMessage   `json:"error"`
	} `json:"chart"`
}

// yahooRawValue is Yahoo's {raw, fmt} number wrapper.
type yahooRawValue struct {
	Raw float64 `json:"raw"`
}

// yahooSummaryResponse is the v10 quoteSummary envelope, reduced to the
// modules we request.
type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			AssetProfile struct {
				Sector   string `json:"sector"`
				Industry string `json:"industry"`
			} `json:"assetProfile"`
			SummaryDetail struct {
				MarketCap        yahooRawValue `json:"marketCap"`
				TrailingPE       yahooRawValue `json:"trailingPE"`
				DividendYield    yahooRawValue `json:"dividendYield"`
				FiftyTwoWeekHigh yahooRawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  yahooRawValue `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
			Price struct {
				LongName string `json:"longName"`
			} `json:"price"`
		} `json:"result"`
		Error *json.RawMessage `json:"error"`
	} `json:"quoteSummary"`
}

// YahooProvider fetches market data from the public Yahoo Finance endpoints.
// It needs no API key and is the primary provider in the chain.
type YahooProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
}

// NewYahooProvider creates a Yahoo Finance provider rooted at baseURL
// (e.g. "https://query1.finance.yahoo.com").
func NewYahooProvider(httpClient *http.Client, baseURL string) *YahooProvider {
	return &YahooProvider{httpClient: httpClient, baseURL: baseURL}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Quote fetches the current quote from the v8 chart endpoint.
func (p *YahooProvider) Quote(ctx context.Context, ticker string) (*Quote, error) {
	chart, err := p.fetchChart(ctx, ticker, "1d", "")
	if err != nil {
		return nil, err
	}

	meta := chart.Meta
	if meta.RegularMarketPrice <= 0 {
		return nil, ErrNoData
	}

	change := 0.0
	if meta.ChartPreviousClose > 0 {
		change = (meta.RegularMarketPrice - meta.ChartPreviousClose) / meta.ChartPreviousClose
	}

	asOf := time.Now()
	if meta.RegularMarketTime > 0 {
		asOf = time.Unix(meta.RegularMarketTime, 0)
	}

	return &Quote{
		Ticker:        ticker,
		Price:         meta.RegularMarketPrice,
		PreviousClose: meta.ChartPreviousClose,
		DayChange:     change,
		Volume:        meta.RegularMarketVolume,
		AsOf:          asOf,
	}, nil
}

// CompanyProfile fetches company facts from the quoteSummary endpoint.
func (p *YahooProvider) CompanyProfile(ctx context.Context, ticker string) (*CompanyProfile, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=assetProfile,summaryDetail,price",
		p.baseURL, url.PathEscape(ticker))

	var resp yahooSummaryResponse
	if err := p.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, ErrNoData
	}

	r := resp.QuoteSummary.Result[0]
	name := r.Price.LongName
	if name == "" {
		name = ticker
	}

	return &CompanyProfile{
		Ticker:        ticker,
		Name:          name,
		Sector:        r.AssetProfile.Sector,
		Industry:      r.AssetProfile.Industry,
		MarketCap:     r.SummaryDetail.MarketCap.Raw,
		PERatio:       r.SummaryDetail.TrailingPE.Raw,
		DividendYield: r.SummaryDetail.DividendYield.Raw,
		Week52High:    r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		Week52Low:     r.SummaryDetail.FiftyTwoWeekLow.Raw,
	}, nil
}

// Dividends fetches dividend events from the chart endpoint over the last
// two years, most recent first.
func (p *YahooProvider) Dividends(ctx context.Context, ticker string) ([]DividendRecord, error) {
	chart, err := p.fetchChart(ctx, ticker, "2y", "div")
	if err != nil {
		return nil, err
	}

	records := make([]DividendRecord, 0, len(chart.Events.Dividends))
	for _, d := range chart.Events.Dividends {
		if d.Amount <= 0 || d.Date == 0 {
			continue
		}
		records = append(records, DividendRecord{
			Ticker: ticker,
			ExDate: time.Unix(d.Date, 0).UTC(),
			Amount: d.Amount,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ExDate.After(records[j].ExDate) })
	return records, nil
}

// History fetches a daily price series for the given period.
func (p *YahooProvider) History(ctx context.Context, ticker string, period string) ([]PricePoint, error) {
	chartRange, ok := periodToRange[period]
	if !ok {
		return nil, fmt.Errorf("marketdata: unknown period %q", period)
	}

	chart, err := p.fetchChart(ctx, ticker, chartRange, "")
	if err != nil {
		return nil, err
	}
	if len(chart.Indicators.Quote) == 0 {
		return nil, ErrNoData
	}
	bars := chart.Indicators.Quote[0]

	points := make([]PricePoint, 0, len(chart.Timestamp))
	for i, ts := range chart.Timestamp {
		if i >= len(bars.Close) || bars.Close[i] <= 0 {
			continue
		}
		point := PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: bars.Close[i],
		}
		if i < len(bars.Open) {
			point.Open = bars.Open[i]
		}
		if i < len(bars.High) {
			point.High = bars.High[i]
		}
		if i < len(bars.Low) {
			point.Low = bars.Low[i]
		}
		if i < len(bars.Volume) {
			point.Volume = bars.Volume[i]
		}
		points = append(points, point)
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}
	return points, nil
}

// fetchChart calls the v8 chart endpoint and returns the first result.
func (p *YahooProvider) fetchChart(ctx context.Context, ticker, chartRange, events string) (*yahooChartResult, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		p.baseURL, url.PathEscape(ticker), chartRange)
	if events != "" {
		u += "&events=" + events
	}

	var resp yahooChartResponse
	if err := p.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 {
		return nil, ErrNoData
	}
	return &resp.Chart.Result[0], nil
}

// getJSON issues a GET request and decodes the JSON response into out.
func (p *YahooProvider) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUA)

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
