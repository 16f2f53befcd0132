package services

import (
	"context"
	"time"

	"github.com/patrickacs/stocklio/internal/marketdata"
	"github.com/patrickacs/stocklio/internal/models"
	"github.com/patrickacs/stocklio/internal/pagination"
)

// MarketData is the slice of the market-data gateway the services consume.
type MarketData interface {
	GetQuote(ctx context.Context, ticker string) (*marketdata.Quote, error)
	GetCompanyInfo(ctx context.Context, ticker string) (*marketdata.CompanyProfile, error)
	GetDividends(ctx context.Context, ticker string) ([]marketdata.DividendRecord, error)
	GetHistoricalSeries(ctx context.Context, ticker, period string) ([]marketdata.PricePoint, error)
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	DeleteUser(id uint) error
}

// AssetServicer defines the contract for portfolio-position business logic.
type AssetServicer interface {
	AddAsset(userID uint, ticker string, shares, avgCost float64, purchaseDate *time.Time, notes string) (*models.Asset, error)
	GetUserAssets(userID uint) ([]models.Asset, error)
	GetAssetByID(userID, assetID uint) (*models.Asset, error)
	UpdateAsset(userID, assetID uint, shares, avgCost *float64, notes *string) (*models.Asset, error)
	DeleteAsset(userID, assetID uint) error
}

// EnrichedPosition is one holding merged with market data and derived
// metrics. All monetary fields are rounded to two decimals at computation.
type EnrichedPosition struct {
	AssetID        uint      `json:"asset_id"`
	Ticker         string    `json:"ticker"`
	Name           string    `json:"name"`
	Sector         string    `json:"sector"`
	Shares         float64   `json:"shares"`
	AvgCost        float64   `json:"avg_cost"`
	CurrentPrice   float64   `json:"current_price"`
	CurrentValue   float64   `json:"current_value"`
	TotalCost      float64   `json:"total_cost"`
	ProfitLoss     float64   `json:"profit_loss"`
	ReturnPercent  float64   `json:"return_percent"`
	DayChange      float64   `json:"day_change"` // fraction
	DayChangeValue float64   `json:"day_change_value"`
	PurchaseDate   time.Time `json:"purchase_date"`
	Notes          string    `json:"notes,omitempty"`
	Degraded       bool      `json:"degraded,omitempty"`
}

// AllocationSlice is one wedge of an allocation breakdown.
type AllocationSlice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Mover is a top gainer/loser entry.
type Mover struct {
	Ticker        string  `json:"ticker"`
	ReturnPercent float64 `json:"return_percent"`
	ProfitLoss    float64 `json:"profit_loss"`
}

// PortfolioSummary is the aggregate view over a user's enriched positions.
type PortfolioSummary struct {
	AssetCount       int               `json:"asset_count"`
	TotalValue       float64           `json:"total_value"`
	TotalCost        float64           `json:"total_cost"`
	ProfitLoss       float64           `json:"profit_loss"`
	ReturnPercent    float64           `json:"return_percent"`
	DayChangeValue   float64           `json:"day_change_value"`
	DayChangePercent float64           `json:"day_change_percent"`
	TopGainers       []Mover           `json:"top_gainers"`
	TopLosers        []Mover           `json:"top_losers"`
	BySector         []AllocationSlice `json:"by_sector"`
	ByPosition       []AllocationSlice `json:"by_position"`
}

// EnrichmentServicer defines the contract for the cache-and-enrich pipeline.
type EnrichmentServicer interface {
	EnrichHoldings(ctx context.Context, userID uint) ([]EnrichedPosition, error)
	Summarize(positions []EnrichedPosition) *PortfolioSummary
	GetSummary(ctx context.Context, userID uint) (*PortfolioSummary, error)
	RefreshSummary(ctx context.Context, userID uint) (*PortfolioSummary, error)
}

// UpcomingDividend is one expected payout within the requested window.
type UpcomingDividend struct {
	Ticker   string     `json:"ticker"`
	ExDate   time.Time  `json:"ex_date"`
	PayDate  *time.Time `json:"pay_date,omitempty"`
	PerShare float64    `json:"per_share"`
	Shares   float64    `json:"shares"`
	Expected float64    `json:"expected"`
}

// UpcomingDividends is the response for the upcoming-dividends window.
type UpcomingDividends struct {
	Days          int                `json:"days"`
	TotalExpected float64            `json:"total_expected"`
	Dividends     []UpcomingDividend `json:"dividends"`
}

// ProjectedDividend is one holding's annualized dividend estimate. The
// frequency classification is a best-effort heuristic over historical
// ex-date spacing, not authoritative.
type ProjectedDividend struct {
	Ticker       string  `json:"ticker"`
	Frequency    string  `json:"frequency"`
	PerShare     float64 `json:"per_share"`
	Shares       float64 `json:"shares"`
	AnnualAmount float64 `json:"annual_amount"`
}

// AnnualProjection is the response for the annual-dividend projection.
type AnnualProjection struct {
	TotalAnnual float64             `json:"total_annual"`
	Positions   []ProjectedDividend `json:"positions"`
}

// DividendServicer defines the contract for dividend business logic.
type DividendServicer interface {
	Upcoming(ctx context.Context, userID uint, days int) (*UpcomingDividends, error)
	AnnualProjection(ctx context.Context, userID uint) (*AnnualProjection, error)
}

// ScreenerFilter holds the multi-criteria screener parameters. Nil range
// bounds are unconstrained.
type ScreenerFilter struct {
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	MinMarketCap *float64 `json:"min_market_cap"`
	MaxMarketCap *float64 `json:"max_market_cap"`
	MinPERatio   *float64 `json:"min_pe_ratio"`
	MaxPERatio   *float64 `json:"max_pe_ratio"`
	MinYield     *float64 `json:"min_yield"`
	MaxYield     *float64 `json:"max_yield"`
	Sectors      []string `json:"sectors"`
	Limit        int      `json:"limit"`
}

// ScreenerServicer defines the contract for the stock screener.
type ScreenerServicer interface {
	Search(ctx context.Context, filter ScreenerFilter) ([]models.Stock, error)
}

// StockDetail merges a quote with company facts for the detail endpoint.
type StockDetail struct {
	Ticker        string    `json:"ticker"`
	Name          string    `json:"name"`
	Sector        string    `json:"sector"`
	Industry      string    `json:"industry,omitempty"`
	Price         float64   `json:"price"`
	DayChange     float64   `json:"day_change"`
	Volume        int64     `json:"volume"`
	MarketCap     float64   `json:"market_cap"`
	PERatio       float64   `json:"pe_ratio"`
	DividendYield float64   `json:"dividend_yield"`
	Week52High    float64   `json:"week_52_high"`
	Week52Low     float64   `json:"week_52_low"`
	AsOf          time.Time `json:"as_of"`
	Synthetic     bool      `json:"synthetic,omitempty"`
}

// StockServicer defines the contract for single-stock lookups.
type StockServicer interface {
	Detail(ctx context.Context, ticker string) (*StockDetail, error)
	Search(ctx context.Context, query string, limit int) ([]models.Stock, error)
	List(ctx context.Context, req pagination.PageRequest) (pagination.PageResponse[models.Stock], error)
	History(ctx context.Context, ticker, period string) ([]marketdata.PricePoint, error)
}
