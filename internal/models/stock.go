package models

import "time"

// Stock is a denormalized last-known market snapshot per ticker, upserted
// whenever fresh quote data is fetched. It doubles as a cheap fallback data
// source when every external provider fails, and feeds the screener.
// Immutable identity, no soft deletes — no Base embed.
type Stock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Ticker        string    `gorm:"uniqueIndex;not null" json:"ticker"`
	Name          string    `json:"name"`
	Sector        string    `gorm:"index" json:"sector"`
	Price         float64   `json:"price"`
	DayChange     float64   `json:"day_change"` // fraction, e.g. 0.025 for 2.5%
	PERatio       float64   `gorm:"column:pe_ratio" json:"pe_ratio"`
	DividendYield float64   `json:"dividend_yield"`
	MarketCap     float64   `json:"market_cap"`
	Week52High    float64   `gorm:"column:week52_high" json:"week_52_high"`
	Week52Low     float64   `gorm:"column:week52_low" json:"week_52_low"`
	Volume        int64     `json:"volume"`
	UpdatedAt     time.Time `json:"updated_at"`
}
