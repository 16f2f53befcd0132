package models

import "time"

// Dividend frequency tags.
const (
	FrequencyMonthly    = "monthly"
	FrequencyQuarterly  = "quarterly"
	FrequencySemiAnnual = "semi-annual"
	FrequencyAnnual     = "annual"
)

// Dividend represents a scheduled or historical per-share cash distribution
// for a ticker. Rows are created lazily the first time upcoming-dividend data
// is fetched and may optionally be linked to one asset.
type Dividend struct {
	Base
	Ticker    string     `gorm:"not null;index" json:"ticker"`
	ExDate    time.Time  `gorm:"not null" json:"ex_date"`
	PayDate   *time.Time `json:"pay_date,omitempty"`
	Amount    float64    `gorm:"not null" json:"amount"`
	Frequency string     `json:"frequency"`
	AssetID   *uint      `json:"asset_id,omitempty"`
}
