package models

import "time"

// Asset represents one portfolio position. A user holds at most one live row
// per ticker: adding shares of an already-held ticker merges into the existing
// row with a recomputed weighted-average cost. The unique index is partial so
// soft-deleted tombstones do not block re-adding the same ticker.
type Asset struct {
	Base
	UserID       uint       `gorm:"not null;uniqueIndex:uq_assets_user_ticker,where:deleted_at IS NULL" json:"user_id"`
	Ticker       string     `gorm:"not null;uniqueIndex:uq_assets_user_ticker" json:"ticker"`
	Shares       float64    `gorm:"not null" json:"shares"`
	AvgCost      float64    `gorm:"not null" json:"avg_cost"`
	PurchaseDate time.Time  `json:"purchase_date"`
	Notes        string     `json:"notes"`
	Dividends    []Dividend `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"dividends,omitempty"`
}
