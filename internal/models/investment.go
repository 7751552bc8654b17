package models

import "time"

// AssetType represents the type of investment asset.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeETF    AssetType = "etf"
	AssetTypeCrypto AssetType = "crypto"
)

// Investment represents a holding. CurrentPrice is in cents per unit and is
// updated manually or from a quote lookup; no valuation math happens here.
type Investment struct {
	Base
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	AccountID    *uint     `json:"account_id,omitempty"`
	Symbol       string    `gorm:"not null" json:"symbol"`
	Name         string    `json:"name"`
	AssetType    AssetType `gorm:"not null" json:"asset_type"`
	Quantity     float64   `gorm:"not null" json:"quantity"`
	CostBasis    int64     `gorm:"not null" json:"cost_basis"` // total purchase cost, cents
	CurrentPrice int64     `json:"current_price"`              // cents per unit
	LastUpdated  time.Time `json:"last_updated"`
	Currency     string    `gorm:"not null;default:'USD'" json:"currency"`

	Account *Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
