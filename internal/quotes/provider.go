// Package quotes defines the market-data provider contract and the lookup
// service that fronts it. Concrete providers live outside this core and are
// injected at wiring time.
package quotes

import (
	"context"
	"time"
)

// Quote is a point-in-time price for a symbol. Prices are in cents.
type Quote struct {
	Symbol        string    `json:"symbol"`
	CurrentPrice  int64     `json:"current_price"`
	Change        int64     `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	LastUpdate    time.Time `json:"last_update"`
	Currency      string    `json:"currency"`
}

// Provider fetches quotes for the asset types it supports. Implementations
// return (nil, nil) for an unknown symbol and an error only on upstream
// failure.
type Provider interface {
	// Name returns the provider's display name for logging.
	Name() string

	// Supports reports whether this provider serves the given asset type.
	Supports(assetType string) bool

	// Quote fetches the current quote for a symbol.
	Quote(ctx context.Context, symbol string) (*Quote, error)
}
