package quotes

import (
	"context"
	"strings"

	"moneta/internal/logger"
)

// Service routes quote lookups to the first provider supporting the asset
// type. Upstream failures are logged and surfaced as a miss (nil quote),
// never as an error: quote lookups are best-effort by contract.
type Service struct {
	providers []Provider
}

// NewService creates a quote lookup service over the given providers.
func NewService(providers ...Provider) *Service {
	return &Service{providers: providers}
}

// Lookup returns the current quote for a symbol, or nil when no provider
// supports the asset type, the symbol is unknown, or the upstream fails.
func (s *Service) Lookup(ctx context.Context, symbol, assetType string) *Quote {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil
	}

	for _, p := range s.providers {
		if !p.Supports(assetType) {
			continue
		}

		quote, err := p.Quote(ctx, symbol)
		if err != nil {
			logger.Get().Warnw("quote provider failed",
				"provider", p.Name(),
				"symbol", symbol,
				"asset_type", assetType,
				"error", err.Error(),
			)
			continue
		}
		if quote != nil {
			return quote
		}
	}

	return nil
}
