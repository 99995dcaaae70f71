package service

import (
	"context"
	"log/slog"

	"oco_trader/internal/domain"
)

// SymbolService builds tradeable symbol profiles from live exchange data.
type SymbolService struct {
	gw     domain.ExchangeGateway
	logger *slog.Logger
}

// NewSymbolService creates a new SymbolService instance
func NewSymbolService(gw domain.ExchangeGateway) *SymbolService {
	return &SymbolService{
		gw:     gw,
		logger: slog.Default().With("module", "symbol_service"),
	}
}

// GetProfile fetches the symbol metadata and average price, then resolves
// them into an immutable profile. Any trading restriction or malformed
// filter surfaces as a ConfigError before an order is ever placed.
func (s *SymbolService) GetProfile(ctx context.Context, symbol string) (*domain.SymbolProfile, error) {
	snap, err := s.gw.SymbolInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}

	avgPrice, err := s.gw.AvgPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}

	profile, err := domain.BuildSymbolProfile(snap, avgPrice)
	if err != nil {
		return nil, err
	}

	s.logger.Info("symbol profile ready",
		"symbol", profile.Symbol,
		"avg_price", profile.AvgPrice.String(),
		"price_precision", profile.PricePrecision,
		"qty_precision", profile.QtyPrecision)
	return profile, nil
}
