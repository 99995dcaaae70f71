package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"oco_trader/internal/domain"
)

type stubGateway struct {
	snap     *domain.SymbolSnapshot
	snapErr  error
	avg      decimal.Decimal
	avgErr   error
	avgCalls int
}

func (s *stubGateway) Ping(ctx context.Context) error { return nil }

func (s *stubGateway) SymbolInfo(ctx context.Context, symbol string) (*domain.SymbolSnapshot, error) {
	return s.snap, s.snapErr
}

func (s *stubGateway) AvgPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	s.avgCalls++
	return s.avg, s.avgErr
}

func (s *stubGateway) MarketBuy(ctx context.Context, symbol string, quoteTotal decimal.Decimal) (int64, error) {
	return 0, errors.New("not scripted")
}

func (s *stubGateway) LimitBuy(ctx context.Context, symbol string, qty, price decimal.Decimal) (int64, error) {
	return 0, errors.New("not scripted")
}

func (s *stubGateway) GetOrder(ctx context.Context, symbol string, orderID int64) (domain.OrderInfo, error) {
	return domain.OrderInfo{}, errors.New("not scripted")
}

func (s *stubGateway) CancelOrder(ctx context.Context, symbol string, orderID int64) error {
	return errors.New("not scripted")
}

func (s *stubGateway) CreateOCOSell(ctx context.Context, spec domain.OrderSpec) (*domain.OCOResult, error) {
	return nil, errors.New("not scripted")
}

func tradeableSnapshot() *domain.SymbolSnapshot {
	return &domain.SymbolSnapshot{
		Symbol:               "ETHUSDT",
		Status:               domain.StatusTrading,
		BaseAsset:            "ETH",
		QuoteAsset:           "USDT",
		IsSpotTradingAllowed: true,
		OCOAllowed:           true,
		Filters: []domain.FilterSnapshot{
			{Type: domain.FilterTypePrice, MinPrice: "0.01", MaxPrice: "100000", TickSize: "0.01"},
			{Type: domain.FilterTypePercentPrice, MultiplierUp: "5", MultiplierDown: "0.2", AvgPriceMins: 5},
			{Type: domain.FilterTypeLotSize, MinQty: "0.0001", MaxQty: "9000", StepSize: "0.0001"},
			{Type: domain.FilterTypeMarketLotSize, MinQty: "10", MaxQty: "100000", StepSize: "0"},
		},
	}
}

func TestGetProfile(t *testing.T) {
	gw := &stubGateway{snap: tradeableSnapshot(), avg: decimal.RequireFromString("3000.50")}
	svc := NewSymbolService(gw)

	profile, err := svc.GetProfile(context.Background(), "ETHUSDT")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.Symbol != "ETHUSDT" {
		t.Errorf("Symbol = %q, want ETHUSDT", profile.Symbol)
	}
	if profile.PricePrecision != 2 || profile.QtyPrecision != 4 {
		t.Errorf("precisions = %d/%d, want 2/4", profile.PricePrecision, profile.QtyPrecision)
	}
	if !profile.AvgPrice.Equal(gw.avg) {
		t.Errorf("AvgPrice = %s, want %s", profile.AvgPrice, gw.avg)
	}
}

func TestGetProfile_SymbolInfoErrorPropagates(t *testing.T) {
	gw := &stubGateway{snapErr: &domain.ConfigError{Field: "symbol", Err: domain.ErrSymbolNotFound}}
	svc := NewSymbolService(gw)

	_, err := svc.GetProfile(context.Background(), "NOPEUSDT")
	if !errors.Is(err, domain.ErrSymbolNotFound) {
		t.Fatalf("expected ErrSymbolNotFound, got %v", err)
	}
	if gw.avgCalls != 0 {
		t.Errorf("avg price fetched %d times after a failed lookup, want 0", gw.avgCalls)
	}
}

func TestGetProfile_AvgPriceErrorPropagates(t *testing.T) {
	gw := &stubGateway{
		snap:   tradeableSnapshot(),
		avgErr: domain.NewNetworkError("avg_price", errors.New("connection reset")),
	}
	svc := NewSymbolService(gw)

	_, err := svc.GetProfile(context.Background(), "ETHUSDT")
	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected the network error to propagate, got %v", err)
	}
}

func TestGetProfile_UntradeableSymbolRejected(t *testing.T) {
	snap := tradeableSnapshot()
	snap.Status = "BREAK"
	gw := &stubGateway{snap: snap, avg: decimal.RequireFromString("3000.50")}
	svc := NewSymbolService(gw)

	_, err := svc.GetProfile(context.Background(), "ETHUSDT")
	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a ConfigError, got %v", err)
	}
}
