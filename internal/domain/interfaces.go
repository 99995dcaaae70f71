package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeGateway is the wire-level contract to the exchange, abstracted
// away from transport and authentication. Submission calls (MarketBuy,
// LimitBuy, CreateOCOSell) are invoked at most once per logical order;
// GetOrder and CancelOrder are safe to retry.
type ExchangeGateway interface {
	Ping(ctx context.Context) error
	SymbolInfo(ctx context.Context, symbol string) (*SymbolSnapshot, error)
	AvgPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	MarketBuy(ctx context.Context, symbol string, quoteTotal decimal.Decimal) (int64, error)
	LimitBuy(ctx context.Context, symbol string, qty, price decimal.Decimal) (int64, error)
	GetOrder(ctx context.Context, symbol string, orderID int64) (OrderInfo, error)
	CancelOrder(ctx context.Context, symbol string, orderID int64) error
	CreateOCOSell(ctx context.Context, spec OrderSpec) (*OCOResult, error)
}

// TradeJournal records completed order events locally. Persistence is
// best-effort: a journal failure must never abort a live trade.
type TradeJournal interface {
	SaveTrade(rec *TradeRecord) error
}
